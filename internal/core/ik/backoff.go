package ik

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultTolerance is the first tolerance tried by SolveWithBackoff.
	DefaultTolerance = 1e-5
	// DefaultMaxDoublings bounds the retries of SolveWithBackoff.
	DefaultMaxDoublings = 10
)

// BackoffOptions configure SolveWithBackoff. Zero values pick the defaults.
type BackoffOptions struct {
	Tolerance    float64
	MaxDoublings int
	Mode         Mode
}

func (o BackoffOptions) withDefaults() BackoffOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxDoublings <= 0 {
		o.MaxDoublings = DefaultMaxDoublings
	}
	return o
}

// Result is the outcome of SolveWithBackoff.
type Result struct {
	Positions []r2.Vec
	Converged bool
	// Attempts is the number of FABRIK runs, Steps and Tolerance the budget of the last one.
	Attempts  int
	Steps     int
	Tolerance float64
}

// SolveWithBackoff reaches from origin toward target with a chain of the given
// link lengths laid out straight along +X. It runs FABRIK with a budget of one
// iteration and the base tolerance, doubling both after every failure, at most
// MaxDoublings times. The last attempt's positions are returned even when none
// converged.
func SolveWithBackoff(origin, target r2.Vec, lengths []float64, opts BackoffOptions) (Result, error) {
	opts = opts.withDefaults()
	if len(lengths) == 0 {
		return Result{}, fmt.Errorf("%w: no links", ErrInvalidChain)
	}

	steps, tol := 1, opts.Tolerance
	var res Result
	for attempt := 0; attempt <= opts.MaxDoublings; attempt++ {
		positions := straightChain(origin, lengths)
		ok, err := SolveFABRIK(target, positions, lengths, tol, steps, opts.Mode)
		if err != nil {
			return Result{}, err
		}
		res = Result{Positions: positions, Converged: ok, Attempts: attempt + 1, Steps: steps, Tolerance: tol}
		if ok {
			return res, nil
		}
		steps *= 2
		tol *= 2
	}
	return res, nil
}

func straightChain(origin r2.Vec, lengths []float64) []r2.Vec {
	positions := make([]r2.Vec, len(lengths)+1)
	positions[0] = origin
	for i, l := range lengths {
		positions[i+1] = r2.Add(positions[i], r2.Vec{X: l})
	}
	return positions
}
