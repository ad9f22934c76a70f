package ik

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// Mode selects whether the FABRIK base is re-pinned each iteration.
type Mode int

const (
	// FixedOrigin runs the forward and the backward pass, so the base stays put.
	FixedOrigin Mode = iota
	// FloatingOrigin runs only the forward pass and lets the base drift.
	FloatingOrigin
)

func (m Mode) String() string {
	switch m {
	case FixedOrigin:
		return "fixed"
	case FloatingOrigin:
		return "floating"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Lengths returns the distances between consecutive joints.
func Lengths(positions []r2.Vec) []float64 {
	if len(positions) < 2 {
		return nil
	}
	lengths := make([]float64, len(positions)-1)
	for i := range lengths {
		lengths[i] = r2.Norm(r2.Sub(positions[i+1], positions[i]))
	}
	return lengths
}

// SolveFABRIK moves positions in place until the last joint is within
// tolerance of target or maxSteps iterations ran. lengths[i] is the distance
// kept between positions[i] and positions[i+1]. In FixedOrigin mode a target
// farther from the base than the total chain length is rejected with
// ErrUnreachable and positions are left untouched.
func SolveFABRIK(target r2.Vec, positions []r2.Vec, lengths []float64, tolerance float64, maxSteps int, mode Mode) (bool, error) {
	if len(positions) < 2 || len(lengths) != len(positions)-1 {
		return false, fmt.Errorf("%w: %d joints for %d links", ErrInvalidChain, len(positions), len(lengths))
	}
	for i, l := range lengths {
		if !(l > 0) {
			return false, fmt.Errorf("%w: link %d has length %v", ErrInvalidChain, i, l)
		}
	}

	origin := positions[0]
	if mode == FixedOrigin {
		if reach, dist := floats.Sum(lengths), r2.Norm(r2.Sub(target, origin)); reach < dist {
			return false, fmt.Errorf("%w: reach %.4f, distance %.4f", ErrUnreachable, reach, dist)
		}
	}

	tol2 := tolerance * tolerance
	end := len(positions) - 1
	for step := 0; step < maxSteps && r2.Norm2(r2.Sub(target, positions[end])) > tol2; step++ {
		forward(target, lengths, positions)
		if mode == FixedOrigin {
			backward(origin, lengths, positions)
		}
	}
	return r2.Norm2(r2.Sub(target, positions[end])) <= tol2, nil
}

// forward pins the end on target and pulls every joint toward its successor.
func forward(target r2.Vec, lengths []float64, positions []r2.Vec) {
	end := len(positions) - 1
	positions[end] = target
	for i := end - 1; i >= 0; i-- {
		positions[i] = reproject(positions[i+1], positions[i], lengths[i])
	}
}

// backward pins the base on origin and pushes every joint toward its predecessor.
func backward(origin r2.Vec, lengths []float64, positions []r2.Vec) {
	positions[0] = origin
	for i := 0; i < len(positions)-1; i++ {
		positions[i+1] = reproject(positions[i], positions[i+1], lengths[i])
	}
}

// reproject places a point at distance length from anchor along anchor->p. A
// coincident p keeps its position.
func reproject(anchor, p r2.Vec, length float64) r2.Vec {
	d := r2.Norm(r2.Sub(p, anchor))
	if d < geometry.Epsilon {
		return p
	}
	t := length / d
	return r2.Add(r2.Scale(1-t, anchor), r2.Scale(t, p))
}
