package interpolation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// hitDistance is the distance under which a query coincides with a reference point.
const hitDistance = 1e-6

// InverseDistance interpolates target at p with weights |p - reference_i|^-power.
// A query coinciding with a reference point returns that point's target.
func InverseDistance(reference, target []r3.Vec, power float64, p r3.Vec) (r3.Vec, error) {
	if len(reference) != len(target) {
		return r3.Vec{}, fmt.Errorf("%w: %d references, %d targets", ErrMismatchedPoints, len(reference), len(target))
	}
	if len(reference) == 0 {
		return r3.Vec{}, fmt.Errorf("%w: no reference points", ErrTooFewPoints)
	}

	weights := make([]float64, len(reference))
	for i, ref := range reference {
		d := r3.Norm(r3.Sub(ref, p))
		if d < hitDistance {
			return target[i], nil
		}
		weights[i] = math.Pow(d, -power)
	}
	total := floats.Sum(weights)

	var out r3.Vec
	for i, t := range target {
		out = r3.Add(out, r3.Scale(weights[i]/total, t))
	}
	return out, nil
}

// InverseDistanceField binds InverseDistance to a fixed set of point pairs.
type InverseDistanceField struct {
	Reference []r3.Vec
	Target    []r3.Vec
	Power     float64
}

// Displace returns p unchanged when the field cannot be evaluated.
func (f InverseDistanceField) Displace(p r3.Vec) r3.Vec {
	out, err := InverseDistance(f.Reference, f.Target, f.Power, p)
	if err != nil {
		return p
	}
	return out
}
