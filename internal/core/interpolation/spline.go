package interpolation

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Spline2D is a scalar thin-plate spline over the plane.
type Spline2D struct {
	sys    *system
	coeffs []float64
}

// SolveSpline2D fits values at reference points with kernel r² log r and an
// affine term in (1, x, y). With lambda 0 the spline interpolates every value;
// larger lambda trades fidelity for smoothness.
func SolveSpline2D(reference []r2.Vec, values []float64, lambda float64) (*Spline2D, error) {
	if len(reference) != len(values) {
		return nil, ErrMismatchedPoints
	}
	sys, err := newSystem(points2(reference), thinPlate2D, lambda)
	if err != nil {
		return nil, err
	}
	coeffs, err := sys.solve(values)
	if err != nil {
		return nil, err
	}
	return &Spline2D{sys: sys, coeffs: coeffs}, nil
}

func (s *Spline2D) At(p r2.Vec) float64 {
	return s.sys.eval(s.coeffs, []float64{p.X, p.Y})
}

// Spline3D is a scalar thin-plate spline over space, with kernel r and an affine
// term in (1, x, y, z).
type Spline3D struct {
	sys    *system
	coeffs []float64
}

func SolveSpline3D(reference []r3.Vec, values []float64, lambda float64) (*Spline3D, error) {
	if len(reference) != len(values) {
		return nil, ErrMismatchedPoints
	}
	sys, err := newSystem(points3(reference), thinPlate3D, lambda)
	if err != nil {
		return nil, err
	}
	coeffs, err := sys.solve(values)
	if err != nil {
		return nil, err
	}
	return &Spline3D{sys: sys, coeffs: coeffs}, nil
}

func (s *Spline3D) At(p r3.Vec) float64 {
	return s.sys.eval(s.coeffs, []float64{p.X, p.Y, p.Z})
}

func points2(ps []r2.Vec) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

func points3(ps []r3.Vec) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = []float64{p.X, p.Y, p.Z}
	}
	return out
}
