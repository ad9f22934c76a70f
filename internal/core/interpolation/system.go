// Package interpolation fits scattered-data maps used to remap touch: thin-plate
// splines in two and three dimensions, vector displacement fields built on them,
// and inverse-distance weighting.
package interpolation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// minPoints is the smallest reference set a spline accepts.
	minPoints = 3
	// maxCondition is the largest condition number accepted for the spline system.
	maxCondition = 1e12
	// rankTolerance is the relative singular value under which the affine design is rank deficient.
	rankTolerance = 1e-9
)

// kernel is the radial Green's function of a spline.
type kernel func(r float64) float64

// thinPlate2D is r² log r, continued by 0 at r = 0.
func thinPlate2D(r float64) float64 {
	if r < 1e-12 {
		return 0
	}
	return r * r * math.Log(r)
}

// thinPlate3D is r.
func thinPlate3D(r float64) float64 {
	return r
}

// system is the factorised bordered thin-plate system
//
//	| G + λI  P | | w |   | y |
//	| Pᵀ      0 | | b | = | 0 |
//
// where G(i,j) = kernel(|x_i - x_j|) and P has rows [1, x_i...]. One
// factorisation serves every right-hand side y.
type system struct {
	centers [][]float64
	kernel  kernel
	lu      mat.LU
}

func newSystem(centers [][]float64, k kernel, lambda float64) (*system, error) {
	n := len(centers)
	if n < minPoints {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, n, minPoints)
	}
	if lambda < 0 || math.IsNaN(lambda) {
		return nil, fmt.Errorf("%w: %v", ErrNegativeLambda, lambda)
	}
	dim := len(centers[0])
	affine := dim + 1

	design := mat.NewDense(n, affine, nil)
	for i, c := range centers {
		design.Set(i, 0, 1)
		for j, v := range c {
			design.Set(i, j+1, v)
		}
	}
	if err := checkRank(design, dim); err != nil {
		return nil, err
	}

	size := n + affine
	a := mat.NewDense(size, size, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, k(distance(centers[i], centers[j])))
		}
		a.Set(i, i, a.At(i, i)+lambda)
		for j := 0; j < affine; j++ {
			a.Set(i, n+j, design.At(i, j))
			a.Set(n+j, i, design.At(i, j))
		}
	}

	s := &system{centers: centers, kernel: k}
	s.lu.Factorize(a)
	if cond := s.lu.Cond(); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > maxCondition {
		return nil, fmt.Errorf("%w: condition number %g", ErrSingularSystem, cond)
	}
	return s, nil
}

// checkRank rejects reference sets whose affine design [1, x...] loses rank.
// Two or fewer independent columns means the points are collinear; in 3D a
// rank of three means they are coplanar, which leaves the system singular.
func checkRank(design *mat.Dense, dim int) error {
	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDNone) {
		return fmt.Errorf("%w: affine design factorisation failed", ErrSingularSystem)
	}
	values := svd.Values(nil)
	rank := 0
	for _, v := range values {
		if v > rankTolerance*values[0] {
			rank++
		}
	}
	switch {
	case rank == dim+1:
		return nil
	case rank <= 2:
		return ErrCollinearPoints
	default:
		return fmt.Errorf("%w: reference points are coplanar", ErrSingularSystem)
	}
}

// solve returns the n spline weights followed by the affine coefficients.
func (s *system) solve(values []float64) ([]float64, error) {
	n := len(s.centers)
	if len(values) != n {
		return nil, fmt.Errorf("%w: %d values for %d points", ErrMismatchedPoints, len(values), n)
	}
	affine := len(s.centers[0]) + 1
	rhs := mat.NewVecDense(n+affine, nil)
	for i, v := range values {
		rhs.SetVec(i, v)
	}
	var x mat.VecDense
	if err := s.lu.SolveVecTo(&x, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	return x.RawVector().Data, nil
}

func (s *system) eval(coeffs, p []float64) float64 {
	n := len(s.centers)
	var sum float64
	for i, c := range s.centers {
		sum += coeffs[i] * s.kernel(distance(c, p))
	}
	sum += coeffs[n]
	for j, v := range p {
		sum += coeffs[n+1+j] * v
	}
	return sum
}

func distance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// scaling maps points into a unit box around their centroid before fitting.
type scaling struct {
	center []float64
	scale  float64
}

func identityScaling(dim int) scaling {
	return scaling{center: make([]float64, dim), scale: 1}
}

func fitScaling(points [][]float64) scaling {
	dim := len(points[0])
	s := scaling{center: make([]float64, dim), scale: 1}
	for _, p := range points {
		for j, v := range p {
			s.center[j] += v / float64(len(points))
		}
	}
	var extent float64
	for _, p := range points {
		for j, v := range p {
			extent = math.Max(extent, math.Abs(v-s.center[j]))
		}
	}
	if extent > 0 {
		s.scale = extent
	}
	return s
}

func (s scaling) apply(p []float64) []float64 {
	out := make([]float64, len(p))
	for j, v := range p {
		out[j] = (v - s.center[j]) / s.scale
	}
	return out
}
