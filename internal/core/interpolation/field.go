package interpolation

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field maps a physical position onto its remapped position.
type Field interface {
	Displace(p r3.Vec) r3.Vec
}

// DisplacementField is the vector thin-plate spline sending each reference point
// to its target. The x, y and z components share one factorisation. A field is
// only refitted through Recompute; Stale tells whether the inputs it was fitted
// with differ from the given ones.
type DisplacementField struct {
	sys         *system
	scale       scaling
	rescale     bool
	coeffs      [3][]float64
	fingerprint uint64
}

// NewDisplacementField fits the field. When rescale is set, reference points
// are centred and scaled into the unit box before fitting, which keeps the
// system conditioned for data far from the origin or spread over large extents.
func NewDisplacementField(reference, target []r3.Vec, lambda float64, rescale bool) (*DisplacementField, error) {
	f := &DisplacementField{rescale: rescale}
	if err := f.Recompute(reference, target, lambda); err != nil {
		return nil, err
	}
	return f, nil
}

// Recompute refits the field. On error the previous fit is kept.
func (f *DisplacementField) Recompute(reference, target []r3.Vec, lambda float64) error {
	if len(reference) != len(target) {
		return fmt.Errorf("%w: %d references, %d targets", ErrMismatchedPoints, len(reference), len(target))
	}
	if len(reference) < minPoints {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(reference), minPoints)
	}

	centers := points3(reference)
	sc := identityScaling(3)
	if f.rescale {
		sc = fitScaling(centers)
		for i := range centers {
			centers[i] = sc.apply(centers[i])
		}
	}
	sys, err := newSystem(centers, thinPlate3D, lambda)
	if err != nil {
		return err
	}

	var coeffs [3][]float64
	values := make([]float64, len(target))
	for axis := 0; axis < 3; axis++ {
		for i, t := range target {
			values[i] = component(t, axis)
		}
		if coeffs[axis], err = sys.solve(values); err != nil {
			return err
		}
	}

	f.sys, f.scale, f.coeffs = sys, sc, coeffs
	f.fingerprint = fingerprint3(reference, target, lambda, f.rescale)
	return nil
}

// Rescaled reports whether reference points are normalised before fitting.
func (f *DisplacementField) Rescaled() bool { return f.rescale }

// Stale reports whether the field was fitted with different inputs.
func (f *DisplacementField) Stale(reference, target []r3.Vec, lambda float64) bool {
	return f.fingerprint != fingerprint3(reference, target, lambda, f.rescale)
}

func (f *DisplacementField) Displace(p r3.Vec) r3.Vec {
	q := f.scale.apply([]float64{p.X, p.Y, p.Z})
	return r3.Vec{
		X: f.sys.eval(f.coeffs[0], q),
		Y: f.sys.eval(f.coeffs[1], q),
		Z: f.sys.eval(f.coeffs[2], q),
	}
}

// DisplacementField2D is the planar counterpart of DisplacementField.
type DisplacementField2D struct {
	sys         *system
	scale       scaling
	rescale     bool
	coeffs      [2][]float64
	fingerprint uint64
}

func NewDisplacementField2D(reference, target []r2.Vec, lambda float64, rescale bool) (*DisplacementField2D, error) {
	f := &DisplacementField2D{rescale: rescale}
	if err := f.Recompute(reference, target, lambda); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *DisplacementField2D) Recompute(reference, target []r2.Vec, lambda float64) error {
	if len(reference) != len(target) {
		return fmt.Errorf("%w: %d references, %d targets", ErrMismatchedPoints, len(reference), len(target))
	}
	if len(reference) < minPoints {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(reference), minPoints)
	}

	centers := points2(reference)
	sc := identityScaling(2)
	if f.rescale {
		sc = fitScaling(centers)
		for i := range centers {
			centers[i] = sc.apply(centers[i])
		}
	}
	sys, err := newSystem(centers, thinPlate2D, lambda)
	if err != nil {
		return err
	}

	xs := make([]float64, len(target))
	ys := make([]float64, len(target))
	for i, t := range target {
		xs[i], ys[i] = t.X, t.Y
	}
	cx, err := sys.solve(xs)
	if err != nil {
		return err
	}
	cy, err := sys.solve(ys)
	if err != nil {
		return err
	}

	f.sys, f.scale, f.coeffs = sys, sc, [2][]float64{cx, cy}
	f.fingerprint = fingerprint2(reference, target, lambda, f.rescale)
	return nil
}

func (f *DisplacementField2D) Stale(reference, target []r2.Vec, lambda float64) bool {
	return f.fingerprint != fingerprint2(reference, target, lambda, f.rescale)
}

func (f *DisplacementField2D) Displace(p r2.Vec) r2.Vec {
	q := f.scale.apply([]float64{p.X, p.Y})
	return r2.Vec{X: f.sys.eval(f.coeffs[0], q), Y: f.sys.eval(f.coeffs[1], q)}
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher() *hasher {
	return &hasher{d: xxhash.New()}
}

func (h *hasher) float(f float64) {
	binary.LittleEndian.PutUint64(h.buf[:], math.Float64bits(f))
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) flag(b bool) {
	if b {
		h.float(1)
	} else {
		h.float(0)
	}
}

func fingerprint3(reference, target []r3.Vec, lambda float64, rescale bool) uint64 {
	h := newHasher()
	h.float(float64(len(reference)))
	for _, p := range reference {
		h.float(p.X)
		h.float(p.Y)
		h.float(p.Z)
	}
	for _, p := range target {
		h.float(p.X)
		h.float(p.Y)
		h.float(p.Z)
	}
	h.float(lambda)
	h.flag(rescale)
	return h.d.Sum64()
}

func fingerprint2(reference, target []r2.Vec, lambda float64, rescale bool) uint64 {
	h := newHasher()
	h.float(float64(len(reference)))
	for _, p := range reference {
		h.float(p.X)
		h.float(p.Y)
	}
	for _, p := range target {
		h.float(p.X)
		h.float(p.Y)
	}
	h.float(lambda)
	h.flag(rescale)
	return h.d.Sum64()
}
