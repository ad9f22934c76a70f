package touch

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/interpolation"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// remap places every virtual limb at field(physical), all or none.
func remap(s *scene.Scene, field func(p r3.Vec) (r3.Vec, error)) error {
	offsets := make([]r3.Vec, len(s.Limbs))
	for i, l := range s.Limbs {
		p := l.Physical().Position
		q, err := field(p)
		if err != nil {
			return err
		}
		offsets[i] = r3.Sub(q, p)
	}
	if err := s.SetLimbRedirection(offsets); err != nil {
		return err
	}
	s.CopyLimbRotations()
	return nil
}

// NoRedirection shows the limbs where they are.
type NoRedirection struct{}

func (NoRedirection) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	return remap(s, func(p r3.Vec) (r3.Vec, error) { return p, nil })
}

// RedirectedTouching warps limbs through the thin-plate displacement field
// fitted on the scene point pairs. The fit happens on the first Redirect and
// afterwards only through Recompute, even when the pairs change.
type RedirectedTouching struct {
	field *interpolation.DisplacementField
}

// Recompute refits the field on the current scene pairs and parameters. A
// change of Rescale builds a new field. On error the previous fit, if any,
// stays in use.
func (t *RedirectedTouching) Recompute(s *scene.Scene) error {
	if t.field == nil || t.field.Rescaled() != s.Params.Rescale {
		f, err := interpolation.NewDisplacementField(s.Reference, s.Interpolated, s.Params.SmoothingParameter, s.Params.Rescale)
		if err != nil {
			return err
		}
		t.field = f
		return nil
	}
	return t.field.Recompute(s.Reference, s.Interpolated, s.Params.SmoothingParameter)
}

// Stale reports whether the scene pairs, smoothing or rescaling differ from
// the fit. It is false before the first fit.
func (t *RedirectedTouching) Stale(s *scene.Scene) bool {
	if t.field == nil {
		return false
	}
	return t.field.Rescaled() != s.Params.Rescale ||
		t.field.Stale(s.Reference, s.Interpolated, s.Params.SmoothingParameter)
}

// Rescaled reports whether the fit in use normalises its reference points.
func (t *RedirectedTouching) Rescaled() bool {
	return t.field != nil && t.field.Rescaled()
}

func (t *RedirectedTouching) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	if t.field == nil {
		if err := t.Recompute(s); err != nil {
			return err
		}
	}
	return remap(s, func(p r3.Vec) (r3.Vec, error) { return t.field.Displace(p), nil })
}

// InverseDistance warps limbs by Shepard interpolation of the scene pairs,
// weighted by InverseDistancePow. It needs no fit and follows the pairs as
// they change.
type InverseDistance struct{}

func (InverseDistance) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	return remap(s, func(p r3.Vec) (r3.Vec, error) {
		return interpolation.InverseDistance(s.Reference, s.Interpolated, s.Params.InverseDistancePow, p)
	})
}
