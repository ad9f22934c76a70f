package world

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// PassThrough copies the physical head and limb motion of the frame onto their
// virtual counterparts, keeping the current redirection unchanged.
func PassThrough(s *scene.Scene) {
	s.CopyHeadRotations()
	s.CopyHeadTranslations()
	s.CopyLimbRotations()
}

// rotate commits a pass-through followed by a yaw of the virtual head.
func rotate(s *scene.Scene, angle float64) error {
	if !geometry.IsFiniteScalar(angle) {
		return fmt.Errorf("%w: head rotation %v", scene.ErrNonFinite, angle)
	}
	PassThrough(s)
	s.RotateVirtualHeadY(angle)
	return nil
}

// NoRedirection keeps the virtual head following the physical one 1:1.
type NoRedirection struct{}

func (NoRedirection) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	PassThrough(s)
	return nil
}

// OverTimeRotation is Razzaque et al., 2001: a constant rotation rate applied
// against the angle to the target whenever that angle exceeds RotationalError.
func OverTimeRotation(s *scene.Scene) float64 {
	angle := geometry.FoldAngle(s.HeadAngleToTarget())
	if math.Abs(angle) <= s.Params.RotationalError {
		return 0
	}
	return -geometry.Sign(angle) * s.Params.OverTimeRotation * s.DeltaTime
}

// Rotational is Razzaque et al., 2001: the user's own head yaw scaled by
// (gain - 1), the gain depending on whether the user turns the way the target
// lies. It is zero under RotationThreshold or within RotationalError of the target.
func Rotational(s *scene.Scene) float64 {
	angle := geometry.FoldAngle(s.HeadAngleToTarget())
	instant := s.HeadInstantRotationY()
	if math.Abs(angle) <= s.Params.RotationalError || math.Abs(instant) <= s.Params.RotationThreshold {
		return 0
	}
	gains := s.Params.GainsRotational
	if geometry.Sign(angle) == geometry.Sign(instant) {
		return instant * (gains.Opposite - 1)
	}
	return instant * (gains.Same - 1)
}

// Curvature is Razzaque et al., 2001: forward walking bent onto a circle of
// CurvatureRadius, turning away from the side the target lies on. It is zero
// while the user walks slower than WalkingThreshold.
func Curvature(s *scene.Scene) float64 {
	walked := r3.Norm(s.HeadInstantTranslationForward())
	if walked <= s.Params.WalkingThreshold*s.DeltaTime {
		return 0
	}
	side := r3.Cross(s.PhysicalHead.Forward(), s.ForwardTarget).Y
	return -geometry.Sign(side) * walked * s.Params.CurvatureRate()
}

// AzmandianWorld is the world warping of Azmandian et al., 2016: the yaw that
// closes the gap between the physical and virtual target bearings from the
// origin, less the yaw already between the heads, bounded by the rotational
// gain applied to the user's own head yaw. It reads the virtual head after
// the frame's pass-through.
func AzmandianWorld(s *scene.Scene) float64 {
	p := s.Params
	up := geometry.Up
	targets := geometry.SignedAngle(
		geometry.ProjectOnHorizontal(r3.Sub(s.PhysicalTarget.Position, s.Origin.Position)),
		geometry.ProjectOnHorizontal(r3.Sub(s.VirtualTarget.Position, s.Origin.Position)), up)
	heads := geometry.SignedAngle(
		geometry.ProjectOnHorizontal(s.PhysicalHead.Forward()),
		geometry.ProjectOnHorizontal(s.VirtualHead.Forward()), up)

	angle := geometry.FoldAngle(targets - heads)
	instant := s.HeadInstantRotationY()
	if math.Abs(angle) <= p.RotationalError || math.Abs(instant) <= p.RotationThreshold {
		return 0
	}
	gain := p.GainsRotational.Opposite
	if geometry.Sign(angle) == geometry.Sign(instant) {
		gain = p.GainsRotational.Same
	}
	bound := math.Abs(gain * instant)
	return geometry.Clamp(angle, -bound, bound)
}

// Translational is Steinicke et al., 2008: the extra head translation given by
// the per-axis gains applied to the frame's physical translation.
func Translational(s *scene.Scene) r3.Vec {
	return geometry.Mul(s.HeadInstantTranslation(), r3.Sub(s.Params.GainsTranslational, r3.Vec{X: 1, Y: 1, Z: 1}))
}

// ResetAngle is the yaw bringing the virtual head back onto the physical one:
// the over-time rate against the head-to-head yaw, plus the user's own yaw
// scaled down or up so that it also closes the gap. It never overshoots.
func ResetAngle(s *scene.Scene) float64 {
	p := s.Params
	offset := geometry.Yaw(s.HeadToHeadRotation())
	if math.Abs(offset) <= p.RotationalError {
		return 0
	}
	correction := -geometry.Sign(offset) * p.OverTimeRotation * s.DeltaTime

	if instant := s.HeadInstantRotationY(); math.Abs(instant) > p.RotationThreshold {
		gain := p.GainsRotational.Opposite
		if geometry.Sign(offset) == geometry.Sign(instant) {
			gain = p.GainsRotational.Same
		}
		if extra := instant * (gain - 1); geometry.Sign(extra) != geometry.Sign(offset) {
			correction += extra
		}
	}
	return geometry.Clamp(correction, -math.Abs(offset), math.Abs(offset))
}

type OverTime struct{}

func (OverTime) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	return rotate(s, OverTimeRotation(s))
}

type RotationalGain struct{}

func (RotationalGain) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	return rotate(s, Rotational(s))
}

type CurvatureGain struct{}

func (CurvatureGain) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	return rotate(s, Curvature(s))
}

type TranslationalGain struct{}

func (TranslationalGain) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	extra := Translational(s)
	if !geometry.IsFinite(extra) {
		return fmt.Errorf("%w: head translation %v", scene.ErrNonFinite, extra)
	}
	PassThrough(s)
	s.VirtualHead.Translate(extra)
	return nil
}

// WorldWarping rotates the virtual head around the origin.
type WorldWarping struct{}

func (WorldWarping) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead | scene.NeedTargets | scene.NeedOrigin); err != nil {
		return err
	}
	saved := *s.VirtualHead
	PassThrough(s)
	angle := AzmandianWorld(s)
	if !geometry.IsFiniteScalar(angle) {
		*s.VirtualHead = saved
		return fmt.Errorf("%w: head rotation %v", scene.ErrNonFinite, angle)
	}
	s.RotateVirtualHeadAround(s.Origin.Position, angle)
	return nil
}

// ResetRedirection converges the virtual head yaw back to the physical one.
type ResetRedirection struct{}

func (ResetRedirection) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	return rotate(s, ResetAngle(s))
}
