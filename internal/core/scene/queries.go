package scene

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// LimbTargetDistance is the distance from the physical limb to the physical target.
func (s *Scene) LimbTargetDistance(l *Limb) float64 {
	return geometry.Distance(l.physical.Position, s.PhysicalTarget.Position)
}

// LimbOriginDistance is the distance from the physical limb to the origin.
func (s *Scene) LimbOriginDistance(l *Limb) float64 {
	return geometry.Distance(l.physical.Position, s.Origin.Position)
}

// LimbRedirectionDistance is the distance between the physical limb and its first virtual transform.
func (s *Scene) LimbRedirectionDistance(l *Limb) float64 {
	return geometry.Distance(l.physical.Position, l.virtual[0].Position)
}

func (s *Scene) LimbTargetDistances() []float64 {
	out := make([]float64, len(s.Limbs))
	for i, l := range s.Limbs {
		out[i] = s.LimbTargetDistance(l)
	}
	return out
}

func (s *Scene) LimbOriginDistances() []float64 {
	out := make([]float64, len(s.Limbs))
	for i, l := range s.Limbs {
		out[i] = s.LimbOriginDistance(l)
	}
	return out
}

// LimbInstantTranslation is the physical limb displacement since last frame.
func (s *Scene) LimbInstantTranslation(l *Limb) r3.Vec {
	return r3.Sub(l.physical.Position, l.previous.Position)
}

// LimbInstantRotation is the physical limb rotation since last frame.
func (s *Scene) LimbInstantRotation(l *Limb) quat.Number {
	return geometry.Compose(l.physical.Rotation, geometry.Inverse(l.previous.Rotation))
}

// PhysicalToVirtualTarget is the vector from the physical to the virtual target.
func (s *Scene) PhysicalToVirtualTarget() r3.Vec {
	return r3.Sub(s.VirtualTarget.Position, s.PhysicalTarget.Position)
}

func (s *Scene) HeadToHeadTranslation() r3.Vec {
	return r3.Sub(s.VirtualHead.Position, s.PhysicalHead.Position)
}

func (s *Scene) HeadToHeadDistance() float64 {
	return r3.Norm(s.HeadToHeadTranslation())
}

// HeadAngleToTarget is the signed yaw from the physical head's horizontal
// forward to ForwardTarget, in degrees.
func (s *Scene) HeadAngleToTarget() float64 {
	return geometry.SignedAngle(geometry.ProjectOnHorizontal(s.PhysicalHead.Forward()), geometry.ProjectOnHorizontal(s.ForwardTarget), geometry.Up)
}

// HeadInstantRotation is the physical head rotation since last frame.
func (s *Scene) HeadInstantRotation() quat.Number {
	return geometry.Compose(s.PhysicalHead.Rotation, geometry.Inverse(s.previousHead.Rotation))
}

// HeadInstantRotationY is the signed yaw of the physical head since last frame,
// measured between the horizontal forward vectors, in degrees.
func (s *Scene) HeadInstantRotationY() float64 {
	previous := geometry.ProjectOnHorizontal(geometry.ForwardOf(s.previousHead.Rotation))
	current := geometry.ProjectOnHorizontal(s.PhysicalHead.Forward())
	return geometry.SignedAngle(previous, current, geometry.Up)
}

// HeadInstantTranslation is the physical head displacement since last frame.
func (s *Scene) HeadInstantTranslation() r3.Vec {
	return r3.Sub(s.PhysicalHead.Position, s.previousHead.Position)
}

// HeadInstantTranslationForward is HeadInstantTranslation projected on the physical head forward.
func (s *Scene) HeadInstantTranslationForward() r3.Vec {
	return geometry.Project(s.HeadInstantTranslation(), s.PhysicalHead.Forward())
}
