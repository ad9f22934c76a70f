// Package scene holds the per-frame snapshot shared by redirection techniques
// and steering strategies.
//
// Each field has a single writer. The host writes tracked transforms, targets
// and toggles. Strategies write ForwardTarget and SelectedTarget. Techniques
// write virtual transforms and PreviousRedirection. Only EndFrame writes the
// previous-frame caches, once per frame, after everything else has read them.
package scene

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
)

// Scene is not safe for concurrent use.
type Scene struct {
	Limbs []*Limb

	PhysicalHead *Transform
	VirtualHead  *Transform

	PhysicalTarget *Transform
	VirtualTarget  *Transform
	Origin         *Transform
	// Targets feed the steering strategies. SteerToOrbit orbits the first one.
	Targets []*Transform
	// SelectedTarget is the target picked by the last strategy, if any.
	SelectedTarget *Transform
	// ForwardTarget is the horizontal direction the user is steered toward.
	ForwardTarget r3.Vec
	// StrategyDirection is the fixed direction used by SteerInDirection.
	StrategyDirection r3.Vec
	Obstacles         []geometry.Obstacle

	// Reference and Interpolated pair the points of the touch remapping.
	Reference    []r3.Vec
	Interpolated []r3.Vec

	ApplyDampening bool
	ApplySmoothing bool
	// PreviousRedirection is the world rotation applied last frame, in degrees.
	PreviousRedirection float64

	// DeltaTime is the duration of the current frame in seconds.
	DeltaTime float64
	Params    *parameters.Parameters

	previousHead Transform
	frame        uint64
	started      bool
}

// New returns an empty scene reading p, or the default parameters when p is nil.
func New(p *parameters.Parameters) *Scene {
	if p == nil {
		p = parameters.Default()
	}
	return &Scene{Params: p, ForwardTarget: geometry.Forward}
}

// AddLimb registers a limb built from physical and its virtual transforms.
func (s *Scene) AddLimb(physical *Transform, virtual ...*Transform) (*Limb, error) {
	l, err := NewLimb(physical, virtual...)
	if err != nil {
		return nil, err
	}
	s.Limbs = append(s.Limbs, l)
	return l, nil
}

// Needs lists the transforms a caller requires from the scene.
type Needs uint8

const (
	NeedLimbs Needs = 1 << iota
	NeedHead
	NeedTargets
	NeedOrigin
)

// Validate reports the first missing transform named in needs.
func (s *Scene) Validate(needs Needs) error {
	if s.Params == nil {
		return fmt.Errorf("%w: parameters", ErrMissingTransform)
	}
	if needs&NeedLimbs != 0 && len(s.Limbs) == 0 {
		return fmt.Errorf("%w: no limbs", ErrMissingTransform)
	}
	if needs&NeedHead != 0 && (s.PhysicalHead == nil || s.VirtualHead == nil) {
		return fmt.Errorf("%w: head", ErrMissingTransform)
	}
	if needs&NeedTargets != 0 && (s.PhysicalTarget == nil || s.VirtualTarget == nil) {
		return fmt.Errorf("%w: physical or virtual target", ErrMissingTransform)
	}
	if needs&NeedOrigin != 0 && s.Origin == nil {
		return fmt.Errorf("%w: origin", ErrMissingTransform)
	}
	return nil
}

// Start seeds the previous-frame caches from the current transforms so the
// first frame sees zero instantaneous motion.
func (s *Scene) Start() {
	s.recordPrevious()
	s.PreviousRedirection = 0
	s.frame = 0
	s.started = true
}

// EndFrame records the current physical poses as the previous-frame caches.
func (s *Scene) EndFrame() {
	s.recordPrevious()
	s.frame++
}

func (s *Scene) recordPrevious() {
	if s.PhysicalHead != nil {
		s.previousHead = s.PhysicalHead.snapshot()
	}
	for _, l := range s.Limbs {
		l.previous = l.physical.snapshot()
	}
}

// Started reports whether Start ran.
func (s *Scene) Started() bool { return s.started }

// Frame counts the frames ended since Start.
func (s *Scene) Frame() uint64 { return s.frame }

// PreviousHead is the physical head pose recorded at the end of the last frame.
func (s *Scene) PreviousHead() Transform { return s.previousHead }

// Redirection returns the offset of limb i: first virtual minus physical position.
func (s *Scene) Redirection(i int) r3.Vec {
	l := s.Limbs[i]
	return r3.Sub(l.virtual[0].Position, l.physical.Position)
}

// SetRedirection places every virtual transform of limb i at physical + v.
// A non-finite v is rejected and nothing is written.
func (s *Scene) SetRedirection(i int, v r3.Vec) error {
	if !geometry.IsFinite(v) {
		return fmt.Errorf("%w: limb %d offset %v", ErrNonFinite, i, v)
	}
	s.place(i, v)
	return nil
}

// place writes an offset already checked to be finite.
func (s *Scene) place(i int, v r3.Vec) {
	l := s.Limbs[i]
	for _, t := range l.virtual {
		t.Position = r3.Add(l.physical.Position, v)
	}
}

// LimbRedirection returns the offset of every limb.
func (s *Scene) LimbRedirection() []r3.Vec {
	out := make([]r3.Vec, len(s.Limbs))
	for i := range s.Limbs {
		out[i] = s.Redirection(i)
	}
	return out
}

// SetLimbRedirection applies one offset per limb. The offsets are checked first
// so either all limbs move or none does.
func (s *Scene) SetLimbRedirection(offsets []r3.Vec) error {
	if len(offsets) != len(s.Limbs) {
		return fmt.Errorf("%w: %d offsets for %d limbs", ErrLimbCount, len(offsets), len(s.Limbs))
	}
	for i, v := range offsets {
		if !geometry.IsFinite(v) {
			return fmt.Errorf("%w: limb %d offset %v", ErrNonFinite, i, v)
		}
	}
	for i, v := range offsets {
		s.place(i, v)
	}
	return nil
}

// CopyHeadRotations applies the physical head's rotation since last frame to
// the virtual head, keeping the head-to-head offset.
func (s *Scene) CopyHeadRotations() {
	delta := geometry.Compose(geometry.Inverse(s.previousHead.Rotation), s.PhysicalHead.Rotation)
	s.VirtualHead.Rotation = geometry.NormalizeQuat(geometry.Compose(s.VirtualHead.Rotation, delta))
}

// CopyHeadTranslations moves the virtual head by the physical head's
// translation since last frame, expressed in the virtual frame.
func (s *Scene) CopyHeadTranslations() {
	s.VirtualHead.Translate(geometry.Rotate(s.HeadToHeadRotation(), s.HeadInstantTranslation()))
}

// CopyLimbRotations gives every virtual transform its physical limb's rotation.
func (s *Scene) CopyLimbRotations() {
	for _, l := range s.Limbs {
		for _, t := range l.virtual {
			t.Rotation = l.physical.Rotation
		}
	}
}

// RotateVirtualHeadY turns the virtual head around the world vertical axis.
func (s *Scene) RotateVirtualHeadY(degrees float64) {
	s.VirtualHead.RotateY(degrees)
}

// RotateVirtualHeadAround orbits the virtual head around the vertical axis through pivot.
func (s *Scene) RotateVirtualHeadAround(pivot r3.Vec, degrees float64) {
	s.VirtualHead.RotateAround(pivot, geometry.Up, degrees)
}

// IsBodyRedirecting reports whether any limb carries a non-zero offset.
func (s *Scene) IsBodyRedirecting() bool {
	for i := range s.Limbs {
		if r3.Norm(s.Redirection(i)) > geometry.DefaultEpsilon {
			return true
		}
	}
	return false
}

// IsWorldRedirecting reports whether the virtual head departs from the physical one.
func (s *Scene) IsWorldRedirecting() bool {
	if s.PhysicalHead == nil || s.VirtualHead == nil {
		return false
	}
	return s.HeadToHeadDistance() > geometry.DefaultEpsilon ||
		!geometry.QuatEqual(s.HeadToHeadRotation(), geometry.Identity, 1e-9)
}

// HeadToHeadRotation is the rotation taking the physical head orientation onto the virtual one.
func (s *Scene) HeadToHeadRotation() quat.Number {
	return geometry.Compose(s.VirtualHead.Rotation, geometry.Inverse(s.PhysicalHead.Rotation))
}

// HeadToTargetDistance is the distance from the physical head to the selected
// target, or +Inf when no target is selected.
func (s *Scene) HeadToTargetDistance() float64 {
	if s.SelectedTarget == nil {
		return math.Inf(1)
	}
	return geometry.Distance(s.PhysicalHead.Position, s.SelectedTarget.Position)
}
