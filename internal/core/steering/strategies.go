package steering

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// maxOrbitAngle is the tangent angle used once the user is inside the orbit.
const maxOrbitAngle = 60.0

func headForward(s *scene.Scene) r3.Vec {
	if s.PhysicalHead == nil {
		return geometry.Forward
	}
	return s.PhysicalHead.Forward()
}

func firstTarget(s *scene.Scene) (*scene.Transform, error) {
	for _, t := range s.Targets {
		if t != nil {
			return t, nil
		}
	}
	return nil, ErrNoTargets
}

// Bearing is the unsigned horizontal angle between the physical head forward
// and the direction from the head to t, in degrees.
func Bearing(s *scene.Scene, t *scene.Transform) float64 {
	return geometry.Angle(
		geometry.ProjectOnHorizontal(s.PhysicalHead.Forward()),
		geometry.ProjectOnHorizontal(r3.Sub(t.Position, s.PhysicalHead.Position)))
}

// Forward keeps the user walking the way they face.
type Forward struct{}

func (Forward) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	s.SelectedTarget = nil
	return s.PhysicalHead.Forward(), nil
}

// Center steers toward the first target.
type Center struct{}

func (Center) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	t, err := firstTarget(s)
	if err != nil {
		return s.PhysicalHead.Forward(), err
	}
	s.SelectedTarget = t
	return r3.Sub(t.Position, s.PhysicalHead.Position), nil
}

// Orbit steers along a tangent of the circle of SteerToOrbitRadius around the
// first target. Of the two tangents it keeps the one needing the smaller turn,
// the positive-yaw one on ties. Inside the circle the tangents open to 60 degrees.
type Orbit struct{}

// OrbitTangents returns the positive-yaw and negative-yaw tangent directions.
func OrbitTangents(s *scene.Scene, center r3.Vec) (positive, negative r3.Vec) {
	toCenter := geometry.ProjectOnHorizontal(r3.Sub(center, s.PhysicalHead.Position))
	radius := s.Params.SteerToOrbitRadius
	angle := maxOrbitAngle
	if d := r3.Norm(toCenter); d >= radius && d > geometry.Epsilon {
		angle = geometry.Degrees(math.Asin(radius / d))
	}
	return geometry.Rotate(geometry.YawRotation(angle), toCenter), geometry.Rotate(geometry.YawRotation(-angle), toCenter)
}

func (Orbit) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	t, err := firstTarget(s)
	if err != nil {
		return s.PhysicalHead.Forward(), err
	}
	s.SelectedTarget = t
	positive, negative := OrbitTangents(s, t.Position)
	forward := s.PhysicalHead.Forward()
	if geometry.Angle(negative, forward) < geometry.Angle(positive, forward) {
		return negative, nil
	}
	return positive, nil
}

// MultipleTargets steers toward the target with the strictly smallest bearing.
// Ties go to the earliest target; nil entries are skipped.
type MultipleTargets struct{}

func (MultipleTargets) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	var best *scene.Transform
	bestBearing := math.Inf(1)
	for _, t := range s.Targets {
		if t == nil {
			continue
		}
		if b := Bearing(s, t); b < bestBearing {
			best, bestBearing = t, b
		}
	}
	if best == nil {
		s.SelectedTarget = nil
		return s.PhysicalHead.Forward(), ErrNoTargets
	}
	s.SelectedTarget = best
	return r3.Sub(best.Position, s.PhysicalHead.Position), nil
}

// Direction steers along StrategyDirection expressed in the head frame.
type Direction struct{}

func (Direction) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	s.SelectedTarget = nil
	return geometry.Rotate(s.PhysicalHead.Rotation, s.StrategyDirection), nil
}

// Potential descends the repulsive potential of the scene obstacles on the
// horizontal plane, pulled toward the first target when AttractiveGain is
// positive. The field is built from Scene.Obstacles on first use and rebuilt
// only by Recompute.
type Potential struct {
	field *geometry.RepulsiveField
}

// Recompute rebuilds the repulsive field from obstacles.
func (p *Potential) Recompute(obstacles []geometry.Obstacle) {
	if p.field == nil {
		p.field = geometry.NewRepulsiveField(obstacles)
		return
	}
	p.field.SetObstacles(obstacles)
}

// Field returns the current repulsive field, nil before first use.
func (p *Potential) Field() *geometry.RepulsiveField { return p.field }

func (p *Potential) SteerTo(s *scene.Scene) (r3.Vec, error) {
	if err := s.Validate(scene.NeedHead); err != nil {
		return headForward(s), err
	}
	if p.field == nil {
		p.Recompute(s.Obstacles)
	}
	forward := s.PhysicalHead.Forward()
	head := s.PhysicalHead.Position

	g := p.field.Gradient2(geometry.ToHorizontal(head), s.Params.PotentialEpsilon)
	direction := geometry.FromHorizontal(g, 0)
	direction = r3.Scale(-1, direction)

	s.SelectedTarget = nil
	if gain := s.Params.AttractiveGain; gain > 0 {
		if t, err := firstTarget(s); err == nil {
			s.SelectedTarget = t
			pull := geometry.AttractiveGradient(geometry.ProjectOnHorizontal(head), geometry.ProjectOnHorizontal(t.Position), gain)
			direction = r3.Sub(direction, pull)
		}
	}

	if !geometry.IsFinite(direction) || r3.Norm(direction) < geometry.Epsilon {
		return forward, fmt.Errorf("%w: gradient %v at %v", ErrUndefinedDirection, direction, head)
	}
	return direction, nil
}
