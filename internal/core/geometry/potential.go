package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Obstacle is anything a point can be measured against. ClosestPoint returns p
// itself when p lies inside the obstacle.
type Obstacle interface {
	ClosestPoint(p r3.Vec) r3.Vec
}

// Sphere is a ball obstacle.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

func (s Sphere) ClosestPoint(p r3.Vec) r3.Vec {
	d := r3.Sub(p, s.Center)
	n := r3.Norm(d)
	if n <= s.Radius {
		return p
	}
	return r3.Add(s.Center, r3.Scale(s.Radius/n, d))
}

// Box is an axis-aligned box obstacle.
type Box struct {
	Min, Max r3.Vec
}

func (b Box) ClosestPoint(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: Clamp(p.X, math.Min(b.Min.X, b.Max.X), math.Max(b.Min.X, b.Max.X)),
		Y: Clamp(p.Y, math.Min(b.Min.Y, b.Max.Y), math.Max(b.Min.Y, b.Max.Y)),
		Z: Clamp(p.Z, math.Min(b.Min.Z, b.Max.Z), math.Max(b.Min.Z, b.Max.Z)),
	}
}

// Center returns the middle of the box.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Segment is a thin wall between A and B.
type Segment struct {
	A, B r3.Vec
}

func (s Segment) ClosestPoint(p r3.Vec) r3.Vec {
	ab := r3.Sub(s.B, s.A)
	l2 := r3.Norm2(ab)
	if l2 < Epsilon*Epsilon {
		return s.A
	}
	t := Clamp01(r3.Dot(r3.Sub(p, s.A), ab) / l2)
	return r3.Add(s.A, r3.Scale(t, ab))
}

// RepulsiveField is the potential x ↦ Σ 1/‖x − closest(o, x)‖ over a fixed set
// of obstacles. It is +Inf on and inside obstacles, so gradients taken there
// are NaN or infinite and callers must check them with IsFinite.
type RepulsiveField struct {
	obstacles []Obstacle
}

func NewRepulsiveField(obstacles []Obstacle) *RepulsiveField {
	f := &RepulsiveField{}
	f.SetObstacles(obstacles)
	return f
}

// SetObstacles replaces the obstacle set.
func (f *RepulsiveField) SetObstacles(obstacles []Obstacle) {
	f.obstacles = append(f.obstacles[:0], obstacles...)
}

// Len returns the number of obstacles in the field.
func (f *RepulsiveField) Len() int {
	return len(f.obstacles)
}

// Potential evaluates the field at x.
func (f *RepulsiveField) Potential(x r3.Vec) float64 {
	sum := 0.0
	for _, o := range f.obstacles {
		sum += 1 / Distance(x, o.ClosestPoint(x))
	}
	return sum
}

// Potential2 evaluates the field on the horizontal plane, measuring distances
// between horizontal projections only.
func (f *RepulsiveField) Potential2(p r2.Vec) float64 {
	x := FromHorizontal(p, 0)
	sum := 0.0
	for _, o := range f.obstacles {
		c := o.ClosestPoint(x)
		sum += 1 / r2.Norm(r2.Sub(p, ToHorizontal(c)))
	}
	return sum
}

func (f *RepulsiveField) Gradient(x r3.Vec, eps float64) r3.Vec {
	return Gradient3(f.Potential, x, eps)
}

func (f *RepulsiveField) Gradient2(p r2.Vec, eps float64) r2.Vec {
	return Gradient2(f.Potential2, p, eps)
}

// AttractiveGradient is the gradient of gain/2·‖x − goal‖².
func AttractiveGradient(x, goal r3.Vec, gain float64) r3.Vec {
	return r3.Scale(gain, r3.Sub(x, goal))
}
