// Package geometry holds the vector, angle and potential-field helpers shared by
// the redirection techniques, steering strategies and solvers.
//
// Conventions: Y is up, +Z is forward and +X is right. A positive yaw turns +Z
// toward +X, which is also the sign SignedAngle reports about Up.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Epsilon is the magnitude under which a vector is treated as zero.
	Epsilon = 1e-9
	// DefaultEpsilon is the central-difference step used when callers pass eps <= 0.
	DefaultEpsilon = 1e-5
)

var (
	Up      = r3.Vec{Y: 1}
	Forward = r3.Vec{Z: 1}
	Right   = r3.Vec{X: 1}
)

// Normalize returns the unit vector colinear to v, or the zero vector when v is
// shorter than Epsilon.
func Normalize(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < Epsilon {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Normalize2 is Normalize for planar vectors.
func Normalize2(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n < Epsilon {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Project returns the component of v along onto. A zero onto yields zero.
func Project(v, onto r3.Vec) r3.Vec {
	n2 := r3.Norm2(onto)
	if n2 < Epsilon*Epsilon {
		return r3.Vec{}
	}
	return r3.Scale(r3.Dot(v, onto)/n2, onto)
}

// ProjectOnPlane removes the component of v along normal.
func ProjectOnPlane(v, normal r3.Vec) r3.Vec {
	return r3.Sub(v, Project(v, normal))
}

// ProjectOnHorizontal drops the vertical component of v.
func ProjectOnHorizontal(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// ToHorizontal maps v onto the horizontal plane as (x, z).
func ToHorizontal(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Z}
}

// FromHorizontal lifts a horizontal-plane point back to 3D at height y.
func FromHorizontal(p r2.Vec, y float64) r3.Vec {
	return r3.Vec{X: p.X, Y: y, Z: p.Y}
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// IsFinite reports whether no component of v is NaN or infinite.
func IsFinite(v r3.Vec) bool {
	return IsFiniteScalar(v.X) && IsFiniteScalar(v.Y) && IsFiniteScalar(v.Z)
}

// IsFinite2 is IsFinite for planar vectors.
func IsFinite2(v r2.Vec) bool {
	return IsFiniteScalar(v.X) && IsFiniteScalar(v.Y)
}

func IsFiniteScalar(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Mul scales a per axis by b.
func Mul(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}
