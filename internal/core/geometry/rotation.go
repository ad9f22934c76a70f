package geometry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the no-rotation quaternion.
var Identity = quat.Number{Real: 1}

// AxisAngle builds the rotation of degrees around axis.
func AxisAngle(degrees float64, axis r3.Vec) quat.Number {
	u := Normalize(axis)
	if u == (r3.Vec{}) {
		return Identity
	}
	s, c := math.Sincos(Radians(degrees) / 2)
	return quat.Number{Real: c, Imag: s * u.X, Jmag: s * u.Y, Kmag: s * u.Z}
}

// YawRotation is the rotation of degrees around Up.
func YawRotation(degrees float64) quat.Number {
	return AxisAngle(degrees, Up)
}

// NormalizeQuat rescales q to unit length. The zero quaternion maps to Identity
// so that unset orientations behave as no rotation.
func NormalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < Epsilon {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Inverse returns the inverse rotation of q.
func Inverse(q quat.Number) quat.Number {
	return quat.Conj(NormalizeQuat(q))
}

// Compose returns the rotation applying b first then a.
func Compose(a, b quat.Number) quat.Number {
	return quat.Mul(NormalizeQuat(a), NormalizeQuat(b))
}

// Rotate applies q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	q = NormalizeQuat(q)
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// RotateAround rotates point by degrees around the axis passing through pivot.
func RotateAround(point, pivot, axis r3.Vec, degrees float64) r3.Vec {
	return r3.Add(pivot, Rotate(AxisAngle(degrees, axis), r3.Sub(point, pivot)))
}

// ForwardOf returns the forward direction of orientation q.
func ForwardOf(q quat.Number) r3.Vec {
	return Rotate(q, Forward)
}

// Yaw returns the heading of q around Up in degrees, in (-180, 180]. A forward
// vector pointing straight up or down has yaw 0.
func Yaw(q quat.Number) float64 {
	f := ForwardOf(q)
	if math.Hypot(f.X, f.Z) < Epsilon {
		return 0
	}
	return FoldAngle(Degrees(math.Atan2(f.X, f.Z)))
}

// QuatEqual reports whether a and b describe the same rotation within tol.
func QuatEqual(a, b quat.Number, tol float64) bool {
	a, b = NormalizeQuat(a), NormalizeQuat(b)
	d := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return math.Abs(d) > 1-tol
}
