package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Angle returns the unsigned angle between a and b in degrees, in [0, 180].
// It is 0 when either vector is zero.
func Angle(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na < Epsilon || nb < Epsilon {
		return 0
	}
	return Degrees(math.Acos(Clamp(r3.Dot(a, b)/(na*nb), -1, 1)))
}

// SignedAngle returns the angle from a to b in degrees, signed by the
// orientation of a×b relative to axis. The result lies in (-180, 180].
func SignedAngle(a, b, axis r3.Vec) float64 {
	angle := Angle(a, b)
	if r3.Dot(axis, r3.Cross(a, b)) < 0 && angle < 180 {
		return -angle
	}
	return angle
}

// SignedAngle2 returns the counter-clockwise angle from a to b in degrees, in (-180, 180].
func SignedAngle2(a, b r2.Vec) float64 {
	if r2.Norm(a) < Epsilon || r2.Norm(b) < Epsilon {
		return 0
	}
	return Degrees(math.Atan2(r2.Cross(a, b), r2.Dot(a, b)))
}

// FoldAngle maps any angle in degrees onto (-180, 180].
func FoldAngle(degrees float64) float64 {
	a := math.Mod(degrees, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Sign returns -1 for negative values and 1 otherwise, zero included.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Bump is the mollifier 1 - exp(1 + 1/((d/buffer)^2 - 1)) inside the buffer and 1
// outside it. It rises smoothly from 0 at d = 0 to 1 at d = buffer. A
// non-positive buffer disables it.
func Bump(distance, buffer float64) float64 {
	if buffer <= 0 || distance >= buffer {
		return 1
	}
	r := distance / buffer
	return 1 - math.Exp(1+1/(r*r-1))
}
