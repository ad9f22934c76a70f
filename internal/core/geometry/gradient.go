package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Gradient3 approximates the gradient of f at x with central differences along
// each basis direction. The error is O(eps²); eps <= 0 selects DefaultEpsilon.
func Gradient3(f func(r3.Vec) float64, x r3.Vec, eps float64) r3.Vec {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	axis := func(e r3.Vec) float64 {
		d := r3.Scale(eps, e)
		return (f(r3.Add(x, d)) - f(r3.Sub(x, d))) / (2 * eps)
	}
	return r3.Vec{X: axis(Right), Y: axis(Up), Z: axis(Forward)}
}

// Gradient2 is Gradient3 for planar scalar fields.
func Gradient2(f func(r2.Vec) float64, x r2.Vec, eps float64) r2.Vec {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	axis := func(e r2.Vec) float64 {
		d := r2.Scale(eps, e)
		return (f(r2.Add(x, d)) - f(r2.Sub(x, d))) / (2 * eps)
	}
	return r2.Vec{X: axis(r2.Vec{X: 1}), Y: axis(r2.Vec{Y: 1})}
}
