// Package simulation generates synthetic user motion for exercising the
// redirection techniques without a tracker.
package simulation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// minJerkCoefficients is the quintic of the minimum-jerk profile, lowest power
// first. It has zero speed and acceleration at both ends.
var minJerkCoefficients = [...]float64{0, 0, 0, 10, -15, 6}

// MinJerkProfile is the share of the movement covered at normalised time t.
// t is clamped to [0, 1].
func MinJerkProfile(t float64) float64 {
	t = geometry.Clamp01(t)
	s := 0.0
	for i := len(minJerkCoefficients) - 1; i >= 0; i-- {
		s = s*t + minJerkCoefficients[i]
	}
	return s
}

// MinJerk returns the minimum-jerk trajectory from p0 to p1 over t in [0, 1].
func MinJerk(p0, p1 r3.Vec) func(t float64) r3.Vec {
	d := r3.Sub(p1, p0)
	return func(t float64) r3.Vec {
		return r3.Add(p0, r3.Scale(MinJerkProfile(t), d))
	}
}

// Reach is a simulated hand movement from From to To lasting Duration seconds.
// The hand keeps the height of From. Bow adds a sideways arc along +X peaking
// at Bow/4 halfway through.
type Reach struct {
	From, To r3.Vec
	Duration float64
	Bow      float64
}

// At returns the hand position after elapsed seconds, and whether the
// movement is over.
func (r Reach) At(elapsed float64) (r3.Vec, bool) {
	if r.Duration <= 0 {
		return r3.Vec{X: r.To.X, Y: r.From.Y, Z: r.To.Z}, true
	}
	t := geometry.Clamp01(elapsed / r.Duration)
	p := MinJerk(r.From, r.To)(t)
	p.X += r.Bow * (t - t*t)
	p.Y = r.From.Y
	return p, elapsed >= r.Duration
}

// swayPeriod is the period of the head sway of a Walk, in seconds.
const swayPeriod = 2.0

// Walk is a simulated straight walk from From toward To at Speed metres per
// second, facing the walking direction. Sway makes the head look around
// that direction by up to Sway degrees.
type Walk struct {
	From, To r3.Vec
	Speed    float64
	Sway     float64
}

// Duration is the time the walk takes, +Inf when Speed is not positive.
func (w Walk) Duration() float64 {
	if w.Speed <= 0 {
		return math.Inf(1)
	}
	return geometry.Distance(w.From, w.To) / w.Speed
}

// At returns the head position and yaw in degrees after elapsed seconds, and
// whether the walk is over.
func (w Walk) At(elapsed float64) (r3.Vec, float64, bool) {
	heading := 0.0
	dir := geometry.ProjectOnHorizontal(r3.Sub(w.To, w.From))
	if r3.Norm(dir) > geometry.Epsilon {
		heading = geometry.SignedAngle(geometry.Forward, dir, geometry.Up)
	}
	heading += w.Sway * math.Sin(2*math.Pi*elapsed/swayPeriod)
	d := w.Duration()
	if math.IsInf(d, 1) {
		return w.From, heading, false
	}
	if d == 0 {
		return w.To, heading, true
	}
	t := geometry.Clamp01(elapsed / d)
	return geometry.Lerp(w.From, w.To, t), heading, elapsed >= d
}
