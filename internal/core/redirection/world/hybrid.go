package world

import (
	"math"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// Aggregator combines the over-time, rotational and curvature angles of a frame.
type Aggregator func(overTime, rotational, curvature float64) float64

// MaxAbs keeps the angle of largest magnitude, the earliest one on ties.
func MaxAbs(overTime, rotational, curvature float64) float64 {
	best := overTime
	for _, v := range [...]float64{rotational, curvature} {
		if math.Abs(v) > math.Abs(best) {
			best = v
		}
	}
	return best
}

func Sum(overTime, rotational, curvature float64) float64 {
	return overTime + rotational + curvature
}

func Mean(overTime, rotational, curvature float64) float64 {
	return Sum(overTime, rotational, curvature) / 3
}

// Weighted returns the weighted sum x·overTime + y·rotational + z·curvature.
func Weighted(x, y, z float64) Aggregator {
	return func(overTime, rotational, curvature float64) float64 {
		return x*overTime + y*rotational + z*curvature
	}
}

// AggregatorFor resolves the aggregation named in p.
func AggregatorFor(p *parameters.Parameters) Aggregator {
	switch p.HybridAggregation {
	case parameters.AggregateSum:
		return Sum
	case parameters.AggregateMean:
		return Mean
	case parameters.AggregateWeighted:
		w := p.HybridWeights
		return Weighted(w.X, w.Y, w.Z)
	default:
		return MaxAbs
	}
}

// Hybrid is the complete redirected walking of Razzaque et al., 2001. The three
// rotation techniques are aggregated, then optionally dampened near the target
// and smoothed against the previous frame.
type Hybrid struct {
	aggregate Aggregator
}

// NewHybrid fixes the aggregation. A nil aggregate follows the parameters of
// each frame.
func NewHybrid(aggregate Aggregator) *Hybrid {
	return &Hybrid{aggregate: aggregate}
}

// Angle returns the rotation of the frame without applying it.
func (h *Hybrid) Angle(s *scene.Scene) float64 {
	aggregate := h.aggregate
	if aggregate == nil {
		aggregate = AggregatorFor(s.Params)
	}
	angle := aggregate(OverTimeRotation(s), Rotational(s), Curvature(s))

	if s.ApplyDampening {
		angle = Dampen(s, angle)
	}
	if s.ApplySmoothing {
		if s.Params.LegacyDoubleDampening {
			angle = Dampen(s, angle)
		} else {
			angle = Smooth(s, angle)
		}
	}
	return angle
}

func (h *Hybrid) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedHead); err != nil {
		return err
	}
	angle := h.Angle(s)
	if err := rotate(s, angle); err != nil {
		return err
	}
	s.PreviousRedirection = angle
	return nil
}

// Dampen tapers angle with the sine of the angle to the target over
// DampeningRange, then linearly with the distance to the selected target once
// closer than DampeningDistanceThreshold. A non-positive range or threshold
// disables its taper.
func Dampen(s *scene.Scene, angle float64) float64 {
	p := s.Params
	if p.DampeningRange > 0 {
		ratio := math.Min(math.Abs(geometry.FoldAngle(s.HeadAngleToTarget()))/p.DampeningRange, 1)
		angle *= math.Sin(ratio * math.Pi / 2)
	}
	if p.DampeningDistanceThreshold > 0 {
		if d := s.HeadToTargetDistance(); d < p.DampeningDistanceThreshold {
			angle *= d / p.DampeningDistanceThreshold
		}
	}
	return angle
}

// Smooth blends angle with the previous frame's rotation: (1-α)·previous + α·angle.
func Smooth(s *scene.Scene, angle float64) float64 {
	a := s.Params.SmoothingFactor
	return (1-a)*s.PreviousRedirection + a*angle
}
