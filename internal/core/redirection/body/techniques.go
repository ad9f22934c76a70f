package body

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

const targeted = scene.NeedLimbs | scene.NeedTargets | scene.NeedOrigin

// commit applies the offsets, all or none, then copies the physical limb rotations.
func commit(s *scene.Scene, offsets []r3.Vec) error {
	if err := s.SetLimbRedirection(offsets); err != nil {
		return err
	}
	s.CopyLimbRotations()
	return nil
}

// buffered scales ratio by the bump over RedirectionBuffer when MollifyBuffer is set.
func buffered(s *scene.Scene, ratio, originDistance float64) float64 {
	if !s.Params.MollifyBuffer {
		return ratio
	}
	return ratio * geometry.Bump(originDistance, s.Params.RedirectionBuffer)
}

// ratioOffsets sends every limb ratio(limb) of the way from the physical to the virtual target.
func ratioOffsets(s *scene.Scene, ratio func(l *scene.Limb) float64) []r3.Vec {
	full := s.PhysicalToVirtualTarget()
	out := make([]r3.Vec, len(s.Limbs))
	for i, l := range s.Limbs {
		out[i] = r3.Scale(ratio(l), full)
	}
	return out
}

// scaledTranslation moves each virtual limb by the physical translation of the
// frame scaled per axis by gain.
func scaledTranslation(s *scene.Scene, gain func(i int, l *scene.Limb) r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(s.Limbs))
	for i, l := range s.Limbs {
		t := s.LimbInstantTranslation(l)
		out[i] = r3.Add(s.Redirection(i), geometry.Mul(t, gain(i, l)))
	}
	return out
}

var unit = r3.Vec{X: 1, Y: 1, Z: 1}

// NoRedirection moves the virtual limbs by the physical motion, keeping their offsets.
type NoRedirection struct{}

func (NoRedirection) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	return commit(s, scaledTranslation(s, func(int, *scene.Limb) r3.Vec { return unit }))
}

// ResetRedirection follows the physical motion and removes ResetRedirectionCoeff
// of each remaining offset per frame, so offsets decay geometrically to zero.
type ResetRedirection struct{}

func (ResetRedirection) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	c := s.Params.ResetRedirectionCoeff
	out := make([]r3.Vec, len(s.Limbs))
	for i, l := range s.Limbs {
		virtual := r3.Add(l.Virtual().Position, s.LimbInstantTranslation(l))
		virtual = r3.Add(virtual, r3.Scale(c, r3.Sub(l.Physical().Position, virtual)))
		out[i] = r3.Sub(virtual, l.Physical().Position)
	}
	return commit(s, out)
}

// WarpingRatio is the share of the body warping of Azmandian et al., 2016 applied
// to l: the projection of the limb onto the origin-target segment, clamped to
// [0, 1]. It is 0 when the target sits on the origin.
func WarpingRatio(s *scene.Scene, l *scene.Limb) float64 {
	d := r3.Sub(s.PhysicalTarget.Position, s.Origin.Position)
	n2 := r3.Norm2(d)
	if n2 < geometry.Epsilon {
		return 0
	}
	return geometry.Clamp01(r3.Dot(d, r3.Sub(l.Physical().Position, s.Origin.Position)) / n2)
}

// BodyWarpingOffsets returns the body warping offsets without applying them.
func BodyWarpingOffsets(s *scene.Scene) []r3.Vec {
	return ratioOffsets(s, func(l *scene.Limb) float64 {
		return buffered(s, WarpingRatio(s, l), s.LimbOriginDistance(l))
	})
}

// BodyWarping is Azmandian et al., 2016.
type BodyWarping struct{}

func (BodyWarping) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted); err != nil {
		return err
	}
	return commit(s, BodyWarpingOffsets(s))
}

// HybridWeight is the share of world warping in the hybrid warping of l:
// clamp01(dot(origin - target, limb - target)). Body warping gets the rest.
func HybridWeight(s *scene.Scene, l *scene.Limb) float64 {
	target := s.PhysicalTarget.Position
	return geometry.Clamp01(r3.Dot(r3.Sub(s.Origin.Position, target), r3.Sub(l.Physical().Position, target)))
}

// HybridWarping is Azmandian et al., 2016: body warping weighted by 1 - w per
// limb and world warping of the head around the origin weighted by the w of
// the first limb.
type HybridWarping struct{}

func (HybridWarping) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted | scene.NeedHead); err != nil {
		return err
	}
	saved := *s.VirtualHead
	world.PassThrough(s)

	weights := make([]float64, len(s.Limbs))
	for i, l := range s.Limbs {
		weights[i] = HybridWeight(s, l)
	}
	offsets := BodyWarpingOffsets(s)
	for i := range offsets {
		offsets[i] = r3.Scale(1-weights[i], offsets[i])
	}
	angle := weights[0] * world.AzmandianWorld(s)
	if !geometry.IsFiniteScalar(angle) {
		*s.VirtualHead = saved
		return fmt.Errorf("%w: head rotation %v", scene.ErrNonFinite, angle)
	}
	if err := commit(s, offsets); err != nil {
		*s.VirtualHead = saved
		return err
	}
	s.RotateVirtualHeadAround(s.Origin.Position, angle)
	return nil
}

// TranslationalShift is Han et al., 2018: the full offset as soon as the limb
// leaves RedirectionBuffer around the origin, none inside it.
type TranslationalShift struct{}

func (TranslationalShift) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted); err != nil {
		return err
	}
	return commit(s, ratioOffsets(s, func(l *scene.Limb) float64 {
		if s.LimbOriginDistance(l) > s.Params.RedirectionBuffer {
			return 1
		}
		return 0
	}))
}

// InterpolatedReach is Han et al., 2018: the offset grows linearly as the limb
// nears the target, max(1 - d/B, 0) with B the origin-target distance plus
// RedirectionBuffer.
type InterpolatedReach struct{}

func (InterpolatedReach) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted); err != nil {
		return err
	}
	b := geometry.Distance(s.PhysicalTarget.Position, s.Origin.Position) + s.Params.RedirectionBuffer
	return commit(s, ratioOffsets(s, func(l *scene.Limb) float64 {
		if b < geometry.Epsilon {
			return 0
		}
		return buffered(s, math.Max(1-s.LimbTargetDistance(l)/b, 0), s.LimbOriginDistance(l))
	}))
}

// SparseHaptics is Cheng et al., 2017: ratio Ds/(Ds+Dp) of the origin distance
// over the sum of origin and target distances, 0 when both vanish.
type SparseHaptics struct{}

func (SparseHaptics) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted); err != nil {
		return err
	}
	return commit(s, ratioOffsets(s, func(l *scene.Limb) float64 {
		ds, dp := s.LimbOriginDistance(l), s.LimbTargetDistance(l)
		if ds+dp < geometry.Epsilon {
			return 0
		}
		return buffered(s, ds/(ds+dp), ds)
	}))
}

// Polynom is Geslain et al., 2022: the ratio is a0 + a1·d + a2·d² of the
// limb-target distance d with f(0) = 1 and f(D) = 0, D the origin-target
// distance, and RedirectionLateness = a2·D². Coefficients are kept until D or
// the lateness change.
type Polynom struct {
	distance, lateness float64
	coeffs             [3]float64
	ready              bool
}

// Coefficients returns {a0, a1, a2} for the origin-target distance d.
func (p *Polynom) Coefficients(d, lateness float64) [3]float64 {
	if !p.ready || p.distance != d || p.lateness != lateness {
		a2 := lateness / (d * d)
		p.coeffs = [3]float64{1, -1/d - a2*d, a2}
		p.distance, p.lateness, p.ready = d, lateness, true
	}
	return p.coeffs
}

func (p *Polynom) Redirect(s *scene.Scene) error {
	if err := s.Validate(targeted); err != nil {
		return err
	}
	d := geometry.Distance(s.PhysicalTarget.Position, s.Origin.Position)
	if d < geometry.Epsilon {
		return commit(s, make([]r3.Vec, len(s.Limbs)))
	}
	a := p.Coefficients(d, s.Params.RedirectionLateness)
	return commit(s, ratioOffsets(s, func(l *scene.Limb) float64 {
		x := s.LimbTargetDistance(l)
		return buffered(s, a[0]+a[1]*x+a[2]*x*x, s.LimbOriginDistance(l))
	}))
}

// GoGo is Poupyrev et al., 1996: past GoGoActivationDistance from the chest,
// the hand is pushed outward by GoGoCoefficient·(|d| - activation)². The chest
// sits GoGoChestOffset under the head.
type GoGo struct{}

// GoGoOffset returns the extension of a hand at hand given the head position.
func GoGoOffset(s *scene.Scene, hand, head r3.Vec) r3.Vec {
	p := s.Params
	chest := r3.Sub(head, r3.Scale(p.GoGoChestOffset, geometry.Up))
	d := r3.Sub(hand, chest)
	n := r3.Norm(d)
	if n <= p.GoGoActivationDistance {
		return r3.Vec{}
	}
	return r3.Scale(p.GoGoCoefficient*(n-p.GoGoActivationDistance)*(n-p.GoGoActivationDistance), geometry.Normalize(d))
}

func (GoGo) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs | scene.NeedHead); err != nil {
		return err
	}
	out := make([]r3.Vec, len(s.Limbs))
	for i, l := range s.Limbs {
		out[i] = GoGoOffset(s, l.Physical().Position, s.PhysicalHead.Position)
	}
	return commit(s, out)
}

// Swamp is Lécuyer et al., 2000: while the virtual limb is inside the square of
// side SwampSquareLength around the origin, measured on the horizontal plane
// with the Chebyshev distance, its motion is scaled by SwampCDRatio.
type Swamp struct{}

func (Swamp) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs | scene.NeedOrigin); err != nil {
		return err
	}
	p := s.Params
	return commit(s, scaledTranslation(s, func(_ int, l *scene.Limb) r3.Vec {
		d := r3.Sub(l.Virtual().Position, s.Origin.Position)
		if math.Max(math.Abs(d.X), math.Abs(d.Z)) < p.SwampSquareLength/2 {
			return r3.Scale(p.SwampCDRatio, unit)
		}
		return unit
	}))
}

// Weight is Samad et al., 2019: vertical motion scaled by 1/SamadMass and
// horizontal motion by SamadRatio/SamadMass.
type Weight struct{}

// WeightGains returns the per-axis gains applied to limb motion.
func WeightGains(s *scene.Scene) r3.Vec {
	vertical := 1 / s.Params.SamadMass
	horizontal := vertical * s.Params.SamadRatio
	return r3.Vec{X: horizontal, Y: vertical, Z: horizontal}
}

func (Weight) Redirect(s *scene.Scene) error {
	if err := s.Validate(scene.NeedLimbs); err != nil {
		return err
	}
	g := WeightGains(s)
	return commit(s, scaledTranslation(s, func(int, *scene.Limb) r3.Vec { return g }))
}
