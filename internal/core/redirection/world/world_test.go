package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

func newScene(t *testing.T, configure func(p *parameters.Parameters)) *scene.Scene {
	t.Helper()
	p := parameters.Default()
	if configure != nil {
		configure(p)
	}
	s := scene.New(p)
	s.PhysicalHead = scene.At(r3.Vec{Y: 1.7})
	s.VirtualHead = scene.At(r3.Vec{Y: 1.7})
	s.DeltaTime = 0.1
	s.Start()
	return s
}

func headYawOffset(s *scene.Scene) float64 {
	return geometry.Yaw(s.HeadToHeadRotation())
}

func TestOverTimeRotation(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) { p.OverTimeRotation = 10 })

	s.ForwardTarget = r3.Vec{X: 1, Z: 1}
	assert.InDelta(t, -1, OverTimeRotation(s), 1e-12)

	s.ForwardTarget = r3.Vec{X: -1, Z: 1}
	assert.InDelta(t, 1, OverTimeRotation(s), 1e-12)

	s.ForwardTarget = r3.Vec{X: 0.001, Z: 1}
	assert.Zero(t, OverTimeRotation(s))
}

func TestRotationalGain(t *testing.T) {
	s := newScene(t, nil)
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}

	s.PhysicalHead.RotateY(10)
	assert.InDelta(t, 10*(s.Params.GainsRotational.Opposite-1), Rotational(s), 1e-9)

	s.PhysicalHead.RotateY(-20)
	assert.InDelta(t, -10*(s.Params.GainsRotational.Same-1), Rotational(s), 1e-9)

	s.Params.RotationThreshold = 20
	assert.Zero(t, Rotational(s))
}

func TestCurvature(t *testing.T) {
	s := newScene(t, nil)
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}

	s.PhysicalHead.Translate(r3.Vec{Z: 0.1})
	assert.InDelta(t, -0.1*360/(2*math.Pi*7.5), Curvature(s), 1e-9)

	s.ForwardTarget = r3.Vec{X: -1, Z: 1}
	assert.InDelta(t, 0.1*360/(2*math.Pi*7.5), Curvature(s), 1e-9)

	s.EndFrame()
	s.PhysicalHead.Translate(r3.Vec{Z: 0.01})
	assert.Zero(t, Curvature(s))
}

func TestMaxAbs(t *testing.T) {
	tests := []struct {
		a, b, c, want float64
	}{
		{-10, 2.4, -0.7, -10},
		{-0.1, 2.4, -0.7, 2.4},
		{-0.1, 2.4, -5.7, -5.7},
		{3, -3, 1, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxAbs(tt.a, tt.b, tt.c))
	}
	assert.InDelta(t, 1.5, Sum(1, 2, -1.5), 1e-12)
	assert.InDelta(t, 0.5, Mean(1, 2, -1.5), 1e-12)
	assert.InDelta(t, 1+4+(-4.5), Weighted(1, 2, 3)(1, 2, -1.5), 1e-12)
}

func TestHybridPicksLargestComponent(t *testing.T) {
	tests := []struct {
		name      string
		overTime  float64
		radius    float64
		component func(*scene.Scene) float64
	}{
		{"over time", 100, 7.5, OverTimeRotation},
		{"rotational", 1, 7.5, Rotational},
		{"curvature", 1, 1, Curvature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t, func(p *parameters.Parameters) {
				p.OverTimeRotation = tt.overTime
				p.CurvatureRadius = tt.radius
			})
			s.ForwardTarget = r3.Vec{X: 1, Z: 1}
			s.PhysicalHead.RotateY(10)
			s.PhysicalHead.Translate(r3.Scale(0.1, s.PhysicalHead.Forward()))

			parts := []float64{OverTimeRotation(s), Rotational(s), Curvature(s)}
			want := tt.component(s)
			for _, v := range parts {
				assert.LessOrEqual(t, math.Abs(v), math.Abs(want))
			}

			h := NewHybrid(nil)
			assert.InDelta(t, want, h.Angle(s), 1e-12)
			require.NoError(t, h.Redirect(s))
			assert.InDelta(t, want, headYawOffset(s), 1e-9)
			assert.InDelta(t, want, s.PreviousRedirection, 1e-12)
		})
	}
}

func TestHybridFollowsParameterAggregation(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) {
		p.OverTimeRotation = 1
		p.HybridAggregation = parameters.AggregateSum
	})
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}
	s.PhysicalHead.RotateY(10)

	want := OverTimeRotation(s) + Rotational(s) + Curvature(s)
	assert.InDelta(t, want, NewHybrid(nil).Angle(s), 1e-12)
	assert.InDelta(t, MaxAbs(OverTimeRotation(s), Rotational(s), Curvature(s)), NewHybrid(MaxAbs).Angle(s), 1e-12)
}

func TestDampenAndSmooth(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) {
		p.DampeningRange = 90
		p.DampeningDistanceThreshold = 1
		p.SmoothingFactor = 0.25
	})
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}
	assert.InDelta(t, 2*math.Sin(math.Pi/4), Dampen(s, 2), 1e-12)

	s.SelectedTarget = scene.At(r3.Vec{Y: 1.7, Z: 0.5})
	assert.InDelta(t, 2*math.Sin(math.Pi/4)*0.5, Dampen(s, 2), 1e-12)

	s.PreviousRedirection = 2
	assert.InDelta(t, 3, Smooth(s, 6), 1e-12)

	s.Params.DampeningRange = 0
	s.Params.DampeningDistanceThreshold = 0
	assert.Equal(t, 2.0, Dampen(s, 2))
}

func TestHybridLegacyDoubleDampening(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) {
		p.OverTimeRotation = 10
		p.DampeningRange = 90
		p.DampeningDistanceThreshold = 0
	})
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}
	s.ApplyDampening = true
	s.ApplySmoothing = true
	factor := math.Sin(math.Pi / 4)

	s.Params.LegacyDoubleDampening = true
	assert.InDelta(t, -1*factor*factor, NewHybrid(nil).Angle(s), 1e-12)

	s.Params.LegacyDoubleDampening = false
	s.PreviousRedirection = 0
	assert.InDelta(t, s.Params.SmoothingFactor*-1*factor, NewHybrid(nil).Angle(s), 1e-12)
}

func TestTranslationalGain(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) { p.GainsTranslational = r3.Vec{X: 1.5, Y: 1, Z: 2} })
	s.PhysicalHead.Translate(r3.Vec{X: 0.1, Z: 0.2})

	require.NoError(t, TranslationalGain{}.Redirect(s))
	got := s.HeadToHeadTranslation()
	assert.InDelta(t, 0.05, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)
	assert.InDelta(t, 0.2, got.Z, 1e-12)
}

func azmandianScene(t *testing.T) *scene.Scene {
	s := newScene(t, nil)
	s.PhysicalHead.Position = r3.Vec{}
	s.VirtualHead.Position = r3.Vec{}
	s.Origin = scene.At(r3.Vec{})
	s.PhysicalTarget = scene.At(r3.Vec{Z: 1})
	s.VirtualTarget = scene.At(r3.Vec{X: 1, Z: 1})
	s.Start()
	return s
}

func TestAzmandianWorldIsBoundedByHeadRotation(t *testing.T) {
	s := azmandianScene(t)
	s.PhysicalHead.RotateY(10)

	require.NoError(t, WorldWarping{}.Redirect(s))
	assert.InDelta(t, 10*s.Params.GainsRotational.Same, headYawOffset(s), 1e-9)

	// without head motion nothing is injected
	s2 := azmandianScene(t)
	require.NoError(t, WorldWarping{}.Redirect(s2))
	assert.InDelta(t, 0, headYawOffset(s2), 1e-12)
}

func TestAzmandianWorldStopsWhenAligned(t *testing.T) {
	s := azmandianScene(t)
	s.Params.GainsRotational = parameters.RotationalGains{Same: 100, Opposite: 100}
	for i := 0; i < 5; i++ {
		s.PhysicalHead.RotateY(5)
		require.NoError(t, WorldWarping{}.Redirect(s))
		s.EndFrame()
	}
	assert.InDelta(t, 45, headYawOffset(s), 1e-6)
}

func TestResetConvergesWithoutOvershoot(t *testing.T) {
	s := newScene(t, func(p *parameters.Parameters) { p.OverTimeRotation = 10 })
	s.RotateVirtualHeadY(20)

	previous := math.Abs(headYawOffset(s))
	for i := 0; i < 400; i++ {
		require.NoError(t, ResetRedirection{}.Redirect(s))
		s.EndFrame()
		current := math.Abs(headYawOffset(s))
		assert.LessOrEqual(t, current, previous+1e-9)
		previous = current
	}
	assert.LessOrEqual(t, previous, s.Params.RotationalError+1e-9)
}

func TestNoRedirectionFollowsPhysicalHead(t *testing.T) {
	s := newScene(t, nil)
	s.PhysicalHead.RotateY(30)
	s.PhysicalHead.Translate(r3.Vec{X: 1})

	require.NoError(t, NoRedirection{}.Redirect(s))
	assert.False(t, s.IsWorldRedirecting())
}

func TestMissingHead(t *testing.T) {
	s := scene.New(nil)
	for _, id := range IDs() {
		tech, err := New(id)
		require.NoError(t, err)
		assert.ErrorIs(t, tech.Redirect(s), scene.ErrMissingTransform, id.String())
	}
}

func TestRegistry(t *testing.T) {
	for _, id := range IDs() {
		parsed, err := ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}

	_, err := ParseID("Steinicke2010")
	assert.ErrorIs(t, err, ErrUnknownTechnique)
	_, err = New(ID(42))
	assert.ErrorIs(t, err, ErrUnknownTechnique)

	var cfg struct {
		Technique ID `yaml:"technique"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("technique: razzaque2001hybrid\n"), &cfg))
	assert.Equal(t, Razzaque2001Hybrid, cfg.Technique)
	assert.Error(t, yaml.Unmarshal([]byte("technique: bogus\n"), &cfg))
}
