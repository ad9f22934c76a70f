package interaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/body"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/touch"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
)

var shift = r3.Vec{X: 0.2}

func observed() (log.Log, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return log.NewFromZap(zap.New(core), log.LevelDebug), logs
}

func reachScene(t *testing.T) (*scene.Scene, *scene.Limb) {
	t.Helper()
	s := scene.New(parameters.Default())
	s.Origin = scene.At(r3.Vec{Y: 1})
	s.PhysicalTarget = scene.At(r3.Vec{Y: 1, Z: 0.5})
	s.VirtualTarget = scene.At(r3.Add(s.PhysicalTarget.Position, shift))
	l, err := s.AddLimb(scene.At(r3.Vec{Y: 1, Z: 0.3}), scene.At(r3.Vec{Y: 1, Z: 0.3}))
	require.NoError(t, err)
	return s, l
}

func walkScene() *scene.Scene {
	s := scene.New(parameters.Default())
	s.PhysicalHead = scene.At(r3.Vec{Y: 1.7})
	s.VirtualHead = scene.At(r3.Vec{Y: 1.7})
	s.DeltaTime = 1
	return s
}

func messages(logs *observer.ObservedLogs, level zapcore.Level) []string {
	var out []string
	for _, e := range logs.All() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestBodyRedirectsOnlyWhenStarted(t *testing.T) {
	s, l := reachScene(t)
	b := NewBody(s, nil, body.Han2018TranslationalShift)

	require.NoError(t, b.Frame())
	assert.Equal(t, r3.Vec{}, s.Redirection(0))
	assert.True(t, s.Started())

	b.StartRedirection()
	require.NoError(t, b.Frame())
	assert.InDelta(t, shift.X, s.Redirection(0).X, 1e-12)

	// Stopped, the virtual limb follows the physical one and keeps its offset.
	b.StopRedirection()
	l.Physical().Translate(r3.Vec{Z: 0.1})
	require.NoError(t, b.Frame())
	assert.InDelta(t, shift.X, s.Redirection(0).X, 1e-12)
	assert.InDelta(t, 0.4, l.Virtual().Position.Z, 1e-12)
	assert.Equal(t, uint64(3), s.Frame())
}

func TestBodyKeepsInstanceUntilSelectionChanges(t *testing.T) {
	s, _ := reachScene(t)
	b := NewBody(s, nil, body.Geslain2022Polynom)
	first := b.Active()
	require.NotNil(t, first)

	b.SetTechnique(body.Geslain2022Polynom)
	assert.Same(t, first, b.Active())

	b.SetTechnique(body.Han2018InterpolatedReach)
	b.SetTechnique(body.Geslain2022Polynom)
	assert.NotSame(t, first, b.Active())
	assert.Equal(t, body.Geslain2022Polynom, b.Technique())
}

func TestBodyUnknownTechniqueDisables(t *testing.T) {
	logger, logs := observed()
	s, l := reachScene(t)
	b := NewBody(s, logger, body.ID(99))
	assert.Nil(t, b.Active())
	require.Len(t, messages(logs, zapcore.ErrorLevel), 1)

	b.StartRedirection()
	l.Physical().Translate(r3.Vec{X: 0.05})
	require.NoError(t, b.Frame())
	assert.Equal(t, r3.Vec{}, s.Redirection(0))

	// Selecting the same broken id again is not reported twice.
	b.SetTechnique(body.ID(99))
	assert.Len(t, messages(logs, zapcore.ErrorLevel), 1)
}

func TestBodyFailureFallsBackToPassThrough(t *testing.T) {
	logger, logs := observed()
	s, l := reachScene(t)
	s.PhysicalTarget = nil
	b := NewBody(s, logger, body.Han2018TranslationalShift)
	b.StartRedirection()

	assert.ErrorIs(t, b.Frame(), scene.ErrMissingTransform)
	l.Physical().Translate(r3.Vec{X: 0.1})
	err := b.Frame()
	assert.ErrorIs(t, err, scene.ErrMissingTransform)
	assert.Equal(t, l.Physical().Position, l.Virtual().Position)

	entries := logs.FilterMessage("redirection failed, passing through").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Han2018TranslationalShift", entries[0].ContextMap()["technique"])
	assert.Equal(t, b.ID().String(), entries[0].ContextMap()["interaction"])
}

func TestSetParameters(t *testing.T) {
	s, _ := reachScene(t)
	b := NewBody(s, nil, body.None)

	p := parameters.Default()
	p.ResetRedirectionCoeff = 2
	assert.ErrorIs(t, b.SetParameters(p), parameters.ErrInvalidParameter)
	assert.InDelta(t, parameters.Default().ResetRedirectionCoeff, s.Params.ResetRedirectionCoeff, 0)
	assert.ErrorIs(t, b.SetParameters(nil), parameters.ErrInvalidParameter)

	p.ResetRedirectionCoeff = 0.5
	require.NoError(t, b.SetParameters(p))
	assert.InDelta(t, 0.5, s.Params.ResetRedirectionCoeff, 0)
	assert.NotSame(t, p, s.Params)
}

func TestWorldSteersThenRotates(t *testing.T) {
	s := walkScene()
	s.Params.OverTimeRotation = 10
	target := scene.At(r3.Vec{X: 5, Y: 1.7, Z: 5})
	s.Targets = []*scene.Transform{target}

	w := NewWorld(s, nil, world.Razzaque2001OverTimeRotation, steering.SteerToCenter)
	require.NoError(t, w.Frame())
	assert.Equal(t, geometry.Forward, s.ForwardTarget)
	assert.Nil(t, s.SelectedTarget)

	w.StartRedirection()
	require.NoError(t, w.Frame())
	assert.Same(t, target, s.SelectedTarget)
	assert.InDelta(t, 45, s.HeadAngleToTarget(), 1e-9)
	assert.InDelta(t, -10, geometry.Yaw(s.HeadToHeadRotation()), 1e-9)
}

func TestWorldStrategyFallback(t *testing.T) {
	logger, logs := observed()
	s := walkScene()
	w := NewWorld(s, logger, world.None, steering.SteerToCenter)
	w.StartRedirection()

	err := w.Frame()
	require.NoError(t, err)
	assert.Equal(t, s.PhysicalHead.Forward(), s.ForwardTarget)
	assert.Len(t, logs.FilterMessage("steering fell back to head forward").All(), 1)
}

func TestWorldUnknownStrategyDisablesRedirection(t *testing.T) {
	logger, logs := observed()
	s := walkScene()
	s.Params.OverTimeRotation = 10
	s.ForwardTarget = r3.Vec{X: 1}
	w := NewWorld(s, logger, world.Razzaque2001OverTimeRotation, steering.ID(42))
	w.StartRedirection()
	assert.Len(t, logs.FilterMessage("strategy unavailable, redirection disabled").All(), 1)

	require.NoError(t, w.Frame())
	assert.InDelta(t, 0, geometry.Yaw(s.HeadToHeadRotation()), 1e-12)
	assert.Equal(t, r3.Vec{X: 1}, s.ForwardTarget)
	assert.Equal(t, steering.ID(42), w.Strategy())

	s.StrategyDirection = r3.Vec{X: 1}
	w.SetStrategy(steering.SteerInDirection)
	require.NoError(t, w.Frame())
	assert.InDelta(t, -10, geometry.Yaw(s.HeadToHeadRotation()), 1e-9)
}

func TestDriversCountMotionBeforeFirstFrame(t *testing.T) {
	s := walkScene()
	w := NewWorld(s, nil, world.None, steering.NoSteering)
	assert.True(t, s.Started())
	s.PhysicalHead.Translate(r3.Vec{X: 0.3})
	require.NoError(t, w.Frame())
	assert.InDelta(t, 0, r3.Norm(r3.Sub(s.VirtualHead.Position, s.PhysicalHead.Position)), 1e-12)

	rs, l := reachScene(t)
	b := NewBody(rs, nil, body.Han2018TranslationalShift)
	l.Physical().Translate(r3.Vec{Z: 0.1})
	require.NoError(t, b.Frame())
	assert.InDelta(t, 0, r3.Norm(rs.Redirection(0)), 1e-12)
}

func TestTouchWarnsOnceWhenStale(t *testing.T) {
	logger, logs := observed()
	s := scene.New(nil)
	hand := r3.Vec{X: 0.2, Y: 0.2, Z: 0.2}
	l, err := s.AddLimb(scene.At(hand), scene.At(hand))
	require.NoError(t, err)
	s.Reference = []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	s.Interpolated = []r3.Vec{shift, {X: 1.2}, {X: 0.2, Y: 1}, {X: 0.2, Z: 1}}

	d := NewTouch(s, logger, touch.Kohli2010RedirectedTouching)
	d.StartRedirection()
	require.NoError(t, d.Frame())
	assert.InDelta(t, hand.X+shift.X, l.Virtual().Position.X, 1e-6)

	s.Interpolated = s.Reference
	require.NoError(t, d.Frame())
	require.NoError(t, d.Frame())
	assert.Len(t, messages(logs, zapcore.WarnLevel), 1)
	assert.InDelta(t, hand.X+shift.X, l.Virtual().Position.X, 1e-6)

	require.NoError(t, d.Recompute())
	require.NoError(t, d.Frame())
	assert.InDelta(t, hand.X, l.Virtual().Position.X, 1e-6)
}

func TestLoadConfigAndBuild(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
mode: body
body: Han2018TranslationalShift
dampening: true
parameters:
  redirection_buffer: 0.05
`))
	require.NoError(t, err)
	assert.Equal(t, ModeBody, cfg.Mode)
	assert.Equal(t, steering.NoSteering, cfg.Strategy)

	s, _ := reachScene(t)
	d, err := cfg.Build(s, nil)
	require.NoError(t, err)
	b, ok := d.(*Body)
	require.True(t, ok)
	assert.Equal(t, body.Han2018TranslationalShift, b.Technique())
	assert.True(t, b.Redirecting())
	assert.True(t, s.ApplyDampening)
	assert.InDelta(t, 0.05, s.Params.RedirectionBuffer, 0)
	assert.InDelta(t, parameters.Default().GoGoCoefficient, s.Params.GoGoCoefficient, 0)

	require.NoError(t, d.Frame())
	assert.InDelta(t, shift.X, s.Redirection(0).X, 1e-12)
}

func TestLoadConfigDefaultsToWorld(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	d, err := cfg.Build(walkScene(), nil)
	require.NoError(t, err)
	_, ok := d.(*World)
	assert.True(t, ok)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("world: Razzaque2042\n"))
	assert.ErrorIs(t, err, world.ErrUnknownTechnique)

	_, err = LoadConfig(strings.NewReader("mode: telepathy\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(strings.NewReader("parameters:\n  curvature_radius: -1\n"))
	assert.ErrorIs(t, err, parameters.ErrInvalidParameter)

	_, err = LoadConfig(strings.NewReader("colour: blue\n"))
	assert.Error(t, err)
}

func TestShippedSessionConfig(t *testing.T) {
	cfg, err := LoadConfigFile("../../../configs/session.yaml")
	require.NoError(t, err)
	assert.Equal(t, world.Razzaque2001Hybrid, cfg.World)
	assert.Equal(t, steering.SteerToOrbit, cfg.Strategy)
	assert.InDelta(t, 0.5, cfg.Parameters.OverTimeRotation, 0)
}
