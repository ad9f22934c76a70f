package touch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/interpolation"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

var (
	tetra = []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	shift = r3.Vec{X: 0.1, Z: -0.05}
)

func shifted(points []r3.Vec, d r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = r3.Add(p, d)
	}
	return out
}

func newScene(t *testing.T, hand r3.Vec) (*scene.Scene, *scene.Limb) {
	t.Helper()
	s := scene.New(parameters.Default())
	l, err := s.AddLimb(scene.At(hand), scene.At(hand))
	require.NoError(t, err)
	s.Reference = tetra
	s.Interpolated = shifted(tetra, shift)
	s.Start()
	return s, l
}

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta)
	assert.InDelta(t, want.Y, got.Y, delta)
	assert.InDelta(t, want.Z, got.Z, delta)
}

func TestRedirectedTouchingFollowsAffinePairs(t *testing.T) {
	hand := r3.Vec{X: 0.3, Y: 0.2, Z: 0.25}
	s, l := newScene(t, hand)

	tech := &RedirectedTouching{}
	require.NoError(t, tech.Redirect(s))
	assertVecInDelta(t, r3.Add(hand, shift), l.Virtual().Position, 1e-6)
	assert.False(t, tech.Stale(s))
}

func TestRedirectedTouchingIsNotRefittedImplicitly(t *testing.T) {
	hand := r3.Vec{X: 0.3, Y: 0.2, Z: 0.25}
	s, l := newScene(t, hand)

	tech := &RedirectedTouching{}
	assert.False(t, tech.Stale(s))
	require.NoError(t, tech.Redirect(s))

	moved := r3.Vec{Y: 0.2}
	s.Interpolated = shifted(tetra, moved)
	assert.True(t, tech.Stale(s))

	require.NoError(t, tech.Redirect(s))
	assertVecInDelta(t, r3.Add(hand, shift), l.Virtual().Position, 1e-6)

	require.NoError(t, tech.Recompute(s))
	assert.False(t, tech.Stale(s))
	require.NoError(t, tech.Redirect(s))
	assertVecInDelta(t, r3.Add(hand, moved), l.Virtual().Position, 1e-6)
}

func TestRedirectedTouchingFollowsRescaleOnRecompute(t *testing.T) {
	hand := r3.Vec{X: 0.3, Y: 0.2, Z: 0.25}
	s, l := newScene(t, hand)

	tech := &RedirectedTouching{}
	require.NoError(t, tech.Redirect(s))
	assert.False(t, tech.Rescaled())

	s.Params.Rescale = true
	assert.True(t, tech.Stale(s))
	require.NoError(t, tech.Redirect(s))
	assert.False(t, tech.Rescaled())

	require.NoError(t, tech.Recompute(s))
	assert.True(t, tech.Rescaled())
	assert.False(t, tech.Stale(s))
	require.NoError(t, tech.Redirect(s))
	assertVecInDelta(t, r3.Add(hand, shift), l.Virtual().Position, 1e-6)
}

func TestRedirectedTouchingDegenerate(t *testing.T) {
	hand := r3.Vec{X: 0.5}
	s, l := newScene(t, hand)
	s.Reference = tetra[:2]
	s.Interpolated = tetra[:2]

	err := (&RedirectedTouching{}).Redirect(s)
	assert.ErrorIs(t, err, interpolation.ErrTooFewPoints)
	assert.Equal(t, hand, l.Virtual().Position)

	s.Reference = []r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}
	s.Interpolated = s.Reference
	err = (&RedirectedTouching{}).Redirect(s)
	assert.ErrorIs(t, err, interpolation.ErrCollinearPoints)
}

func TestInverseDistanceTouching(t *testing.T) {
	s, l := newScene(t, r3.Vec{X: 1})
	require.NoError(t, InverseDistance{}.Redirect(s))
	assertVecInDelta(t, r3.Vec{X: 1.1, Z: -0.05}, l.Virtual().Position, 1e-12)

	query := r3.Vec{X: 0.4, Y: 0.4, Z: 0.1}
	mean, err := interpolation.InverseDistance(tetra, tetra, 2, query)
	require.NoError(t, err)
	l.Physical().Position = query
	require.NoError(t, InverseDistance{}.Redirect(s))
	assertVecInDelta(t, r3.Add(mean, shift), l.Virtual().Position, 1e-9)

	s.Interpolated = s.Interpolated[:3]
	assert.ErrorIs(t, InverseDistance{}.Redirect(s), interpolation.ErrMismatchedPoints)
}

func TestNoRedirection(t *testing.T) {
	hand := r3.Vec{X: 0.5, Y: 1}
	s, l := newScene(t, hand)
	l.Virtual().Position = r3.Vec{}
	require.NoError(t, NoRedirection{}.Redirect(s))
	assert.Equal(t, hand, l.Virtual().Position)
}

func TestMissingLimbs(t *testing.T) {
	s := scene.New(nil)
	for _, id := range IDs() {
		tech, err := New(id)
		require.NoError(t, err)
		assert.ErrorIs(t, tech.Redirect(s), scene.ErrMissingTransform, id.String())
	}
}

func TestRegistry(t *testing.T) {
	id, err := ParseID("kohli2010redirectedtouching")
	require.NoError(t, err)
	assert.Equal(t, Kohli2010RedirectedTouching, id)

	tech, err := New(id)
	require.NoError(t, err)
	_, ok := tech.(Staler)
	assert.True(t, ok)

	_, err = ParseID("Telekinesis")
	assert.ErrorIs(t, err, ErrUnknownTechnique)
}
