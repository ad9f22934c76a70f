package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

func assertVec(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func newHandScene(t *testing.T) (*Scene, *Limb) {
	t.Helper()
	s := New(nil)
	s.PhysicalHead = At(r3.Vec{Y: 1.7})
	s.VirtualHead = At(r3.Vec{Y: 1.7})
	s.Origin = At(r3.Vec{Y: 1})
	s.PhysicalTarget = At(r3.Vec{Y: 1, Z: 0.5})
	s.VirtualTarget = At(r3.Vec{X: 0.2, Y: 1, Z: 0.5})
	l, err := s.AddLimb(At(r3.Vec{Y: 1}), At(r3.Vec{Y: 1}), At(r3.Vec{Y: 1}))
	require.NoError(t, err)
	s.Start()
	return s, l
}

func TestRedirectionRoundTrip(t *testing.T) {
	s, l := newHandScene(t)
	cases := []struct{ physical, offset r3.Vec }{
		{r3.Vec{}, r3.Vec{X: 1}},
		{r3.Vec{X: 3, Y: -2, Z: 0.5}, r3.Vec{X: -0.1, Y: 0.25, Z: 7}},
		{r3.Vec{X: 1e3, Y: 1e-3, Z: -40}, r3.Vec{}},
	}
	for _, c := range cases {
		l.Physical().Position = c.physical
		require.NoError(t, s.SetRedirection(0, c.offset))
		assertVec(t, c.offset, s.Redirection(0), 1e-9)
		for _, v := range l.Virtuals() {
			assertVec(t, r3.Add(c.physical, c.offset), v.Position, 1e-9)
		}
	}
}

func TestSetRedirectionRejectsNonFinite(t *testing.T) {
	s, l := newHandScene(t)
	require.NoError(t, s.SetRedirection(0, r3.Vec{X: 0.1}))

	err := s.SetRedirection(0, r3.Vec{X: math.NaN()})
	assert.ErrorIs(t, err, ErrNonFinite)
	assertVec(t, r3.Vec{X: 0.1, Y: 1}, l.Virtual().Position, 1e-12)
}

func TestSetLimbRedirectionIsAllOrNothing(t *testing.T) {
	s, _ := newHandScene(t)
	second, err := s.AddLimb(At(r3.Vec{X: 1}), At(r3.Vec{X: 1}))
	require.NoError(t, err)

	err = s.SetLimbRedirection([]r3.Vec{{X: 0.5}, {Y: math.Inf(1)}})
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.False(t, s.IsBodyRedirecting())
	assert.Equal(t, r3.Vec{X: 1}, second.Virtual().Position)

	assert.ErrorIs(t, s.SetLimbRedirection([]r3.Vec{{}}), ErrLimbCount)

	require.NoError(t, s.SetLimbRedirection([]r3.Vec{{X: 0.5}, {Z: -0.5}}))
	assert.True(t, s.IsBodyRedirecting())
	got := s.LimbRedirection()
	assertVec(t, r3.Vec{X: 0.5}, got[0], 1e-12)
	assertVec(t, r3.Vec{Z: -0.5}, got[1], 1e-12)
}

func TestSetLimbRedirectionWritesEveryVirtual(t *testing.T) {
	s, l := newHandScene(t)
	l.Physical().Position = r3.Vec{X: 0.3, Y: 1}
	require.NoError(t, s.SetLimbRedirection([]r3.Vec{{Z: 0.2}}))
	for _, v := range l.Virtuals() {
		assertVec(t, r3.Vec{X: 0.3, Y: 1, Z: 0.2}, v.Position, 1e-12)
	}
}

func TestNewLimbRequiresTransforms(t *testing.T) {
	_, err := NewLimb(nil, At(r3.Vec{}))
	assert.ErrorIs(t, err, ErrMissingTransform)
	_, err = NewLimb(At(r3.Vec{}))
	assert.ErrorIs(t, err, ErrMissingTransform)

	a, err := NewLimb(At(r3.Vec{}), At(r3.Vec{}))
	require.NoError(t, err)
	b, err := NewLimb(At(r3.Vec{}), At(r3.Vec{}))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestValidate(t *testing.T) {
	s := New(nil)
	assert.ErrorIs(t, s.Validate(NeedLimbs), ErrMissingTransform)
	assert.ErrorIs(t, s.Validate(NeedHead), ErrMissingTransform)
	assert.NoError(t, s.Validate(0))

	full, _ := newHandScene(t)
	assert.NoError(t, full.Validate(NeedLimbs|NeedHead|NeedTargets|NeedOrigin))
}

func TestPreviousCachesAdvanceOncePerFrame(t *testing.T) {
	s, l := newHandScene(t)

	s.PhysicalHead.Position = r3.Vec{Y: 1.7, Z: 0.1}
	l.Physical().Position = r3.Vec{X: 0.05, Y: 1}
	assertVec(t, r3.Vec{Z: 0.1}, s.HeadInstantTranslation(), 1e-12)
	assertVec(t, r3.Vec{X: 0.05}, s.LimbInstantTranslation(l), 1e-12)

	s.EndFrame()
	assert.Equal(t, uint64(1), s.Frame())
	assertVec(t, r3.Vec{}, s.HeadInstantTranslation(), 1e-12)
	assertVec(t, r3.Vec{}, s.LimbInstantTranslation(l), 1e-12)
}

func TestHeadInstantRotationY(t *testing.T) {
	s, _ := newHandScene(t)
	s.PhysicalHead.RotateY(12)
	assert.InDelta(t, 12, s.HeadInstantRotationY(), 1e-9)
	assert.True(t, geometry.QuatEqual(geometry.YawRotation(12), s.HeadInstantRotation(), 1e-12))

	s.EndFrame()
	s.PhysicalHead.RotateY(-30)
	assert.InDelta(t, -30, s.HeadInstantRotationY(), 1e-9)
}

func TestHeadAngleToTarget(t *testing.T) {
	s, _ := newHandScene(t)
	s.ForwardTarget = r3.Vec{X: 1, Z: 1}
	assert.InDelta(t, 45, s.HeadAngleToTarget(), 1e-9)
	s.ForwardTarget = r3.Vec{X: -1, Y: 5}
	assert.InDelta(t, -90, s.HeadAngleToTarget(), 1e-9)
}

func TestCopyHeadKeepsOffset(t *testing.T) {
	s, _ := newHandScene(t)
	s.RotateVirtualHeadY(30)

	// the user turns 10 degrees and walks forward
	s.PhysicalHead.RotateY(10)
	s.PhysicalHead.Translate(r3.Vec{Z: 1})
	s.CopyHeadRotations()
	s.CopyHeadTranslations()

	assert.InDelta(t, 40, geometry.Yaw(s.VirtualHead.Rotation), 1e-9)
	assert.True(t, geometry.QuatEqual(geometry.YawRotation(30), s.HeadToHeadRotation(), 1e-12))
	want := geometry.Rotate(geometry.YawRotation(30), r3.Vec{Z: 1})
	assertVec(t, r3.Add(r3.Vec{Y: 1.7}, want), s.VirtualHead.Position, 1e-9)
	assert.True(t, s.IsWorldRedirecting())
}

func TestRotateVirtualHeadAround(t *testing.T) {
	s, _ := newHandScene(t)
	s.VirtualHead.Position = r3.Vec{Z: 1}
	s.RotateVirtualHeadAround(r3.Vec{}, 90)
	assertVec(t, r3.Vec{X: 1}, s.VirtualHead.Position, 1e-9)
	assert.InDelta(t, 90, geometry.Yaw(s.VirtualHead.Rotation), 1e-9)
}

func TestHeadToTargetDistance(t *testing.T) {
	s, _ := newHandScene(t)
	assert.True(t, math.IsInf(s.HeadToTargetDistance(), 1))
	s.SelectedTarget = At(r3.Vec{Y: 1.7, Z: 3})
	assert.InDelta(t, 3, s.HeadToTargetDistance(), 1e-12)
}

func TestLimbDistances(t *testing.T) {
	s, l := newHandScene(t)
	l.Physical().Position = r3.Vec{Y: 1, Z: 0.2}
	assert.InDelta(t, 0.3, s.LimbTargetDistance(l), 1e-12)
	assert.InDelta(t, 0.2, s.LimbOriginDistance(l), 1e-12)
	assert.Equal(t, []float64{s.LimbTargetDistance(l)}, s.LimbTargetDistances())
	assertVec(t, r3.Vec{X: 0.2}, s.PhysicalToVirtualTarget(), 1e-12)
}

func TestCopyLimbRotations(t *testing.T) {
	s, l := newHandScene(t)
	l.Physical().RotateY(45)
	s.CopyLimbRotations()
	for _, v := range l.Virtuals() {
		assert.True(t, geometry.QuatEqual(l.Physical().Rotation, v.Rotation, 1e-12))
	}
}
