package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityHandle_RoundTrip(t *testing.T) {
	h := makeHandle(KindVolume, 41)
	assert.Equal(t, KindVolume, h.Kind())
	assert.Equal(t, 41, h.Index())
	assert.False(t, h.IsNull())

	var null EntityHandle
	assert.True(t, null.IsNull())
	assert.Equal(t, -1, null.Index())
	assert.Equal(t, "null", null.String())
}

func TestBuilder_ComputesNormalsAndSenses(t *testing.T) {
	b := NewBuilder()
	inner := b.AddVolume(10)
	outer := b.AddVolume(20)
	s := b.AddSurface(7, inner, outer)
	b.AddQuad(s,
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0})

	m, err := b.Build()
	require.NoError(t, err)

	require.Len(t, m.Triangles, 2)
	for _, tri := range m.Triangles {
		assert.True(t, tri.Normal.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-12), "normal %v", tri.Normal)
		assert.InDelta(t, 0.5, tri.Area, 1e-12)
		assert.Equal(t, s, tri.Surface)
	}

	assert.Equal(t, SenseForward, m.SenseOf(s, inner))
	assert.Equal(t, SenseReverse, m.SenseOf(s, outer))
	assert.Equal(t, SenseUnknown, m.SenseOf(s, m.Outside()))

	surf, err := m.Surface(s)
	require.NoError(t, err)
	other, ok := surf.Other(inner)
	require.True(t, ok)
	assert.Equal(t, outer, other)

	got, ok := m.SurfaceByGlobalID(7)
	assert.True(t, ok)
	assert.Equal(t, s, got)
	got, ok = m.VolumeByGlobalID(20)
	assert.True(t, ok)
	assert.Equal(t, outer, got)
}

func TestBuilder_OneSidedSurfaceBoundsOutside(t *testing.T) {
	b := NewBuilder()
	vol := b.AddVolume(1)
	s := b.AddSurface(1, vol, 0)
	b.AddQuad(s,
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0})
	m, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, SenseReverse, m.SenseOf(s, m.Outside()))
	out, err := m.Volume(m.Outside())
	require.NoError(t, err)
	assert.True(t, out.Outside)
	assert.Equal(t, []EntityHandle{s}, out.Surfaces)
	assert.Equal(t, 1, m.NumVolumes())
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("bad vertex index", func(t *testing.T) {
		b := NewBuilder()
		vol := b.AddVolume(1)
		s := b.AddSurface(1, vol, 0)
		b.AddTriangle(s, 0, 1, 2)
		_, err := b.Build()
		assert.True(t, errors.Is(err, ErrInvalidModel))
	})
	t.Run("unknown surface", func(t *testing.T) {
		b := NewBuilder()
		b.AddTriangle(makeHandle(KindSurface, 3), 0, 0, 0)
		_, err := b.Build()
		assert.True(t, errors.Is(err, ErrInvalidHandle))
		assert.True(t, errors.Is(err, ErrInvalidModel))
	})
	t.Run("unknown volume", func(t *testing.T) {
		b := NewBuilder()
		b.AddSurface(1, makeHandle(KindVolume, 5), 0)
		_, err := b.Build()
		assert.True(t, errors.Is(err, ErrInvalidHandle))
	})
}

func TestBuilder_BuildsOnce(t *testing.T) {
	b := NewBuilder()
	vol := b.AddVolume(1)
	s := b.AddSurface(1, vol, 0)
	b.AddQuad(s, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0})

	m, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrInvalidModel)

	// Later edits to the builder leave the model alone.
	b.AddVolume(2)
	b.SetSense(s, vol, SenseBoth)
	assert.Len(t, m.Surfaces[0].Triangles, 2)
	assert.Equal(t, 1, m.NumVolumes())
	assert.Equal(t, m.Outside(), m.Surfaces[0].Reverse)
}

func TestModel_EntityByKindAndIndex(t *testing.T) {
	m, err := TripleBlock()
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		h, err := m.EntityByKindAndIndex(KindVolume, i)
		require.NoError(t, err)
		assert.Equal(t, KindVolume, h.Kind())
		assert.Equal(t, i-1, h.Index())
	}
	_, err = m.EntityByKindAndIndex(KindVolume, 4)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = m.EntityByKindAndIndex(KindVolume, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = m.EntityByKindAndIndex(KindVertex, 1)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	s, err := m.EntityByKindAndIndex(KindSurface, 16)
	require.NoError(t, err)
	assert.Equal(t, KindSurface, s.Kind())
	_, err = m.EntityByKindAndIndex(KindSurface, 17)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestTripleBlock_Topology(t *testing.T) {
	m, err := TripleBlock()
	require.NoError(t, err)
	require.Equal(t, 16, m.NumSurfaces())
	require.Equal(t, 3, m.NumVolumes())

	for i := 1; i <= 3; i++ {
		vol, _ := m.EntityByKindAndIndex(KindVolume, i)
		require.NoError(t, m.CheckOrientation(vol))
		v, err := m.EnclosedVolume(vol)
		require.NoError(t, err)
		assert.InDelta(t, 1000, v, 1e-9)
	}

	// Shared faces have a user volume on each side.
	shared := 0
	for i := range m.Surfaces {
		s := &m.Surfaces[i]
		if s.Forward != m.Outside() && s.Reverse != m.Outside() {
			shared++
		}
	}
	assert.Equal(t, 2, shared)

	out, err := m.EnclosedVolume(m.Outside())
	require.NoError(t, err)
	assert.InDelta(t, -3000, out, 1e-9)
}

func TestDuct_AreaAndVolume(t *testing.T) {
	m, err := Duct(1, 10, 4)
	require.NoError(t, err)
	vol, _ := m.EntityByKindAndIndex(KindVolume, 1)

	v, err := m.EnclosedVolume(vol)
	require.NoError(t, err)
	assert.InDelta(t, 40, v, 1e-9)

	top, ok := m.SurfaceByGlobalID(DuctTop)
	require.True(t, ok)
	a, err := m.SurfaceArea(top)
	require.NoError(t, err)
	assert.InDelta(t, 4, a, 1e-12)

	wall, ok := m.SurfaceByGlobalID(DuctWallPosX)
	require.True(t, ok)
	a, err = m.SurfaceArea(wall)
	require.NoError(t, err)
	assert.InDelta(t, 20, a, 1e-9)

	_, err = Duct(0, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestConcentricSpheres_Orientation(t *testing.T) {
	m, err := ConcentricSpheres([]float64{2, 1}, 16, 32)
	require.NoError(t, err)
	require.Equal(t, 2, m.NumVolumes())

	ball, _ := m.EntityByKindAndIndex(KindVolume, 1)
	shell, _ := m.EntityByKindAndIndex(KindVolume, 2)
	require.NoError(t, m.CheckOrientation(ball))
	require.NoError(t, m.CheckOrientation(shell))

	vb, _ := m.EnclosedVolume(ball)
	vs, _ := m.EnclosedVolume(shell)
	// Tessellation undershoots the analytic volume slightly.
	assert.InDelta(t, 4.0/3.0*math.Pi, vb, 0.2)
	assert.InDelta(t, 4.0/3.0*math.Pi*7, vs, 1.5)
	assert.Less(t, vb, 4.0/3.0*math.Pi)
}
