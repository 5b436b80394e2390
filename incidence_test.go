package rayfire

import (
	"math"
	"testing"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAngle_FromHistory(t *testing.T) {
	m, err := mesh.TripleBlock()
	e := newEngine(t, m, err)
	shared := surface(t, m, 2)
	h := e.NewRayHistory()

	hit, err := e.RayFire(volume(t, m, 1), mgl64.Vec3{0, 1, 2}, mgl64.Vec3{1, 0, 0}, h)
	require.NoError(t, err)
	require.Equal(t, shared, hit.Surface)

	n, err := e.GetAngle(shared, nil, h)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(mgl64.Vec3{1, 0, 0}), "got %v", n)
	assert.InDelta(t, 0, IncidenceAngle(n, mgl64.Vec3{1, 0, 0}), 1e-12)

	// Once the history moves on to the next volume the normal flips to
	// point out of that volume, and a point is needed to find the facet.
	next, err := e.NextVolume(shared, volume(t, m, 1))
	require.NoError(t, err)
	_, err = e.RayFire(next, hit.Point, mgl64.Vec3{1, 0, 0}, h)
	require.NoError(t, err)

	_, err = e.GetAngle(shared, nil, h)
	assert.ErrorIs(t, err, ErrNoFacet)

	n, err = e.GetAngle(shared, &hit.Point, h)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(mgl64.Vec3{-1, 0, 0}), "got %v", n)
}

func TestGetAngle_ClosestFacet(t *testing.T) {
	m, err := mesh.Duct(1, 10, 4)
	e := newEngine(t, m, err)
	wall, ok := m.SurfaceByGlobalID(mesh.DuctWallNegY)
	require.True(t, ok)

	p := mgl64.Vec3{0.3, -1.2, 4.1}
	n, err := e.GetAngle(wall, &p, nil)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(mgl64.Vec3{0, -1, 0}), "got %v", n)

	facet, dist := e.closestFacet(wall, p)
	assert.InDelta(t, 0.2, dist, 1e-12)
	v0, v1, v2 := m.TriangleVertices(facet)
	for _, v := range []mgl64.Vec3{v0, v1, v2} {
		assert.InDelta(t, -1, v.Y(), 1e-12)
	}
}

func TestGetAngle_Errors(t *testing.T) {
	m, err := mesh.TripleBlock()
	e := newEngine(t, m, err)

	_, err = e.GetAngle(surface(t, m, 1), nil, nil)
	assert.ErrorIs(t, err, ErrNoFacet)
	_, err = e.GetAngle(volume(t, m, 1), &mgl64.Vec3{}, nil)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestIncidenceAngle(t *testing.T) {
	cases := []struct {
		name      string
		normal, d mgl64.Vec3
		want      float64
	}{
		{"head on", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, 0},
		{"forty five", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 1}, math.Pi / 4},
		{"grazing", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 3, 0}, math.Pi / 2},
		{"against", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-2, 0, 0}, math.Pi},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, IncidenceAngle(tc.normal, tc.d), 1e-12)
		})
	}
	assert.True(t, math.IsNaN(IncidenceAngle(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})))
}
