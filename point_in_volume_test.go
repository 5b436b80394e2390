package rayfire

import (
	"testing"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointInVolume_TripleBlock(t *testing.T) {
	m, err := mesh.TripleBlock()
	e := newEngine(t, m, err)
	v1, v2, v3 := volume(t, m, 1), volume(t, m, 2), volume(t, m, 3)

	cases := []struct {
		name  string
		vol   mesh.EntityHandle
		point mgl64.Vec3
		want  bool
	}{
		{"centre of v1", v1, mgl64.Vec3{0, 0, 0}, true},
		{"centre of v1 in v2", v2, mgl64.Vec3{0, 0, 0}, false},
		{"inside v2", v2, mgl64.Vec3{10, 1, 1}, true},
		{"v2 point in v1", v1, mgl64.Vec3{10, 1, 1}, false},
		{"corner region of v3", v3, mgl64.Vec3{24, 4.5, -4.5}, true},
		{"beyond the model", v1, mgl64.Vec3{30, 0, 0}, false},
		{"beyond the model is outside", m.Outside(), mgl64.Vec3{30, 0, 0}, true},
		{"inside is not outside", m.Outside(), mgl64.Vec3{0, 0, 0}, false},
		{"shared face counts for v1", v1, mgl64.Vec3{5, 1, 1}, true},
		{"shared face counts for v2", v2, mgl64.Vec3{5, 1, 1}, true},
		{"near the outer face", v1, mgl64.Vec3{-5.0005, 0, 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.PointInVolume(tc.vol, tc.point)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPointInVolume_NestedSpheres(t *testing.T) {
	m, err := mesh.ConcentricSpheres([]float64{1, 2}, 12, 16)
	e := newEngine(t, m, err)

	in, err := e.PointInVolume(volume(t, m, 2), mgl64.Vec3{0, 1.5, 0})
	require.NoError(t, err)
	assert.True(t, in)
	in, err = e.PointInVolume(volume(t, m, 2), mgl64.Vec3{0, 0.2, 0})
	require.NoError(t, err)
	assert.False(t, in)
}

func TestFindVolume(t *testing.T) {
	m, err := mesh.TripleBlock()
	e := newEngine(t, m, err)

	got, err := e.FindVolume(mgl64.Vec3{20, -1, 3})
	require.NoError(t, err)
	assert.Equal(t, volume(t, m, 3), got)

	got, err = e.FindVolume(mgl64.Vec3{-40, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, m.Outside(), got)

	_, err = e.PointInVolume(surface(t, m, 1), mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}
