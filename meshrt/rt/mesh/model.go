package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	ErrInvalidModel  = errors.New("invalid model")
	ErrInvalidHandle = errors.New("invalid entity handle")
)

// Triangle is a single facet. V indexes Model.Vertices. Normal points out of
// the owning surface's forward volume.
type Triangle struct {
	V       [3]int32
	Normal  mgl64.Vec3
	Area    float64
	Surface EntityHandle
}

type Surface struct {
	Handle    EntityHandle
	GlobalID  int
	Triangles []int32
	Forward   EntityHandle
	Reverse   EntityHandle
}

// Other returns the volume on the opposite side of from.
func (s *Surface) Other(from EntityHandle) (EntityHandle, bool) {
	if from.IsNull() {
		return 0, false
	}
	switch from {
	case s.Forward:
		if s.Reverse.IsNull() || s.Reverse == s.Forward {
			return 0, false
		}
		return s.Reverse, true
	case s.Reverse:
		if s.Forward.IsNull() {
			return 0, false
		}
		return s.Forward, true
	}
	return 0, false
}

type Volume struct {
	Handle   EntityHandle
	GlobalID int
	// Surfaces is sorted by arena index.
	Surfaces []EntityHandle
	Senses   map[EntityHandle]Sense
	Outside  bool
}

// Model is an immutable triangulated boundary representation.
type Model struct {
	ID        uuid.UUID
	Vertices  []mgl64.Vec3
	Triangles []Triangle
	Surfaces  []Surface
	Volumes   []Volume

	userVolumes int
	outside     EntityHandle
}

// Outside returns the implicit complement volume: everything not enclosed by
// a user volume.
func (m *Model) Outside() EntityHandle {
	return m.outside
}

func (m *Model) NumSurfaces() int { return len(m.Surfaces) }

// NumVolumes excludes the outside volume.
func (m *Model) NumVolumes() int { return m.userVolumes }

// EntityByKindAndIndex looks up a surface or user volume by its 1-based
// creation index.
func (m *Model) EntityByKindAndIndex(kind Kind, index int) (EntityHandle, error) {
	switch kind {
	case KindSurface:
		if index >= 1 && index <= len(m.Surfaces) {
			return m.Surfaces[index-1].Handle, nil
		}
	case KindVolume:
		if index >= 1 && index <= m.userVolumes {
			return m.Volumes[index-1].Handle, nil
		}
	default:
		return 0, fmt.Errorf("lookup of %s entities: %w", kind, ErrInvalidHandle)
	}
	return 0, fmt.Errorf("no %s with index %d: %w", kind, index, ErrInvalidHandle)
}

func (m *Model) SurfaceByGlobalID(id int) (EntityHandle, bool) {
	for i := range m.Surfaces {
		if m.Surfaces[i].GlobalID == id {
			return m.Surfaces[i].Handle, true
		}
	}
	return 0, false
}

func (m *Model) VolumeByGlobalID(id int) (EntityHandle, bool) {
	for i := 0; i < m.userVolumes; i++ {
		if m.Volumes[i].GlobalID == id {
			return m.Volumes[i].Handle, true
		}
	}
	return 0, false
}

func (m *Model) Surface(h EntityHandle) (*Surface, error) {
	if h.Kind() != KindSurface || h.Index() < 0 || h.Index() >= len(m.Surfaces) {
		return nil, fmt.Errorf("surface %s: %w", h, ErrInvalidHandle)
	}
	return &m.Surfaces[h.Index()], nil
}

func (m *Model) Volume(h EntityHandle) (*Volume, error) {
	if h.Kind() != KindVolume || h.Index() < 0 || h.Index() >= len(m.Volumes) {
		return nil, fmt.Errorf("volume %s: %w", h, ErrInvalidHandle)
	}
	return &m.Volumes[h.Index()], nil
}

// SenseOf reports the sense of surface s with respect to volume vol.
func (m *Model) SenseOf(s, vol EntityHandle) Sense {
	surf, err := m.Surface(s)
	if err != nil {
		return SenseUnknown
	}
	switch {
	case surf.Forward == vol && surf.Reverse == vol:
		return SenseBoth
	case surf.Forward == vol:
		return SenseForward
	case surf.Reverse == vol:
		return SenseReverse
	}
	return SenseUnknown
}

func (m *Model) TriangleVertices(facet int32) (v0, v1, v2 mgl64.Vec3) {
	t := &m.Triangles[facet]
	return m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
}

// SurfaceTriangles adapts one surface's facets to an indexed triangle list.
type SurfaceTriangles struct {
	Model   *Model
	Surface *Surface
}

func (st SurfaceTriangles) Len() int {
	return len(st.Surface.Triangles)
}

func (st SurfaceTriangles) Vertices(i int) (v0, v1, v2 mgl64.Vec3) {
	return st.Model.TriangleVertices(st.Surface.Triangles[i])
}
