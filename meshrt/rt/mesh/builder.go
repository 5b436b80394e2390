package mesh

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Builder assembles a Model. Errors are collected and reported by Build.
type Builder struct {
	vertices  []mgl64.Vec3
	triangles []Triangle
	surfaces  []Surface
	volumes   []Volume
	errs      []error
	built     bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddVolume(globalID int) EntityHandle {
	h := makeHandle(KindVolume, len(b.volumes))
	b.volumes = append(b.volumes, Volume{Handle: h, GlobalID: globalID})
	return h
}

// AddSurface creates a surface whose facet normals point out of forward and
// into reverse. Either side may be null; a null side of a surface with one
// declared volume becomes the outside volume at Build.
func (b *Builder) AddSurface(globalID int, forward, reverse EntityHandle) EntityHandle {
	h := makeHandle(KindSurface, len(b.surfaces))
	b.surfaces = append(b.surfaces, Surface{Handle: h, GlobalID: globalID})
	if !forward.IsNull() {
		b.SetSense(h, forward, SenseForward)
	}
	if !reverse.IsNull() {
		b.SetSense(h, reverse, SenseReverse)
	}
	return h
}

func (b *Builder) SetSense(surface, volume EntityHandle, sense Sense) {
	s, ok := b.surface(surface)
	if !ok {
		return
	}
	if volume.Kind() != KindVolume || volume.Index() < 0 || volume.Index() >= len(b.volumes) {
		b.errs = append(b.errs, fmt.Errorf("sense of %s refers to %s: %w", surface, volume, ErrInvalidHandle))
		return
	}
	switch sense {
	case SenseForward:
		s.Forward = volume
	case SenseReverse:
		s.Reverse = volume
	case SenseBoth:
		s.Forward, s.Reverse = volume, volume
	default:
		b.errs = append(b.errs, fmt.Errorf("sense %s for %s: %w", sense, surface, ErrInvalidModel))
	}
}

func (b *Builder) AddVertex(p mgl64.Vec3) int32 {
	b.vertices = append(b.vertices, p)
	return int32(len(b.vertices) - 1)
}

func (b *Builder) AddTriangle(surface EntityHandle, v0, v1, v2 int32) {
	if _, ok := b.surface(surface); !ok {
		return
	}
	b.triangles = append(b.triangles, Triangle{V: [3]int32{v0, v1, v2}, Surface: surface})
}

// AddQuad adds the planar quad p0..p3 as the triangles (p0,p1,p2) and
// (p0,p2,p3). The facet normal follows (p1-p0)x(p3-p0).
func (b *Builder) AddQuad(surface EntityHandle, p0, p1, p2, p3 mgl64.Vec3) {
	i0, i1, i2, i3 := b.AddVertex(p0), b.AddVertex(p1), b.AddVertex(p2), b.AddVertex(p3)
	b.AddTriangle(surface, i0, i1, i2)
	b.AddTriangle(surface, i0, i2, i3)
}

func (b *Builder) surface(h EntityHandle) (*Surface, bool) {
	if h.Kind() != KindSurface || h.Index() < 0 || h.Index() >= len(b.surfaces) {
		b.errs = append(b.errs, fmt.Errorf("surface %s: %w", h, ErrInvalidHandle))
		return nil, false
	}
	return &b.surfaces[h.Index()], true
}

// Build validates the collected entities, computes facet normals and areas
// and resolves volume senses. A builder builds at most one model; later
// calls fail with ErrInvalidModel.
func (b *Builder) Build() (*Model, error) {
	if b.built {
		return nil, fmt.Errorf("builder already used: %w", ErrInvalidModel)
	}
	b.built = true
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, errors.Join(b.errs...))
	}

	m := &Model{
		ID:          uuid.New(),
		Vertices:    slices.Clone(b.vertices),
		Triangles:   slices.Clone(b.triangles),
		Surfaces:    slices.Clone(b.surfaces),
		userVolumes: len(b.volumes),
	}

	nv := int32(len(b.vertices))
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for _, v := range t.V {
			if v < 0 || v >= nv {
				return nil, fmt.Errorf("triangle %d references vertex %d of %d: %w", i, v, nv, ErrInvalidModel)
			}
		}
		v0, v1, v2 := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		l := n.Len()
		t.Area = 0.5 * l
		if l > 0 {
			t.Normal = n.Mul(1 / l)
		}
		surf := &m.Surfaces[t.Surface.Index()]
		surf.Triangles = append(surf.Triangles, int32(i))
	}

	outside := makeHandle(KindVolume, len(b.volumes))
	m.outside = outside
	m.Volumes = append(slices.Clone(b.volumes), Volume{Handle: outside, Outside: true})
	for i := range m.Volumes {
		m.Volumes[i].Senses = make(map[EntityHandle]Sense)
	}

	for i := range m.Surfaces {
		s := &m.Surfaces[i]
		switch {
		case s.Forward.IsNull() && s.Reverse.IsNull():
			// Free-floating sheet: bounds nothing.
			continue
		case s.Forward.IsNull():
			s.Forward = outside
		case s.Reverse.IsNull():
			s.Reverse = outside
		}
		if s.Forward == s.Reverse {
			m.addSense(s.Forward, s.Handle, SenseBoth)
			continue
		}
		m.addSense(s.Forward, s.Handle, SenseForward)
		m.addSense(s.Reverse, s.Handle, SenseReverse)
	}

	return m, nil
}

// addSense runs in surface index order, which keeps Volume.Surfaces sorted.
func (m *Model) addSense(vol, surf EntityHandle, sense Sense) {
	v := &m.Volumes[vol.Index()]
	v.Surfaces = append(v.Surfaces, surf)
	v.Senses[surf] = sense
}
