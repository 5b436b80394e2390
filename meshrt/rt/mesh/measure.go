package mesh

import (
	"fmt"
)

// SurfaceArea sums the facet areas of a surface.
func (m *Model) SurfaceArea(h EntityHandle) (float64, error) {
	s, err := m.Surface(h)
	if err != nil {
		return 0, err
	}
	area := 0.0
	for _, f := range s.Triangles {
		area += m.Triangles[f].Area
	}
	return area, nil
}

// EnclosedVolume integrates the volume bounded by vol's surfaces with the
// divergence theorem. A closed, correctly oriented volume gives a positive
// result. The outside volume gives the negated total of the model.
func (m *Model) EnclosedVolume(h EntityHandle) (float64, error) {
	vol, err := m.Volume(h)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, sh := range vol.Surfaces {
		sense := vol.Senses[sh]
		if sense == SenseBoth {
			// Contributions from both sides cancel.
			continue
		}
		sum := 0.0
		for _, f := range m.Surfaces[sh.Index()].Triangles {
			v0, v1, v2 := m.TriangleVertices(f)
			sum += v0.Dot(v1.Cross(v2))
		}
		total += float64(sense) * sum / 6
	}
	return total, nil
}

// CheckOrientation reports an error when vol encloses a non-positive volume,
// which means its facet normals disagree with the declared senses.
func (m *Model) CheckOrientation(h EntityHandle) error {
	v, err := m.EnclosedVolume(h)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("volume %s encloses %g: %w", h, v, ErrInvalidModel)
	}
	return nil
}
