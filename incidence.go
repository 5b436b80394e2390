package rayfire

import (
	"fmt"
	"math"

	"github.com/gekko3d/rayfire/meshrt/rt/intersect"
	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// GetAngle returns the unit normal of surface at a crossing. The facet is
// the last one history crossed on surface, otherwise the facet nearest to
// point. The normal points out of the volume history last fired in when
// that volume borders surface, otherwise out of the surface's forward
// volume.
func (e *Engine) GetAngle(surface mesh.EntityHandle, point *mgl64.Vec3, history *RayHistory) (mgl64.Vec3, error) {
	if !e.built() {
		return mgl64.Vec3{}, ErrNotBuilt
	}
	s, err := e.model.Surface(surface)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("get angle: %w", err)
	}

	facet := int32(-1)
	if history != nil {
		if last, ok := history.Last(); ok && last.Surface == surface {
			facet = last.Facet
		}
	}
	if facet < 0 && point != nil {
		facet, _ = e.closestFacet(surface, *point)
	}
	if facet < 0 {
		return mgl64.Vec3{}, fmt.Errorf("surface %d: %w", s.GlobalID, ErrNoFacet)
	}

	n := e.model.Triangles[facet].Normal
	if history != nil && e.model.SenseOf(surface, history.Volume()) == mesh.SenseReverse {
		n = n.Mul(-1)
	}
	return n, nil
}

// closestFacet returns the facet of surface nearest to p and its distance,
// or -1 for a surface without facets. Equidistant facets resolve to the
// lowest index.
func (e *Engine) closestFacet(surface mesh.EntityHandle, p mgl64.Vec3) (int32, float64) {
	s := &e.model.Surfaces[surface.Index()]
	best := int32(-1)
	bestDist := math.Inf(1)
	e.trees[surface.Index()].Closest(p, func(items []int32, limit float64) float64 {
		for _, it := range items {
			facet := s.Triangles[it]
			v0, v1, v2 := e.model.TriangleVertices(facet)
			d := intersect.ClosestPoint(p, v0, v1, v2).Sub(p).Len()
			if d < bestDist || (d == bestDist && facet < best) {
				best, bestDist = facet, d
			}
		}
		return bestDist
	})
	return best, bestDist
}

// IncidenceAngle is the angle in radians between a ray direction and a
// surface normal, in [0, pi].
func IncidenceAngle(normal, dir mgl64.Vec3) float64 {
	l := normal.Len() * dir.Len()
	if l == 0 {
		return math.NaN()
	}
	c := normal.Dot(dir) / l
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
