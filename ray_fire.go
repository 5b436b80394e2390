package rayfire

import (
	"fmt"
	"math"

	"github.com/gekko3d/rayfire/meshrt/rt/intersect"
	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Orientation selects which facets a fire may report.
type Orientation int

const (
	// OrientExiting only reports facets the ray leaves the volume through.
	OrientExiting Orientation = iota
	// OrientAny reports the nearest facet crossed in either direction. A ray
	// turned back from the facet it just crossed, with its history reset,
	// then finds that facet again at distance zero.
	OrientAny
)

func (o Orientation) String() string {
	if o == OrientAny {
		return "any"
	}
	return "exiting"
}

type fireOptions struct {
	minDistance float64
	maxDistance float64
	plucker     bool
	orientation Orientation
}

type FireOption func(*fireOptions)

// WithMinDistance ignores crossings nearer than d.
func WithMinDistance(d float64) FireOption {
	return func(o *fireOptions) { o.minDistance = d }
}

// WithMaxDistance ignores crossings farther than d.
func WithMaxDistance(d float64) FireOption {
	return func(o *fireOptions) { o.maxDistance = d }
}

// WithPlucker selects the Plücker test (true, the default) or the
// Möller-Trumbore test.
func WithPlucker(on bool) FireOption {
	return func(o *fireOptions) { o.plucker = on }
}

// WithOrientation sets which facets count. The default, OrientExiting, keeps
// a reversed ray from re-reporting the facet under its origin even after the
// history is reset; OrientAny does not.
func WithOrientation(orient Orientation) FireOption {
	return func(o *fireOptions) { o.orientation = orient }
}

// Intersection is the result of a fire. Surface is null and Distance is
// +Inf when the ray crosses nothing.
type Intersection struct {
	Surface  mesh.EntityHandle
	Facet    int32
	Distance float64
	Point    mgl64.Vec3
	// U and V are the barycentric weights of the facet's second and third
	// vertex.
	U, V float64
}

func (i Intersection) Hit() bool {
	return !i.Surface.IsNull()
}

func miss() Intersection {
	return Intersection{Facet: -1, Distance: math.Inf(1)}
}

type candidate struct {
	surface mesh.EntityHandle
	facet   int32
	hit     intersect.Hit
}

func (c candidate) before(o candidate) bool {
	if c.surface.Index() != o.surface.Index() {
		return c.surface.Index() < o.surface.Index()
	}
	return c.facet < o.facet
}

// RayFire returns the nearest facet of volume's boundary crossed by the ray
// origin + t*dir, t >= 0. dir should be unit length; distances scale with
// its length otherwise.
//
// Crossings within the tie tolerance of the nearest one count as the same
// distance; among them the lowest surface index wins, then the lowest facet
// index. Facets the ray grazes are never reported. When history is given,
// crossings it already holds are skipped and the winner is recorded.
//
// A ray that leaves through nothing gives a miss with a nil error.
func (e *Engine) RayFire(volume mesh.EntityHandle, origin, dir mgl64.Vec3, history *RayHistory, opts ...FireOption) (Intersection, error) {
	if !e.built() {
		return miss(), ErrNotBuilt
	}
	vol, err := e.model.Volume(volume)
	if err != nil {
		return miss(), fmt.Errorf("ray fire: %w", err)
	}

	o := fireOptions{
		maxDistance: math.Inf(1),
		plucker:     true,
		orientation: OrientExiting,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if e.logger.DebugEnabled() && !intersect.IsUnit(dir, intersect.UnitTolerance) {
		e.logger.Warnf("ray fire from %v: direction %v is not unit length", origin, dir)
	}
	e.fires.Add(1)

	test := intersect.Plucker
	if !o.plucker {
		test = intersect.MollerTrumbore
	}
	eps := e.cfg.Epsilon
	tie := e.cfg.TieTolerance
	base := 0.0
	if history != nil {
		base = history.Base()
	}
	dirLen := dir.Len()

	nearest := math.Inf(1)
	var cands []candidate
	var leaves uint64

	for _, sh := range vol.Surfaces {
		surf := &e.model.Surfaces[sh.Index()]
		sense := vol.Senses[sh]

		limit := math.Min(o.maxDistance, nearest+tie)
		e.trees[sh.Index()].RayQuery(origin, dir, o.minDistance, limit, func(items []int32, tMax float64) float64 {
			leaves++
			for _, it := range items {
				facet := surf.Triangles[it]
				tri := &e.model.Triangles[facet]

				dn := dir.Dot(tri.Normal)
				if math.Abs(dn) <= eps*dirLen {
					continue
				}
				if o.orientation == OrientExiting && !exits(dn, sense) {
					continue
				}

				v0, v1, v2 := e.model.TriangleVertices(facet)
				h, ok := test(origin, dir, v0, v1, v2, o.minDistance, o.maxDistance, eps)
				if !ok || h.T > nearest+tie {
					continue
				}
				if history != nil && history.Excludes(sh, facet, base+h.T) {
					continue
				}
				cands = append(cands, candidate{surface: sh, facet: facet, hit: h})
				if h.T < nearest {
					nearest = h.T
				}
			}
			return math.Min(tMax, nearest+tie)
		})
	}

	e.leafVisits.Add(leaves)

	var best *candidate
	for i := range cands {
		c := &cands[i]
		if c.hit.T > nearest+tie {
			continue
		}
		if best == nil || c.before(*best) {
			best = c
		}
	}
	if best == nil {
		e.misses.Add(1)
		if history != nil {
			history.volume = volume
		}
		return miss(), nil
	}

	if history != nil {
		history.Record(best.surface, best.facet, base+best.hit.T)
		history.volume = volume
	}
	return Intersection{
		Surface:  best.surface,
		Facet:    best.facet,
		Distance: best.hit.T,
		Point:    origin.Add(dir.Mul(best.hit.T)),
		U:        best.hit.U,
		V:        best.hit.V,
	}, nil
}

// exits reports whether a ray with dir.normal == dn leaves a volume the
// facet bounds with the given sense.
func exits(dn float64, sense mesh.Sense) bool {
	switch sense {
	case mesh.SenseForward:
		return dn > 0
	case mesh.SenseReverse:
		return dn < 0
	case mesh.SenseBoth:
		return true
	}
	return false
}
