// Package intersect holds the single ray vs. single triangle tests used by the
// ray fire engine.
//
// Directions are expected to be unit length. Nothing here normalises them: a
// direction of length k scales every returned distance by 1/k.
package intersect

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is a ray/triangle crossing. T is the ray parameter; U and V are the
// barycentric weights of the second and third vertex.
type Hit struct {
	T    float64
	U, V float64
}

// W is the barycentric weight of the first vertex.
func (h Hit) W() float64 {
	return 1 - h.U - h.V
}

// clampT applies the distance window shared by both tests. Parameters just
// below tMin are clamped onto it so a crossing at the start of a segment is
// still reported.
func clampT(t, tMin, tMax, eps float64) (float64, bool) {
	if t > tMax || t < tMin-eps {
		return 0, false
	}
	if t < tMin {
		t = tMin
	}
	return t, true
}

// lexLess orders points so that every facet sharing an edge walks it the
// same way.
func lexLess(a, b mgl64.Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// pluckerEdge is the permuted inner product of the ray line (d, o x d) with
// the edge a->b. The edge is evaluated in canonical order and the sign flipped
// afterwards, so both facets sharing an edge see exactly opposite values.
func pluckerEdge(o, d, a, b mgl64.Vec3) float64 {
	flip := false
	if lexLess(b, a) {
		a, b = b, a
		flip = true
	}
	u := b.Sub(a)
	v := a.Cross(b)
	ray := o.Cross(d)
	p := d.Dot(v) + u.Dot(ray)
	if flip {
		return -p
	}
	return p
}

// Plucker intersects the ray o + t*d with triangle (v0, v1, v2) using
// Plücker coordinates. Edges and vertices count as inside, so a ray through
// a shared edge hits both adjacent facets and never slips between them.
// Rays lying in the plane of the triangle miss.
func Plucker(o, d, v0, v1, v2 mgl64.Vec3, tMin, tMax, eps float64) (Hit, bool) {
	p0 := pluckerEdge(o, d, v1, v2)
	p1 := pluckerEdge(o, d, v2, v0)
	p2 := pluckerEdge(o, d, v0, v1)

	if (p0 > 0 || p1 > 0 || p2 > 0) && (p0 < 0 || p1 < 0 || p2 < 0) {
		return Hit{}, false
	}
	sum := p0 + p1 + p2
	if sum == 0 {
		return Hit{}, false
	}

	w0, w1, w2 := p0/sum, p1/sum, p2/sum
	point := v0.Mul(w0).Add(v1.Mul(w1)).Add(v2.Mul(w2))
	t := point.Sub(o).Dot(d) / d.Dot(d)

	t, ok := clampT(t, tMin, tMax, eps)
	if !ok {
		return Hit{}, false
	}
	return Hit{T: t, U: w1, V: w2}, true
}

// MollerTrumbore intersects the ray o + t*d with triangle (v0, v1, v2).
// Barycentric bounds are widened by eps so rays through a shared edge are
// not lost to rounding. A determinant below eps relative to the facet size
// counts as a ray parallel to the plane and misses.
func MollerTrumbore(o, d, v0, v1, v2 mgl64.Vec3, tMin, tMax, eps float64) (Hit, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	h := d.Cross(e2)
	det := e1.Dot(h)

	if math.Abs(det) <= eps*e1.Cross(e2).Len() {
		return Hit{}, false
	}

	f := 1 / det
	s := o.Sub(v0)
	u := f * s.Dot(h)
	if u < -eps || u > 1+eps {
		return Hit{}, false
	}

	q := s.Cross(e1)
	v := f * d.Dot(q)
	if v < -eps || u+v > 1+eps {
		return Hit{}, false
	}

	t, ok := clampT(f*e2.Dot(q), tMin, tMax, eps)
	if !ok {
		return Hit{}, false
	}
	return Hit{T: t, U: u, V: v}, true
}
