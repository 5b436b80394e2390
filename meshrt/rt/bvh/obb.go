package bvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OBB is an oriented bounding box. Axes holds three orthonormal columns.
type OBB struct {
	Center      mgl64.Vec3
	Axes        mgl64.Mat3
	HalfExtents mgl64.Vec3
}

func (b OBB) Axis(i int) mgl64.Vec3 {
	return b.Axes.Col(i)
}

// toLocal expresses a world vector in box coordinates.
func (b OBB) toLocal(v mgl64.Vec3) mgl64.Vec3 {
	return b.Axes.Transpose().Mul3x1(v)
}

// LongestAxis returns the index of the largest half extent.
func (b OBB) LongestAxis() int {
	axis := 0
	if b.HalfExtents[1] > b.HalfExtents[axis] {
		axis = 1
	}
	if b.HalfExtents[2] > b.HalfExtents[axis] {
		axis = 2
	}
	return axis
}

func (b OBB) Contains(p mgl64.Vec3, tol float64) bool {
	l := b.toLocal(p.Sub(b.Center))
	for i := 0; i < 3; i++ {
		if math.Abs(l[i]) > b.HalfExtents[i]+tol {
			return false
		}
	}
	return true
}

// Distance returns the distance from p to the box, zero inside it.
func (b OBB) Distance(p mgl64.Vec3) float64 {
	l := b.toLocal(p.Sub(b.Center))
	sum := 0.0
	for i := 0; i < 3; i++ {
		if d := math.Abs(l[i]) - b.HalfExtents[i]; d > 0 {
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

func (b OBB) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		p := b.Center
		for a := 0; a < 3; a++ {
			s := b.HalfExtents[a]
			if i&(1<<a) == 0 {
				s = -s
			}
			p = p.Add(b.Axis(a).Mul(s))
		}
		out[i] = p
	}
	return out
}

// IntersectRay clips the ray o + t*d against the box slabs and reports the
// parameter interval inside the box, limited to [tMin, tMax].
func (b OBB) IntersectRay(o, d mgl64.Vec3, tMin, tMax float64) (tEnter, tExit float64, ok bool) {
	lo := b.toLocal(o.Sub(b.Center))
	ld := b.toLocal(d)
	tEnter, tExit = tMin, tMax
	for i := 0; i < 3; i++ {
		h := b.HalfExtents[i]
		if ld[i] == 0 {
			if lo[i] < -h || lo[i] > h {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / ld[i]
		t1 := (-h - lo[i]) * inv
		t2 := (h - lo[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return 0, 0, false
		}
	}
	return tEnter, tExit, true
}
