package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Box faces in the order produced by BoxFace.
const (
	FaceNegX = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// BoxFace returns the corner and the two edge vectors of an axis-aligned box
// face. u x v points out of the box.
func BoxFace(min, max mgl64.Vec3, face int) (corner, u, v mgl64.Vec3) {
	d := max.Sub(min)
	dx, dy, dz := mgl64.Vec3{d.X(), 0, 0}, mgl64.Vec3{0, d.Y(), 0}, mgl64.Vec3{0, 0, d.Z()}
	switch face {
	case FaceNegX:
		return min, dz, dy
	case FacePosX:
		return mgl64.Vec3{max.X(), min.Y(), min.Z()}, dy, dz
	case FaceNegY:
		return min, dx, dz
	case FacePosY:
		return mgl64.Vec3{min.X(), max.Y(), min.Z()}, dz, dx
	case FaceNegZ:
		return min, dy, dx
	default:
		return mgl64.Vec3{min.X(), min.Y(), max.Z()}, dx, dy
	}
}

// AddGrid tessellates the parallelogram corner + s*u + t*v, s,t in [0,1],
// into n x n quads sharing vertices. Facet normals follow u x v.
func (b *Builder) AddGrid(surface EntityHandle, corner, u, v mgl64.Vec3, n int) {
	if n < 1 {
		n = 1
	}
	base := int32(len(b.vertices))
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			p := corner.Add(u.Mul(float64(i) / float64(n))).Add(v.Mul(float64(j) / float64(n)))
			b.AddVertex(p)
		}
	}
	idx := func(i, j int) int32 { return base + int32(j*(n+1)+i) }
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			b.AddTriangle(surface, idx(i, j), idx(i+1, j), idx(i+1, j+1))
			b.AddTriangle(surface, idx(i, j), idx(i+1, j+1), idx(i, j+1))
		}
	}
}

// AddSphere tessellates a UV sphere onto surface with outward facing normals.
func (b *Builder) AddSphere(surface EntityHandle, center mgl64.Vec3, radius float64, rings, segments int) {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	point := func(theta, phi float64) mgl64.Vec3 {
		return center.Add(mgl64.Vec3{
			radius * math.Sin(theta) * math.Cos(phi),
			radius * math.Sin(theta) * math.Sin(phi),
			radius * math.Cos(theta),
		})
	}

	north := b.AddVertex(center.Add(mgl64.Vec3{0, 0, radius}))
	ring := make([][]int32, rings-1)
	for r := 1; r < rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		ring[r-1] = make([]int32, segments)
		for s := 0; s < segments; s++ {
			ring[r-1][s] = b.AddVertex(point(theta, 2*math.Pi*float64(s)/float64(segments)))
		}
	}
	south := b.AddVertex(center.Add(mgl64.Vec3{0, 0, -radius}))

	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		b.AddTriangle(surface, north, ring[0][s], ring[0][next])
		for r := 0; r < rings-2; r++ {
			a, bb := ring[r][s], ring[r+1][s]
			c, d := ring[r+1][next], ring[r][next]
			b.AddTriangle(surface, a, bb, c)
			b.AddTriangle(surface, a, c, d)
		}
		b.AddTriangle(surface, ring[rings-2][s], south, ring[rings-2][next])
	}
}

// Box builds a single axis-aligned box volume with one surface per face.
func Box(min, max mgl64.Vec3) (*Model, error) {
	b := NewBuilder()
	vol := b.AddVolume(1)
	for face := FaceNegX; face <= FacePosZ; face++ {
		s := b.AddSurface(face+1, vol, 0)
		c, u, v := BoxFace(min, max, face)
		b.AddGrid(s, c, u, v, 1)
	}
	return b.Build()
}

// TripleBlock builds three 10x10x10 blocks stacked along +x. Volume 1 spans
// x in [-5,5], volume 2 [5,15] and volume 3 [15,25]; neighbouring blocks
// share the face between them.
func TripleBlock() (*Model, error) {
	b := NewBuilder()
	vols := [3]EntityHandle{b.AddVolume(1), b.AddVolume(2), b.AddVolume(3)}
	gid := 1
	for i, vol := range vols {
		x0 := -5 + 10*float64(i)
		min, max := mgl64.Vec3{x0, -5, -5}, mgl64.Vec3{x0 + 10, 5, 5}
		for face := FaceNegX; face <= FacePosZ; face++ {
			if face == FaceNegX && i > 0 {
				continue
			}
			var reverse EntityHandle
			if face == FacePosX && i < len(vols)-1 {
				reverse = vols[i+1]
			}
			s := b.AddSurface(gid, vol, reverse)
			gid++
			c, u, v := BoxFace(min, max, face)
			b.AddGrid(s, c, u, v, 1)
		}
	}
	return b.Build()
}

// Duct surface global ids.
const (
	DuctWallNegX = 1 + iota
	DuctWallPosX
	DuctWallNegY
	DuctWallPosY
	DuctBottom
	DuctTop
)

// Duct builds a square duct x,y in [-halfWidth,halfWidth], z in [0,length]
// as one volume closed at z=0 by DuctBottom and at z=length by DuctTop. The
// walls are tessellated into segments x segments quads.
func Duct(halfWidth, length float64, segments int) (*Model, error) {
	if halfWidth <= 0 || length <= 0 {
		return nil, fmt.Errorf("duct %gx%g: %w", halfWidth, length, ErrInvalidModel)
	}
	b := NewBuilder()
	vol := b.AddVolume(1)
	min, max := mgl64.Vec3{-halfWidth, -halfWidth, 0}, mgl64.Vec3{halfWidth, halfWidth, length}
	faces := []int{FaceNegX, FacePosX, FaceNegY, FacePosY, FaceNegZ, FacePosZ}
	for i, face := range faces {
		s := b.AddSurface(DuctWallNegX+i, vol, 0)
		n := segments
		if face == FaceNegZ || face == FacePosZ {
			n = 1
		}
		c, u, v := BoxFace(min, max, face)
		b.AddGrid(s, c, u, v, n)
	}
	return b.Build()
}

// ConcentricSpheres builds nested spheres centred at the origin. Volume i is
// the region between radii[i-1] and radii[i] (a ball for i = 1) and surface
// i is the sphere of radius radii[i-1].
func ConcentricSpheres(radii []float64, rings, segments int) (*Model, error) {
	if len(radii) == 0 {
		return nil, fmt.Errorf("no radii: %w", ErrInvalidModel)
	}
	rs := append([]float64(nil), radii...)
	sort.Float64s(rs)
	if rs[0] <= 0 {
		return nil, fmt.Errorf("radius %g: %w", rs[0], ErrInvalidModel)
	}

	b := NewBuilder()
	vols := make([]EntityHandle, len(rs))
	for i := range rs {
		vols[i] = b.AddVolume(i + 1)
	}
	for i, r := range rs {
		var outer EntityHandle
		if i+1 < len(vols) {
			outer = vols[i+1]
		}
		s := b.AddSurface(i+1, vols[i], outer)
		b.AddSphere(s, mgl64.Vec3{}, r, rings, segments)
	}
	return b.Build()
}
