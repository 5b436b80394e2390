package bvh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// boxGrowth widens every box relative to its size so flat surfaces keep a
// closed slab under rounding.
const boxGrowth = 1e-9

// TriangleSource is what a tree is built over. Leaf items are indices in
// [0, Len()).
type TriangleSource interface {
	Len() int
	Vertices(i int) (v0, v1, v2 mgl64.Vec3)
}

type Settings struct {
	MaxLeafTriangles int
	Padding          float64
}

func DefaultSettings() Settings {
	return Settings{
		MaxLeafTriangles: 8,
		Padding:          1e-7,
	}
}

// Node is one entry of the tree arena. Interior nodes have Left and Right
// set and LeafCount 0; leaves have Left == Right == -1.
type Node struct {
	Box       OBB
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

type Tree struct {
	Nodes []Node
	Items []int32
}

// Root returns the root node index, or -1 for a tree over no triangles.
func (t *Tree) Root() int32 {
	if t == nil || len(t.Nodes) == 0 {
		return -1
	}
	return 0
}

func (t *Tree) Empty() bool {
	return t.Root() < 0
}

type item struct {
	index    int32
	v        [3]mgl64.Vec3
	centroid mgl64.Vec3
	area     float64
}

type TreeBuilder struct {
	Settings Settings
}

func NewTreeBuilder(s Settings) *TreeBuilder {
	if s.MaxLeafTriangles < 1 {
		s.MaxLeafTriangles = 1
	}
	return &TreeBuilder{Settings: s}
}

// Build returns an OBB tree over src. A source with no triangles gives an
// empty tree that every query misses.
func (b *TreeBuilder) Build(src TriangleSource) *Tree {
	n := src.Len()
	tree := &Tree{}
	if n == 0 {
		return tree
	}

	items := make([]item, n)
	for i := 0; i < n; i++ {
		v0, v1, v2 := src.Vertices(i)
		items[i] = item{
			index:    int32(i),
			v:        [3]mgl64.Vec3{v0, v1, v2},
			centroid: v0.Add(v1).Add(v2).Mul(1.0 / 3),
			area:     v1.Sub(v0).Cross(v2.Sub(v0)).Len() / 2,
		}
	}

	tree.Nodes = make([]Node, 0, 2*n/b.Settings.MaxLeafTriangles+1)
	tree.Items = make([]int32, 0, n)
	b.recursiveBuild(items, tree)
	return tree
}

func (b *TreeBuilder) recursiveBuild(items []item, tree *Tree) int32 {
	idx := int32(len(tree.Nodes))
	tree.Nodes = append(tree.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1})

	box := fitBox(items, b.Settings.Padding)
	tree.Nodes[idx].Box = box

	if len(items) <= b.Settings.MaxLeafTriangles {
		tree.Nodes[idx].LeafFirst = int32(len(tree.Items))
		tree.Nodes[idx].LeafCount = int32(len(items))
		for _, it := range items {
			tree.Items = append(tree.Items, it.index)
		}
		return idx
	}

	axis := box.Axis(box.LongestAxis())
	sort.Slice(items, func(i, j int) bool {
		return items[i].centroid.Dot(axis) < items[j].centroid.Dot(axis)
	})

	mid := len(items) / 2
	left := b.recursiveBuild(items[:mid], tree)
	right := b.recursiveBuild(items[mid:], tree)
	tree.Nodes[idx].Left = left
	tree.Nodes[idx].Right = right
	return idx
}

// fitBox encloses the triangles in a box aligned with the principal axes of
// their area distribution.
func fitBox(items []item, padding float64) OBB {
	axes := principalAxes(items)
	cols := [3]mgl64.Vec3{axes.Col(0), axes.Col(1), axes.Col(2)}

	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, it := range items {
		for _, p := range it.v {
			for a := 0; a < 3; a++ {
				d := p.Dot(cols[a])
				lo[a] = math.Min(lo[a], d)
				hi[a] = math.Max(hi[a], d)
			}
		}
	}

	size := hi.Sub(lo).Len()
	pad := padding + boxGrowth*(1+size)
	var center, half mgl64.Vec3
	for a := 0; a < 3; a++ {
		center = center.Add(cols[a].Mul((lo[a] + hi[a]) / 2))
		half[a] = (hi[a]-lo[a])/2 + pad
	}
	return OBB{Center: center, Axes: axes, HalfExtents: half}
}

// principalAxes returns the eigenvectors of the area weighted covariance of
// the triangles, falling back to the world axes when every triangle is
// degenerate or the decomposition fails.
func principalAxes(items []item) mgl64.Mat3 {
	var total float64
	var mean mgl64.Vec3
	var second [3][3]float64
	for _, it := range items {
		if it.area <= 0 {
			continue
		}
		total += it.area
		mean = mean.Add(it.centroid.Mul(it.area))

		// Second moment of a uniform triangle about the origin:
		// A/12 * (sum v v^T + 9 c c^T).
		w := it.area / 12
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				s := 9 * it.centroid[r] * it.centroid[c]
				for _, v := range it.v {
					s += v[r] * v[c]
				}
				second[r][c] += w * s
			}
		}
	}
	if total == 0 {
		return mgl64.Ident3()
	}
	mean = mean.Mul(1 / total)

	cov := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			cov.SetSym(r, c, second[r][c]/total-mean[r]*mean[c])
		}
	}

	var es mat.EigenSym
	if !es.Factorize(cov, true) {
		return mgl64.Ident3()
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	x := mgl64.Vec3{vecs.At(0, 0), vecs.At(1, 0), vecs.At(2, 0)}
	y := mgl64.Vec3{vecs.At(0, 1), vecs.At(1, 1), vecs.At(2, 1)}
	if x.Len() == 0 || y.Len() == 0 {
		return mgl64.Ident3()
	}
	x = x.Normalize()
	y = y.Sub(x.Mul(y.Dot(x)))
	if y.Len() < 1e-12 {
		return mgl64.Ident3()
	}
	y = y.Normalize()
	z := x.Cross(y)
	return mgl64.Mat3FromCols(x, y, z)
}
