package bvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayVisitor is called with the triangle indices of each leaf the ray
// enters. It returns the new far limit for the rest of the traversal.
type RayVisitor func(items []int32, tMax float64) float64

type stackEntry struct {
	node int32
	t    float64
}

// RayQuery walks every leaf whose box the ray o + t*d crosses inside
// [tMin, tMax], nearer child first. Boxes entered beyond the limit returned
// by visit are skipped.
func (t *Tree) RayQuery(o, d mgl64.Vec3, tMin, tMax float64, visit RayVisitor) {
	root := t.Root()
	if root < 0 {
		return
	}
	enter, _, ok := t.Nodes[root].Box.IntersectRay(o, d, tMin, tMax)
	if !ok {
		return
	}

	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{root, enter})
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.t > tMax {
			continue
		}

		n := &t.Nodes[e.node]
		if n.IsLeaf() {
			tMax = visit(t.Items[n.LeafFirst:n.LeafFirst+n.LeafCount], tMax)
			continue
		}

		tl, _, okl := t.Nodes[n.Left].Box.IntersectRay(o, d, tMin, tMax)
		tr, _, okr := t.Nodes[n.Right].Box.IntersectRay(o, d, tMin, tMax)
		switch {
		case okl && okr:
			if tl <= tr {
				stack = append(stack, stackEntry{n.Right, tr}, stackEntry{n.Left, tl})
			} else {
				stack = append(stack, stackEntry{n.Left, tl}, stackEntry{n.Right, tr})
			}
		case okl:
			stack = append(stack, stackEntry{n.Left, tl})
		case okr:
			stack = append(stack, stackEntry{n.Right, tr})
		}
	}
}

// ClosestVisitor receives leaf triangles and the current best distance and
// returns the improved best distance.
type ClosestVisitor func(items []int32, best float64) float64

// Closest visits leaves in order of box distance from p until no box can
// hold anything nearer than the best distance reported by visit.
func (t *Tree) Closest(p mgl64.Vec3, visit ClosestVisitor) {
	root := t.Root()
	if root < 0 {
		return
	}
	best := math.Inf(1)
	stack := []stackEntry{{root, t.Nodes[root].Box.Distance(p)}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.t > best {
			continue
		}

		n := &t.Nodes[e.node]
		if n.IsLeaf() {
			best = visit(t.Items[n.LeafFirst:n.LeafFirst+n.LeafCount], best)
			continue
		}

		dl := t.Nodes[n.Left].Box.Distance(p)
		dr := t.Nodes[n.Right].Box.Distance(p)
		if dl <= dr {
			stack = append(stack, stackEntry{n.Right, dr}, stackEntry{n.Left, dl})
		} else {
			stack = append(stack, stackEntry{n.Left, dl}, stackEntry{n.Right, dr})
		}
	}
}

type Stats struct {
	Nodes       int
	Leaves      int
	Triangles   int
	MaxDepth    int
	MaxLeafSize int
}

func (t *Tree) Stats() Stats {
	var s Stats
	if root := t.Root(); root >= 0 {
		t.collectStats(root, 1, &s)
	}
	return s
}

func (t *Tree) collectStats(idx int32, depth int, s *Stats) {
	n := &t.Nodes[idx]
	s.Nodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	if n.IsLeaf() {
		s.Leaves++
		s.Triangles += int(n.LeafCount)
		if int(n.LeafCount) > s.MaxLeafSize {
			s.MaxLeafSize = int(n.LeafCount)
		}
		return
	}
	t.collectStats(n.Left, depth+1, s)
	t.collectStats(n.Right, depth+1, s)
}
