package rayfire

import (
	"math"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
)

// Crossing is one facet a ray passed through. Param is the path length
// from the start of the history to the crossing.
type Crossing struct {
	Surface mesh.EntityHandle
	Facet   int32
	Param   float64
}

// RayHistory remembers the most recent crossings along one particle track
// so the next fire from a crossing point does not find the same facet
// again at distance zero. It is owned by a single caller and is not safe
// for concurrent use.
type RayHistory struct {
	window    int
	tolerance float64
	entries   []Crossing
	volume    mesh.EntityHandle
}

// NewRayHistory keeps at most window crossings. Two crossings of the same
// facet match when their params differ by no more than tolerance.
func NewRayHistory(window int, tolerance float64) *RayHistory {
	if window < 1 {
		window = 1
	}
	return &RayHistory{
		window:    window,
		tolerance: tolerance,
		entries:   make([]Crossing, 0, window),
	}
}

// Reset forgets every crossing. Call it whenever the track changes
// direction, after a reflection for instance, or starts over.
func (h *RayHistory) Reset() {
	h.entries = h.entries[:0]
	h.volume = 0
}

// Record appends a crossing, dropping the oldest one beyond the window.
func (h *RayHistory) Record(surface mesh.EntityHandle, facet int32, param float64) {
	if len(h.entries) == h.window {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, Crossing{Surface: surface, Facet: facet, Param: param})
}

// Excludes reports whether a crossing of facet at param repeats a recorded
// one.
func (h *RayHistory) Excludes(surface mesh.EntityHandle, facet int32, param float64) bool {
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		if e.Surface == surface && e.Facet == facet && math.Abs(param-e.Param) <= h.tolerance {
			return true
		}
	}
	return false
}

// Base is the param of the latest crossing, zero for an empty history.
func (h *RayHistory) Base() float64 {
	if len(h.entries) == 0 {
		return 0
	}
	return h.entries[len(h.entries)-1].Param
}

func (h *RayHistory) Last() (Crossing, bool) {
	if len(h.entries) == 0 {
		return Crossing{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Rollback drops the latest crossing, for a track that turned back before
// leaving the volume.
func (h *RayHistory) Rollback() bool {
	if len(h.entries) == 0 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

func (h *RayHistory) Contains(surface mesh.EntityHandle, facet int32) bool {
	for _, e := range h.entries {
		if e.Surface == surface && e.Facet == facet {
			return true
		}
	}
	return false
}

func (h *RayHistory) Len() int {
	return len(h.entries)
}

// Volume is the volume of the last fire that used this history.
func (h *RayHistory) Volume() mesh.EntityHandle {
	return h.volume
}
