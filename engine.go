// Package rayfire finds where rays leave the volumes of a triangulated
// boundary-representation model.
//
// An Engine wraps an immutable mesh.Model and one OBB tree per surface.
// Once built it is safe for concurrent use; a RayHistory belongs to one
// caller.
package rayfire

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gekko3d/rayfire/meshrt/rt/app"
	"github.com/gekko3d/rayfire/meshrt/rt/bvh"
	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
)

type Engine struct {
	model    *mesh.Model
	cfg      Config
	logger   Logger
	trees    []*bvh.Tree
	profiler *app.Profiler

	fires      atomic.Uint64
	misses     atomic.Uint64
	leafVisits atomic.Uint64
}

// NewEngine wraps model without building trees. Most callers use
// EngineBuilder instead.
func NewEngine(model *mesh.Model, cfg Config, logger Logger) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model: %w", ErrInvalidModel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if ml, ok := logger.(modelLogger); ok {
		logger = ml.ForModel(model.ID)
	}
	return &Engine{
		model:    model,
		cfg:      cfg,
		logger:   logger,
		profiler: app.NewProfiler(),
	}, nil
}

// BuildAccelerationStructures builds one tree per surface. It must finish
// before the first fire and must not run concurrently with one.
func (e *Engine) BuildAccelerationStructures() error {
	e.profiler.Reset()
	e.profiler.BeginScope("build")
	defer e.profiler.EndScope("build")

	builder := bvh.NewTreeBuilder(e.cfg.treeSettings())
	trees := make([]*bvh.Tree, len(e.model.Surfaces))
	for i := range e.model.Surfaces {
		s := &e.model.Surfaces[i]
		e.profiler.Time("tree", func() {
			trees[i] = builder.Build(mesh.SurfaceTriangles{Model: e.model, Surface: s})
		})

		st := trees[i].Stats()
		e.profiler.AddCount("nodes", st.Nodes)
		e.profiler.AddCount("leaves", st.Leaves)
		e.profiler.AddCount("facets", st.Triangles)
		if st.Triangles == 0 {
			e.logger.Warnf("surface %d has no facets", s.GlobalID)
		}
		e.logger.Debugf("surface %d tree: %d nodes, %d leaves, depth %d",
			s.GlobalID, st.Nodes, st.Leaves, st.MaxDepth)
	}
	e.trees = trees
	e.profiler.SetCount("surfaces", len(trees))

	for i := 0; i < e.model.NumVolumes(); i++ {
		v := &e.model.Volumes[i]
		if err := e.model.CheckOrientation(v.Handle); err != nil {
			e.logger.Warnf("volume %d: %v", v.GlobalID, err)
		}
	}
	return nil
}

func (e *Engine) built() bool {
	return e.trees != nil
}

func (e *Engine) Model() *mesh.Model {
	return e.model
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Tree returns the OBB tree of a surface.
func (e *Engine) Tree(surface mesh.EntityHandle) (*bvh.Tree, error) {
	if !e.built() {
		return nil, ErrNotBuilt
	}
	if _, err := e.model.Surface(surface); err != nil {
		return nil, err
	}
	return e.trees[surface.Index()], nil
}

// NewRayHistory returns a history sized by the engine config.
func (e *Engine) NewRayHistory() *RayHistory {
	return NewRayHistory(e.cfg.HistoryWindow, e.cfg.HistoryTolerance)
}

// BuildReport is the profiler summary of the last tree build.
func (e *Engine) BuildReport() string {
	return e.profiler.GetStatsString()
}

// BuildTime is the wall time of the last tree build.
func (e *Engine) BuildTime() time.Duration {
	return e.profiler.Total("build")
}

type Stats struct {
	Fires  uint64
	Misses uint64

	// LeafVisits counts tree leaves whose facets were tested by fires.
	LeafVisits uint64

	Surfaces int
	Nodes    int
	Facets   int
}

func (e *Engine) Stats() Stats {
	s := Stats{
		Fires:      e.fires.Load(),
		Misses:     e.misses.Load(),
		LeafVisits: e.leafVisits.Load(),
		Surfaces:   len(e.trees),
	}
	for _, t := range e.trees {
		ts := t.Stats()
		s.Nodes += ts.Nodes
		s.Facets += ts.Triangles
	}
	return s
}

// MeasureVolume is the volume enclosed by vol.
func (e *Engine) MeasureVolume(vol mesh.EntityHandle) (float64, error) {
	return e.model.EnclosedVolume(vol)
}

func (e *Engine) MeasureArea(surface mesh.EntityHandle) (float64, error) {
	return e.model.SurfaceArea(surface)
}
