package rayfire

import (
	"errors"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
)

var (
	ErrInvalidHandle = mesh.ErrInvalidHandle
	ErrInvalidModel  = mesh.ErrInvalidModel

	// ErrUnresolvedTopology means a surface does not separate the given
	// volume from another one.
	ErrUnresolvedTopology = errors.New("unresolved volume topology")
	ErrNoFacet            = errors.New("no facet to take a normal from")
	ErrNotBuilt           = errors.New("acceleration structures not built")
	ErrInvalidConfig      = errors.New("invalid config")
)
