package rayfire

import (
	"fmt"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
)

// NextVolume returns the volume on the other side of surface from the
// volume from. The outside volume is a valid answer for the outer boundary
// of the model.
func (e *Engine) NextVolume(surface, from mesh.EntityHandle) (mesh.EntityHandle, error) {
	s, err := e.model.Surface(surface)
	if err != nil {
		return 0, fmt.Errorf("next volume: %w", err)
	}
	if _, err := e.model.Volume(from); err != nil {
		return 0, fmt.Errorf("next volume: %w", err)
	}
	next, ok := s.Other(from)
	if !ok {
		return 0, fmt.Errorf("surface %d (forward %s, reverse %s) from %s: %w",
			s.GlobalID, s.Forward, s.Reverse, from, ErrUnresolvedTopology)
	}
	return next, nil
}
