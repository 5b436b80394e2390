package rayfire

import (
	"fmt"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// probeDirection is skewed so that it lines up with no edge or diagonal of
// axis aligned models.
var probeDirection = mgl64.Vec3{0.3487, 0.5215, 0.7787}.Normalize()

// PointInVolume reports whether point lies in volume. Points within
// NumericalPrecision of the boundary count as inside.
func (e *Engine) PointInVolume(volume mesh.EntityHandle, point mgl64.Vec3) (bool, error) {
	if !e.built() {
		return false, ErrNotBuilt
	}
	vol, err := e.model.Volume(volume)
	if err != nil {
		return false, fmt.Errorf("point in volume: %w", err)
	}

	for _, sh := range vol.Surfaces {
		if _, d := e.closestFacet(sh, point); d <= e.cfg.NumericalPrecision {
			return true, nil
		}
	}

	hit, err := e.RayFire(volume, point, probeDirection, nil, WithOrientation(OrientAny))
	if err != nil {
		return false, err
	}
	if !hit.Hit() {
		// Nothing around the point: only the outside volume is unbounded.
		return vol.Outside, nil
	}
	dn := probeDirection.Dot(e.model.Triangles[hit.Facet].Normal)
	return exits(dn, vol.Senses[hit.Surface]), nil
}

// FindVolume returns the first user volume containing point, or the outside
// volume.
func (e *Engine) FindVolume(point mgl64.Vec3) (mesh.EntityHandle, error) {
	for i := 0; i < e.model.NumVolumes(); i++ {
		h := e.model.Volumes[i].Handle
		in, err := e.PointInVolume(h, point)
		if err != nil {
			return 0, err
		}
		if in {
			return h, nil
		}
	}
	return e.model.Outside(), nil
}
