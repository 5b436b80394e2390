package intersect

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrZeroDirection = errors.New("zero-length ray direction")

// UnitTolerance is the default allowed deviation of |d| from 1.
const UnitTolerance = 1e-9

// Normalize returns v scaled to unit length. Callers normalise ray
// directions with it before firing.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, error) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, ErrZeroDirection
	}
	return v.Mul(1 / l), nil
}

// IsUnit reports whether |v| is within tol of 1.
func IsUnit(v mgl64.Vec3, tol float64) bool {
	return math.Abs(v.LenSqr()-1) <= 2*tol
}

// Reflect mirrors d about the plane with unit normal n.
func Reflect(d, n mgl64.Vec3) mgl64.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}
