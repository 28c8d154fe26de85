package projection

import "github.com/go-gl/mathgl/mgl32"

// NewFlat creates a square screen of side 2*Radius placed Radius in front of each eye.
//
// Returns:
//   - Projection: the flat projection
func NewFlat() Projection {
	return &variant{
		kind:     ShapeFlat,
		distance: EyeDistance,
		surface:  flatSurface,
	}
}

func flatSurface(p Parameters, stack, column int) mgl32.Vec3 {
	u := float32(column) / float32(p.Half())
	v := float32(stack) / float32(p.Stacks)
	return mgl32.Vec3{p.Radius * (2*u - 1), p.Radius * (1 - 2*v), p.Radius}
}
