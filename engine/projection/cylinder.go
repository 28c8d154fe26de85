package projection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewCylinder creates the front half of an open cylinder of height 2*Radius.
//
// Returns:
//   - Projection: the cylinder projection
func NewCylinder() Projection {
	return &variant{
		kind:     ShapeCylinder,
		distance: EyeDistance,
		surface: func(p Parameters, stack, column int) mgl32.Vec3 {
			return ringPoint(p, stack, column, p.Radius)
		},
	}
}

// NewBarrel creates the front half of a cylinder whose radius bulges to Radius
// at the equator and narrows to 0.75*Radius at the rims.
//
// Returns:
//   - Projection: the barrel projection
func NewBarrel() Projection {
	return &variant{
		kind:     ShapeBarrel,
		distance: EyeDistance,
		surface: func(p Parameters, stack, column int) mgl32.Vec3 {
			v := float32(stack) / float32(p.Stacks)
			return ringPoint(p, stack, column, p.Radius*(0.75+0.25*math32.Sin(v*math32.Pi)))
		},
	}
}

// ringPoint places a point of the front half band on a vertical ring of the given radius.
// Height runs linearly from +Radius at stack 0 to -Radius at the last stack.
func ringPoint(p Parameters, stack, column int, radius float32) mgl32.Vec3 {
	v := float32(stack) / float32(p.Stacks)
	theta := azimuth(p, p.Slices/4+column)
	return mgl32.Vec3{
		-radius * math32.Sin(theta),
		p.Radius * (1 - 2*v),
		-radius * math32.Cos(theta),
	}
}
