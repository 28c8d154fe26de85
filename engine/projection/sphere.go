package projection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewSphere creates a full sphere. It starts at the same azimuth as the dome and
// steps two slices per column so Slices/2 columns wrap the whole circle.
//
// Returns:
//   - Projection: the sphere projection
func NewSphere() Projection {
	return &variant{
		kind:     ShapeSphere,
		distance: EyeDistance,
		pinched:  true,
		surface:  sphereSurface,
	}
}

func sphereSurface(p Parameters, stack, column int) mgl32.Vec3 {
	y, scale := polarRing(p, stack)
	theta := azimuth(p, p.Slices/4+2*column)
	return mgl32.Vec3{scale * math32.Sin(theta), y, scale * math32.Cos(theta)}
}
