package projection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewDome creates the forward-facing dome: the front half of a sphere,
// from slice Slices/4 to 3*Slices/4, viewed from its centre.
//
// Returns:
//   - Projection: the dome projection
func NewDome() Projection {
	return &variant{
		kind:     ShapeDome,
		distance: EyeDistance,
		pinched:  true,
		surface:  domeSurface,
	}
}

func domeSurface(p Parameters, stack, column int) mgl32.Vec3 {
	y, scale := polarRing(p, stack)
	theta := azimuth(p, p.Slices/4+column)
	return mgl32.Vec3{scale * math32.Sin(theta), y, scale * math32.Cos(theta)}
}

// polarRing returns the height of a stack row and the signed radius of its cross-section.
func polarRing(p Parameters, stack int) (y, scale float32) {
	phi := math32.Pi/2 - float32(stack)*math32.Pi/float32(p.Stacks)
	return p.Radius * math32.Sin(phi), -p.Radius * math32.Cos(phi)
}

// azimuth converts a slice number into an angle around the Y axis.
func azimuth(p Parameters, slice int) float32 {
	return float32(slice) * 2 * math32.Pi / float32(p.Slices)
}
