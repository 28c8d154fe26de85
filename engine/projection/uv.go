package projection

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// uvFunc places a normalised lattice coordinate into one eye's region of the source frame.
// u and v are both in [0, 1].
type uvFunc func(eye common.Eye, u, v float32) mgl32.Vec2

// MapUV builds the texture coordinates for the given stereo packing mode.
// The result does not depend on the shape: every variant shares the same lattice order.
// Unknown modes and invalid parameters yield an empty set.
//
// Parameters:
//   - p: the projection parameters
//   - mode: the stereo packing mode
//
// Returns:
//   - TextureCoordinateSet: the per-vertex UVs, left eye-half first
func MapUV(p Parameters, mode StereoMode) TextureCoordinateSet {
	switch mode {
	case StereoModeMono:
		return mapMono(p)
	case StereoModeOverUnder:
		return mapOverUnder(p)
	case StereoModeSideBySide:
		return mapSideBySide(p)
	default:
		return TextureCoordinateSet{Mode: mode}
	}
}

// mapMono maps both eyes onto the whole frame.
func mapMono(p Parameters) TextureCoordinateSet {
	return traverseUV(p, StereoModeMono, func(_ common.Eye, u, v float32) mgl32.Vec2 {
		return mgl32.Vec2{u, v}
	})
}

// mapOverUnder maps the left eye to the top half of the frame and the right eye to the bottom half.
func mapOverUnder(p Parameters) TextureCoordinateSet {
	return traverseUV(p, StereoModeOverUnder, func(eye common.Eye, u, v float32) mgl32.Vec2 {
		if eye == common.EyeRight {
			return mgl32.Vec2{u, 0.5 + v/2}
		}
		return mgl32.Vec2{u, v / 2}
	})
}

// mapSideBySide maps the left eye to the left half of the frame and the right eye to the right half.
func mapSideBySide(p Parameters) TextureCoordinateSet {
	return traverseUV(p, StereoModeSideBySide, func(eye common.Eye, u, v float32) mgl32.Vec2 {
		if eye == common.EyeRight {
			return mgl32.Vec2{0.5 + u/2, v}
		}
		return mgl32.Vec2{u / 2, v}
	})
}

// traverseUV walks the lattice in mesh order with the slice counted down from Slices/2 to 0,
// so U decreases as the position column increases and the texture is not mirrored on screen.
func traverseUV(p Parameters, mode StereoMode, place uvFunc) TextureCoordinateSet {
	set := TextureCoordinateSet{Mode: mode}
	if p.Validate() != nil {
		return set
	}
	half := p.Half()
	set.UVs = make([]mgl32.Vec2, 0, p.VertexCount())
	for _, eye := range common.Eyes {
		for stack := 0; stack <= p.Stacks; stack++ {
			v := float32(stack) / float32(p.Stacks)
			for slice := half; slice >= 0; slice-- {
				u := float32(slice) / float32(half)
				set.UVs = append(set.UVs, place(eye, u, v))
			}
		}
	}
	return set
}
