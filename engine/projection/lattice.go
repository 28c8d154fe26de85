package projection

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// surfaceFunc returns the position of lattice point (stack, column) relative to its eye centre.
// column runs over [0, Slices/2].
type surfaceFunc func(p Parameters, stack, column int) mgl32.Vec3

// buildPositions evaluates the surface over both eye-halves, left first.
// p must be valid.
func buildPositions(p Parameters, offsets CameraOffsets, surface surfaceFunc) []mgl32.Vec3 {
	columns := p.Half() + 1
	positions := make([]mgl32.Vec3, 0, p.VertexCount())
	for _, eye := range common.Eyes {
		eyeCenter := offsets.Eye(eye)
		for stack := 0; stack <= p.Stacks; stack++ {
			for column := 0; column < columns; column++ {
				pos := surface(p, stack, column).Add(eyeCenter)
				positions = append(positions, pos.Add(p.Center))
			}
		}
	}
	return positions
}

// buildIndices emits two triangles per lattice cell for both eye-halves.
// When pinched is set the first band's upper triangle and the last band's lower
// triangle are skipped, since those rows collapse onto the poles.
// p must be valid.
func buildIndices(p Parameters, pinched bool) []uint32 {
	half := p.Half()
	columns := half + 1
	bands := p.Stacks
	if pinched {
		bands--
	}
	indices := make([]uint32, 0, 2*2*3*half*max(bands, 0))
	for eye := range common.Eyes {
		base := eye * p.EyeVertexCount()
		for stack := 0; stack < p.Stacks; stack++ {
			top := uint32(base + stack*columns)
			bot := top + uint32(columns)
			for s := uint32(0); s < uint32(half); s++ {
				if !pinched || stack != 0 {
					indices = append(indices, top+s, bot+s, top+s+1)
				}
				if !pinched || stack != p.Stacks-1 {
					indices = append(indices, top+s+1, bot+s, bot+s+1)
				}
			}
		}
	}
	return indices
}
