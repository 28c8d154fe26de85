package projection

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the generated surface for both eyes.
// Positions hold the left eye-half followed by the right eye-half, each in row-major (stack, column) order.
// Mesh values are snapshots and are never mutated after generation.
type Mesh struct {
	// Positions are the world-space vertex positions.
	Positions []mgl32.Vec3
	// TriangleIndices reference Positions by 0-based offset, three per triangle.
	TriangleIndices []uint32
}

// TriangleCount returns the number of triangles in the mesh.
//
// Returns:
//   - int: len(TriangleIndices)/3
func (m Mesh) TriangleCount() int {
	return len(m.TriangleIndices) / 3
}

// Empty reports whether the mesh holds no triangles.
//
// Returns:
//   - bool: true if there is nothing to draw
func (m Mesh) Empty() bool {
	return len(m.TriangleIndices) == 0
}

// EyePositions returns the positions belonging to one eye-half.
//
// Parameters:
//   - eye: the eye-half to select
//
// Returns:
//   - []mgl32.Vec3: a sub-slice of Positions, empty if the mesh is empty
func (m Mesh) EyePositions(eye common.Eye) []mgl32.Vec3 {
	half := len(m.Positions) / 2
	if eye == common.EyeRight {
		return m.Positions[half:]
	}
	return m.Positions[:half]
}

// EyeIndexRange returns the [start, end) range of TriangleIndices drawn for one eye.
// Both eyes always contribute the same number of indices.
//
// Parameters:
//   - eye: the eye-half to select
//
// Returns:
//   - start: first index offset
//   - end: one past the last index offset
func (m Mesh) EyeIndexRange(eye common.Eye) (start, end int) {
	half := len(m.TriangleIndices) / 2
	if eye == common.EyeRight {
		return half, len(m.TriangleIndices)
	}
	return 0, half
}

// TextureCoordinateSet is the per-vertex UV buffer for one stereo packing mode.
// UVs share the length and vertex order of Mesh.Positions.
type TextureCoordinateSet struct {
	// Mode is the stereo packing mode the set was mapped for.
	Mode StereoMode
	// UVs are the texture coordinates, left eye-half first.
	UVs []mgl32.Vec2
}

// EyeUVs returns the coordinates belonging to one eye-half.
//
// Parameters:
//   - eye: the eye-half to select
//
// Returns:
//   - []mgl32.Vec2: a sub-slice of UVs
func (t TextureCoordinateSet) EyeUVs(eye common.Eye) []mgl32.Vec2 {
	half := len(t.UVs) / 2
	if eye == common.EyeRight {
		return t.UVs[half:]
	}
	return t.UVs[:half]
}

// Bounds returns the axis-aligned UV rectangle covered by one eye-half.
//
// Parameters:
//   - eye: the eye-half to measure
//
// Returns:
//   - lo: minimum (u, v)
//   - hi: maximum (u, v)
//   - ok: false if the eye-half holds no coordinates
func (t TextureCoordinateSet) Bounds(eye common.Eye) (lo, hi mgl32.Vec2, ok bool) {
	uvs := t.EyeUVs(eye)
	if len(uvs) == 0 {
		return lo, hi, false
	}
	lo, hi = uvs[0], uvs[0]
	for _, uv := range uvs[1:] {
		lo = mgl32.Vec2{min(lo[0], uv[0]), min(lo[1], uv[1])}
		hi = mgl32.Vec2{max(hi[0], uv[0]), max(hi[1], uv[1])}
	}
	return lo, hi, true
}

// CameraOffsets are the per-eye camera positions that match a generated mesh.
// Each offset is also the centre of that eye's surface before Parameters.Center is applied.
type CameraOffsets struct {
	Left  mgl32.Vec3
	Right mgl32.Vec3
}

// Eye returns the offset of one eye.
//
// Parameters:
//   - eye: the eye to select
//
// Returns:
//   - mgl32.Vec3: the camera offset
func (c CameraOffsets) Eye(eye common.Eye) mgl32.Vec3 {
	if eye == common.EyeRight {
		return c.Right
	}
	return c.Left
}
