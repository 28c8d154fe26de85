package projection

import "github.com/go-gl/mathgl/mgl32"

// EyeDistance is the horizontal gap pushing each eye's surface away from the origin
// so the two halves never overlap. Every built-in variant uses it.
const EyeDistance = float32(1000)

// variant is the single implementation behind every built-in shape.
// Shapes differ only in their surface function and pole handling.
type variant struct {
	kind     ShapeKind
	distance float32
	// pinched marks surfaces whose first and last rows collapse to a point.
	pinched bool
	surface surfaceFunc
}

// Projection is the capability set of one projection shape.
// Implementations are pure: every method is a deterministic function of its arguments
// and may be called concurrently.
type Projection interface {
	// Kind returns the registry key of this shape.
	//
	// Returns:
	//   - ShapeKind: the shape kind
	Kind() ShapeKind

	// Distance returns the eye separation constant shared by GenerateMesh and CameraOffsets.
	//
	// Returns:
	//   - float32: the distance in world units
	Distance() float32

	// GenerateMesh builds positions and triangle indices for both eye-halves.
	// Invalid parameters yield an empty Mesh.
	//
	// Parameters:
	//   - p: the projection parameters
	//
	// Returns:
	//   - Mesh: the generated mesh
	GenerateMesh(p Parameters) Mesh

	// MapUV builds the texture coordinates for one stereo packing mode,
	// in the vertex order produced by GenerateMesh.
	//
	// Parameters:
	//   - p: the projection parameters
	//   - mode: the stereo packing mode
	//
	// Returns:
	//   - TextureCoordinateSet: the per-vertex UVs
	MapUV(p Parameters, mode StereoMode) TextureCoordinateSet

	// CameraOffsets returns the per-eye camera positions consistent with GenerateMesh.
	//
	// Parameters:
	//   - p: the projection parameters
	//
	// Returns:
	//   - CameraOffsets: the left and right camera offsets
	CameraOffsets(p Parameters) CameraOffsets
}

var _ Projection = &variant{}

func (v *variant) Kind() ShapeKind {
	return v.kind
}

func (v *variant) Distance() float32 {
	return v.distance
}

func (v *variant) GenerateMesh(p Parameters) Mesh {
	if p.Validate() != nil {
		return Mesh{}
	}
	return Mesh{
		Positions:       buildPositions(p, v.CameraOffsets(p), v.surface),
		TriangleIndices: buildIndices(p, v.pinched),
	}
}

func (v *variant) MapUV(p Parameters, mode StereoMode) TextureCoordinateSet {
	return MapUV(p, mode)
}

func (v *variant) CameraOffsets(p Parameters) CameraOffsets {
	d := v.distance + p.Radius
	return CameraOffsets{
		Left:  mgl32.Vec3{d, 0, 0},
		Right: mgl32.Vec3{-d, 0, 0},
	}
}
