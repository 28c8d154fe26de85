package surface

import (
	"time"

	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
)

// Snapshot is one immutable generation of a surface: the mesh plus the texture
// coordinates of every stereo mode for the same parameters.
// A snapshot is never modified after it is published; regeneration produces a new one.
type Snapshot struct {
	// Generation increases by one for every snapshot a Surface publishes.
	Generation uint64
	// Shape is the kind of the projection that produced the buffers.
	Shape projection.ShapeKind
	// Parameters are the parameters the buffers were generated from.
	Parameters projection.Parameters
	// Mesh holds the positions and triangle indices.
	Mesh projection.Mesh
	// TextureCoordinates holds one set per stereo mode, indexed by StereoMode.
	TextureCoordinates [len(projection.StereoModes)]projection.TextureCoordinateSet
	// Offsets are the camera offsets consistent with Mesh.
	Offsets projection.CameraOffsets
	// Elapsed is how long generation took.
	Elapsed time.Duration
}

// Generate builds a complete snapshot for the given projection and parameters.
// Parameters.Shape is set to the projection's kind. Generate is pure apart from timing and may run concurrently.
//
// Parameters:
//   - proj: the projection variant
//   - p: the projection parameters
//
// Returns:
//   - *Snapshot: the generated snapshot with Generation left at zero
func Generate(proj projection.Projection, p projection.Parameters) *Snapshot {
	start := time.Now()
	p.Shape = proj.Kind()
	s := &Snapshot{
		Shape:      proj.Kind(),
		Parameters: p,
		Mesh:       proj.GenerateMesh(p),
		Offsets:    proj.CameraOffsets(p),
	}
	for _, mode := range projection.StereoModes {
		s.TextureCoordinates[mode] = proj.MapUV(p, mode)
	}
	s.Elapsed = time.Since(start)
	return s
}

// TextureCoordinateSet returns the coordinates mapped for mode.
// An unknown mode yields an empty set.
//
// Parameters:
//   - mode: the stereo packing mode
//
// Returns:
//   - projection.TextureCoordinateSet: the coordinates for mode
func (s *Snapshot) TextureCoordinateSet(mode projection.StereoMode) projection.TextureCoordinateSet {
	if mode < 0 || int(mode) >= len(s.TextureCoordinates) {
		return projection.TextureCoordinateSet{Mode: mode}
	}
	return s.TextureCoordinates[mode]
}

// ActiveTextureCoordinates returns the coordinates for the snapshot's own stereo mode.
//
// Returns:
//   - projection.TextureCoordinateSet: the coordinates for Parameters.StereoMode
func (s *Snapshot) ActiveTextureCoordinates() projection.TextureCoordinateSet {
	return s.TextureCoordinateSet(s.Parameters.StereoMode)
}
