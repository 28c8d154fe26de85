package mesh_provider

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is returned when texture coordinates do not line up with the mesh positions.
var ErrLayoutMismatch = errors.New("texture coordinates do not match mesh positions")

// ErrNoStagedMesh is returned by Upload when it is given no staged mesh.
var ErrNoStagedMesh = errors.New("no staged mesh to upload")

// GPUVertex is the interleaved vertex layout uploaded to the vertex buffer.
// Size: 20 bytes, tightly packed.
//
//	@location(0) position: vec3<f32>
//	@location(1) uv: vec2<f32>
type GPUVertex struct {
	Position [3]float32 // offset  0
	UV       [2]float32 // offset 12
}

// VertexStride is the byte size of one GPUVertex.
const VertexStride = int(unsafe.Sizeof(GPUVertex{}))

// VertexBufferLayout describes GPUVertex to a render pipeline.
var VertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(VertexStride),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	},
}

// StagedMesh is a snapshot packed into GPU-ready bytes for one stereo mode.
type StagedMesh struct {
	// Label is used for the GPU buffer debug labels.
	Label string
	// Generation is the snapshot generation the bytes were packed from.
	Generation uint64
	// Mode is the stereo mode whose texture coordinates were interleaved.
	Mode projection.StereoMode
	// Vertices holds VertexStride bytes per vertex.
	Vertices []byte
	// Indices holds one little-endian uint32 per index.
	Indices []byte
	// IndexCount is the number of indices for the draw call.
	IndexCount int
}

// Stage packs a snapshot's positions and the texture coordinates of mode into interleaved vertex bytes.
//
// Parameters:
//   - snap: the snapshot to pack
//   - mode: the stereo mode whose coordinates are interleaved
//
// Returns:
//   - *StagedMesh: the packed buffers
//   - error: ErrLayoutMismatch if the coordinates do not match the positions
func Stage(snap *surface.Snapshot, mode projection.StereoMode) (*StagedMesh, error) {
	positions := snap.Mesh.Positions
	uvs := snap.TextureCoordinateSet(mode).UVs
	if len(uvs) != len(positions) {
		return nil, fmt.Errorf("%w: %d positions, %d %s coordinates", ErrLayoutMismatch, len(positions), len(uvs), mode)
	}

	vertices := make([]byte, len(positions)*VertexStride)
	off := 0
	for i, pos := range positions {
		off = common.PutFloat32s(vertices, off, pos[0], pos[1], pos[2], uvs[i][0], uvs[i][1])
	}

	indices := make([]byte, len(snap.Mesh.TriangleIndices)*4)
	copy(indices, common.SliceToBytes(snap.Mesh.TriangleIndices))

	return &StagedMesh{
		Label:      string(snap.Shape),
		Generation: snap.Generation,
		Mode:       mode,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: len(snap.Mesh.TriangleIndices),
	}, nil
}
