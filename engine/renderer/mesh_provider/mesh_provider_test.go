package mesh_provider

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float32At(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestVertexStride(t *testing.T) {
	assert.Equal(t, 20, VertexStride)
	assert.Equal(t, uint64(20), VertexBufferLayout.ArrayStride)
}

func TestStageInterleavesPositionsAndCoordinates(t *testing.T) {
	p := projection.NewParameters(projection.WithSlices(16), projection.WithStacks(16))
	snap := surface.Generate(projection.NewDome(), p)

	for _, mode := range projection.StereoModes {
		staged, err := Stage(snap, mode)
		require.NoError(t, err)

		assert.Equal(t, mode, staged.Mode)
		assert.Equal(t, "dome", staged.Label)
		assert.Len(t, staged.Vertices, 306*VertexStride)
		assert.Len(t, staged.Indices, 1440*4)
		assert.Equal(t, 1440, staged.IndexCount)

		uvs := snap.TextureCoordinateSet(mode).UVs
		for _, i := range []int{0, 7, 152, 153, 305} {
			off := i * VertexStride
			assert.Equal(t, snap.Mesh.Positions[i][0], float32At(staged.Vertices, off))
			assert.Equal(t, snap.Mesh.Positions[i][1], float32At(staged.Vertices, off+4))
			assert.Equal(t, snap.Mesh.Positions[i][2], float32At(staged.Vertices, off+8))
			assert.Equal(t, uvs[i][0], float32At(staged.Vertices, off+12))
			assert.Equal(t, uvs[i][1], float32At(staged.Vertices, off+16))
		}
		assert.Equal(t, snap.Mesh.TriangleIndices[5], binary.LittleEndian.Uint32(staged.Indices[20:]))
	}
}

func TestStageRejectsMismatchedCoordinates(t *testing.T) {
	snap := surface.Generate(projection.NewFlat(), projection.DefaultParameters())
	snap.TextureCoordinates[projection.StereoModeOverUnder].UVs = snap.TextureCoordinates[projection.StereoModeOverUnder].UVs[:3]

	_, err := Stage(snap, projection.StereoModeOverUnder)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestStageEmptyMesh(t *testing.T) {
	p := projection.NewParameters(projection.WithSlices(2))
	snap := surface.Generate(projection.NewDome(), p)

	staged, err := Stage(snap, projection.StereoModeMono)
	require.NoError(t, err)
	assert.Empty(t, staged.Vertices)
	assert.Zero(t, staged.IndexCount)
}

func TestDrawRangeSplitsEyes(t *testing.T) {
	first, count := drawRange(1440, common.EyeLeft)
	assert.Equal(t, uint32(0), first)
	assert.Equal(t, uint32(720), count)

	first, count = drawRange(1440, common.EyeRight)
	assert.Equal(t, uint32(720), first)
	assert.Equal(t, uint32(720), count)
}

func TestDrawRangeMatchesMeshEyeRanges(t *testing.T) {
	p := projection.NewParameters(projection.WithSlices(32), projection.WithStacks(12))
	mesh := projection.NewSphere().GenerateMesh(p)

	for _, eye := range common.Eyes {
		start, end := mesh.EyeIndexRange(eye)
		first, count := drawRange(len(mesh.TriangleIndices), eye)
		assert.Equal(t, uint32(start), first, eye.String())
		assert.Equal(t, uint32(end-start), count, eye.String())
	}
}

func TestProviderStartsEmpty(t *testing.T) {
	p := NewMeshProvider("Projection", WithGeneration(4))

	assert.Equal(t, "Projection", p.Label())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
	assert.Zero(t, p.IndexCount())
	assert.Equal(t, uint64(4), p.Generation())

	first, count := p.DrawRange(common.EyeRight)
	assert.Zero(t, first)
	assert.Zero(t, count)

	require.NoError(t, p.Upload(nil, nil, &StagedMesh{Generation: 5}))
	assert.Equal(t, uint64(5), p.Generation())
	p.Release()
	assert.Zero(t, p.Generation())
}

func TestUploadRejectsMissingMesh(t *testing.T) {
	p := NewMeshProvider("Projection", WithGeneration(4))

	err := p.Upload(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoStagedMesh)
	assert.Contains(t, err.Error(), "Projection")
	assert.Equal(t, uint64(4), p.Generation())
	assert.Nil(t, p.VertexBuffer())
}
