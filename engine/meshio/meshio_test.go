package meshio

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domeSnapshot(t *testing.T) *surface.Snapshot {
	t.Helper()
	p := projection.NewParameters(
		projection.WithSlices(16),
		projection.WithStacks(16),
		projection.WithCenter(0, 1.5, -2),
		projection.WithStereoMode(projection.StereoModeSideBySide),
	)
	snap := surface.Generate(projection.NewDome(), p)
	snap.Generation = 7
	snap.Elapsed = 0
	return snap
}

func TestEncodeDecodeDome(t *testing.T) {
	snap := domeSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	assert.Equal(t, uint32(MagicNumberPSF), binary.LittleEndian.Uint32(buf.Bytes()))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
	assert.Len(t, decoded.Mesh.Positions, 306)
	assert.Equal(t, float32(1001), decoded.Offsets.Left.X())
}

func TestEncodeDecodeCompressed(t *testing.T) {
	snap := domeSnapshot(t)

	var plain, packed bytes.Buffer
	require.NoError(t, Encode(&plain, snap))
	require.NoError(t, Encode(&packed, snap, WithCompression(lz4.Level5)))
	assert.Equal(t, lz4header, packed.Bytes()[:4])
	assert.Less(t, packed.Len(), plain.Len())

	decoded, err := Decode(&packed)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestEncodeSelectedStereoModes(t *testing.T) {
	snap := domeSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap, WithStereoModes(projection.StereoModeOverUnder, projection.StereoModeOverUnder, projection.StereoMode(9))))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.TextureCoordinates[projection.StereoModeOverUnder], decoded.TextureCoordinates[projection.StereoModeOverUnder])
	assert.Empty(t, decoded.TextureCoordinates[projection.StereoModeMono].UVs)
	assert.Empty(t, decoded.TextureCoordinates[projection.StereoModeSideBySide].UVs)
	assert.Equal(t, projection.StereoModeSideBySide, decoded.TextureCoordinates[projection.StereoModeSideBySide].Mode)
}

func TestEncodeDecodeEmptyMesh(t *testing.T) {
	snap := surface.Generate(projection.NewFlat(), projection.NewParameters(projection.WithStacks(0)))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, decoded.Mesh.Empty())
	assert.Equal(t, projection.ShapeFlat, decoded.Shape)
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	var good bytes.Buffer
	require.NoError(t, Encode(&good, domeSnapshot(t)))
	data := good.Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		err    error
	}{
		{"empty", func([]byte) []byte { return nil }, ErrCorrupt},
		{"bad magic", func(b []byte) []byte { b[0] ^= 0xff; return b }, ErrCorrupt},
		{"oversized shape name", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[16:], 1<<30); return b }, ErrCorrupt},
		{"future version", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[4:], FormatVersion+1); return b }, ErrUnsupportedVersion},
		{"vertex count mismatch", func(b []byte) []byte {
			off := binary.Size(fileHeader{}) - 12
			binary.LittleEndian.PutUint32(b[off:], 305)
			return b
		}, ErrCorrupt},
		{"truncated", func(b []byte) []byte { return b[:len(b)-10] }, ErrCorrupt},
		{"index out of range", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[len(b)-4:], 306)
			return b
		}, ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(bytes.Clone(data))
			_, err := Decode(bytes.NewReader(b))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecodeRejectsOversizedShapeNameBeforeAllocating(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, fileHeader{
		Check:       MagicNumberPSF,
		Version:     FormatVersion,
		ShapeLength: 1 << 30,
	}))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Decode(bytes.NewReader(buf.Bytes()))
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorContains(t, err, "shape name")
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestEncodeRejectsLongShapeName(t *testing.T) {
	snap := domeSnapshot(t)
	snap.Shape = projection.ShapeKind(bytes.Repeat([]byte("x"), MaxShapeLength+1))

	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, snap))
}

func TestSaveLoadFile(t *testing.T) {
	snap := domeSnapshot(t)
	path := filepath.Join(t.TempDir(), "dome.psf")

	require.NoError(t, SaveFile(path, snap, WithCompression(lz4.Fast)))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.psf"))
	assert.Error(t, err)
}
