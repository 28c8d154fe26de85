package meshio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"
)

const (
	// MagicNumberLZ4 is the little-endian lz4 frame magic number.
	MagicNumberLZ4 = 0x184d2204
	// MagicNumberPSF marks an uncompressed projection surface file.
	MagicNumberPSF = 0x7a5f3e91
	// FormatVersion is the layout version written by Encode.
	FormatVersion = 1
	// MaxShapeLength bounds the stored shape name.
	MaxShapeLength = 64
)

var lz4header = []byte{0x04, 0x22, 0x4d, 0x18}

var (
	// ErrCorrupt is returned when a file does not follow the surface format.
	ErrCorrupt = errors.New("corrupt surface file")
	// ErrUnsupportedVersion is returned for files written by a newer format version.
	ErrUnsupportedVersion = errors.New("unsupported surface file version")
)

// fileHeader is the fixed-size record at the start of every surface file.
type fileHeader struct {
	Check       uint32
	Version     uint32
	Generation  uint64
	ShapeLength uint32
	Slices      uint32
	Stacks      uint32
	Radius      float32
	Center      [3]float32
	StereoMode  uint32
	Left        [3]float32
	Right       [3]float32
	VertexCount uint32
	IndexCount  uint32
	UVSetCount  uint32
}

// Encode writes a snapshot in the surface file format:
// header, shape name, positions, one record per texture-coordinate set and the triangle indices.
// Elapsed time is not stored.
//
// Parameters:
//   - w: destination writer
//   - snap: the snapshot to encode
//   - options: a variadic list of options selecting compression and stereo modes
//
// Returns:
//   - error: an error if writing fails
func Encode(w io.Writer, snap *surface.Snapshot, options ...EncodeOption) (err error) {
	cfg := newEncodeConfig(options...)

	dst := w
	if cfg.compress {
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(cfg.level)); err != nil {
			return fmt.Errorf("failed to configure lz4 writer: %w", err)
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to finish lz4 frame: %w", cerr)
			}
		}()
		dst = zw
	}

	if len(snap.Shape) > MaxShapeLength {
		return fmt.Errorf("failed to encode surface: shape name %q exceeds %d bytes", snap.Shape, MaxShapeLength)
	}

	bw := &binaryWriter{dst: dst}
	p := snap.Parameters
	header := fileHeader{
		Check:       MagicNumberPSF,
		Version:     FormatVersion,
		Generation:  snap.Generation,
		ShapeLength: uint32(len(snap.Shape)),
		Slices:      uint32(max(p.Slices, 0)),
		Stacks:      uint32(max(p.Stacks, 0)),
		Radius:      p.Radius,
		Center:      p.Center,
		StereoMode:  uint32(p.StereoMode),
		Left:        snap.Offsets.Left,
		Right:       snap.Offsets.Right,
		VertexCount: uint32(len(snap.Mesh.Positions)),
		IndexCount:  uint32(len(snap.Mesh.TriangleIndices)),
		UVSetCount:  uint32(len(cfg.modes)),
	}

	bw.writeRef(&header)
	bw.writeRef([]byte(snap.Shape))
	bw.writeRef(snap.Mesh.Positions)
	for _, mode := range cfg.modes {
		set := snap.TextureCoordinateSet(mode)
		if len(set.UVs) != len(snap.Mesh.Positions) {
			return fmt.Errorf("failed to encode %s coordinates: %d coordinates for %d positions", mode, len(set.UVs), len(snap.Mesh.Positions))
		}
		bw.writeRef(uint32(mode))
		bw.writeRef(set.UVs)
	}
	bw.writeRef(snap.Mesh.TriangleIndices)
	if bw.err != nil {
		return fmt.Errorf("failed to write surface: %w", bw.err)
	}
	return nil
}

// Decode reads a snapshot written by Encode, compressed or not.
// Texture-coordinate sets that were not stored are left empty.
//
// Parameters:
//   - r: source reader
//
// Returns:
//   - *surface.Snapshot: the decoded snapshot
//   - error: ErrCorrupt or ErrUnsupportedVersion wrapped with the byte offset, or a read error
func Decode(r io.Reader) (*surface.Snapshot, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: expected magic number: %v", ErrCorrupt, err)
	}
	if bytes.Equal(magic, lz4header) {
		return Decode(lz4.NewReader(io.MultiReader(bytes.NewReader(lz4header), r)))
	}
	return decodeSurface(&binaryReader{src: io.MultiReader(bytes.NewReader(magic), r)})
}

func decodeSurface(br *binaryReader) (*surface.Snapshot, error) {
	var header fileHeader
	if !br.readRef(&header) {
		return nil, fmt.Errorf("%w: expected header; byte 0x%08x: %v", ErrCorrupt, br.lastIndex, br.err)
	}
	if header.Check != MagicNumberPSF {
		return nil, fmt.Errorf("%w: expected magic number 0x%08x (lz4) or 0x%08x (surface) but was 0x%08x", ErrCorrupt, MagicNumberLZ4, MagicNumberPSF, header.Check)
	}
	if header.Version > FormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, header.Version)
	}

	p := projection.Parameters{
		Slices:     int(header.Slices),
		Stacks:     int(header.Stacks),
		Radius:     header.Radius,
		Center:     header.Center,
		StereoMode: projection.StereoMode(header.StereoMode),
	}
	if err := checkCounts(header, p); err != nil {
		return nil, err
	}

	shape := make([]byte, header.ShapeLength)
	if !br.readRef(shape) {
		return nil, fmt.Errorf("%w: expected %d bytes of shape name; byte 0x%08x", ErrCorrupt, header.ShapeLength, br.lastIndex)
	}
	p.Shape = projection.ShapeKind(shape)

	snap := &surface.Snapshot{
		Generation: header.Generation,
		Shape:      p.Shape,
		Parameters: p,
		Offsets:    projection.CameraOffsets{Left: header.Left, Right: header.Right},
	}
	for _, mode := range projection.StereoModes {
		snap.TextureCoordinates[mode] = projection.TextureCoordinateSet{Mode: mode}
	}

	snap.Mesh.Positions = make([]mgl32.Vec3, header.VertexCount)
	if !br.readRef(snap.Mesh.Positions) {
		return nil, fmt.Errorf("%w: expected %d positions; shape %q, byte 0x%08x", ErrCorrupt, header.VertexCount, shape, br.lastIndex)
	}

	for range header.UVSetCount {
		var mode uint32
		if !br.readRef(&mode) {
			return nil, fmt.Errorf("%w: expected stereo mode; byte 0x%08x", ErrCorrupt, br.lastIndex)
		}
		if int(mode) >= len(projection.StereoModes) {
			return nil, fmt.Errorf("%w: %w %d; byte 0x%08x", ErrCorrupt, projection.ErrUnknownStereoMode, mode, br.lastIndex)
		}
		uvs := make([]mgl32.Vec2, header.VertexCount)
		if !br.readRef(uvs) {
			return nil, fmt.Errorf("%w: expected %d %s coordinates; byte 0x%08x", ErrCorrupt, header.VertexCount, projection.StereoMode(mode), br.lastIndex)
		}
		snap.TextureCoordinates[mode] = projection.TextureCoordinateSet{Mode: projection.StereoMode(mode), UVs: uvs}
	}

	snap.Mesh.TriangleIndices = make([]uint32, header.IndexCount)
	if !br.readRef(snap.Mesh.TriangleIndices) {
		return nil, fmt.Errorf("%w: expected %d indices; byte 0x%08x", ErrCorrupt, header.IndexCount, br.lastIndex)
	}
	for i, idx := range snap.Mesh.TriangleIndices {
		if idx >= header.VertexCount {
			return nil, fmt.Errorf("%w: index %d at %d out of range for %d positions", ErrCorrupt, idx, i, header.VertexCount)
		}
	}

	common.Logger().Debug("surface decoded",
		"shape", p.Shape,
		"generation", header.Generation,
		"vertices", header.VertexCount,
		"indices", header.IndexCount,
		"uvSets", header.UVSetCount,
	)
	return snap, nil
}

// checkCounts rejects headers whose element counts disagree with their parameters,
// before any buffer is allocated from them.
func checkCounts(header fileHeader, p projection.Parameters) error {
	if header.ShapeLength > MaxShapeLength {
		return fmt.Errorf("%w: shape name of %d bytes exceeds %d", ErrCorrupt, header.ShapeLength, MaxShapeLength)
	}
	if header.UVSetCount > uint32(len(projection.StereoModes)) {
		return fmt.Errorf("%w: %d texture-coordinate sets", ErrCorrupt, header.UVSetCount)
	}
	if header.VertexCount == 0 {
		if header.IndexCount != 0 {
			return fmt.Errorf("%w: %d indices without positions", ErrCorrupt, header.IndexCount)
		}
		return nil
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if int(header.VertexCount) != p.VertexCount() {
		return fmt.Errorf("%w: %d positions for %dx%d tessellation", ErrCorrupt, header.VertexCount, p.Slices, p.Stacks)
	}
	// Non-pinched variants keep every band: 2 triangles per cell, 2 eyes.
	if limit := 12 * p.Half() * p.Stacks; int(header.IndexCount) > limit || header.IndexCount%3 != 0 {
		return fmt.Errorf("%w: %d indices for %dx%d tessellation", ErrCorrupt, header.IndexCount, p.Slices, p.Stacks)
	}
	return nil
}

// SaveFile encodes snap into the file at path, replacing it.
//
// Parameters:
//   - path: destination file
//   - snap: the snapshot to encode
//   - options: encode options
//
// Returns:
//   - error: an error if the file cannot be written
func SaveFile(path string, snap *surface.Snapshot, options ...EncodeOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create surface file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close surface file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, snap, options...); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write surface file: %w", err)
	}
	common.Logger().Info("surface file written", "path", path, "shape", snap.Shape, "generation", snap.Generation)
	return nil
}

// LoadFile decodes the surface file at path.
//
// Parameters:
//   - path: source file
//
// Returns:
//   - *surface.Snapshot: the decoded snapshot
//   - error: an error if the file cannot be read or decoded
func LoadFile(path string) (*surface.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open surface file: %w", err)
	}
	defer f.Close()

	snap, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return snap, nil
}
