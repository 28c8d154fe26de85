package meshio

import (
	"encoding/binary"
	"io"
)

// binaryReader reads little-endian values and keeps the first error.
// Once Err is set every further read is a no-op returning false.
type binaryReader struct {
	src       io.Reader
	index     int
	lastIndex int
	err       error
}

func (br *binaryReader) readRef(data any) bool {
	if br.err != nil {
		return false
	}
	br.err = binary.Read(br.src, binary.LittleEndian, data)
	br.lastIndex = br.index
	if br.err == nil {
		br.index += binary.Size(data)
	}
	return br.err == nil
}

// binaryWriter writes little-endian values and keeps the first error.
type binaryWriter struct {
	dst io.Writer
	err error
}

func (bw *binaryWriter) writeRef(data any) bool {
	if bw.err != nil {
		return false
	}
	bw.err = binary.Write(bw.dst, binary.LittleEndian, data)
	return bw.err == nil
}
