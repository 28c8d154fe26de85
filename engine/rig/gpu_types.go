package rig

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUEyeUniform is the GPU-aligned per-eye camera uniform.
// Matches the WGSL struct below (80 bytes, std430 aligned):
//
//	struct EyeUniform {
//	    view_proj: mat4x4<f32>,
//	    eye_position: vec3<f32>,
//	}
type GPUEyeUniform struct {
	ViewProj    mgl32.Mat4 // offset  0: combined view-projection matrix (mat4x4<f32>)
	EyePosition mgl32.Vec3 // offset 64: world-space eye position (vec3<f32>)
	_pad        float32    // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUEyeUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUEyeUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUEyeUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUEyeUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.ViewProj[:]...)
	off = common.PutFloat32s(buf, off, g.EyePosition[:]...)
	common.PutFloat32s(buf, off, 0)
	return buf
}
