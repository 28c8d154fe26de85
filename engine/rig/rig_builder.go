package rig

import "github.com/go-gl/mathgl/mgl32"

// StereoRigOption is a functional option applied to a StereoRig during construction.
type StereoRigOption func(*stereoRigImpl)

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - StereoRigOption: a function that sets the field of view
func WithFov(fov float32) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.fov = fov
	}
}

// WithAspect sets the per-eye aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - StereoRigOption: a function that sets the aspect ratio
func WithAspect(aspect float32) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
// near must stay below the surface radius or the surface is clipped away.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - StereoRigOption: a function that sets both planes
func WithClipPlanes(near, far float32) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.near = near
		r.far = far
	}
}

// WithForward sets the neutral viewing direction of both eyes.
//
// Parameters:
//   - x, y, z: forward vector components
//
// Returns:
//   - StereoRigOption: a function that sets the forward vector
func WithForward(x, y, z float32) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.forward = mgl32.Vec3{x, y, z}.Normalize()
	}
}

// WithUp sets the neutral up vector of both eyes.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - StereoRigOption: a function that sets the up vector
func WithUp(x, y, z float32) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.up = mgl32.Vec3{x, y, z}
	}
}

// WithSource attaches the OffsetSource read on every Update.
// The initial matrices are computed from it.
//
// Parameters:
//   - src: the offset source
//
// Returns:
//   - StereoRigOption: a function that attaches the source
func WithSource(src OffsetSource) StereoRigOption {
	return func(r *stereoRigImpl) {
		r.source = src
	}
}
