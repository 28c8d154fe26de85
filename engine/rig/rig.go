package rig

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// OffsetSource supplies the per-eye camera offsets each frame.
// surface.Surface implements it.
type OffsetSource interface {
	CameraLeftPosition() mgl32.Vec3
	CameraRightPosition() mgl32.Vec3
}

type eyeState struct {
	position             mgl32.Vec3
	viewMatrix           mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

type stereoRigImpl struct {
	mu *sync.Mutex

	up          mgl32.Vec3
	forward     mgl32.Vec3
	orientation mgl32.Quat

	fov    float32
	aspect float32
	near   float32
	far    float32

	projectionMatrix mgl32.Mat4
	eyes             [2]eyeState

	source OffsetSource
}

// StereoRig holds one camera per eye. Each camera sits at the offset reported by its
// OffsetSource, so the eye separation always matches the generated mesh.
// Head orientation comes from an external tracker via SetOrientation.
type StereoRig interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the per-eye aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Orientation returns the current head orientation.
	//
	// Returns:
	//   - mgl32.Quat: the orientation applied to both eyes
	Orientation() mgl32.Quat

	// EyePosition returns the world-space position of one eye camera.
	//
	// Parameters:
	//   - eye: the eye to query
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	EyePosition(eye common.Eye) mgl32.Vec3

	// ViewMatrix returns the view matrix of one eye camera.
	//
	// Parameters:
	//   - eye: the eye to query
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	ViewMatrix(eye common.Eye) mgl32.Mat4

	// ProjectionMatrix returns the perspective projection shared by both eyes.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix of one eye camera.
	//
	// Parameters:
	//   - eye: the eye to query
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix (column-major)
	ViewProjectionMatrix(eye common.Eye) mgl32.Mat4

	// EyeUniform packs one eye's camera state for GPU upload.
	//
	// Parameters:
	//   - eye: the eye to pack
	//
	// Returns:
	//   - GPUEyeUniform: the uniform block
	EyeUniform(eye common.Eye) GPUEyeUniform

	// Source returns the attached OffsetSource, or nil.
	//
	// Returns:
	//   - OffsetSource: the offset source
	Source() OffsetSource

	// Update reads both offsets from the source and recomputes all matrices.
	// Call once per frame. Does nothing without a source.
	Update()

	// SetOrientation sets the head orientation and recomputes matrices.
	//
	// Parameters:
	//   - q: the orientation, normalised before use
	SetOrientation(q mgl32.Quat)

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the per-eye aspect ratio and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetClipPlanes sets the near and far clipping plane distances and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClipPlanes(near, far float32)

	// SetSource attaches the OffsetSource read by Update.
	//
	// Parameters:
	//   - src: the offset source
	SetSource(src OffsetSource)
}

var _ StereoRig = &stereoRigImpl{}

// NewStereoRig creates a stereo rig looking down +Z with a 90 degree field of view.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - StereoRig: the newly created rig
func NewStereoRig(options ...StereoRigOption) StereoRig {
	r := &stereoRigImpl{
		mu:          &sync.Mutex{},
		up:          mgl32.Vec3{0, 1, 0},
		forward:     mgl32.Vec3{0, 0, 1},
		orientation: mgl32.QuatIdent(),
		fov:         mgl32.DegToRad(90),
		aspect:      1.0,
		near:        0.01,
		far:         10000,
	}
	for _, opt := range options {
		opt(r)
	}
	r.update()
	return r
}

func (r *stereoRigImpl) Fov() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fov
}

func (r *stereoRigImpl) Aspect() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aspect
}

func (r *stereoRigImpl) Near() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.near
}

func (r *stereoRigImpl) Far() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.far
}

func (r *stereoRigImpl) Orientation() mgl32.Quat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orientation
}

func (r *stereoRigImpl) EyePosition(eye common.Eye) mgl32.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eyes[eyeIndex(eye)].position
}

func (r *stereoRigImpl) ViewMatrix(eye common.Eye) mgl32.Mat4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eyes[eyeIndex(eye)].viewMatrix
}

func (r *stereoRigImpl) ProjectionMatrix() mgl32.Mat4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projectionMatrix
}

func (r *stereoRigImpl) ViewProjectionMatrix(eye common.Eye) mgl32.Mat4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eyes[eyeIndex(eye)].viewProjectionMatrix
}

func (r *stereoRigImpl) EyeUniform(eye common.Eye) GPUEyeUniform {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.eyes[eyeIndex(eye)]
	return GPUEyeUniform{
		ViewProj:    e.viewProjectionMatrix,
		EyePosition: e.position,
	}
}

func (r *stereoRigImpl) Source() OffsetSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func (r *stereoRigImpl) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.source == nil {
		return
	}
	r.update()
}

func (r *stereoRigImpl) SetOrientation(q mgl32.Quat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orientation = q.Normalize()
	r.update()
}

func (r *stereoRigImpl) SetFov(fov float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fov = fov
	r.update()
}

func (r *stereoRigImpl) SetAspect(aspect float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aspect = aspect
	r.update()
}

func (r *stereoRigImpl) SetClipPlanes(near, far float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.near = near
	r.far = far
	r.update()
}

func (r *stereoRigImpl) SetSource(src OffsetSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
}

// update recalculates the eye positions and every matrix.
// Eye positions are read from the source when one is attached.
// Caller must hold the mutex.
func (r *stereoRigImpl) update() {
	if r.source != nil {
		r.eyes[0].position = r.source.CameraLeftPosition()
		r.eyes[1].position = r.source.CameraRightPosition()
	}

	r.projectionMatrix = mgl32.Perspective(r.fov, r.aspect, r.near, r.far)
	forward := r.orientation.Rotate(r.forward)
	up := r.orientation.Rotate(r.up)
	for i := range r.eyes {
		e := &r.eyes[i]
		e.viewMatrix = mgl32.LookAtV(e.position, e.position.Add(forward), up)
		e.viewProjectionMatrix = r.projectionMatrix.Mul4(e.viewMatrix)
	}
}

func eyeIndex(eye common.Eye) int {
	if eye == common.EyeRight {
		return 1
	}
	return 0
}
