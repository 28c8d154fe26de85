package surface

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/go-gl/mathgl/mgl32"
)

// ChangeListener is invoked with every snapshot a Surface publishes.
type ChangeListener func(*Snapshot)

type surfaceImpl struct {
	mu       *sync.Mutex
	updateMu *sync.Mutex

	registry   projection.Registry
	projection projection.Projection
	parameters projection.Parameters

	snapshot   atomic.Pointer[Snapshot]
	generation uint64
	dirty      atomic.Bool

	listeners []ChangeListener
	profiler  *profiler.Profiler
}

// Surface is the host-facing projection object. It owns the current parameters,
// regenerates every buffer synchronously when they change and exposes the results
// as read-only derived properties.
//
// Reads never block: they load the latest published Snapshot atomically.
// Changes are serialised and published in the order they were made.
type Surface interface {
	// Projection returns the projection variant currently in use.
	//
	// Returns:
	//   - projection.Projection: the active variant
	Projection() projection.Projection

	// Parameters returns the parameters of the latest snapshot.
	//
	// Returns:
	//   - projection.Parameters: the current parameters
	Parameters() projection.Parameters

	// Snapshot returns the latest published snapshot.
	//
	// Returns:
	//   - *Snapshot: the current immutable snapshot
	Snapshot() *Snapshot

	// SetParameters validates p, looks up its shape if it changed and publishes a new snapshot.
	// On error the current snapshot stays in place.
	//
	// Parameters:
	//   - p: the new parameters
	//
	// Returns:
	//   - error: ErrInvalidParameters, ErrUnknownStereoMode or ErrUnknownShape
	SetParameters(p projection.Parameters) error

	// Update applies options to the current parameters and publishes a new snapshot.
	// Concurrent calls are serialized, so every edit lands on the result of the previous one.
	//
	// Parameters:
	//   - options: the parameter edits to apply
	//
	// Returns:
	//   - error: see SetParameters
	Update(options ...projection.ParametersOption) error

	// SetStereoMode switches the stereo packing mode.
	//
	// Parameters:
	//   - mode: the new stereo packing mode
	//
	// Returns:
	//   - error: ErrUnknownStereoMode for an unsupported mode
	SetStereoMode(mode projection.StereoMode) error

	// Positions returns the vertex positions of the current mesh.
	//
	// Returns:
	//   - []mgl32.Vec3: the positions, left eye-half first
	Positions() []mgl32.Vec3

	// TriangleIndices returns the triangle indices of the current mesh.
	//
	// Returns:
	//   - []uint32: the indices, left eye first
	TriangleIndices() []uint32

	// MonoTextureCoordinates returns the coordinates for a mono source frame.
	//
	// Returns:
	//   - []mgl32.Vec2: the UVs in position order
	MonoTextureCoordinates() []mgl32.Vec2

	// OverUnderTextureCoordinates returns the coordinates for an over-under source frame.
	//
	// Returns:
	//   - []mgl32.Vec2: the UVs in position order
	OverUnderTextureCoordinates() []mgl32.Vec2

	// SideBySideTextureCoordinates returns the coordinates for a side-by-side source frame.
	//
	// Returns:
	//   - []mgl32.Vec2: the UVs in position order
	SideBySideTextureCoordinates() []mgl32.Vec2

	// TextureCoordinates returns the coordinates for the current stereo mode.
	//
	// Returns:
	//   - []mgl32.Vec2: the UVs in position order
	TextureCoordinates() []mgl32.Vec2

	// CameraOffsets derives both camera offsets from the current parameters.
	//
	// Returns:
	//   - projection.CameraOffsets: the left and right offsets
	CameraOffsets() projection.CameraOffsets

	// CameraLeftPosition returns the left eye camera offset. Intended for per-frame queries.
	//
	// Returns:
	//   - mgl32.Vec3: the left camera offset
	CameraLeftPosition() mgl32.Vec3

	// CameraRightPosition returns the right eye camera offset. Intended for per-frame queries.
	//
	// Returns:
	//   - mgl32.Vec3: the right camera offset
	CameraRightPosition() mgl32.Vec3

	// OnChange registers a listener called after every published snapshot,
	// on the goroutine that made the change.
	//
	// Parameters:
	//   - l: the listener
	OnChange(l ChangeListener)

	// TakeDirty returns the latest snapshot and clears the dirty flag if a snapshot
	// was published since the previous call. Render loops call it once per frame
	// before uploading buffers.
	//
	// Returns:
	//   - *Snapshot: the latest snapshot, nil if nothing changed
	//   - bool: true if a new snapshot is waiting
	TakeDirty() (*Snapshot, bool)
}

var _ Surface = &surfaceImpl{}

// NewSurface creates a Surface whose shapes are looked up in registry and generates its first snapshot.
// The surface starts dirty so the first TakeDirty delivers the initial buffers.
//
// Parameters:
//   - registry: the registry used to resolve Parameters.Shape
//   - options: a variadic list of SurfaceOption functions
//
// Returns:
//   - Surface: the new surface
//   - error: an error if the initial parameters are invalid or their shape is unknown
func NewSurface(registry projection.Registry, options ...SurfaceOption) (Surface, error) {
	s := &surfaceImpl{
		mu:         &sync.Mutex{},
		updateMu:   &sync.Mutex{},
		registry:   registry,
		parameters: projection.DefaultParameters(),
	}
	for _, opt := range options {
		opt(s)
	}
	if err := s.SetParameters(s.parameters); err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	return s, nil
}

func (s *surfaceImpl) Projection() projection.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

func (s *surfaceImpl) Parameters() projection.Parameters {
	return s.Snapshot().Parameters
}

func (s *surfaceImpl) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *surfaceImpl) SetParameters(p projection.Parameters) error {
	s.updateMu.Lock()
	snap, listeners, err := s.publish(p)
	s.updateMu.Unlock()
	if err != nil {
		return err
	}
	s.notify(snap, p, listeners)
	return nil
}

func (s *surfaceImpl) Update(options ...projection.ParametersOption) error {
	// updateMu spans the read and the publish so concurrent edits are not lost.
	s.updateMu.Lock()
	s.mu.Lock()
	p := s.parameters.With(options...)
	s.mu.Unlock()
	snap, listeners, err := s.publish(p)
	s.updateMu.Unlock()
	if err != nil {
		return err
	}
	s.notify(snap, p, listeners)
	return nil
}

// publish regenerates every buffer for p and stores the result. The caller holds updateMu.
func (s *surfaceImpl) publish(p projection.Parameters) (*Snapshot, []ChangeListener, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if !slices.Contains(projection.StereoModes[:], p.StereoMode) {
		return nil, nil, fmt.Errorf("%w: %d", projection.ErrUnknownStereoMode, int(p.StereoMode))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	proj := s.projection
	if proj == nil || proj.Kind() != p.Shape {
		next, err := s.registry.Lookup(p.Shape)
		if err != nil {
			return nil, nil, err
		}
		proj = next
	}

	snap := Generate(proj, p)
	s.generation++
	snap.Generation = s.generation
	s.projection = proj
	s.parameters = p
	s.snapshot.Store(snap)
	s.dirty.Store(true)
	return snap, slices.Clone(s.listeners), nil
}

func (s *surfaceImpl) notify(snap *Snapshot, p projection.Parameters, listeners []ChangeListener) {
	if s.profiler != nil {
		s.profiler.Record(string(snap.Shape), snap.Elapsed)
	}
	common.Logger().Debug("surface regenerated",
		"generation", snap.Generation,
		"shape", snap.Shape,
		"slices", p.Slices,
		"stacks", p.Stacks,
		"vertices", len(snap.Mesh.Positions),
		"triangles", snap.Mesh.TriangleCount(),
		"elapsed", snap.Elapsed,
	)
	for _, l := range listeners {
		l(snap)
	}
}

func (s *surfaceImpl) SetStereoMode(mode projection.StereoMode) error {
	return s.Update(projection.WithStereoMode(mode))
}

func (s *surfaceImpl) Positions() []mgl32.Vec3 {
	return s.Snapshot().Mesh.Positions
}

func (s *surfaceImpl) TriangleIndices() []uint32 {
	return s.Snapshot().Mesh.TriangleIndices
}

func (s *surfaceImpl) MonoTextureCoordinates() []mgl32.Vec2 {
	return s.Snapshot().TextureCoordinateSet(projection.StereoModeMono).UVs
}

func (s *surfaceImpl) OverUnderTextureCoordinates() []mgl32.Vec2 {
	return s.Snapshot().TextureCoordinateSet(projection.StereoModeOverUnder).UVs
}

func (s *surfaceImpl) SideBySideTextureCoordinates() []mgl32.Vec2 {
	return s.Snapshot().TextureCoordinateSet(projection.StereoModeSideBySide).UVs
}

func (s *surfaceImpl) TextureCoordinates() []mgl32.Vec2 {
	return s.Snapshot().ActiveTextureCoordinates().UVs
}

func (s *surfaceImpl) CameraOffsets() projection.CameraOffsets {
	s.mu.Lock()
	proj, p := s.projection, s.parameters
	s.mu.Unlock()
	return proj.CameraOffsets(p)
}

func (s *surfaceImpl) CameraLeftPosition() mgl32.Vec3 {
	return s.CameraOffsets().Left
}

func (s *surfaceImpl) CameraRightPosition() mgl32.Vec3 {
	return s.CameraOffsets().Right
}

func (s *surfaceImpl) OnChange(l ChangeListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *surfaceImpl) TakeDirty() (*Snapshot, bool) {
	if !s.dirty.Swap(false) {
		return nil, false
	}
	return s.Snapshot(), true
}
