package surface

import (
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
)

// SurfaceOption is a functional option used to configure a Surface during construction.
type SurfaceOption func(*surfaceImpl)

// WithParameters sets the parameters of the first snapshot.
// They are validated when the surface generates its initial buffers.
//
// Parameters:
//   - p: the initial parameters
//
// Returns:
//   - SurfaceOption: a function that sets the initial parameters
func WithParameters(p projection.Parameters) SurfaceOption {
	return func(s *surfaceImpl) {
		s.parameters = p
	}
}

// WithChangeListener registers a listener before the first snapshot is generated,
// so it also observes the initial buffers.
//
// Parameters:
//   - l: the listener
//
// Returns:
//   - SurfaceOption: a function that registers the listener
func WithChangeListener(l ChangeListener) SurfaceOption {
	return func(s *surfaceImpl) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// WithProfiler records every regeneration time under the shape kind.
//
// Parameters:
//   - p: the profiler to feed
//
// Returns:
//   - SurfaceOption: a function that attaches the profiler
func WithProfiler(p *profiler.Profiler) SurfaceOption {
	return func(s *surfaceImpl) {
		s.profiler = p
	}
}
