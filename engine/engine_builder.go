package engine

import (
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/rig"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables per-tick timing output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler, for example to change its update interval.
//
// Parameters:
//   - p: the profiler shared by the surface and the tick loop
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithSurfaceOptions passes options through to surface.NewSurface.
//
// Parameters:
//   - options: the surface options, e.g. surface.WithParameters
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurfaceOptions(options ...surface.SurfaceOption) EngineBuilderOption {
	return func(e *engine) {
		e.surfaceOptions = append(e.surfaceOptions, options...)
	}
}

// WithRigOptions passes options through to rig.NewStereoRig. The rig's source is always the engine's surface.
//
// Parameters:
//   - options: the rig options, e.g. rig.WithFov
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRigOptions(options ...rig.StereoRigOption) EngineBuilderOption {
	return func(e *engine) {
		e.rigOptions = append(e.rigOptions, options...)
	}
}

// WithFrameCallback registers the function called each tick during engine construction.
//
// Parameters:
//   - callback: function receiving the tick's Frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback func(Frame)) EngineBuilderOption {
	return func(e *engine) {
		e.frameCallback = callback
	}
}
