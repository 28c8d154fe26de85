package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer/mesh_provider"
	"github.com/Carmen-Shannon/oxy-vr/engine/rig"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the per-tick state handed to the frame callback.
type Frame struct {
	// Delta is the time since the previous tick in seconds.
	Delta float32
	// Snapshot is the surface snapshot current for this tick.
	Snapshot *surface.Snapshot
	// Staged is non-nil only on the first tick after the surface regenerated.
	// Hosts upload it through a mesh_provider.MeshProvider.
	Staged *mesh_provider.StagedMesh
	// Eyes holds the packed camera uniforms, indexed by common.Eye.
	Eyes [2]rig.GPUEyeUniform
}

// engine implements the Engine interface.
// Coordinates the surface, the stereo rig and the tick loop.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitMu      sync.Mutex
	quitChannel chan struct{}
	quitOnce    *sync.Once // Ensures quitChannel is only closed once

	surface        surface.Surface
	surfaceOptions []surface.SurfaceOption
	rig            rig.StereoRig
	rigOptions     []rig.StereoRigOption

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickRate      time.Duration
	frameMu       sync.Mutex
	frameCallback func(Frame)
}

// Engine is the main entry point of a player.
// It owns the projection surface and the stereo rig and runs the fixed-rate tick loop
// that turns surface changes into staged GPU buffers and per-eye camera uniforms.
// Drawing and presentation stay with the host, which receives each tick as a Frame.
type Engine interface {
	// Surface returns the projection surface driven by the engine.
	//
	// Returns:
	//   - surface.Surface: the surface instance
	Surface() surface.Surface

	// Rig returns the stereo camera rig whose offsets follow the surface.
	//
	// Returns:
	//   - rig.StereoRig: the rig instance
	Rig() rig.StereoRig

	// Profiler returns the profiler shared by the surface and the tick loop.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler instance
	Profiler() *profiler.Profiler

	// EnableProfiler enables per-tick timing output to the log.
	EnableProfiler()

	// DisableProfiler disables per-tick timing output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetFrameCallback registers the function called each tick.
	// It runs on the engine goroutine; uploads and draw calls belong here.
	//
	// Parameters:
	//   - callback: function receiving the tick's Frame
	SetFrameCallback(callback func(Frame))

	// ApplySettings applies projection and camera settings, for example after a config reload.
	// The surface regenerates synchronously; the next tick stages the new buffers.
	// Field of view and clip planes are applied to the rig when they are in range.
	//
	// Parameters:
	//   - s: the settings to apply
	//
	// Returns:
	//   - error: an error if the projection settings are invalid; the current surface stays in place
	ApplySettings(s config.Settings) error

	// Tick runs one iteration of the loop outside Run, mainly for hosts that drive their own loop.
	//
	// Parameters:
	//   - deltaTime: the time since the previous tick in seconds
	//
	// Returns:
	//   - Frame: the frame passed to the frame callback
	Tick(deltaTime float32) Frame

	// Run starts the tick loop and blocks until ctx is done or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit
	Run(ctx context.Context) error

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	// A Quit issued while the engine is stopped ends the next Run at once.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine over the given registry.
// The surface is created from the registry with the surface options, then the rig is attached to it.
//
// Parameters:
//   - registry: the projection variants available to the surface
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the initial surface cannot be generated
func NewEngine(registry projection.Registry, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		quitOnce:        &sync.Once{},
		profiler:        profiler.NewProfiler(),
		tickRate:        time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	surfaceOptions := append([]surface.SurfaceOption{surface.WithProfiler(e.profiler)}, e.surfaceOptions...)
	surf, err := surface.NewSurface(registry, surfaceOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	e.surface = surf
	e.rig = rig.NewStereoRig(append(e.rigOptions, rig.WithSource(surf))...)
	e.rig.Update()

	return e, nil
}

func (e *engine) Surface() surface.Surface {
	return e.surface
}

func (e *engine) Rig() rig.StereoRig {
	return e.rig
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("engine is already running")
	}
	defer e.running.Store(false)

	e.quitMu.Lock()
	quit := e.quitChannel
	e.quitMu.Unlock()

	e.wg.Add(1)
	go e.handleEngine(quit)

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
		e.signalQuit()
	case <-quit:
	}
	e.wg.Wait()
	e.rearmQuit()
	return err
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitMu.Lock()
	defer e.quitMu.Unlock()
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// rearmQuit replaces the closed quit channel so the engine can be run again.
func (e *engine) rearmQuit() {
	e.quitMu.Lock()
	defer e.quitMu.Unlock()
	e.quitChannel = make(chan struct{})
	e.quitOnce = &sync.Once{}
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics in the frame callback and signals quit on recovery.
func (e *engine) handleEngine(quit <-chan struct{}) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.Tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.tickRate = newRate
		}
	}
}

func (e *engine) Tick(deltaTime float32) Frame {
	start := time.Now()
	frame := Frame{Delta: deltaTime}

	if snap, changed := e.surface.TakeDirty(); changed {
		staged, err := mesh_provider.Stage(snap, snap.Parameters.StereoMode)
		if err != nil {
			common.Logger().Warn("failed to stage surface", "generation", snap.Generation, "error", err)
		} else {
			frame.Staged = staged
		}
		frame.Snapshot = snap
	} else {
		frame.Snapshot = e.surface.Snapshot()
	}

	e.rig.Update()
	for _, eye := range common.Eyes {
		frame.Eyes[eye] = e.rig.EyeUniform(eye)
	}

	e.frameMu.Lock()
	cb := e.frameCallback
	e.frameMu.Unlock()
	if cb != nil {
		cb(frame)
	}

	if e.profilingEnabled.Load() {
		e.profiler.Record("tick", time.Since(start))
	}
	return frame
}

func (e *engine) ApplySettings(s config.Settings) error {
	if err := config.Apply(e.surface, s); err != nil {
		return err
	}
	if s.Render.FieldOfView > 0 && s.Render.FieldOfView < 180 {
		e.rig.SetFov(mgl32.DegToRad(s.Render.FieldOfView))
	}
	if s.Render.Near > 0 && s.Render.Far > s.Render.Near {
		e.rig.SetClipPlanes(s.Render.Near, s.Render.Far)
	}
	return nil
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.tickRate = newRate
	}
}

func (e *engine) SetFrameCallback(callback func(Frame)) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	e.frameCallback = callback
}

// tickInterval converts a rate in frames per second to a ticker interval, defaulting to 60Hz.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
