package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/rig"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidSettings is returned when a settings file parses but holds unusable values.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the persisted player state.
type Settings struct {
	Projection ProjectionSettings `toml:"projection"`
	Render     RenderSettings     `toml:"render"`
}

// ProjectionSettings are the tunable surface parameters.
type ProjectionSettings struct {
	Shape      string     `toml:"shape"`
	Slices     int        `toml:"slices"`
	Stacks     int        `toml:"stacks"`
	Radius     float32    `toml:"radius"`
	Center     [3]float32 `toml:"center"`
	StereoMode string     `toml:"stereo_mode"`
}

// RenderSettings configure the per-eye cameras and the host side helpers.
type RenderSettings struct {
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32 `toml:"fov"`
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`
	// PreviewWorkers bounds concurrent preview generation, zero for one per CPU.
	PreviewWorkers int `toml:"preview_workers"`
	// CacheDir receives exported surface files, empty disables the cache.
	CacheDir string `toml:"cache_dir"`
	Compress bool   `toml:"compress"`
	// ProfileInterval is a duration string such as "5s".
	ProfileInterval string `toml:"profile_interval"`
}

// Default returns the settings used when no file exists: a 16x16 unit dome in mono mode.
//
// Returns:
//   - Settings: the default settings
func Default() Settings {
	p := projection.DefaultParameters()
	return Settings{
		Projection: ProjectionSettings{
			Shape:      string(p.Shape),
			Slices:     p.Slices,
			Stacks:     p.Stacks,
			Radius:     p.Radius,
			Center:     p.Center,
			StereoMode: p.StereoMode.String(),
		},
		Render: RenderSettings{
			FieldOfView:     90,
			Near:            0.01,
			Far:             10000,
			Compress:        true,
			ProfileInterval: "5s",
		},
	}
}

// Load reads a TOML settings file. Keys missing from the file keep their Default value,
// unknown keys are rejected.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Settings: the loaded settings
//   - error: an error if the file cannot be read or decoded
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Settings{}, fmt.Errorf("failed to decode %s at %d:%d: %w", path, row, col, err)
		}
		return Settings{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	common.Logger().Info("settings loaded", "path", path, "shape", s.Projection.Shape, "stereoMode", s.Projection.StereoMode)
	return s, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Settings: the loaded or default settings
//   - error: an error if an existing file cannot be read or decoded
func LoadOrDefault(path string) (Settings, error) {
	s, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return s, err
}

// Save writes s as TOML to path, creating parent directories as needed.
//
// Parameters:
//   - path: the settings file
//   - s: the settings to write
//
// Returns:
//   - error: an error if encoding or writing fails
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Parameters converts the projection settings to generation parameters.
// An empty shape or stereo mode selects the default.
//
// Returns:
//   - projection.Parameters: the parameters, validated
//   - error: ErrInvalidSettings wrapping the parse or validation failure
func (ps ProjectionSettings) Parameters() (projection.Parameters, error) {
	def := projection.DefaultParameters()
	mode, err := projection.ParseStereoMode(common.Coalesce(ps.StereoMode, def.StereoMode.String()))
	if err != nil {
		return projection.Parameters{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	p := projection.Parameters{
		Shape:      projection.ShapeKind(strings.ToLower(common.Coalesce(strings.TrimSpace(ps.Shape), string(def.Shape)))),
		Slices:     ps.Slices,
		Stacks:     ps.Stacks,
		Radius:     ps.Radius,
		Center:     mgl32.Vec3(ps.Center),
		StereoMode: mode,
	}
	if err := p.Validate(); err != nil {
		return projection.Parameters{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return p, nil
}

// Interval parses ProfileInterval, falling back to fallback when it is empty or invalid.
//
// Parameters:
//   - fallback: the interval used when the setting is unusable
//
// Returns:
//   - time.Duration: the profiler reporting interval
func (rs RenderSettings) Interval(fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(rs.ProfileInterval)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// RigOptions converts the camera settings into stereo rig options.
// Non-positive values are left to the rig's defaults.
//
// Returns:
//   - []rig.StereoRigOption: the options to pass to rig.NewStereoRig
func (rs RenderSettings) RigOptions() []rig.StereoRigOption {
	var options []rig.StereoRigOption
	if rs.FieldOfView > 0 && rs.FieldOfView < 180 {
		options = append(options, rig.WithFov(mgl32.DegToRad(rs.FieldOfView)))
	}
	if rs.Near > 0 && rs.Far > rs.Near {
		options = append(options, rig.WithClipPlanes(rs.Near, rs.Far))
	}
	return options
}

// Apply pushes the projection settings into a surface, regenerating it.
//
// Parameters:
//   - surf: the surface to update
//   - s: the settings to apply
//
// Returns:
//   - error: an error if the settings are invalid or the shape is not registered
func Apply(surf surface.Surface, s Settings) error {
	p, err := s.Projection.Parameters()
	if err != nil {
		return err
	}
	if err := surf.SetParameters(p); err != nil {
		return fmt.Errorf("failed to apply settings: %w", err)
	}
	return nil
}
