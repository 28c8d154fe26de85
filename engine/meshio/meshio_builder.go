package meshio

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/pierrec/lz4/v4"
)

// encodeConfig holds the settings applied by EncodeOptions.
type encodeConfig struct {
	compress bool
	level    lz4.CompressionLevel
	modes    []projection.StereoMode
}

// EncodeOption is a functional option used to configure Encode.
type EncodeOption func(*encodeConfig)

func newEncodeConfig(options ...EncodeOption) *encodeConfig {
	cfg := &encodeConfig{
		level: lz4.Fast,
		modes: projection.StereoModes[:],
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// WithCompression wraps the output in an lz4 frame. Decode detects the frame on its own.
//
// Parameters:
//   - level: the lz4 compression level, lz4.Fast for the default
//
// Returns:
//   - EncodeOption: a function that enables compression
func WithCompression(level lz4.CompressionLevel) EncodeOption {
	return func(c *encodeConfig) {
		c.compress = true
		c.level = level
	}
}

// WithStereoModes limits the stored texture-coordinate sets to the given modes.
// Duplicates and unknown modes are dropped. By default every mode is stored.
//
// Parameters:
//   - modes: the stereo modes whose coordinates are written
//
// Returns:
//   - EncodeOption: a function that selects the stored sets
func WithStereoModes(modes ...projection.StereoMode) EncodeOption {
	return func(c *encodeConfig) {
		c.modes = c.modes[:0:0]
		for _, m := range modes {
			if m < 0 || int(m) >= len(projection.StereoModes) || slices.Contains(c.modes, m) {
				continue
			}
			c.modes = append(c.modes, m)
		}
	}
}
