package projection

import "errors"

var (
	// ErrInvalidParameters is returned when Parameters violate the tessellation or radius constraints.
	ErrInvalidParameters = errors.New("invalid projection parameters")
	// ErrUnknownShape is returned when a shape kind has no registered projection.
	ErrUnknownShape = errors.New("unknown projection shape")
	// ErrDuplicateShape is returned when a shape kind is registered twice.
	ErrDuplicateShape = errors.New("projection shape already registered")
	// ErrUnknownStereoMode is returned when a stereo mode name cannot be parsed.
	ErrUnknownStereoMode = errors.New("unknown stereo mode")
)
