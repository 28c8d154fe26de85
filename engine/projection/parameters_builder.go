package projection

import "github.com/go-gl/mathgl/mgl32"

// ParametersOption is a functional option applied to a Parameters value.
type ParametersOption func(*Parameters)

// NewParameters creates Parameters from DefaultParameters with the provided options applied.
// The result is not validated; call Validate or Clamp before generating.
//
// Parameters:
//   - options: a variadic list of ParametersOption functions
//
// Returns:
//   - Parameters: the configured parameters
func NewParameters(options ...ParametersOption) Parameters {
	p := DefaultParameters()
	return p.With(options...)
}

// With returns a copy of p with the options applied.
//
// Parameters:
//   - options: a variadic list of ParametersOption functions
//
// Returns:
//   - Parameters: the modified copy
func (p Parameters) With(options ...ParametersOption) Parameters {
	for _, opt := range options {
		opt(&p)
	}
	return p
}

// WithShape sets the projection variant.
//
// Parameters:
//   - kind: the shape kind registry key
//
// Returns:
//   - ParametersOption: a function that sets the shape
func WithShape(kind ShapeKind) ParametersOption {
	return func(p *Parameters) {
		p.Shape = kind
	}
}

// WithSlices sets the azimuthal tessellation.
//
// Parameters:
//   - slices: number of slices around the full circle, must be even
//
// Returns:
//   - ParametersOption: a function that sets the slices
func WithSlices(slices int) ParametersOption {
	return func(p *Parameters) {
		p.Slices = slices
	}
}

// WithStacks sets the polar tessellation.
//
// Parameters:
//   - stacks: number of stacks from top to bottom
//
// Returns:
//   - ParametersOption: a function that sets the stacks
func WithStacks(stacks int) ParametersOption {
	return func(p *Parameters) {
		p.Stacks = stacks
	}
}

// WithRadius sets the surface radius.
//
// Parameters:
//   - radius: radius in world units, must be positive
//
// Returns:
//   - ParametersOption: a function that sets the radius
func WithRadius(radius float32) ParametersOption {
	return func(p *Parameters) {
		p.Radius = radius
	}
}

// WithCenter sets the translation added to every generated position.
//
// Parameters:
//   - x, y, z: center components
//
// Returns:
//   - ParametersOption: a function that sets the center
func WithCenter(x, y, z float32) ParametersOption {
	return func(p *Parameters) {
		p.Center = mgl32.Vec3{x, y, z}
	}
}

// WithStereoMode sets the stereo packing mode.
//
// Parameters:
//   - mode: the stereo packing mode
//
// Returns:
//   - ParametersOption: a function that sets the stereo mode
func WithStereoMode(mode StereoMode) ParametersOption {
	return func(p *Parameters) {
		p.StereoMode = mode
	}
}
