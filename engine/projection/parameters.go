package projection

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind is the registry key of a projection variant.
type ShapeKind string

const (
	ShapeDome     ShapeKind = "dome"
	ShapeSphere   ShapeKind = "sphere"
	ShapeCylinder ShapeKind = "cylinder"
	ShapeFlat     ShapeKind = "flat"
	ShapeBarrel   ShapeKind = "barrel"
)

// StereoMode is the layout used to pack both eyes' images into one source frame.
type StereoMode int

const (
	// StereoModeMono shares the full frame between both eyes.
	StereoModeMono StereoMode = iota
	// StereoModeOverUnder stacks the left eye above the right eye.
	StereoModeOverUnder
	// StereoModeSideBySide places the left eye beside the right eye.
	StereoModeSideBySide
)

// StereoModes lists every supported stereo packing mode.
var StereoModes = [3]StereoMode{StereoModeMono, StereoModeOverUnder, StereoModeSideBySide}

var stereoModeNames = map[StereoMode]string{
	StereoModeMono:       "mono",
	StereoModeOverUnder:  "over-under",
	StereoModeSideBySide: "side-by-side",
}

func (m StereoMode) String() string {
	if name, ok := stereoModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("stereo-mode(%d)", int(m))
}

// ParseStereoMode converts a stereo mode name into a StereoMode.
// Matching ignores case, and underscores are accepted in place of dashes.
//
// Parameters:
//   - s: the stereo mode name, e.g. "side-by-side"
//
// Returns:
//   - StereoMode: the parsed mode
//   - error: ErrUnknownStereoMode if the name is not recognised
func ParseStereoMode(s string) (StereoMode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for mode, n := range stereoModeNames {
		if n == name {
			return mode, nil
		}
	}
	return StereoModeMono, fmt.Errorf("%w: %q", ErrUnknownStereoMode, s)
}

func (m StereoMode) MarshalText() ([]byte, error) {
	if _, ok := stereoModeNames[m]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStereoMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *StereoMode) UnmarshalText(text []byte) error {
	mode, err := ParseStereoMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

const (
	DefaultSlices = 16
	DefaultStacks = 16
	DefaultRadius = float32(1)

	// MinSlices is the smallest tessellation that still yields one column per eye quadrant.
	MinSlices = 4
	MinStacks = 1
	// MaxTessellation bounds slices and stacks so vertex indices always fit in uint32.
	MaxTessellation = 4096
	MinRadius       = float32(1e-3)
)

// Parameters is an immutable description of one projection instance.
// Mutations produce a new value; see the With* options and Clamp.
type Parameters struct {
	// Shape selects the projection variant.
	Shape ShapeKind
	// Slices is the azimuthal tessellation. Must be even; each eye consumes Slices/2 columns.
	Slices int
	// Stacks is the polar tessellation.
	Stacks int
	// Radius is the surface radius in world units.
	Radius float32
	// Center is added to every generated position.
	Center mgl32.Vec3
	// StereoMode is the packing layout of the source frame.
	StereoMode StereoMode
}

// DefaultParameters returns a 16x16 unit dome in mono mode.
//
// Returns:
//   - Parameters: the default parameters
func DefaultParameters() Parameters {
	return Parameters{
		Shape:      ShapeDome,
		Slices:     DefaultSlices,
		Stacks:     DefaultStacks,
		Radius:     DefaultRadius,
		StereoMode: StereoModeMono,
	}
}

// Validate reports whether the tessellation and radius constraints hold.
// Shape and stereo mode are checked by the registry and the UV mapper respectively.
//
// Returns:
//   - error: nil if valid, otherwise ErrInvalidParameters wrapped with the offending field
func (p Parameters) Validate() error {
	switch {
	case p.Slices < MinSlices:
		return fmt.Errorf("%w: slices %d is below %d", ErrInvalidParameters, p.Slices, MinSlices)
	case p.Slices%2 != 0:
		return fmt.Errorf("%w: slices %d must be even", ErrInvalidParameters, p.Slices)
	case p.Slices > MaxTessellation:
		return fmt.Errorf("%w: slices %d exceeds %d", ErrInvalidParameters, p.Slices, MaxTessellation)
	case p.Stacks < MinStacks:
		return fmt.Errorf("%w: stacks %d is below %d", ErrInvalidParameters, p.Stacks, MinStacks)
	case p.Stacks > MaxTessellation:
		return fmt.Errorf("%w: stacks %d exceeds %d", ErrInvalidParameters, p.Stacks, MaxTessellation)
	case !(p.Radius > 0):
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidParameters, p.Radius)
	}
	return nil
}

// Clamp returns the nearest valid parameters: odd slices are rounded up,
// tessellation is limited to [min, MaxTessellation] and a non-positive radius becomes MinRadius.
//
// Returns:
//   - Parameters: a copy of p that passes Validate
func (p Parameters) Clamp() Parameters {
	p.Slices = common.Clamp(p.Slices, MinSlices, MaxTessellation)
	if p.Slices%2 != 0 {
		p.Slices++
	}
	p.Stacks = common.Clamp(p.Stacks, MinStacks, MaxTessellation)
	if !(p.Radius > 0) {
		p.Radius = MinRadius
	}
	return p
}

// Half returns the number of slice columns each eye consumes.
//
// Returns:
//   - int: Slices/2
func (p Parameters) Half() int {
	return p.Slices / 2
}

// EyeVertexCount returns the vertex count of one eye-half of the lattice.
//
// Returns:
//   - int: (Stacks+1)*(Slices/2+1), or 0 for invalid parameters
func (p Parameters) EyeVertexCount() int {
	if p.Validate() != nil {
		return 0
	}
	return (p.Stacks + 1) * (p.Half() + 1)
}

// VertexCount returns the vertex count of both eye-halves.
//
// Returns:
//   - int: 2*(Stacks+1)*(Slices/2+1), or 0 for invalid parameters
func (p Parameters) VertexCount() int {
	return 2 * p.EyeVertexCount()
}
