// package common contains small types and helpers shared by every package of the projection engine. They are plain values,
// not interface-wrapped structs.
package common

import "fmt"

// Eye identifies one half of a stereo pair.
// Generated buffers always hold the left eye first and the right eye second.
type Eye int

const (
	// EyeLeft is the first half of every generated buffer.
	EyeLeft Eye = iota
	// EyeRight is the second half of every generated buffer.
	EyeRight
)

// Eyes lists both eyes in buffer order.
var Eyes = [2]Eye{EyeLeft, EyeRight}

// String returns the lowercase name of the eye.
//
// Returns:
//   - string: "left", "right" or a numbered fallback for unknown values
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return fmt.Sprintf("eye(%d)", int(e))
	}
}

// Sign returns +1 for the left eye and -1 for the right eye.
// Eye centres and camera offsets sit on the positive X axis for the left eye.
//
// Returns:
//   - float32: the horizontal sign of the eye
func (e Eye) Sign() float32 {
	if e == EyeRight {
		return -1
	}
	return 1
}
