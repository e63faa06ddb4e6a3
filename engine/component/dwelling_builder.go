package component

import "github.com/go-gl/mathgl/mgl32"

// DwellingBuilderOption is a function that configures a dwelling.
type DwellingBuilderOption func(*dwelling)

// WithDwellingPosition sets the group position.
//
// Parameters:
//   - position: the group translation
//
// Returns:
//   - DwellingBuilderOption: a function that applies the position
func WithDwellingPosition(position mgl32.Vec3) DwellingBuilderOption {
	return func(d *dwelling) {
		d.position = position
	}
}
