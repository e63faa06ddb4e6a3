package component

import "github.com/Carmen-Shannon/oxy-frost/common"

// MarkerBuilderOption is a function that configures the project markers.
type MarkerBuilderOption func(*projectMarkers)

// WithMarkerRandom sets the source for the marker placement and mesh jitter.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - MarkerBuilderOption: a function that applies the source
func WithMarkerRandom(rng common.Random) MarkerBuilderOption {
	return func(m *projectMarkers) {
		m.rng = rng
	}
}

// WithMarkerOpacity sets the base opacity of every marker.
func WithMarkerOpacity(opacity float32) MarkerBuilderOption {
	return func(m *projectMarkers) {
		m.opacity = opacity
	}
}
