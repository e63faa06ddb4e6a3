package gesture

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// MachineBuilderOption is a functional option for configuring a Machine.
type MachineBuilderOption func(*machine)

// WithOverlayTiming sets the delay before the overlay starts fading and the fade length.
// Negative values are ignored.
//
// Parameters:
//   - delay: time from the trigger until the fade starts
//   - fade: length of the fade
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithOverlayTiming(delay, fade time.Duration) MachineBuilderOption {
	return func(m *machine) {
		if delay >= 0 {
			m.delay = delay
		}
		if fade >= 0 {
			m.fade = fade
		}
	}
}

// WithZoomCallback sets the function that starts the camera zoom when entry is triggered.
//
// Parameters:
//   - fn: receives the trigger time
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithZoomCallback(fn func(now time.Time)) MachineBuilderOption {
	return func(m *machine) {
		m.onZoom = fn
	}
}

// WithAppState sets the store whose IsLoaded flag is raised on entry.
//
// Parameters:
//   - s: the application store
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithAppState(s *store.AppState) MachineBuilderOption {
	return func(m *machine) {
		m.appState = s
	}
}
