package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyD     = 68  // D key (ASCII), disassemble the dwelling
	KeyR     = 82  // R key (ASCII), reassemble the dwelling
	KeyP     = 80  // P key (ASCII), toggle profiler logging
	KeySpace = 32  // Spacebar (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)

	// KeyKPEnter is the keypad Enter key; it counts as Enter for entry gestures.
	KeyKPEnter = 335
)
