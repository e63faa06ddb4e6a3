// Package frame defines the per-frame context handed to every scene component's Update.
// It replaces ambient shared state: time, pointer, camera pose and the quality tier all
// travel in one value built by the frame driver at the top of each frame.
package frame

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
)

// PointerState is the pointer position normalized to [-1, 1] on both axes, y up.
type PointerState struct {
	Position mgl32.Vec2
	// Inside is false when the cursor has left the window.
	Inside bool
}

// NewPointerState normalizes a cursor position in window pixels.
// A zero-sized window yields the centered pointer.
//
// Parameters:
//   - x, y: cursor position in pixels from the top-left corner
//   - width, height: window size in pixels
//
// Returns:
//   - PointerState: the normalized pointer
func NewPointerState(x, y float64, width, height int) PointerState {
	if width <= 0 || height <= 0 {
		return PointerState{}
	}
	nx := common.Clamp(float32(x/float64(width))*2-1, -1, 1)
	ny := common.Clamp(-(float32(y/float64(height))*2 - 1), -1, 1)
	return PointerState{Position: mgl32.Vec2{nx, ny}, Inside: true}
}

// CameraState is the camera pose in world space plus the matrices derived from it.
type CameraState struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	View     mgl32.Mat4
	Proj     mgl32.Mat4
}

// ViewProj returns Proj * View.
func (c CameraState) ViewProj() mgl32.Mat4 {
	return c.Proj.Mul4(c.View)
}

// Context is the read-only state of the current frame.
type Context struct {
	// Time is seconds since the scene started. It never decreases across frames.
	Time float64
	// Delta is seconds since the previous frame (0 on the first).
	Delta float64
	// Now is the wall-clock instant the frame began.
	Now time.Time

	Camera  CameraState
	Pointer PointerState

	Tier   quality.Tier
	Bounds quality.Bounds

	// Width and Height are the drawable surface size in pixels.
	Width  int
	Height int
}
