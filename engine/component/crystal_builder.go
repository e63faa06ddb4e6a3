package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// CrystalBuilderOption is a function that configures a crystal.
type CrystalBuilderOption func(*crystal)

// WithCrystalDetail sets the icosphere subdivision level. Non-positive values fail at Bake.
//
// Parameters:
//   - detail: subdivision level
//
// Returns:
//   - CrystalBuilderOption: a function that applies the detail
func WithCrystalDetail(detail int) CrystalBuilderOption {
	return func(c *crystal) {
		c.detail = detail
	}
}

// WithCrystalRandom sets the source for the stochastic displacement.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - CrystalBuilderOption: a function that applies the source
func WithCrystalRandom(rng common.Random) CrystalBuilderOption {
	return func(c *crystal) {
		c.rng = rng
	}
}

// WithCrystalPosition sets the model position.
func WithCrystalPosition(position mgl32.Vec3) CrystalBuilderOption {
	return func(c *crystal) {
		c.position = position
	}
}

// WithPointerResponse sets the pointer scale and the per-update smoothing factor.
// A smoothing factor outside (0, 1) is ignored.
//
// Parameters:
//   - scale: multiplier applied to the frame pointer
//   - smoothing: fraction of the remaining distance covered per update
//
// Returns:
//   - CrystalBuilderOption: a function that applies the response
func WithPointerResponse(scale, smoothing float32) CrystalBuilderOption {
	return func(c *crystal) {
		c.pointerFactor = scale
		if smoothing > 0 && smoothing < 1 {
			c.smoothing = smoothing
		}
	}
}
