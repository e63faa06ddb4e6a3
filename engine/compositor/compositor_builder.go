package compositor

import "github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"

// CompositorBuilderOption is a functional option for configuring a Compositor.
type CompositorBuilderOption func(*compositor)

// WithPreProcessor shares a shader pre-processor with the scene pipelines.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - CompositorBuilderOption: the option
func WithPreProcessor(pp shader.PreProcessor) CompositorBuilderOption {
	return func(c *compositor) {
		c.pp = pp
	}
}

// WithClearColor sets the color the scene target is cleared to.
//
// Parameters:
//   - rgba: the clear color
//
// Returns:
//   - CompositorBuilderOption: the option
func WithClearColor(rgba [4]float64) CompositorBuilderOption {
	return func(c *compositor) {
		c.clearColor = rgba
	}
}

// WithBloom sets the luminance threshold and the gains applied above and below it.
//
// Parameters:
//   - threshold: the luminance threshold
//   - strength: the gain above the threshold
//   - floor: the gain below the threshold
//
// Returns:
//   - CompositorBuilderOption: the option
func WithBloom(threshold, strength, floor float32) CompositorBuilderOption {
	return func(c *compositor) {
		c.uniform.BloomThreshold = threshold
		c.uniform.BloomStrength = strength
		c.uniform.BloomFloor = floor
	}
}

// WithGrain sets the film grain intensity.
//
// Parameters:
//   - amount: the grain amount
//
// Returns:
//   - CompositorBuilderOption: the option
func WithGrain(amount float32) CompositorBuilderOption {
	return func(c *compositor) {
		c.uniform.GrainAmount = amount
	}
}

// WithVignette sets the smoothstep edges of the radial vignette.
//
// Parameters:
//   - inner, outer: the smoothstep edges
//
// Returns:
//   - CompositorBuilderOption: the option
func WithVignette(inner, outer float32) CompositorBuilderOption {
	return func(c *compositor) {
		c.uniform.VignetteInner = inner
		c.uniform.VignetteOuter = outer
	}
}

// WithRenderScale sets the initial render scale of the offscreen targets.
//
// Parameters:
//   - scale: the fraction of the surface size, > 0
//
// Returns:
//   - CompositorBuilderOption: the option
func WithRenderScale(scale float64) CompositorBuilderOption {
	return func(c *compositor) {
		if scale > 0 {
			c.renderScale = scale
		}
	}
}
