package component

import "github.com/Carmen-Shannon/oxy-frost/common"

// ParticleBuilderOption is a function that configures a particle field.
type ParticleBuilderOption func(*particleField)

// WithParticleCapacity sets the number of baked particles. Non-positive values fail at Bake.
//
// Parameters:
//   - capacity: the particle count
//
// Returns:
//   - ParticleBuilderOption: a function that applies the capacity
func WithParticleCapacity(capacity int) ParticleBuilderOption {
	return func(p *particleField) {
		p.capacity = capacity
	}
}

// WithParticleSize sets the sprite size uniform.
func WithParticleSize(size float32) ParticleBuilderOption {
	return func(p *particleField) {
		p.size = size
	}
}

// WithParticleRandom sets the source for the baked attributes.
func WithParticleRandom(rng common.Random) ParticleBuilderOption {
	return func(p *particleField) {
		p.rng = rng
	}
}

// WithParticleSmoothing sets the pointer smoothing factor. Values outside (0, 1) are ignored.
func WithParticleSmoothing(factor float32) ParticleBuilderOption {
	return func(p *particleField) {
		if factor > 0 && factor < 1 {
			p.smoothing = factor
		}
	}
}
