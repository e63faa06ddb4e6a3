// Package quality defines the render-cost tier shared by the performance controller,
// the scene components and the compositor, plus the resource bounds derived from it.
package quality

import (
	"math"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// Tier is a continuous quality scalar. Valid tiers lie in [MinTier, MaxTier].
type Tier float64

const (
	// MinTier is the reduced-quality floor.
	MinTier Tier = 0.5

	// MaxTier is full quality.
	MaxTier Tier = 1.0
)

// Clamp returns the tier limited to [MinTier, MaxTier].
func (t Tier) Clamp() Tier {
	return common.Clamp(t, MinTier, MaxTier)
}

// EffectLevel is the effect complexity flag. Levels are ordered: Low < Medium < High.
type EffectLevel int

const (
	// EffectLow disables the bloom pass and the volumetric light.
	EffectLow EffectLevel = iota

	// EffectMedium enables bloom.
	EffectMedium

	// EffectHigh enables every effect.
	EffectHigh
)

// String returns the lower-case name of the level.
func (e EffectLevel) String() string {
	switch e {
	case EffectLow:
		return "low"
	case EffectMedium:
		return "medium"
	case EffectHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseEffectLevel converts a level name back into an EffectLevel.
// Unknown names map to EffectHigh.
//
// Parameters:
//   - s: the level name ("low", "medium" or "high")
//
// Returns:
//   - EffectLevel: the parsed level
func ParseEffectLevel(s string) EffectLevel {
	switch s {
	case "low":
		return EffectLow
	case "medium":
		return EffectMedium
	default:
		return EffectHigh
	}
}

// Ceiling is the capability record a device tier grants at full quality.
type Ceiling struct {
	// MaxParticles is the particle cap at full quality.
	MaxParticles int
	// RenderScale is the render-target resolution scale at full quality.
	RenderScale float64
	// Complexity is the effect level at full quality.
	Complexity EffectLevel
}

// Bounds are the resources a component or pass may spend at the current tier.
type Bounds struct {
	// MaxParticles is the number of particles that may be drawn.
	MaxParticles int
	// RenderScale scales the offscreen render target relative to the surface.
	RenderScale float64
	// Effect is the effect complexity allowed this frame.
	Effect EffectLevel
}

const (
	minRenderScale = 0.25
	maxRenderScale = 1.0
)

// Derive computes the bounds for a tier under a device ceiling.
// Each field is monotonic non-decreasing in the tier: raising the tier never yields fewer resources.
//
// Parameters:
//   - tier: the current quality tier (clamped to [MinTier, MaxTier])
//   - ceiling: the device capability record
//
// Returns:
//   - Bounds: the derived resource bounds
func Derive(tier Tier, ceiling Ceiling) Bounds {
	t := float64(tier.Clamp())

	effect := ceiling.Complexity
	if t < float64(MaxTier) && effect > EffectLow {
		effect--
	}

	return Bounds{
		MaxParticles: int(math.Round(float64(ceiling.MaxParticles) * t)),
		RenderScale:  common.Clamp(ceiling.RenderScale*t, minRenderScale, maxRenderScale),
		Effect:       effect,
	}
}
