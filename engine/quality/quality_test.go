package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsMonotonicInTier(t *testing.T) {
	ceilings := []Ceiling{
		{MaxParticles: 50, RenderScale: 0.7, Complexity: EffectLow},
		{MaxParticles: 100, RenderScale: 0.8, Complexity: EffectMedium},
		{MaxParticles: 200, RenderScale: 1.0, Complexity: EffectHigh},
	}
	for _, c := range ceilings {
		prev := Derive(0, c)
		for step := 1; step <= 100; step++ {
			tier := Tier(float64(step) / 100)
			b := Derive(tier, c)
			assert.GreaterOrEqual(t, b.MaxParticles, prev.MaxParticles, "particles at tier %.2f", tier)
			assert.GreaterOrEqual(t, b.RenderScale, prev.RenderScale, "render scale at tier %.2f", tier)
			assert.GreaterOrEqual(t, int(b.Effect), int(prev.Effect), "effect at tier %.2f", tier)
			prev = b
		}
	}
}

func TestDeriveFullAndReduced(t *testing.T) {
	c := Ceiling{MaxParticles: 200, RenderScale: 1.0, Complexity: EffectHigh}

	full := Derive(MaxTier, c)
	assert.Equal(t, 200, full.MaxParticles)
	assert.InDelta(t, 1.0, full.RenderScale, 1e-9)
	assert.Equal(t, EffectHigh, full.Effect)

	reduced := Derive(MinTier, c)
	assert.Equal(t, 100, reduced.MaxParticles)
	assert.InDelta(t, 0.5, reduced.RenderScale, 1e-9)
	assert.Equal(t, EffectMedium, reduced.Effect)

	low := Derive(MinTier, Ceiling{MaxParticles: 50, RenderScale: 0.7, Complexity: EffectLow})
	assert.Equal(t, EffectLow, low.Effect)
	assert.InDelta(t, 0.35, low.RenderScale, 1e-9)
}

func TestLadderValidate(t *testing.T) {
	require.NoError(t, DefaultLadder.Validate())
	require.NoError(t, Ladder{0.5, 0.75, 1.0}.Validate())

	assert.Error(t, Ladder{}.Validate())
	assert.Error(t, Ladder{1.0, 0.5}.Validate())
	assert.Error(t, Ladder{0.5, 0.5}.Validate())
	assert.Error(t, Ladder{0.25, 1.0}.Validate())
}

func TestLadderNearest(t *testing.T) {
	l := Ladder{0.5, 0.75, 1.0}
	assert.Equal(t, 0, l.Nearest(0.1))
	assert.Equal(t, 0, l.Nearest(0.5))
	assert.Equal(t, 1, l.Nearest(0.7))
	assert.Equal(t, 2, l.Nearest(0.9))
	assert.Equal(t, 2, l.Nearest(3))
}

func TestParseEffectLevel(t *testing.T) {
	for _, e := range []EffectLevel{EffectLow, EffectMedium, EffectHigh} {
		assert.Equal(t, e, ParseEffectLevel(e.String()))
	}
	assert.Equal(t, EffectHigh, ParseEffectLevel("bogus"))
}
