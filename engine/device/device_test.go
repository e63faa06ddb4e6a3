package device

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   Signals
		want Class
	}{
		{"narrow phone", Signals{ViewportWidth: 400}, ClassMobile},
		{"touch tablet", Signals{ViewportWidth: 800, Touch: true}, ClassTablet},
		{"wide desktop", Signals{ViewportWidth: 1440}, ClassDesktop},
		{"small tablet by agent", Signals{ViewportWidth: 700, UserAgent: "Mozilla/5.0 (iPad; CPU OS 17_0)"}, ClassTablet},
		{"small window without touch", Signals{ViewportWidth: 700}, ClassTablet},
		{"upper tablet edge", Signals{ViewportWidth: 1024}, ClassTablet},
		{"mobile edge", Signals{ViewportWidth: 575}, ClassMobile},
		{"unknown width", Signals{}, ClassDesktop},
		{"negative width", Signals{ViewportWidth: -1, Touch: true}, ClassDesktop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.in))
		})
	}
}

func TestCapabilityTable(t *testing.T) {
	assert.Equal(t, Capabilities{MaxParticles: 50, Complexity: quality.EffectLow, TargetFPS: 30, RenderScale: 0.7}, CapabilitiesFor(ClassMobile))
	assert.Equal(t, Capabilities{MaxParticles: 100, Complexity: quality.EffectMedium, TargetFPS: 45, RenderScale: 0.8}, CapabilitiesFor(ClassTablet))
	assert.Equal(t, Capabilities{MaxParticles: 200, Complexity: quality.EffectHigh, TargetFPS: 60, RenderScale: 1.0}, CapabilitiesFor(ClassDesktop))
	assert.Equal(t, CapabilitiesFor(ClassDesktop), CapabilitiesFor(Class(42)))
}

func TestCapabilitiesAreMonotonicAcrossClasses(t *testing.T) {
	order := []Class{ClassMobile, ClassTablet, ClassDesktop}
	for i := 1; i < len(order); i++ {
		lo, hi := CapabilitiesFor(order[i-1]), CapabilitiesFor(order[i])
		assert.Less(t, lo.MaxParticles, hi.MaxParticles)
		assert.Less(t, int(lo.Complexity), int(hi.Complexity))
		assert.Less(t, lo.TargetFPS, hi.TargetFPS)
		assert.Less(t, lo.RenderScale, hi.RenderScale)
	}
}

func TestPerformanceMode(t *testing.T) {
	assert.Equal(t, ModeLow, PerformanceMode(Signals{ReducedMotion: true}, ClassDesktop))
	assert.Equal(t, ModeLow, PerformanceMode(Signals{LowPower: true}, ClassMobile))
	assert.Equal(t, ModeMedium, PerformanceMode(Signals{}, ClassMobile))
	assert.Equal(t, ModeHigh, PerformanceMode(Signals{}, ClassTablet))
}

func TestDetect(t *testing.T) {
	p := Detect(Signals{ViewportWidth: 390, UserAgent: "Android"})
	assert.Equal(t, ClassMobile, p.Class)
	assert.Equal(t, 50, p.Capabilities.MaxParticles)
	assert.Equal(t, ModeMedium, p.Mode)
	assert.Equal(t, quality.Ceiling{MaxParticles: 50, RenderScale: 0.7, Complexity: quality.EffectLow}, p.Capabilities.Ceiling())
}

func TestDetectViewportFlags(t *testing.T) {
	p := Detect(Signals{ViewportWidth: 700, DevicePixelRatio: 2})
	assert.True(t, p.MobileViewport)
	assert.True(t, p.HighDensity)

	p = Detect(Signals{ViewportWidth: 1440, DevicePixelRatio: 1})
	assert.False(t, p.MobileViewport)
	assert.False(t, p.HighDensity)
}

func TestLogicalWidth(t *testing.T) {
	assert.Equal(t, 900, LogicalWidth(1800, 2))
	assert.Equal(t, 1280, LogicalWidth(1280, 0))
	assert.Equal(t, 1280, LogicalWidth(1280, -1))
	assert.Equal(t, ClassTablet, Classify(Signals{ViewportWidth: LogicalWidth(1800, 2)}))
}

func TestViewportHelpers(t *testing.T) {
	assert.True(t, IsMobileViewport(768))
	assert.False(t, IsMobileViewport(769))
	assert.False(t, IsMobileViewport(0))
	assert.True(t, IsHighDensity(2))
	assert.False(t, IsHighDensity(1.5))
	assert.True(t, IsMobileAgent("Opera Mini/8"))
	assert.False(t, IsMobileAgent("linux/amd64"))
}

func TestParseClass(t *testing.T) {
	for _, c := range []Class{ClassMobile, ClassTablet, ClassDesktop} {
		got, ok := ParseClass(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseClass("watch")
	assert.False(t, ok)
}
