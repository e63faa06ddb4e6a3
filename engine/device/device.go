// Package device classifies the running device into a capability tier from viewport
// and input heuristics. Classification seeds the performance controller before it
// takes over.
package device

import (
	"math"
	"regexp"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
)

// Class is the device classification result.
type Class int

const (
	// ClassDesktop is the most capable tier and the fallback for unknown signals.
	ClassDesktop Class = iota

	// ClassTablet is the middle tier.
	ClassTablet

	// ClassMobile is the least capable tier.
	ClassMobile
)

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case ClassMobile:
		return "mobile"
	case ClassTablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// ParseClass converts a class name back into a Class.
//
// Parameters:
//   - s: the class name
//
// Returns:
//   - Class: the parsed class
//   - bool: false if the name is not a known class
func ParseClass(s string) (Class, bool) {
	switch s {
	case "mobile":
		return ClassMobile, true
	case "tablet":
		return ClassTablet, true
	case "desktop":
		return ClassDesktop, true
	default:
		return ClassDesktop, false
	}
}

// Mode is the coarse performance mode suggested by the device and user preferences.
type Mode int

const (
	// ModeHigh runs at full quality.
	ModeHigh Mode = iota

	// ModeMedium is suggested for mobile-class devices.
	ModeMedium

	// ModeLow is suggested when the user prefers reduced motion or the device is power constrained.
	ModeLow
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeLow:
		return "low"
	case ModeMedium:
		return "medium"
	default:
		return "high"
	}
}

// Signals are the raw inputs to classification. Zero values mean "unknown".
type Signals struct {
	// ViewportWidth is the logical viewport width in pixels; <= 0 when unknown.
	ViewportWidth int
	// Touch reports whether the primary input can produce touch events.
	Touch bool
	// UserAgent is a free-form platform identification string.
	UserAgent string
	// DevicePixelRatio is framebuffer pixels per logical pixel; <= 0 when unknown.
	DevicePixelRatio float64
	// ReducedMotion reports the user's reduced-motion preference.
	ReducedMotion bool
	// LowPower reports a battery-saver or otherwise power-constrained state.
	LowPower bool
}

// Capabilities is the fixed capability record attached to a Class.
type Capabilities struct {
	// MaxParticles is the particle cap at full quality.
	MaxParticles int
	// Complexity is the effect level at full quality.
	Complexity quality.EffectLevel
	// TargetFPS is the frame rate the device is expected to sustain.
	TargetFPS int
	// RenderScale is the render resolution scale at full quality.
	RenderScale float64
}

// Ceiling converts the capability record into the quality ceiling used to derive bounds.
func (c Capabilities) Ceiling() quality.Ceiling {
	return quality.Ceiling{
		MaxParticles: c.MaxParticles,
		RenderScale:  c.RenderScale,
		Complexity:   c.Complexity,
	}
}

// Profile bundles a classification with its capabilities and suggested mode.
type Profile struct {
	Class        Class
	Capabilities Capabilities
	Mode         Mode

	// MobileViewport reports a viewport in the mobile layout range.
	MobileViewport bool
	// HighDensity reports a high-density display.
	HighDensity bool
}

const (
	mobileMaxWidth        = 575
	touchTabletMaxWidth   = 768
	tabletMaxWidth        = 1024
	mobileViewportWidth   = 768
	highDensityPixelRatio = 1.5
)

var mobileAgent = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini`)

var capabilityTable = map[Class]Capabilities{
	ClassMobile:  {MaxParticles: 50, Complexity: quality.EffectLow, TargetFPS: 30, RenderScale: 0.7},
	ClassTablet:  {MaxParticles: 100, Complexity: quality.EffectMedium, TargetFPS: 45, RenderScale: 0.8},
	ClassDesktop: {MaxParticles: 200, Complexity: quality.EffectHigh, TargetFPS: 60, RenderScale: 1.0},
}

// Classify maps signals to a Class. Unknown or unavailable signals fall back to desktop.
//
// Parameters:
//   - s: the device signals
//
// Returns:
//   - Class: the classification
func Classify(s Signals) Class {
	w := s.ViewportWidth
	switch {
	case w <= 0:
		return ClassDesktop
	case w <= mobileMaxWidth:
		return ClassMobile
	case w <= touchTabletMaxWidth && (IsMobileAgent(s.UserAgent) || s.Touch):
		return ClassTablet
	case w <= tabletMaxWidth:
		return ClassTablet
	default:
		return ClassDesktop
	}
}

// CapabilitiesFor returns the capability record for a class.
//
// Parameters:
//   - c: the device class
//
// Returns:
//   - Capabilities: the fixed record for that class (desktop for unknown classes)
func CapabilitiesFor(c Class) Capabilities {
	if caps, ok := capabilityTable[c]; ok {
		return caps
	}
	return capabilityTable[ClassDesktop]
}

// PerformanceMode suggests a performance mode. Reduced motion or low power wins over
// the class; mobile suggests medium; everything else runs high.
//
// Parameters:
//   - s: the device signals
//   - c: the classification of s
//
// Returns:
//   - Mode: the suggested mode
func PerformanceMode(s Signals, c Class) Mode {
	switch {
	case s.ReducedMotion || s.LowPower:
		return ModeLow
	case c == ClassMobile:
		return ModeMedium
	default:
		return ModeHigh
	}
}

// Detect classifies the signals and attaches capabilities and the suggested mode.
//
// Parameters:
//   - s: the device signals
//
// Returns:
//   - Profile: the full detection result
func Detect(s Signals) Profile {
	c := Classify(s)
	return Profile{
		Class:        c,
		Capabilities: CapabilitiesFor(c),
		Mode:         PerformanceMode(s, c),

		MobileViewport: IsMobileViewport(s.ViewportWidth),
		HighDensity:    IsHighDensity(s.DevicePixelRatio),
	}
}

// LogicalWidth converts a framebuffer width to logical pixels. Classification thresholds are
// in logical pixels, so a 2x display reports half its framebuffer width.
//
// Parameters:
//   - framebufferWidth: the width in framebuffer pixels
//   - pixelRatio: framebuffer pixels per logical pixel; <= 0 when unknown
//
// Returns:
//   - int: the logical width
func LogicalWidth(framebufferWidth int, pixelRatio float64) int {
	if pixelRatio <= 0 {
		return framebufferWidth
	}
	return int(math.Round(float64(framebufferWidth) / pixelRatio))
}

// IsMobileAgent reports whether the user agent string names a mobile platform.
func IsMobileAgent(ua string) bool {
	return ua != "" && mobileAgent.MatchString(ua)
}

// IsMobileViewport reports whether a viewport width is in the mobile layout range.
func IsMobileViewport(width int) bool {
	return width > 0 && width <= mobileViewportWidth
}

// IsHighDensity reports whether the display is high density.
func IsHighDensity(pixelRatio float64) bool {
	return pixelRatio > highDensityPixelRatio
}
