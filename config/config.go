// Package config loads the frost runtime configuration: built-in defaults, then an optional
// YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/device"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Window struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Headless bool   `yaml:"headless"`
	// Frames stops a headless run after n frames; 0 runs until interrupted.
	Frames int `yaml:"frames,omitempty"`
}

type Renderer struct {
	PresentMode    string `yaml:"present_mode"` // "vsync" | "uncapped"
	SoftwareRender bool   `yaml:"software_render"`
}

type Device struct {
	Touch              bool    `yaml:"touch"`
	UserAgent          string  `yaml:"user_agent"`
	PixelRatio         float64 `yaml:"pixel_ratio"`
	ReducedMotion      bool    `yaml:"reduced_motion"`
	LowPower           bool    `yaml:"low_power"`
	ReclassifyOnResize bool    `yaml:"reclassify_on_resize"`
}

type Performance struct {
	FrameLimit  float64   `yaml:"frame_limit"` // fps cap, 0 = uncapped
	WindowMs    int       `yaml:"window_ms"`
	LowFPS      float64   `yaml:"low_fps"`
	HighFPS     float64   `yaml:"high_fps"`
	Ladder      []float64 `yaml:"ladder"`
	InitialTier float64   `yaml:"initial_tier,omitempty"` // 0 = chosen from the device mode
	Logging     bool      `yaml:"logging"`
}

type Scene struct {
	Seed        uint64 `yaml:"seed,omitempty"` // 0 = seeded from the clock
	BakeWorkers int    `yaml:"bake_workers,omitempty"`
	Projects    string `yaml:"projects,omitempty"` // YAML project file; empty = embedded defaults
}

type Post struct {
	BloomThreshold float64 `yaml:"bloom_threshold"`
	BloomStrength  float64 `yaml:"bloom_strength"`
	BloomFloor     float64 `yaml:"bloom_floor"`
	GrainAmount    float64 `yaml:"grain_amount"`
	VignetteInner  float64 `yaml:"vignette_inner"`
	VignetteOuter  float64 `yaml:"vignette_outer"`
}

type Entry struct {
	OverlayDelayMs int     `yaml:"overlay_delay_ms"`
	OverlayFadeMs  int     `yaml:"overlay_fade_ms"`
	ZoomRadius     float64 `yaml:"zoom_radius"`
	ZoomMs         int     `yaml:"zoom_ms"`
	ZoomEase       string  `yaml:"zoom_ease"`
}

type Inspector struct {
	Enabled     bool   `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	BroadcastMs int    `yaml:"broadcast_ms"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Config struct {
	Window      Window      `yaml:"window"`
	Renderer    Renderer    `yaml:"renderer"`
	Device      Device      `yaml:"device"`
	Performance Performance `yaml:"performance"`
	Scene       Scene       `yaml:"scene"`
	Post        Post        `yaml:"post"`
	Entry       Entry       `yaml:"entry"`
	Inspector   Inspector   `yaml:"inspector"`
	Log         Log         `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window:   Window{Title: "frost", Width: 1280, Height: 720},
		Renderer: Renderer{PresentMode: "vsync"},
		Performance: Performance{
			WindowMs: 1000,
			LowFPS:   60,
			HighFPS:  100,
			Ladder:   []float64{0.5, 1.0},
		},
		Post: Post{
			BloomThreshold: 0.85,
			BloomStrength:  1.5,
			BloomFloor:     0.1,
			GrainAmount:    0.02,
			VignetteInner:  0.3,
			VignetteOuter:  0.8,
		},
		Entry: Entry{
			OverlayDelayMs: 1000,
			OverlayFadeMs:  500,
			ZoomRadius:     5,
			ZoomMs:         2000,
			ZoomEase:       "power2.inOut",
		},
		Inspector: Inspector{Addr: "127.0.0.1:7878", BroadcastMs: 100},
		Log:       Log{Level: "info", Pretty: true},
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file keep their default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports every nonsensical value, joined, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Frames < 0 {
		invalid("window.frames %d", c.Window.Frames)
	}
	if _, ok := presentModes[strings.ToLower(c.Renderer.PresentMode)]; !ok {
		invalid("renderer.present_mode %q", c.Renderer.PresentMode)
	}
	if c.Device.PixelRatio < 0 {
		invalid("device.pixel_ratio %v", c.Device.PixelRatio)
	}

	p := c.Performance
	if p.FrameLimit < 0 {
		invalid("performance.frame_limit %v", p.FrameLimit)
	}
	if p.WindowMs <= 0 {
		invalid("performance.window_ms %d", p.WindowMs)
	}
	if p.LowFPS <= 0 || p.HighFPS <= p.LowFPS {
		invalid("performance thresholds low %v high %v", p.LowFPS, p.HighFPS)
	}
	if err := c.Ladder().Validate(); err != nil {
		invalid("performance.ladder: %v", err)
	}
	if p.InitialTier != 0 && (p.InitialTier < float64(quality.MinTier) || p.InitialTier > float64(quality.MaxTier)) {
		invalid("performance.initial_tier %v", p.InitialTier)
	}

	if c.Scene.BakeWorkers < 0 {
		invalid("scene.bake_workers %d", c.Scene.BakeWorkers)
	}

	if c.Post.BloomThreshold < 0 || c.Post.BloomStrength < 0 || c.Post.BloomFloor < 0 {
		invalid("post bloom values must be non-negative")
	}
	if c.Post.GrainAmount < 0 {
		invalid("post.grain_amount %v", c.Post.GrainAmount)
	}
	if c.Post.VignetteInner >= c.Post.VignetteOuter {
		invalid("post vignette inner %v must be below outer %v", c.Post.VignetteInner, c.Post.VignetteOuter)
	}

	if c.Entry.OverlayDelayMs < 0 || c.Entry.OverlayFadeMs < 0 || c.Entry.ZoomMs < 0 {
		invalid("entry timings must be non-negative")
	}
	if _, err := animator.ParseEase(c.Entry.ZoomEase); err != nil {
		invalid("entry.zoom_ease: %v", err)
	}
	if c.Entry.ZoomRadius <= 0 {
		invalid("entry.zoom_radius %v", c.Entry.ZoomRadius)
	}

	if c.Inspector.Enabled && c.Inspector.Addr == "" {
		invalid("inspector.addr is empty")
	}
	if c.Inspector.BroadcastMs <= 0 {
		invalid("inspector.broadcast_ms %d", c.Inspector.BroadcastMs)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level %q", c.Log.Level)
	}

	return errors.Join(errs...)
}

var presentModes = map[string]renderer.PresentMode{
	"vsync":    renderer.PresentModeVSync,
	"uncapped": renderer.PresentModeUncapped,
}

// PresentMode returns the configured present mode, vsync when unrecognized.
func (c *Config) PresentMode() renderer.PresentMode {
	return presentModes[strings.ToLower(c.Renderer.PresentMode)]
}

// Ladder returns the performance ladder as quality tiers.
func (c *Config) Ladder() quality.Ladder {
	ladder := make(quality.Ladder, len(c.Performance.Ladder))
	for i, t := range c.Performance.Ladder {
		ladder[i] = quality.Tier(t)
	}
	return ladder
}

// Signals returns the device signals for classification. The viewport width comes from the
// window at runtime and is left unset.
func (c *Config) Signals() device.Signals {
	return device.Signals{
		Touch:            c.Device.Touch,
		UserAgent:        c.Device.UserAgent,
		DevicePixelRatio: c.Device.PixelRatio,
		ReducedMotion:    c.Device.ReducedMotion,
		LowPower:         c.Device.LowPower,
	}
}

// LogLevel returns the parsed log level, info when unparseable.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Ease returns the entry zoom easing, power2.inOut when unrecognized.
func (e Entry) Ease() animator.EaseFunc {
	if fn, err := animator.ParseEase(e.ZoomEase); err == nil {
		return fn
	}
	return animator.Power2InOut
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (e Entry) OverlayDelay() time.Duration { return ms(e.OverlayDelayMs) }
func (e Entry) OverlayFade() time.Duration  { return ms(e.OverlayFadeMs) }
func (e Entry) ZoomDuration() time.Duration { return ms(e.ZoomMs) }

func (p Performance) Window() time.Duration { return ms(p.WindowMs) }

func (i Inspector) BroadcastInterval() time.Duration { return ms(i.BroadcastMs) }
