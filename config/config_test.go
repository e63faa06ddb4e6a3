package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, renderer.PresentModeVSync, c.PresentMode())
	assert.Equal(t, quality.DefaultLadder, c.Ladder())
	assert.Equal(t, time.Second, c.Entry.OverlayDelay())
	assert.Equal(t, 500*time.Millisecond, c.Entry.OverlayFade())
	assert.Equal(t, 2*time.Second, c.Entry.ZoomDuration())
	assert.Equal(t, time.Second, c.Performance.Window())
	assert.NotNil(t, c.Entry.Ease())
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeFile(t, `
window:
  width: 800
post:
  grain_amount: 0.05
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, 0.05, c.Post.GrainAmount)
	assert.Equal(t, 0.85, c.Post.BloomThreshold)
	assert.Equal(t, "debug", c.LogLevel().String())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "window: [unclosed"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	c := Default()
	c.Scene.Seed = 42
	c.Inspector.Enabled = true
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestValidateCollectsErrors(t *testing.T) {
	c := Default()
	c.Window.Width = 0
	c.Performance.Ladder = []float64{1.0, 0.5}
	c.Post.VignetteInner = 0.9
	c.Entry.ZoomEase = "bounce"
	c.Log.Level = "loud"

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"window size", "performance.ladder", "vignette", "entry.zoom_ease", "log.level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateInitialTier(t *testing.T) {
	c := Default()
	c.Performance.InitialTier = 0.25
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
	c.Performance.InitialTier = 0.5
	assert.NoError(t, c.Validate())
}

func TestFromArgsLayers(t *testing.T) {
	path := writeFile(t, `
window:
  width: 800
  height: 600
scene:
  seed: 7
`)
	c, err := FromArgs("frost", []string{"--config", path, "--height", "500", "--headless", "--log-level", "warn"})
	require.NoError(t, err)
	assert.Equal(t, 800, c.Window.Width, "file value kept when the flag is unset")
	assert.Equal(t, 500, c.Window.Height, "explicit flag wins over the file")
	assert.True(t, c.Window.Headless)
	assert.Equal(t, uint64(7), c.Scene.Seed)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestFromArgsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := FromArgs("frost", []string{"--config", missing})
	assert.ErrorIs(t, err, os.ErrNotExist)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)
	c, err := FromArgs("frost", []string{"--width", "640"})
	require.NoError(t, err)
	assert.Equal(t, 640, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
}

func TestFromArgsRejectsInvalid(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	_, err = FromArgs("frost", []string{"--present-mode", "triple"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = FromArgs("frost", []string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestCommandFlagsAndArgs(t *testing.T) {
	path := writeFile(t, "window:\n  title: from-file\n")

	c, err := FromArgs("frost", []string{"-c", path, "--fps-limit", "30"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.Window.Title)
	assert.InDelta(t, 30, c.Performance.FrameLimit, 1e-9)

	_, err = FromArgs("frost", []string{"-c", path, "extra"})
	assert.Error(t, err, "positional arguments are rejected")

	_, err = FromArgs("frost", []string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestNewCommandRunsWithResolvedConfig(t *testing.T) {
	path := writeFile(t, "window:\n  width: 1024\n")

	var got *Config
	cmd := NewCommand("frost", func(_ *cobra.Command, c *Config) error {
		got = c
		return nil
	})
	cmd.SetArgs([]string{"--config", path, "--inspector"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, 1024, got.Window.Width)
	assert.True(t, got.Inspector.Enabled)

	failing := NewCommand("frost", func(*cobra.Command, *Config) error { return assert.AnError })
	failing.SetArgs([]string{"--config", path})
	assert.ErrorIs(t, failing.Execute(), assert.AnError)
}
