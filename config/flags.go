package config

import (
	"errors"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "frost.yaml"

// override copies one flag-bound value from src into dst.
type override func(dst, src *Config)

// bind registers the command-line flags on set. Parsed values land in into; the returned
// overrides copy each flag's field, keyed by flag name.
func bind(set *pflag.FlagSet, into *Config) map[string]override {
	set.StringVar(&into.Window.Title, "title", into.Window.Title, "window title")
	set.IntVar(&into.Window.Width, "width", into.Window.Width, "window width in pixels")
	set.IntVar(&into.Window.Height, "height", into.Window.Height, "window height in pixels")
	set.BoolVar(&into.Window.Headless, "headless", into.Window.Headless, "render without a window or GPU")
	set.IntVar(&into.Window.Frames, "frames", into.Window.Frames, "stop a headless run after n frames (0 = run until interrupted)")
	set.StringVar(&into.Renderer.PresentMode, "present-mode", into.Renderer.PresentMode, "present mode: vsync | uncapped")
	set.BoolVar(&into.Renderer.SoftwareRender, "software", into.Renderer.SoftwareRender, "force the software fallback adapter")
	set.Float64Var(&into.Performance.FrameLimit, "fps-limit", into.Performance.FrameLimit, "frame rate cap (0 = uncapped)")
	set.BoolVar(&into.Performance.Logging, "profile", into.Performance.Logging, "log every profiler sample")
	set.BoolVar(&into.Device.ReclassifyOnResize, "reclassify", into.Device.ReclassifyOnResize, "re-run device classification on resize")
	set.BoolVar(&into.Device.LowPower, "low-power", into.Device.LowPower, "start at reduced quality")
	set.Uint64Var(&into.Scene.Seed, "seed", into.Scene.Seed, "scene random seed (0 = clock)")
	set.StringVar(&into.Scene.Projects, "projects", into.Scene.Projects, "project YAML file (empty = embedded)")
	set.BoolVar(&into.Inspector.Enabled, "inspector", into.Inspector.Enabled, "serve the websocket inspector")
	set.StringVar(&into.Inspector.Addr, "inspector-addr", into.Inspector.Addr, "inspector listen address")
	set.StringVar(&into.Log.Level, "log-level", into.Log.Level, "log level: trace | debug | info | warn | error")
	set.BoolVar(&into.Log.Pretty, "pretty", into.Log.Pretty, "human-readable console logs")

	return map[string]override{
		"title":          func(d, s *Config) { d.Window.Title = s.Window.Title },
		"width":          func(d, s *Config) { d.Window.Width = s.Window.Width },
		"height":         func(d, s *Config) { d.Window.Height = s.Window.Height },
		"headless":       func(d, s *Config) { d.Window.Headless = s.Window.Headless },
		"frames":         func(d, s *Config) { d.Window.Frames = s.Window.Frames },
		"present-mode":   func(d, s *Config) { d.Renderer.PresentMode = s.Renderer.PresentMode },
		"software":       func(d, s *Config) { d.Renderer.SoftwareRender = s.Renderer.SoftwareRender },
		"fps-limit":      func(d, s *Config) { d.Performance.FrameLimit = s.Performance.FrameLimit },
		"profile":        func(d, s *Config) { d.Performance.Logging = s.Performance.Logging },
		"reclassify":     func(d, s *Config) { d.Device.ReclassifyOnResize = s.Device.ReclassifyOnResize },
		"low-power":      func(d, s *Config) { d.Device.LowPower = s.Device.LowPower },
		"seed":           func(d, s *Config) { d.Scene.Seed = s.Scene.Seed },
		"projects":       func(d, s *Config) { d.Scene.Projects = s.Scene.Projects },
		"inspector":      func(d, s *Config) { d.Inspector.Enabled = s.Inspector.Enabled },
		"inspector-addr": func(d, s *Config) { d.Inspector.Addr = s.Inspector.Addr },
		"log-level":      func(d, s *Config) { d.Log.Level = s.Log.Level },
		"pretty":         func(d, s *Config) { d.Log.Pretty = s.Log.Pretty },
	}
}

// NewCommand creates the root command. Its flags mirror the config fields; run receives the
// effective configuration: defaults, then the YAML file named by --config, then every flag set
// explicitly on the command line. A missing default file is not an error; a missing file named
// with --config is.
//
// Parameters:
//   - name: the command name shown in usage output
//   - run: called with the validated configuration
//
// Returns:
//   - *cobra.Command: the root command
func NewCommand(name string, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	flagged := Default()
	path := DefaultPath

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Render the frost scene",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&path, "config", "c", path, "path to the YAML config file")
	overrides := bind(cmd.Flags(), flagged)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolve(cmd.Flags(), path, flagged, overrides)
		if err != nil {
			return err
		}
		return run(cmd, cfg)
	}
	return cmd
}

func resolve(flags *pflag.FlagSet, path string, flagged *Config, overrides map[string]override) (*Config, error) {
	cfg, err := Load(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !flags.Changed("config"):
		log.Warn().Str("component", "config").Str("path", path).Msg("config file not found; using defaults")
		cfg = Default()
	default:
		return nil, err
	}

	for name, apply := range overrides {
		if flags.Changed(name) {
			apply(cfg, flagged)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromArgs resolves the configuration for args without running anything.
//
// Parameters:
//   - name: the command name for usage output
//   - args: the command-line arguments without the program name
//
// Returns:
//   - *Config: the validated configuration
//   - error: a flag, file or validation error; pflag.ErrHelp when help was requested
func FromArgs(name string, args []string) (*Config, error) {
	var cfg *Config
	cmd := NewCommand(name, func(_ *cobra.Command, c *Config) error {
		cfg = c
		return nil
	})
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, pflag.ErrHelp
	}
	return cfg, nil
}
