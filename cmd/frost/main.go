// Command frost opens the frost scene in a desktop window (or headless with --headless).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-frost/config"
	"github.com/Carmen-Shannon/oxy-frost/engine"
	"github.com/Carmen-Shannon/oxy-frost/engine/compositor"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/gesture"
	"github.com/Carmen-Shannon/oxy-frost/engine/inspector"
	"github.com/Carmen-Shannon/oxy-frost/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-frost/engine/scene"
	"github.com/Carmen-Shannon/oxy-frost/engine/window"
	"github.com/Carmen-Shannon/oxy-frost/engine/window/desktop"
)

func main() {
	cmd := config.NewCommand("frost", func(_ *cobra.Command, cfg *config.Config) error {
		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.SetGlobalLevel(cfg.LogLevel())
		if cfg.Log.Pretty {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		}
		return run(cfg)
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// contentScaler is implemented by windows that know their display's pixel ratio.
type contentScaler interface {
	ContentScale() float64
}

func run(cfg *config.Config) error {
	projects := content.Default()
	if cfg.Scene.Projects != "" {
		p, err := content.Load(cfg.Scene.Projects)
		if err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		projects = p
	}

	win, r, err := openWindow(cfg)
	if err != nil {
		return err
	}

	signals := cfg.Signals()
	if cs, ok := win.(contentScaler); ok && signals.DevicePixelRatio <= 0 {
		signals.DevicePixelRatio = cs.ContentScale()
	}

	sceneOptions := []scene.SceneBuilderOption{}
	if cfg.Scene.Seed != 0 {
		sceneOptions = append(sceneOptions, scene.WithSeed(cfg.Scene.Seed))
	}
	if cfg.Scene.BakeWorkers > 0 {
		sceneOptions = append(sceneOptions, scene.WithBakeWorkers(cfg.Scene.BakeWorkers))
	}

	options := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithProjects(projects),
		engine.WithDeviceSignals(signals),
		engine.WithReclassifyOnResize(cfg.Device.ReclassifyOnResize),
		engine.WithRenderFrameLimit(cfg.Performance.FrameLimit),
		engine.WithProfiling(cfg.Performance.Logging),
		engine.WithSceneOptions(sceneOptions...),
		engine.WithCompositorOptions(
			compositor.WithBloom(float32(cfg.Post.BloomThreshold), float32(cfg.Post.BloomStrength), float32(cfg.Post.BloomFloor)),
			compositor.WithGrain(float32(cfg.Post.GrainAmount)),
			compositor.WithVignette(float32(cfg.Post.VignetteInner), float32(cfg.Post.VignetteOuter)),
		),
		engine.WithProfilerOptions(
			profiler.WithWindow(cfg.Performance.Window()),
			profiler.WithThresholds(cfg.Performance.LowFPS, cfg.Performance.HighFPS),
			profiler.WithLadder(cfg.Ladder()),
		),
		engine.WithGestureOptions(gesture.WithOverlayTiming(cfg.Entry.OverlayDelay(), cfg.Entry.OverlayFade())),
		engine.WithEntryZoom(float32(cfg.Entry.ZoomRadius), cfg.Entry.ZoomDuration(), cfg.Entry.Ease()),
	}
	if cfg.Performance.InitialTier != 0 {
		options = append(options, engine.WithInitialTier(quality.Tier(cfg.Performance.InitialTier)))
	}
	e := engine.NewEngine(options...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		e.Quit()
	}()

	if cfg.Inspector.Enabled {
		in := inspector.NewInspector(e.Store(),
			inspector.WithPoster(e.Post),
			inspector.WithCommandHandler(e.HandleCommand),
			inspector.WithBroadcastInterval(cfg.Inspector.BroadcastInterval()),
		)
		defer in.Close()
		go func() {
			if err := in.ListenAndServe(ctx, cfg.Inspector.Addr); err != nil {
				log.Error().Err(err).Msg("inspector stopped")
			}
		}()
	}

	log.Info().
		Int("width", cfg.Window.Width).
		Int("height", cfg.Window.Height).
		Bool("headless", cfg.Window.Headless).
		Int("projects", len(projects)).
		Msg("starting frost")
	return e.Run()
}

// openWindow creates the window and a renderer over the matching backend.
func openWindow(cfg *config.Config) (window.Window, renderer.Renderer, error) {
	options := []window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	}

	if cfg.Window.Headless {
		win := window.NewHeadlessWindow(options...)
		win.SetFrameLimit(cfg.Window.Frames)
		r := renderer.NewRenderer(
			renderer.WithSurfaceSize(win.Width(), win.Height()),
			renderer.WithPresentMode(cfg.PresentMode()),
		)
		return win, r, nil
	}

	win, err := desktop.NewWindow(options...)
	if err != nil {
		return nil, nil, err
	}
	backend := gpu.NewBackend(win.SurfaceDescriptor(), gpu.WithForceSoftwareRenderer(cfg.Renderer.SoftwareRender))
	r := renderer.NewRenderer(
		renderer.WithBackend(backend),
		renderer.WithPresentMode(cfg.PresentMode()),
		renderer.WithSurfaceSize(win.Width(), win.Height()),
	)
	return win, r, nil
}
