// Package compositor renders the scene into an offscreen HDR target and composites it onto the
// swapchain through a bloom pass and a grain/vignette pass.
package compositor

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/bloom.wgsl
var bloomShaderSource string

//go:embed assets/grain.wgsl
var grainShaderSource string

// Pipeline keys registered by the compositor.
const (
	BloomPipelineKey = "post.bloom"
	GrainPipelineKey = "post.grain"
)

// Pass labels, in submission order.
const (
	ScenePass = "scene"
	BloomPass = "bloom"
	GrainPass = "grain"
)

// ErrDisposed is returned by Render after Dispose.
var ErrDisposed = errors.New("compositor disposed")

// SceneDrawer records the scene into the pass the compositor opens for it.
type SceneDrawer interface {
	// DrawScene records every scene draw into the active pass.
	//
	// Parameters:
	//   - r: the renderer with the scene pass open
	//
	// Returns:
	//   - error: the first draw error
	DrawScene(r renderer.Renderer) error
}

// SceneDrawerFunc adapts a function to the SceneDrawer interface.
type SceneDrawerFunc func(r renderer.Renderer) error

func (f SceneDrawerFunc) DrawScene(r renderer.Renderer) error {
	return f(r)
}

// compositor is the implementation of the Compositor interface.
type compositor struct {
	r      renderer.Renderer
	drawer SceneDrawer
	pp     shader.PreProcessor

	clearColor  [4]float64
	renderScale float64
	effect      quality.EffectLevel
	uniform     GPUPostUniform

	ready       bool
	postUniform renderer.UniformHandle

	targetsLive bool
	sceneTarget renderer.TargetHandle
	bloomTarget renderer.TargetHandle
	width       int
	height      int

	disposed bool
}

// Compositor owns the offscreen scene target and the post passes. It is driven from the frame
// thread and is not safe for concurrent use.
type Compositor interface {
	// Render records one full frame: the scene pass, the bloom pass unless the effect level is
	// quality.EffectLow, and the grain/vignette pass onto the swapchain, then presents it.
	// Targets and pipelines are created on the first call.
	//
	// Parameters:
	//   - time: the frame time in milliseconds, scaled by 0.001 to seed the grain
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, or the first renderer or scene error
	Render(time float64) error

	// Resize reconfigures the surface and releases the offscreen targets; they are re-created
	// at the next render. It is safe before any render.
	//
	// Parameters:
	//   - width, height: the new drawable size in pixels
	Resize(width, height int)

	// SetBounds applies the quality bounds. A render scale change releases the targets; an
	// effect level change toggles the bloom pass.
	//
	// Parameters:
	//   - bounds: the bounds derived from the current quality tier
	SetBounds(bounds quality.Bounds)

	// SceneTarget returns the offscreen target the scene is drawn into.
	//
	// Returns:
	//   - renderer.TargetHandle: the target
	//   - bool: false until the first render or after a resize
	SceneTarget() (renderer.TargetHandle, bool)

	// TargetSize returns the size the offscreen targets are created at for the current surface
	// and render scale.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	TargetSize() (int, int)

	// BloomActive reports whether the bloom pass runs at the current effect level.
	//
	// Returns:
	//   - bool: false at quality.EffectLow
	BloomActive() bool

	// Dispose releases the targets, the post uniform and the pass state. It is idempotent and
	// safe before any render.
	Dispose()
}

var _ Compositor = &compositor{}

// NewCompositor creates a compositor drawing the given scene with bloom threshold 0.85, strength
// 1.5 and grain amount 0.02.
//
// Parameters:
//   - r: the renderer to draw with
//   - drawer: the scene drawer invoked inside the scene pass
//   - options: functional options applied after the defaults
//
// Returns:
//   - Compositor: the new compositor
func NewCompositor(r renderer.Renderer, drawer SceneDrawer, options ...CompositorBuilderOption) Compositor {
	c := &compositor{
		r:           r,
		drawer:      drawer,
		clearColor:  [4]float64{0.02, 0.02, 0.035, 1},
		renderScale: 1,
		effect:      quality.EffectHigh,
		uniform: GPUPostUniform{
			GrainAmount:    0.02,
			BloomThreshold: 0.85,
			BloomStrength:  1.5,
			BloomFloor:     0.1,
			VignetteInner:  0.3,
			VignetteOuter:  0.8,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.pp == nil {
		c.pp = shader.NewPreProcessor()
	}
	return c
}

func (c *compositor) Render(time float64) error {
	if c.disposed {
		return ErrDisposed
	}
	if err := c.ensure(); err != nil {
		return err
	}

	c.uniform.Time = float32(time * 0.001)
	c.uniform.Resolution = [2]float32{float32(c.width), float32(c.height)}
	if err := c.r.WriteUniform(c.postUniform, c.uniform.Marshal()); err != nil {
		return fmt.Errorf("post uniform: %w", err)
	}

	if err := c.r.BeginFrame(); err != nil {
		return err
	}
	if err := c.record(); err != nil {
		c.abort()
		return err
	}
	if err := c.r.EndFrame(); err != nil {
		c.abort()
		return err
	}
	c.r.Present()
	return nil
}

// record submits the passes of one frame.
func (c *compositor) record() error {
	if err := c.r.BeginPass(renderer.PassDescriptor{Label: ScenePass, Target: c.sceneTarget, ClearColor: c.clearColor}); err != nil {
		return err
	}
	if err := c.drawer.DrawScene(c.r); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if err := c.r.EndPass(); err != nil {
		return err
	}

	source := c.sceneTarget
	if c.BloomActive() {
		if err := c.fullscreen(BloomPass, BloomPipelineKey, c.bloomTarget, c.sceneTarget); err != nil {
			return err
		}
		source = c.bloomTarget
	}
	return c.fullscreen(GrainPass, GrainPipelineKey, renderer.SurfaceTarget, source)
}

func (c *compositor) fullscreen(label, key string, target, source renderer.TargetHandle) error {
	if err := c.r.BeginPass(renderer.PassDescriptor{Label: label, Target: target}); err != nil {
		return err
	}
	if err := c.r.Draw(renderer.DrawCall{
		Pipeline:    key,
		VertexCount: 3,
		Uniforms:    []renderer.UniformHandle{c.postUniform},
		Textures:    []renderer.TargetHandle{source},
	}); err != nil {
		return fmt.Errorf("%s pass: %w", label, err)
	}
	return c.r.EndPass()
}

// abort closes whatever the failed frame left open so the next frame can begin.
func (c *compositor) abort() {
	_ = c.r.EndPass()
	_ = c.r.EndFrame()
	c.r.Present()
}

// ensure creates the pipelines, the post uniform and the targets that do not exist yet.
func (c *compositor) ensure() error {
	if !c.ready {
		if err := c.createPipelines(); err != nil {
			return err
		}
		h, err := c.r.CreateUniform("post", c.uniform.Size())
		if err != nil {
			return fmt.Errorf("post uniform: %w", err)
		}
		c.postUniform = h
		c.ready = true
	}
	if !c.targetsLive {
		return c.createTargets()
	}
	return nil
}

func (c *compositor) createPipelines() error {
	c.pp.Register("post_uniform", GPUPostUniformSource)
	c.pp.Register("fullscreen", fullscreenSource)

	bloom, err := c.newPostPipeline(BloomPipelineKey, bloomShaderSource, pipeline.FormatRGBA16Float)
	if err != nil {
		return err
	}
	grain, err := c.newPostPipeline(GrainPipelineKey, grainShaderSource, pipeline.FormatSurface)
	if err != nil {
		return err
	}
	return c.r.RegisterPipelines(bloom, grain)
}

func (c *compositor) newPostPipeline(key, source string, format pipeline.Format) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(key+".vs", shader.ShaderTypeVertex, source, shader.WithPreProcessor(c.pp))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	fs, err := shader.NewShader(key+".fs", shader.ShaderTypeFragment, source, shader.WithPreProcessor(c.pp))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithFormat(format),
		pipeline.WithDepthAttachment(false),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(pipeline.CullModeNone),
		pipeline.WithVertexLayout(pipeline.VertexLayoutNone),
		pipeline.WithBindings(1, 1),
	), nil
}

func (c *compositor) createTargets() error {
	w, h := c.TargetSize()
	scene, err := c.r.CreateTarget(renderer.TargetDescriptor{
		Label: "scene", Width: w, Height: h, Format: pipeline.FormatRGBA16Float, Depth: true,
	})
	if err != nil {
		return fmt.Errorf("scene target: %w", err)
	}
	bloom, err := c.r.CreateTarget(renderer.TargetDescriptor{
		Label: "bloom", Width: w, Height: h, Format: pipeline.FormatRGBA16Float,
	})
	if err != nil {
		_ = c.r.ReleaseTarget(scene)
		return fmt.Errorf("bloom target: %w", err)
	}

	c.sceneTarget, c.bloomTarget = scene, bloom
	c.width, c.height = w, h
	c.targetsLive = true
	log.Debug().Str("component", "compositor").Int("width", w).Int("height", h).Msg("targets created")
	return nil
}

func (c *compositor) releaseTargets() {
	if !c.targetsLive {
		return
	}
	_ = c.r.ReleaseTarget(c.sceneTarget)
	_ = c.r.ReleaseTarget(c.bloomTarget)
	c.targetsLive = false
}

func (c *compositor) Resize(width, height int) {
	if c.disposed {
		return
	}
	c.r.Resize(width, height)
	c.releaseTargets()
}

func (c *compositor) SetBounds(bounds quality.Bounds) {
	c.effect = bounds.Effect
	if bounds.RenderScale > 0 && bounds.RenderScale != c.renderScale {
		c.renderScale = bounds.RenderScale
		c.releaseTargets()
	}
}

func (c *compositor) SceneTarget() (renderer.TargetHandle, bool) {
	return c.sceneTarget, c.targetsLive
}

func (c *compositor) TargetSize() (int, int) {
	w, h := c.r.SurfaceSize()
	return max(1, int(math.Round(float64(w)*c.renderScale))), max(1, int(math.Round(float64(h)*c.renderScale)))
}

func (c *compositor) BloomActive() bool {
	return c.effect > quality.EffectLow
}

func (c *compositor) Dispose() {
	if c.disposed {
		return
	}
	c.releaseTargets()
	if c.ready {
		_ = c.r.ReleaseUniform(c.postUniform)
		c.ready = false
	}
	c.disposed = true
}
