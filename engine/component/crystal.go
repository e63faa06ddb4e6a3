package component

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/crystal.wgsl
var crystalShaderSource string

// crystal is the implementation of the Crystal interface.
type crystal struct {
	detail        int
	rng           common.Random
	position      mgl32.Vec3
	pointerFactor float32
	smoothing     float32

	mesh     *geometry.Mesh
	smoothed mgl32.Vec2
	clock    clock
	uniform  GPUCrystalUniform
	res      resources
}

// Crystal is the translucent centerpiece. Its shape is baked once; the deformation, spin and
// pointer response run in the vertex shader from the smoothed pointer.
type Crystal interface {
	Component

	// Pointer returns the smoothed pointer uploaded with the last update.
	//
	// Returns:
	//   - mgl32.Vec2: the smoothed pointer
	Pointer() mgl32.Vec2

	// Mesh returns the baked mesh, or nil before Bake.
	//
	// Returns:
	//   - *geometry.Mesh: the mesh
	Mesh() *geometry.Mesh
}

var _ Crystal = &crystal{}

// NewCrystal creates the crystal with detail 3 at (0, 1.5, 0). The pointer target is the frame
// pointer scaled by 0.8, approached by 8% of the remaining distance per update.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Crystal: the new component
func NewCrystal(options ...CrystalBuilderOption) Crystal {
	c := &crystal{
		detail:        3,
		position:      mgl32.Vec3{0, 1.5, 0},
		pointerFactor: 0.8,
		smoothing:     0.08,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.rng == nil {
		c.rng = common.NewRandom(uint64(time.Now().UnixNano()))
	}

	c.uniform = GPUCrystalUniform{
		Model:        mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z()),
		RotationBase: 0.06,
		RotationGain: 0.15,
	}
	return c
}

func (c *crystal) Kind() Kind {
	return KindCrystal
}

func (c *crystal) Bake() error {
	if c.mesh != nil {
		return nil
	}
	mesh, err := geometry.GenerateCrystal(c.detail, c.rng)
	if err != nil {
		return err
	}
	c.mesh = mesh
	return nil
}

func (c *crystal) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if c.res.ready {
		return nil
	}
	if err := c.Bake(); err != nil {
		return err
	}

	pp.Register(KindCrystal.chunk(), GPUCrystalUniformSource)
	p, err := newScenePipeline(pp, KindCrystal.String(), crystalShaderSource, 1,
		pipeline.WithBlendMode(pipeline.BlendModeAlpha),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(pipeline.CullModeNone),
	)
	if err != nil {
		return fmt.Errorf("crystal pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	if _, err := c.res.uploadMesh(r, "crystal", c.mesh); err != nil {
		c.res.release(r)
		return err
	}
	if _, err := c.res.createUniform(r, "crystal", &c.uniform); err != nil {
		c.res.release(r)
		return err
	}
	c.res.ready = true
	return nil
}

func (c *crystal) Update(ctx frame.Context) {
	target := ctx.Pointer.Position.Mul(c.pointerFactor)
	c.smoothed = common.ExpSmooth(c.smoothed, target, c.smoothing)

	c.uniform.Time = float32(c.clock.advance(ctx.Time))
	c.uniform.Pointer = c.smoothed
	c.uniform.CameraPosition = ctx.Camera.Position
}

func (c *crystal) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !c.res.ready {
		return fmt.Errorf("crystal: %w", ErrNotInitialized)
	}
	own := c.res.uniforms[0]
	b, err := bindings(KindCrystal, shared, own)
	if err != nil {
		return err
	}
	if err := r.WriteUniform(own, c.uniform.Marshal()); err != nil {
		return fmt.Errorf("crystal uniform: %w", err)
	}
	return r.Draw(renderer.DrawCall{
		Pipeline: KindCrystal.String(),
		Mesh:     c.res.meshes[0],
		Uniforms: b,
	})
}

func (c *crystal) Uniforms() Uniforms {
	u := c.uniform
	return &u
}

func (c *crystal) Dispose(r renderer.Renderer) {
	c.res.release(r)
}

func (c *crystal) Pointer() mgl32.Vec2 {
	return c.smoothed
}

func (c *crystal) Mesh() *geometry.Mesh {
	return c.mesh
}
