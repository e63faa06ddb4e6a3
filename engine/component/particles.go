package component

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/particles.wgsl
var particleShaderSource string

// particleField is the implementation of the ParticleField interface.
type particleField struct {
	capacity  int
	size      float32
	smoothing float32
	rng       common.Random

	attrs    []geometry.ParticleAttributes
	mesh     *geometry.Mesh
	drawn    int
	smoothed mgl32.Vec2
	clock    clock
	uniform  GPUParticleUniform
	res      resources
}

// ParticleField is a fixed-capacity cloud of ambient particles. Attributes are baked once; the
// orbit, bobbing and pointer attraction are computed in the vertex shader. A prefix of the
// field is drawn, sized by the quality bounds.
type ParticleField interface {
	Component

	// Capacity returns the number of baked particles.
	//
	// Returns:
	//   - int: the capacity
	Capacity() int

	// Drawn returns the number of particles drawn at the last update.
	//
	// Returns:
	//   - int: min(capacity, bounds.MaxParticles)
	Drawn() int

	// Attributes returns the baked attributes of particle i.
	//
	// Parameters:
	//   - i: the particle index
	//
	// Returns:
	//   - geometry.ParticleAttributes: the attributes
	Attributes(i int) geometry.ParticleAttributes

	// PositionAt evaluates the vertex shader motion of particle i on the CPU.
	//
	// Parameters:
	//   - i: the particle index
	//   - t: the time uniform in seconds
	//   - pointer: the pointer uniform
	//
	// Returns:
	//   - mgl32.Vec3: the world-space position
	PositionAt(i int, t float32, pointer mgl32.Vec2) mgl32.Vec3
}

var _ ParticleField = &particleField{}

// NewParticleField creates a field of 120 particles with a size uniform of 2.5.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - ParticleField: the new component
func NewParticleField(options ...ParticleBuilderOption) ParticleField {
	p := &particleField{
		capacity:  120,
		size:      2.5,
		smoothing: 0.08,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.rng == nil {
		p.rng = common.NewRandom(uint64(time.Now().UnixNano()))
	}
	p.drawn = max(p.capacity, 0)
	p.uniform = GPUParticleUniform{BaseSize: p.size}
	return p
}

func (p *particleField) Kind() Kind {
	return KindParticles
}

func (p *particleField) Bake() error {
	if p.mesh != nil {
		return nil
	}
	if p.capacity <= 0 {
		return fmt.Errorf("particle field capacity %d: %w", p.capacity, geometry.ErrInvalidDimensions)
	}

	rnd := func() float32 { return float32(p.rng.Float64()) }
	attrs := make([]geometry.ParticleAttributes, p.capacity)
	for i := range attrs {
		radius := 6 + rnd()*8
		theta := float64(rnd()) * 2 * math.Pi
		phi := float64(rnd()) * math.Pi
		attrs[i].Position = mgl32.Vec3{
			radius * float32(math.Sin(phi)*math.Cos(theta)),
			(rnd()-0.5)*6 + 1.5,
			radius * float32(math.Sin(phi)*math.Sin(theta)),
		}
		attrs[i].Scale = 0.3 + rnd()*0.8
		attrs[i].Speed = 0.2 + rnd()*0.4
		attrs[i].Offset = mgl32.Vec3{(rnd() - 0.5) * 6, (rnd() - 0.5) * 6, (rnd() - 0.5) * 6}
	}

	mesh, err := geometry.GenerateParticleQuads(attrs)
	if err != nil {
		return err
	}
	p.attrs = attrs
	p.mesh = mesh
	return nil
}

func (p *particleField) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if p.res.ready {
		return nil
	}
	if err := p.Bake(); err != nil {
		return err
	}

	pp.Register(KindParticles.chunk(), GPUParticleUniformSource)
	pl, err := newScenePipeline(pp, KindParticles.String(), particleShaderSource, 1,
		pipeline.WithBlendMode(pipeline.BlendModeAlpha),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(pipeline.CullModeNone),
	)
	if err != nil {
		return fmt.Errorf("particle pipeline: %w", err)
	}
	if err := r.RegisterPipelines(pl); err != nil {
		return err
	}

	if _, err := p.res.uploadMesh(r, "particles", p.mesh); err != nil {
		p.res.release(r)
		return err
	}
	if _, err := p.res.createUniform(r, "particles", &p.uniform); err != nil {
		p.res.release(r)
		return err
	}
	p.res.ready = true
	return nil
}

func (p *particleField) Update(ctx frame.Context) {
	p.smoothed = common.ExpSmooth(p.smoothed, ctx.Pointer.Position, p.smoothing)
	p.uniform.Time = float32(p.clock.advance(ctx.Time))
	p.uniform.Pointer = p.smoothed
	p.drawn = common.Clamp(ctx.Bounds.MaxParticles, 0, p.capacity)
}

func (p *particleField) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !p.res.ready {
		return fmt.Errorf("particles: %w", ErrNotInitialized)
	}
	if p.drawn == 0 {
		return nil
	}
	own := p.res.uniforms[0]
	b, err := bindings(KindParticles, shared, own)
	if err != nil {
		return err
	}
	if err := r.WriteUniform(own, p.uniform.Marshal()); err != nil {
		return fmt.Errorf("particle uniform: %w", err)
	}
	return r.Draw(renderer.DrawCall{
		Pipeline:   KindParticles.String(),
		Mesh:       p.res.meshes[0],
		IndexCount: p.drawn * 6,
		Uniforms:   b,
	})
}

func (p *particleField) Uniforms() Uniforms {
	u := p.uniform
	return &u
}

func (p *particleField) Dispose(r renderer.Renderer) {
	p.res.release(r)
}

func (p *particleField) Capacity() int {
	return p.capacity
}

func (p *particleField) Drawn() int {
	return p.drawn
}

func (p *particleField) Attributes(i int) geometry.ParticleAttributes {
	return p.attrs[i]
}

func (p *particleField) PositionAt(i int, t float32, pointer mgl32.Vec2) mgl32.Vec3 {
	a := p.attrs[i]
	tm := float64(t * a.Speed)
	off := a.Offset
	pos := a.Position.Add(off)

	orbitRadius := 2.5 + math.Sin(tm*0.2)*0.8
	orbitAngle := tm*0.05 + float64(off.X())*1.5
	pos[0] += float32(math.Sin(orbitAngle) * orbitRadius * 0.2)
	pos[2] += float32(math.Cos(orbitAngle) * orbitRadius * 0.2)

	pos[1] += float32(math.Sin(tm*0.5+float64(off.Y())*2) * 1.2)
	pos[1] += float32(math.Cos(tm*0.3+float64(off.Z())*1.5) * 0.6)

	pull := pointer.Mul(1.5)
	md := pointer.Len()
	return pos.Add(mgl32.Vec3{pull.X(), 0, pull.Y()}.Mul(md * 0.3))
}
