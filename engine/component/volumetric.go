package component

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/volumetric.wgsl
var volumetricShaderSource string

// volumetricLight is the implementation of the VolumetricLight interface.
type volumetricLight struct {
	radius   float32
	segments int

	mesh    *geometry.Mesh
	effect  quality.EffectLevel
	clock   clock
	uniform GPUVolumetricUniform
	res     resources
}

// VolumetricLight is a large inside-out sphere shaded with scattered light through fbm fog.
// It renders back faces only, blends additively and never writes depth. It is not drawn at
// quality.EffectLow.
type VolumetricLight interface {
	Component

	// Active reports whether the last update allows the volume to be drawn.
	//
	// Returns:
	//   - bool: false at quality.EffectLow
	Active() bool

	// Density evaluates the fog density the fragment shader computes at p, with fog noise term n in [0, 1).
	//
	// Parameters:
	//   - p: the world-space sample point
	//   - n: the fbm value at p
	//
	// Returns:
	//   - float32: the fog density
	Density(p mgl32.Vec3, n float32) float32
}

var _ VolumetricLight = &volumetricLight{}

// NewVolumetricLight creates a 25-unit volume lit from (-2, 6, 4) with color (1, 0.9, 0.8) and
// density 0.4.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - VolumetricLight: the new component
func NewVolumetricLight(options ...VolumetricBuilderOption) VolumetricLight {
	v := &volumetricLight{
		radius:   25,
		segments: 32,
		effect:   quality.EffectHigh,
		uniform: GPUVolumetricUniform{
			LightPosition: [3]float32{-2, 6, 4},
			LightColor:    [3]float32{1, 0.9, 0.8},
			Density:       0.4,
		},
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *volumetricLight) Kind() Kind {
	return KindVolumetric
}

func (v *volumetricLight) Bake() error {
	if v.mesh != nil {
		return nil
	}
	mesh, err := geometry.GenerateSphere(v.radius, v.segments, v.segments)
	if err != nil {
		return err
	}
	v.mesh = mesh
	return nil
}

func (v *volumetricLight) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if v.res.ready {
		return nil
	}
	if err := v.Bake(); err != nil {
		return err
	}

	pp.Register(KindVolumetric.chunk(), GPUVolumetricUniformSource)
	p, err := newScenePipeline(pp, KindVolumetric.String(), volumetricShaderSource, 1,
		pipeline.WithCullMode(pipeline.CullModeFront),
		pipeline.WithBlendMode(pipeline.BlendModeAdditive),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err != nil {
		return fmt.Errorf("volumetric pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	if _, err := v.res.uploadMesh(r, "volumetric", v.mesh); err != nil {
		v.res.release(r)
		return err
	}
	if _, err := v.res.createUniform(r, "volumetric", &v.uniform); err != nil {
		v.res.release(r)
		return err
	}
	v.res.ready = true
	return nil
}

func (v *volumetricLight) Update(ctx frame.Context) {
	v.uniform.Time = float32(v.clock.advance(ctx.Time))
	v.effect = ctx.Bounds.Effect
}

func (v *volumetricLight) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !v.res.ready {
		return fmt.Errorf("volumetric: %w", ErrNotInitialized)
	}
	if !v.Active() {
		return nil
	}
	own := v.res.uniforms[0]
	b, err := bindings(KindVolumetric, shared, own)
	if err != nil {
		return err
	}
	if err := r.WriteUniform(own, v.uniform.Marshal()); err != nil {
		return fmt.Errorf("volumetric uniform: %w", err)
	}
	return r.Draw(renderer.DrawCall{
		Pipeline: KindVolumetric.String(),
		Mesh:     v.res.meshes[0],
		Uniforms: b,
	})
}

func (v *volumetricLight) Uniforms() Uniforms {
	u := v.uniform
	return &u
}

func (v *volumetricLight) Dispose(r renderer.Renderer) {
	v.res.release(r)
}

func (v *volumetricLight) Active() bool {
	return v.effect > quality.EffectLow
}

func (v *volumetricLight) Density(p mgl32.Vec3, n float32) float32 {
	d := mgl32.Vec3(v.uniform.LightPosition).Sub(p).Len()
	attenuation := 1 / (1 + 0.1*d + 0.01*d*d)
	return v.uniform.Density * (0.5 + 0.5*n) * attenuation
}
