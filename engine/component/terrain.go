package component

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/light"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/terrain.wgsl
var terrainShaderSource string

// terrain is the implementation of the Terrain interface.
type terrain struct {
	width, depth   float32
	segX, segZ     int
	position       mgl32.Vec3
	dark, lightCol [3]float32

	mesh    *geometry.Mesh
	clock   clock
	uniform GPUTerrainUniform
	res     resources
}

// Terrain is the ground plane. Its elevation is evaluated per vertex on the GPU from the
// geometry.TerrainOctaves simplex layers; HeightAt is the matching CPU query.
type Terrain interface {
	Component

	// HeightAt returns the world-space ground height below (x, z).
	//
	// Parameters:
	//   - x, z: world-space coordinates
	//
	// Returns:
	//   - float32: the ground height
	HeightAt(x, z float32) float32
}

var _ Terrain = &terrain{}

// NewTerrain creates a 50 x 50 terrain with 100 x 100 segments at y = -2, colored from #383e4e
// to #b6bac5 by elevation.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Terrain: the new component
func NewTerrain(options ...TerrainBuilderOption) Terrain {
	t := &terrain{
		width:    50,
		depth:    50,
		segX:     100,
		segZ:     100,
		position: mgl32.Vec3{0, -2, 0},
		dark:     light.HexColor(0x383e4e),
		lightCol: light.HexColor(0xb6bac5),
	}
	for _, opt := range options {
		opt(t)
	}

	t.uniform = GPUTerrainUniform{
		Model:       mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z()),
		DarkColor:   t.dark,
		LightColor:  t.lightCol,
		OctaveCount: uint32(min(len(geometry.TerrainOctaves), len(t.uniform.Octaves))),
	}
	for i := range int(t.uniform.OctaveCount) {
		o := geometry.TerrainOctaves[i]
		t.uniform.Octaves[i] = [4]float32{float32(o.Frequency), float32(o.Amplitude), 0, 0}
	}
	return t
}

func (t *terrain) Kind() Kind {
	return KindTerrain
}

func (t *terrain) Bake() error {
	if t.mesh != nil {
		return nil
	}
	mesh, err := geometry.GenerateTerrain(t.width, t.depth, t.segX, t.segZ)
	if err != nil {
		return err
	}
	t.mesh = mesh
	return nil
}

func (t *terrain) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if t.res.ready {
		return nil
	}
	if err := t.Bake(); err != nil {
		return err
	}

	pp.Register(KindTerrain.chunk(), GPUTerrainUniformSource)
	p, err := newScenePipeline(pp, KindTerrain.String(), terrainShaderSource, 1,
		pipeline.WithCullMode(pipeline.CullModeNone),
	)
	if err != nil {
		return fmt.Errorf("terrain pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	if _, err := t.res.uploadMesh(r, "terrain", t.mesh); err != nil {
		t.res.release(r)
		return err
	}
	if _, err := t.res.createUniform(r, "terrain", &t.uniform); err != nil {
		t.res.release(r)
		return err
	}
	t.res.ready = true
	return nil
}

func (t *terrain) Update(ctx frame.Context) {
	t.uniform.Time = float32(t.clock.advance(ctx.Time))
}

func (t *terrain) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !t.res.ready {
		return fmt.Errorf("terrain: %w", ErrNotInitialized)
	}
	own := t.res.uniforms[0]
	b, err := bindings(KindTerrain, shared, own)
	if err != nil {
		return err
	}
	if err := r.WriteUniform(own, t.uniform.Marshal()); err != nil {
		return fmt.Errorf("terrain uniform: %w", err)
	}
	return r.Draw(renderer.DrawCall{
		Pipeline: KindTerrain.String(),
		Mesh:     t.res.meshes[0],
		Uniforms: b,
	})
}

func (t *terrain) Uniforms() Uniforms {
	u := t.uniform
	return &u
}

func (t *terrain) Dispose(r renderer.Renderer) {
	t.res.release(r)
}

func (t *terrain) HeightAt(x, z float32) float32 {
	local := mgl32.Vec3{x, 0, z}.Sub(t.position)
	h := geometry.TerrainHeight(float64(local.X()), float64(local.Z()))
	return t.position.Y() + float32(h)
}
