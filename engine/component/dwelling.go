package component

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/dwelling.wgsl
var dwellingShaderSource string

// dwellingPart places one segmented shape inside the dwelling group.
type dwellingPart struct {
	blocks   func() ([]geometry.Block, error)
	position mgl32.Vec3
	rotation mgl32.Vec3
}

var dwellingParts = []dwellingPart{
	{
		blocks: func() ([]geometry.Block, error) { return geometry.SphereBand(2.5, 16, 8, 0.6*math.Pi) },
	},
	{
		blocks:   func() ([]geometry.Block, error) { return geometry.CylinderArc(0.8, 1.5, 8, math.Pi) },
		position: mgl32.Vec3{0, -0.2, 2.2},
		rotation: mgl32.Vec3{0, 0, math.Pi / 2},
	},
	{
		blocks:   func() ([]geometry.Block, error) { return geometry.RingArc(0.6, 1.0, 8, math.Pi) },
		position: mgl32.Vec3{0, 0.4, 3.0},
	},
}

// dwelling is the implementation of the Dwelling interface.
type dwelling struct {
	position mgl32.Vec3

	mesh     *geometry.Mesh
	current  []common.Transform
	snapshot []common.Transform
	dirty    bool
	uploaded bool

	clock      clock
	uniform    GPUDwellingUniform
	transforms GPUBlockTransforms
	res        resources
}

// Dwelling is the segmented dome with its entrance tunnel and arch. Every quad is a block with
// its own transform, so the dwelling is the target of the disassembly and reassembly sequences.
// Blocks share one mesh; their transforms are uploaded as a matrix array.
type Dwelling interface {
	Component
	animator.Target
}

var (
	_ Dwelling        = &dwelling{}
	_ animator.Target = &dwelling{}
)

// NewDwelling creates the dwelling with its group at (0, -0.5, 0).
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Dwelling: the new component
func NewDwelling(options ...DwellingBuilderOption) Dwelling {
	d := &dwelling{
		position: mgl32.Vec3{0, -0.5, 0},
	}
	for _, opt := range options {
		opt(d)
	}

	d.uniform = GPUDwellingUniform{
		Model:      mgl32.Translate3D(d.position.X(), d.position.Y(), d.position.Z()),
		BlockCount: DwellingBlocks,
		Ambient:    0.6,
		Diffuse:    0.4,
	}
	for i := range d.transforms.Matrices {
		d.transforms.Matrices[i] = mgl32.Ident4()
	}
	return d
}

func (d *dwelling) Kind() Kind {
	return KindDwelling
}

func (d *dwelling) Bake() error {
	if d.mesh != nil {
		return nil
	}

	mesh := &geometry.Mesh{}
	var snapshot []common.Transform
	for _, part := range dwellingParts {
		blocks, err := part.blocks()
		if err != nil {
			return fmt.Errorf("dwelling: %w", err)
		}
		placement := common.Transform{Position: part.position, Rotation: part.rotation}.Matrix()
		for _, b := range blocks {
			index := float32(len(snapshot))
			for i := range b.Mesh.Vertices {
				b.Mesh.Vertices[i].Extra[0] = index
			}
			mesh.Append(b.Mesh)

			t := common.NewTransform(placement.Mul4x1(b.Center.Vec4(1)).Vec3())
			t.Rotation = part.rotation
			snapshot = append(snapshot, t)
		}
	}
	if len(snapshot) != DwellingBlocks {
		return fmt.Errorf("dwelling: %d blocks, expected %d", len(snapshot), DwellingBlocks)
	}

	d.mesh = mesh
	d.snapshot = snapshot
	d.current = append([]common.Transform(nil), snapshot...)
	d.dirty = true
	return nil
}

func (d *dwelling) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if d.res.ready {
		return nil
	}
	if err := d.Bake(); err != nil {
		return err
	}
	d.refreshTransforms()

	pp.Register(KindDwelling.chunk(), GPUDwellingUniformSource)
	p, err := newScenePipeline(pp, KindDwelling.String(), dwellingShaderSource, 2,
		pipeline.WithCullMode(pipeline.CullModeNone),
	)
	if err != nil {
		return fmt.Errorf("dwelling pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	if _, err := d.res.uploadMesh(r, "dwelling", d.mesh); err != nil {
		d.res.release(r)
		return err
	}
	if _, err := d.res.createUniform(r, "dwelling", &d.uniform); err != nil {
		d.res.release(r)
		return err
	}
	if _, err := d.res.createUniform(r, "dwelling blocks", &d.transforms); err != nil {
		d.res.release(r)
		return err
	}
	d.uploaded = true
	d.res.ready = true
	return nil
}

// refreshTransforms rebuilds the block matrices after a transform change.
func (d *dwelling) refreshTransforms() {
	if !d.dirty {
		return
	}
	for i, t := range d.current {
		d.transforms.Matrices[i] = t.Matrix()
	}
	d.dirty = false
	d.uploaded = false
}

func (d *dwelling) Update(ctx frame.Context) {
	d.uniform.Time = float32(d.clock.advance(ctx.Time))
	d.refreshTransforms()
}

func (d *dwelling) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !d.res.ready {
		return fmt.Errorf("dwelling: %w", ErrNotInitialized)
	}
	own, blocks := d.res.uniforms[0], d.res.uniforms[1]
	b, err := bindings(KindDwelling, shared, own, blocks)
	if err != nil {
		return err
	}
	if err := r.WriteUniform(own, d.uniform.Marshal()); err != nil {
		return fmt.Errorf("dwelling uniform: %w", err)
	}
	if !d.uploaded {
		if err := r.WriteUniform(blocks, d.transforms.Marshal()); err != nil {
			return fmt.Errorf("dwelling blocks: %w", err)
		}
		d.uploaded = true
	}
	return r.Draw(renderer.DrawCall{
		Pipeline: KindDwelling.String(),
		Mesh:     d.res.meshes[0],
		Uniforms: b,
	})
}

func (d *dwelling) Uniforms() Uniforms {
	u := d.uniform
	return &u
}

func (d *dwelling) Dispose(r renderer.Renderer) {
	d.res.release(r)
	d.uploaded = false
}

func (d *dwelling) Len() int {
	return len(d.current)
}

func (d *dwelling) Transform(i int) common.Transform {
	return d.current[i]
}

func (d *dwelling) SetTransform(i int, t common.Transform) {
	d.current[i] = t
	d.dirty = true
}

func (d *dwelling) Snapshot(i int) common.Transform {
	return d.snapshot[i]
}
