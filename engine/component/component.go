// Package component holds the six scene components. Each one owns its mesh, its typed GPU uniform
// record and its pipeline, and is driven by the scene through Init, Update, Draw and Dispose.
package component

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// ErrNotInitialized is returned by Draw before Init or after Dispose.
var ErrNotInitialized = errors.New("component not initialized")

// Kind identifies a component and tags its Uniforms record.
type Kind int

const (
	KindCrystal Kind = iota
	KindDwelling
	KindTerrain
	KindParticles
	KindVolumetric
	KindMarkers
)

// chunk is the pre-processor name of the kind's WGSL uniform struct.
func (k Kind) chunk() string {
	return k.String() + "_uniform"
}

// String returns the lower-case name of the kind, also used as its pipeline key.
func (k Kind) String() string {
	switch k {
	case KindCrystal:
		return "crystal"
	case KindDwelling:
		return "dwelling"
	case KindTerrain:
		return "terrain"
	case KindParticles:
		return "particles"
	case KindVolumetric:
		return "volumetric"
	case KindMarkers:
		return "markers"
	default:
		return "unknown"
	}
}

// Bindings shared by every scene pipeline in @group(0). A component's own record follows at
// BindingComponent.
const (
	BindingFrame     = 0
	BindingLightRig  = 1
	BindingComponent = 2

	// SharedUniformCount is the number of shared handles Draw expects.
	SharedUniformCount = 2
)

// Uniforms is a component's GPU uniform record. The concrete type is selected by Kind.
type Uniforms interface {
	// Kind returns the component kind the record belongs to.
	//
	// Returns:
	//   - Kind: the tag
	Kind() Kind

	// Size returns the byte size of the marshaled record, a multiple of 16.
	//
	// Returns:
	//   - int: the size in bytes
	Size() int

	// Marshal serializes the record for GPU upload.
	//
	// Returns:
	//   - []byte: Size() bytes in WGSL uniform layout
	Marshal() []byte
}

// Component is one scene element. Components are driven from the frame thread and are not safe for
// concurrent use, except Bake.
type Component interface {
	// Kind returns the component kind.
	//
	// Returns:
	//   - Kind: the kind
	Kind() Kind

	// Bake generates the CPU-side geometry. It touches no renderer state and may run on any
	// goroutine concurrently with other components' Bake. Calling it again is a no-op.
	//
	// Returns:
	//   - error: a geometry error, typically wrapping geometry.ErrInvalidDimensions
	Bake() error

	// Init bakes if needed, registers the component's WGSL chunk and pipeline, uploads the mesh
	// and creates the uniform buffers with their initial contents.
	//
	// Parameters:
	//   - r: the renderer
	//   - pp: the pre-processor shared by every scene shader
	//
	// Returns:
	//   - error: an error if baking, shader processing or resource creation fails
	Init(r renderer.Renderer, pp shader.PreProcessor) error

	// Update advances the component's CPU state and uniform record for one frame.
	//
	// Parameters:
	//   - ctx: the frame context
	Update(ctx frame.Context)

	// Draw uploads the current uniform record and records the component's draw into the active pass.
	//
	// Parameters:
	//   - r: the renderer
	//   - shared: the frame and light rig uniform handles, in binding order
	//
	// Returns:
	//   - error: ErrNotInitialized, or a renderer error
	Draw(r renderer.Renderer, shared []renderer.UniformHandle) error

	// Uniforms returns the current uniform record.
	//
	// Returns:
	//   - Uniforms: the record
	Uniforms() Uniforms

	// Dispose releases every GPU resource owned by the component. It is idempotent.
	//
	// Parameters:
	//   - r: the renderer the resources were created on
	Dispose(r renderer.Renderer)
}

// newScenePipeline builds a pipeline from a WGSL source holding both stages. Scene pipelines
// render into the RGBA16F scene target with depth and bind the shared uniforms first.
func newScenePipeline(pp shader.PreProcessor, key, source string, extraUniforms int, options ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(key+".vs", shader.ShaderTypeVertex, source, shader.WithPreProcessor(pp))
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(key+".fs", shader.ShaderTypeFragment, source, shader.WithPreProcessor(pp))
	if err != nil {
		return nil, err
	}

	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithFormat(pipeline.FormatRGBA16Float),
		pipeline.WithDepthAttachment(true),
		pipeline.WithBindings(SharedUniformCount+extraUniforms, 0),
	}
	return pipeline.NewPipeline(key, append(opts, options...)...), nil
}

// record is a GPU record with a byte layout.
type record interface {
	Size() int
	Marshal() []byte
}

// resources tracks the GPU handles of a component.
type resources struct {
	meshes   []renderer.MeshHandle
	uniforms []renderer.UniformHandle
	ready    bool
}

func (res *resources) uploadMesh(r renderer.Renderer, label string, mesh *geometry.Mesh) (renderer.MeshHandle, error) {
	h, err := r.CreateMesh(label, mesh.MarshalVertices(), mesh.MarshalIndices(), len(mesh.Indices))
	if err != nil {
		return 0, fmt.Errorf("%s mesh: %w", label, err)
	}
	res.meshes = append(res.meshes, h)
	return h, nil
}

func (res *resources) createUniform(r renderer.Renderer, label string, rec record) (renderer.UniformHandle, error) {
	h, err := r.CreateUniform(label, rec.Size())
	if err != nil {
		return 0, fmt.Errorf("%s uniform: %w", label, err)
	}
	res.uniforms = append(res.uniforms, h)
	if err := r.WriteUniform(h, rec.Marshal()); err != nil {
		return 0, fmt.Errorf("%s uniform: %w", label, err)
	}
	return h, nil
}

// bindings returns shared followed by own, after checking the shared count.
func bindings(kind Kind, shared []renderer.UniformHandle, own ...renderer.UniformHandle) ([]renderer.UniformHandle, error) {
	if len(shared) != SharedUniformCount {
		return nil, fmt.Errorf("%s: %d shared uniforms, expected %d", kind, len(shared), SharedUniformCount)
	}
	out := make([]renderer.UniformHandle, 0, len(shared)+len(own))
	out = append(out, shared...)
	return append(out, own...), nil
}

// release frees every handle. Release errors are ignored: the handles are dropped either way.
func (res *resources) release(r renderer.Renderer) {
	for _, h := range res.meshes {
		_ = r.ReleaseMesh(h)
	}
	for _, h := range res.uniforms {
		_ = r.ReleaseUniform(h)
	}
	res.meshes = nil
	res.uniforms = nil
	res.ready = false
}

// clock keeps a component's time uniform monotonic non-decreasing.
type clock struct {
	last float64
}

// advance returns t, or the last seen time when t is earlier.
func (c *clock) advance(t float64) float64 {
	if t > c.last {
		c.last = t
	}
	return c.last
}
