package pipeline

import (
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// CullMode selects which triangle faces are discarded before rasterization.
type CullMode int

const (
	// CullModeNone draws both faces (double sided materials).
	CullModeNone CullMode = iota

	// CullModeBack discards back faces.
	CullModeBack

	// CullModeFront discards front faces, so only the inside of a closed mesh is drawn.
	CullModeFront
)

// BlendMode selects how fragment output is combined with the color target.
type BlendMode int

const (
	// BlendModeNone writes fragment color directly.
	BlendModeNone BlendMode = iota

	// BlendModeAlpha uses standard src-alpha / one-minus-src-alpha blending.
	BlendModeAlpha

	// BlendModeAdditive adds src-alpha weighted color onto the target.
	BlendModeAdditive
)

// Format identifies the color format a pipeline renders into.
type Format int

const (
	// FormatSurface is the swapchain's preferred format.
	FormatSurface Format = iota

	// FormatRGBA16Float is the half-float HDR format used by offscreen scene targets.
	FormatRGBA16Float
)

// VertexLayout identifies the vertex buffer layout a pipeline consumes.
type VertexLayout int

const (
	// VertexLayoutMesh consumes geometry.Vertex records (position, normal, color, extra).
	VertexLayoutMesh VertexLayout = iota

	// VertexLayoutNone consumes no vertex buffers. The vertex shader derives positions from
	// the vertex index, as fullscreen passes do.
	VertexLayoutNone
)

// pipeline is the implementation of the Pipeline interface.
// It holds the API-neutral description of a render pipeline plus the backend object created from it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// handle is the backend pipeline object, set once the pipeline is registered
	handle any

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthAttachment   bool
	blendMode         BlendMode
	cullMode          CullMode
	format            Format
	vertexLayout      VertexLayout
	uniformCount      int
	textureCount      int
}

// Pipeline defines the interface for a render pipeline description. It holds the shaders and all
// fixed-function state a backend needs to create the GPU object: depth, blend, cull, color format,
// vertex layout and the number of uniform and texture bindings.
//
// Binding convention: uniform i is @group(0) @binding(i). Texture i is @group(1) @binding(2i) with
// its sampler at @group(1) @binding(2i+1).
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Handle returns the backend pipeline object. The caller is responsible for type asserting it.
	//
	// Returns:
	//   - any: the backend object, or nil before registration
	Handle() any

	// SetHandle stores the backend pipeline object created from this description.
	//
	// Parameters:
	//   - h: the backend object
	SetHandle(h any)

	// DepthTestEnabled reports whether fragments are depth tested.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writes are enabled
	DepthWriteEnabled() bool

	// DepthAttachment reports whether the pass this pipeline draws in carries a depth attachment.
	//
	// Returns:
	//   - bool: true if a depth attachment is expected
	DepthAttachment() bool

	// BlendMode returns the color blend mode.
	//
	// Returns:
	//   - BlendMode: the blend mode
	BlendMode() BlendMode

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - CullMode: the cull mode
	CullMode() CullMode

	// Format returns the color target format.
	//
	// Returns:
	//   - Format: the target format
	Format() Format

	// VertexLayout returns the vertex buffer layout.
	//
	// Returns:
	//   - VertexLayout: the vertex layout
	VertexLayout() VertexLayout

	// UniformCount returns the number of uniform buffer bindings in group 0.
	//
	// Returns:
	//   - int: uniform binding count
	UniformCount() int

	// TextureCount returns the number of texture/sampler pairs in group 1.
	//
	// Returns:
	//   - int: texture binding count
	TextureCount() int
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline description with the given key and configuration options.
// Defaults: depth test and write on with a depth attachment, no blending, no culling,
// RGBA16Float target, mesh vertex layout, one uniform binding and no textures.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: optional configuration options for the pipeline
//
// Returns:
//   - Pipeline: the newly created pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthAttachment:   true,
		blendMode:         BlendModeNone,
		cullMode:          CullModeNone,
		format:            FormatRGBA16Float,
		vertexLayout:      VertexLayoutMesh,
		uniformCount:      1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Handle() any {
	return p.handle
}

func (p *pipeline) SetHandle(h any) {
	p.handle = h
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthAttachment() bool {
	return p.depthAttachment
}

func (p *pipeline) BlendMode() BlendMode {
	return p.blendMode
}

func (p *pipeline) CullMode() CullMode {
	return p.cullMode
}

func (p *pipeline) Format() Format {
	return p.format
}

func (p *pipeline) VertexLayout() VertexLayout {
	return p.vertexLayout
}

func (p *pipeline) UniformCount() int {
	return p.uniformCount
}

func (p *pipeline) TextureCount() int {
	return p.textureCount
}
