package pipeline

import (
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthAttachment sets whether the pass this pipeline draws in has a depth attachment.
// Fullscreen post passes draw without one.
//
// Parameters:
//   - enabled: true if the pass carries a depth attachment
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth attachment state for this pipeline
func WithDepthAttachment(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthAttachment = enabled
	}
}

// WithBlendMode sets the color blend mode for this pipeline.
//
// Parameters:
//   - mode: the BlendMode to use
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend mode for this pipeline
func WithBlendMode(mode BlendMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendMode = mode
	}
}

// WithCullMode sets the face culling mode for this pipeline.
//
// Parameters:
//   - mode: the CullMode to use
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFormat sets the color target format for this pipeline.
//
// Parameters:
//   - format: the Format of the color target
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color format for this pipeline
func WithFormat(format Format) PipelineBuilderOption {
	return func(p *pipeline) {
		p.format = format
	}
}

// WithVertexLayout sets the vertex buffer layout for this pipeline.
//
// Parameters:
//   - layout: the VertexLayout consumed by the vertex shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(layout VertexLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayout = layout
	}
}

// WithBindings sets the number of uniform bindings (group 0) and texture/sampler pairs (group 1).
//
// Parameters:
//   - uniforms: number of uniform buffers
//   - textures: number of sampled textures
//
// Returns:
//   - PipelineBuilderOption: a function that sets the binding counts for this pipeline
func WithBindings(uniforms, textures int) PipelineBuilderOption {
	return func(p *pipeline) {
		if uniforms >= 0 {
			p.uniformCount = uniforms
		}
		if textures >= 0 {
			p.textureCount = textures
		}
	}
}
