package shader

import (
	"fmt"
	"regexp"
)

// ShaderType distinguishes the pipeline stage a shader module targets.
type ShaderType int

const (
	// ShaderTypeVertex indicates a vertex shader stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment indicates a fragment shader stage.
	ShaderTypeFragment
)

// String returns the WGSL stage attribute name for the shader type.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	includes   []string

	pp PreProcessor
}

// Shader represents a pre-processed WGSL shader stage ready for pipeline creation.
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the processed WGSL source with every include resolved.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// EntryPoint returns the name of the stage entry point function.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: vertex or fragment
	ShaderType() ShaderType

	// Includes returns the names of the chunks injected by the pre-processor, in injection order.
	//
	// Returns:
	//   - []string: injected chunk names
	Includes() []string
}

var _ Shader = &shader{}

var entryPointPattern = map[ShaderType]*regexp.Regexp{
	ShaderTypeVertex:   regexp.MustCompile(`@vertex\s+fn\s+([A-Za-z_][A-Za-z0-9_]*)`),
	ShaderTypeFragment: regexp.MustCompile(`@fragment\s+fn\s+([A-Za-z_][A-Za-z0-9_]*)`),
}

// NewShader creates a Shader from WGSL source. When a PreProcessor is supplied the source is
// processed first. The entry point is read from the first function carrying the stage attribute
// unless WithEntryPoint overrides it.
//
// Parameters:
//   - key: unique identifier for the shader
//   - shaderType: the pipeline stage
//   - source: raw WGSL source, optionally containing @oxy:include directives
//   - options: functional options
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails or no entry point can be found
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		source:     source,
	}
	for _, option := range options {
		option(s)
	}

	if s.pp != nil {
		processed, err := s.pp.Process(source)
		if err != nil {
			return nil, fmt.Errorf("shader %s: %w", key, err)
		}
		s.source = processed
		s.includes = s.pp.Includes()
	}

	if s.entryPoint == "" {
		re, ok := entryPointPattern[shaderType]
		if !ok {
			return nil, fmt.Errorf("shader %s: unsupported shader type %v", key, shaderType)
		}
		m := re.FindStringSubmatch(s.source)
		if m == nil {
			return nil, fmt.Errorf("shader %s: no @%s entry point found", key, shaderType)
		}
		s.entryPoint = m[1]
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Includes() []string {
	return s.includes
}
