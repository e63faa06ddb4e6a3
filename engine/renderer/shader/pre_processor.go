// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for `// @oxy:include <name>` directives and replaces each with the
// registered WGSL chunk of that name, so Go-side GPU record layouts and their WGSL
// structs are defined once, next to each other.
//
// A chunk may itself include other chunks. Every chunk is injected at most once per
// Process call, at the position of its first include, and a chunk that includes
// itself (directly or through others) is an error.
package shader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/light"
)

const directivePrefix = "// @oxy:"

// Built-in chunk names registered by NewPreProcessor.
const (
	IncludeFrame    = "frame"
	IncludeLightRig = "light_rig"
	IncludeNoise    = "noise"
	IncludeVertex   = "vertex"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// registry maps chunk names to their WGSL source.
	registry map[string]string

	// includes accumulates the chunk names injected during a Process call in injection order.
	includes []string
}

// PreProcessor resolves @oxy:include directives in WGSL source. It is not safe for concurrent use.
type PreProcessor interface {
	// Register adds or replaces a named WGSL chunk.
	//
	// Parameters:
	//   - name: the chunk name used in `// @oxy:include <name>`
	//   - source: the WGSL text injected in place of the directive
	Register(name, source string)

	// Registered returns the sorted names of every registered chunk.
	//
	// Returns:
	//   - []string: chunk names
	Registered() []string

	// Process replaces every include directive in source with its chunk.
	// The includes list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error naming the line for unknown chunks, unknown directives or include cycles
	Process(source string) (string, error)

	// Includes returns the chunk names injected during the most recent Process call.
	//
	// Returns:
	//   - []string: injected chunk names in injection order
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's shared chunks registered: the per-frame
// uniform, the light rig, the noise library and the mesh vertex input.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]string{
			IncludeFrame:    camera.GPUFrameUniformSource,
			IncludeLightRig: light.GPULightRigSource,
			IncludeNoise:    geometry.NoiseSource,
			IncludeVertex:   geometry.VertexSource,
		},
	}
}

func (p *preProcessor) Register(name, source string) {
	p.registry[name] = source
}

func (p *preProcessor) Registered() []string {
	names := make([]string, 0, len(p.registry))
	for name := range p.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]
	seen := make(map[string]bool)
	out, err := p.expand("shader", source, seen, map[string]bool{})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (p *preProcessor) Includes() []string {
	return append([]string(nil), p.includes...)
}

// expand resolves directives in source. seen tracks chunks already injected in this Process call,
// active tracks the chunks currently being expanded for cycle detection.
func (p *preProcessor) expand(origin, source string, seen, active map[string]bool) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		directive, ok := strings.CutPrefix(strings.TrimSpace(line), directivePrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(directive)
		if len(fields) != 2 || fields[0] != "include" {
			return "", fmt.Errorf("%s line %d: malformed directive %q", origin, i+1, strings.TrimSpace(line))
		}
		name := fields[1]
		if active[name] {
			return "", fmt.Errorf("%s line %d: include cycle through %q", origin, i+1, name)
		}
		if seen[name] {
			continue
		}
		chunk, ok := p.registry[name]
		if !ok {
			return "", fmt.Errorf("%s line %d: unknown @oxy:include %q", origin, i+1, name)
		}

		seen[name] = true
		active[name] = true
		expanded, err := p.expand(name, chunk, seen, active)
		delete(active, name)
		if err != nil {
			return "", err
		}
		p.includes = append(p.includes, name)
		out = append(out, expanded)
	}
	return strings.Join(out, "\n"), nil
}
