package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorInjectsChunks(t *testing.T) {
	pp := NewPreProcessor()
	src := "// @oxy:include frame\n// @oxy:include vertex\n@vertex fn vs_main() {}"

	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Contains(t, out, "struct FrameUniform")
	assert.Contains(t, out, "struct VertexInput")
	assert.NotContains(t, out, "@oxy:")
	assert.Equal(t, []string{IncludeFrame, IncludeVertex}, pp.Includes())
}

func TestPreProcessorInjectsOnce(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("a", "// @oxy:include noise\nfn a() {}")

	out, err := pp.Process("// @oxy:include noise\n// @oxy:include a\n// @oxy:include noise")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "fn snoise("))
	assert.Equal(t, []string{IncludeNoise, "a"}, pp.Includes())
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("loop_a", "// @oxy:include loop_b")
	pp.Register("loop_b", "// @oxy:include loop_a")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "unknown chunk", source: "fn f() {}\n// @oxy:include missing", want: "line 2: unknown @oxy:include \"missing\""},
		{name: "unknown directive", source: "// @oxy:define X", want: "malformed directive"},
		{name: "missing name", source: "// @oxy:include", want: "malformed directive"},
		{name: "cycle", source: "// @oxy:include loop_a", want: "include cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pp.Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPreProcessorRegistered(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("crystal", "struct CrystalUniform { time: f32, }")
	assert.Equal(t, []string{"crystal", IncludeFrame, IncludeLightRig, IncludeNoise, IncludeVertex}, pp.Registered())
}

func TestNewShaderEntryPoint(t *testing.T) {
	s, err := NewShader("post", ShaderTypeFragment, "@vertex fn vs_main() {}\n@fragment\nfn fs_post() {}")
	require.NoError(t, err)
	assert.Equal(t, "fs_post", s.EntryPoint())
	assert.Equal(t, ShaderTypeFragment, s.ShaderType())
	assert.Empty(t, s.Includes())

	s, err = NewShader("post", ShaderTypeVertex, "fn helper() {}", WithEntryPoint("custom"))
	require.NoError(t, err)
	assert.Equal(t, "custom", s.EntryPoint())

	_, err = NewShader("empty", ShaderTypeVertex, "fn helper() {}")
	assert.ErrorContains(t, err, "no @vertex entry point")
}

func TestNewShaderWithPreProcessor(t *testing.T) {
	pp := NewPreProcessor()
	s, err := NewShader("crystal_vs", ShaderTypeVertex, "// @oxy:include frame\n@vertex fn vs_main() {}", WithPreProcessor(pp))
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "struct FrameUniform")
	assert.Equal(t, []string{IncludeFrame}, s.Includes())

	_, err = NewShader("bad", ShaderTypeVertex, "// @oxy:include nope", WithPreProcessor(pp))
	assert.ErrorContains(t, err, "shader bad")
}
