package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

func testPipeline(t *testing.T, key string, opts ...pipeline.PipelineBuilderOption) pipeline.Pipeline {
	t.Helper()
	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, "@vertex fn vs_main() {}")
	require.NoError(t, err)
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, "@fragment fn fs_main() {}")
	require.NoError(t, err)
	opts = append([]pipeline.PipelineBuilderOption{pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs)}, opts...)
	return pipeline.NewPipeline(key, opts...)
}

func newTestRenderer(t *testing.T) (Renderer, *HeadlessBackend) {
	t.Helper()
	b := NewHeadlessBackend()
	return NewRenderer(WithBackend(b), WithSurfaceSize(640, 480), WithPresentMode(PresentModeVSync)), b
}

func TestRegisterPipelinesSkipsDuplicates(t *testing.T) {
	r, b := newTestRenderer(t)
	p := testPipeline(t, "scene")

	require.NoError(t, r.RegisterPipelines(p, p))
	require.NoError(t, r.RegisterPipelines(testPipeline(t, "scene")))
	assert.Same(t, p, r.Pipeline("scene"))
	assert.Equal(t, "headless:scene", p.Handle())
	assert.Len(t, r.Pipelines(), 1)
	assert.Equal(t, 1, b.Stats().Pipelines)
	assert.Nil(t, r.Pipeline("missing"))
}

func TestRegisterPipelineRequiresShaders(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.RegisterPipelines(pipeline.NewPipeline("bare"))
	assert.ErrorContains(t, err, `pipeline "bare"`)
}

func TestFrameRecordsPasses(t *testing.T) {
	r, b := newTestRenderer(t)
	scene := testPipeline(t, "scene")
	post := testPipeline(t, "post",
		pipeline.WithFormat(pipeline.FormatSurface),
		pipeline.WithDepthAttachment(false),
		pipeline.WithVertexLayout(pipeline.VertexLayoutNone),
		pipeline.WithBindings(1, 1))
	require.NoError(t, r.RegisterPipelines(scene, post))

	mesh, err := r.CreateMesh("quad", make([]byte, 52*4), make([]byte, 24), 6)
	require.NoError(t, err)
	u, err := r.CreateUniform("frame", 32)
	require.NoError(t, err)
	target, err := r.CreateTarget(TargetDescriptor{Label: "scene", Width: 640, Height: 480, Format: pipeline.FormatRGBA16Float, Depth: true})
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(PassDescriptor{Label: "scene", Target: target}))
	require.NoError(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh, Uniforms: []UniformHandle{u}}))
	require.NoError(t, r.EndPass())
	require.NoError(t, r.BeginPass(PassDescriptor{Label: "post", Target: SurfaceTarget}))
	require.NoError(t, r.Draw(DrawCall{Pipeline: "post", VertexCount: 3, Uniforms: []UniformHandle{u}, Textures: []TargetHandle{target}}))
	require.NoError(t, r.EndPass())
	require.NoError(t, r.EndFrame())
	r.Present()

	frame := b.LastFrame()
	require.Len(t, frame, 2)
	assert.Equal(t, []string{"scene"}, frame[0].Draws)
	assert.Equal(t, SurfaceTarget, frame[1].Target)

	s := r.Stats()
	assert.Equal(t, 1, s.Frames)
	assert.Equal(t, 2, s.Passes)
	assert.Equal(t, 2, s.Draws)
	assert.Equal(t, PresentModeVSync, b.PresentMode())
}

func TestDrawValidation(t *testing.T) {
	r, _ := newTestRenderer(t)
	scene := testPipeline(t, "scene")
	require.NoError(t, r.RegisterPipelines(scene))
	mesh, err := r.CreateMesh("m", make([]byte, 52), make([]byte, 12), 3)
	require.NoError(t, err)
	u, err := r.CreateUniform("u", 16)
	require.NoError(t, err)
	target, err := r.CreateTarget(TargetDescriptor{Width: 4, Height: 4, Format: pipeline.FormatRGBA16Float, Depth: true})
	require.NoError(t, err)

	err = r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh, Uniforms: []UniformHandle{u}})
	assert.ErrorIs(t, err, ErrNoActivePass)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(t, r.BeginPass(PassDescriptor{Target: 999}), ErrUnknownHandle)
	require.NoError(t, r.BeginPass(PassDescriptor{Target: target}))
	assert.ErrorIs(t, r.BeginPass(PassDescriptor{Target: target}), ErrNoActivePass)

	assert.ErrorIs(t, r.Draw(DrawCall{Pipeline: "nope"}), ErrUnknownPipeline)
	assert.ErrorIs(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: 999, Uniforms: []UniformHandle{u}}), ErrUnknownHandle)
	assert.ErrorIs(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh, Uniforms: []UniformHandle{999}}), ErrUnknownHandle)
	assert.ErrorContains(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh}), "0 uniforms bound")
	assert.ErrorContains(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh, IndexCount: 6, Uniforms: []UniformHandle{u}}), "exceeds mesh")
	assert.ErrorContains(t, r.EndFrame(), "is open")

	require.NoError(t, r.EndPass())
	assert.ErrorIs(t, r.EndPass(), ErrNoActivePass)

	require.NoError(t, r.BeginPass(PassDescriptor{Target: SurfaceTarget}))
	assert.ErrorContains(t, r.Draw(DrawCall{Pipeline: "scene", Mesh: mesh, Uniforms: []UniformHandle{u}}), "attachments do not match")
	require.NoError(t, r.EndPass())
	require.NoError(t, r.EndFrame())

	assert.ErrorContains(t, r.BeginFrame(), "not yet presented")
	r.Present()
	assert.NoError(t, r.BeginFrame())
}

func TestTargetCannotSampleItself(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := testPipeline(t, "bloom", pipeline.WithDepthAttachment(false), pipeline.WithVertexLayout(pipeline.VertexLayoutNone), pipeline.WithBindings(0, 1))
	require.NoError(t, r.RegisterPipelines(p))
	target, err := r.CreateTarget(TargetDescriptor{Width: 4, Height: 4, Format: pipeline.FormatRGBA16Float})
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(PassDescriptor{Target: target}))
	assert.ErrorContains(t, r.Draw(DrawCall{Pipeline: "bloom", VertexCount: 3, Textures: []TargetHandle{target}}), "sampled while bound")
}

func TestUniformLifecycle(t *testing.T) {
	r, b := newTestRenderer(t)

	_, err := r.CreateUniform("odd", 20)
	assert.ErrorContains(t, err, "multiple of 16")

	u, err := r.CreateUniform("u", 16)
	require.NoError(t, err)
	require.NoError(t, r.WriteUniform(u, []byte{1, 2, 3}))
	data, ok := b.UniformData(u)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 0}, data[:4])

	assert.ErrorContains(t, r.WriteUniform(u, make([]byte, 32)), "overflows")
	require.NoError(t, r.ReleaseUniform(u))
	assert.ErrorIs(t, r.ReleaseUniform(u), ErrUnknownHandle)
	assert.ErrorIs(t, r.WriteUniform(u, nil), ErrUnknownHandle)
}

func TestReleaseClearsResources(t *testing.T) {
	r, _ := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(testPipeline(t, "scene")))
	_, err := r.CreateMesh("m", make([]byte, 52), make([]byte, 12), 3)
	require.NoError(t, err)
	_, err = r.CreateTarget(TargetDescriptor{Width: 2, Height: 2})
	require.NoError(t, err)

	r.Release()
	s := r.Stats()
	assert.Zero(t, s.Meshes)
	assert.Zero(t, s.Targets)
	assert.Zero(t, s.Pipelines)
	assert.Empty(t, r.Pipelines())
}

func TestSurfaceSize(t *testing.T) {
	r, _ := newTestRenderer(t)
	w, h := r.SurfaceSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	r.Resize(800, 600)
	w, h = r.SurfaceSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
