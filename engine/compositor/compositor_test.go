package compositor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
)

func newTestCompositor(t *testing.T, drawer SceneDrawer, options ...CompositorBuilderOption) (Compositor, renderer.Renderer, *renderer.HeadlessBackend) {
	t.Helper()
	b := renderer.NewHeadlessBackend()
	r := renderer.NewRenderer(renderer.WithBackend(b), renderer.WithSurfaceSize(800, 600))
	if drawer == nil {
		drawer = SceneDrawerFunc(func(renderer.Renderer) error { return nil })
	}
	return NewCompositor(r, drawer, options...), r, b
}

func passLabels(passes []renderer.PassRecord) []string {
	labels := make([]string, len(passes))
	for i, p := range passes {
		labels[i] = p.Label
	}
	return labels
}

func TestPostUniformLayout(t *testing.T) {
	u := GPUPostUniform{Resolution: [2]float32{800, 600}, Time: 1.5, GrainAmount: 0.02, VignetteOuter: 0.8}
	assert.Equal(t, 48, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 48)
}

func TestRenderPasses(t *testing.T) {
	drawn := 0
	c, _, b := newTestCompositor(t, SceneDrawerFunc(func(r renderer.Renderer) error {
		drawn++
		return nil
	}))

	_, ok := c.SceneTarget()
	assert.False(t, ok)

	require.NoError(t, c.Render(1000))
	assert.Equal(t, 1, drawn)

	passes := b.LastFrame()
	require.Len(t, passes, 3)
	assert.Equal(t, []string{ScenePass, BloomPass, GrainPass}, passLabels(passes))
	assert.Equal(t, []string{BloomPipelineKey}, passes[1].Draws)
	assert.Equal(t, []string{GrainPipelineKey}, passes[2].Draws)
	assert.Equal(t, renderer.SurfaceTarget, passes[2].Target)

	scene, ok := c.SceneTarget()
	require.True(t, ok)
	assert.Equal(t, scene, passes[0].Target)
	desc, ok := b.Target(scene)
	require.True(t, ok)
	assert.Equal(t, pipeline.FormatRGBA16Float, desc.Format)
	assert.True(t, desc.Depth)
	assert.Equal(t, 800, desc.Width)
	assert.Equal(t, 600, desc.Height)

	require.NoError(t, c.Render(2000))
	assert.Equal(t, 2, b.Stats().Frames)
	assert.Equal(t, 2, b.Stats().Targets)
}

func TestGrainTimeSeed(t *testing.T) {
	c, r, b := newTestCompositor(t, nil)
	require.NoError(t, c.Render(2500))

	// The post uniform is the only uniform in the renderer.
	u := c.(*compositor)
	data, ok := b.UniformData(u.postUniform)
	require.True(t, ok)
	assert.Equal(t, (&GPUPostUniform{
		Resolution:     [2]float32{800, 600},
		Time:           2.5,
		GrainAmount:    0.02,
		BloomThreshold: 0.85,
		BloomStrength:  1.5,
		BloomFloor:     0.1,
		VignetteInner:  0.3,
		VignetteOuter:  0.8,
	}).Marshal(), data)
	assert.Equal(t, 1, r.Stats().Uniforms)
}

func TestBloomSkippedAtLowEffect(t *testing.T) {
	c, _, b := newTestCompositor(t, nil)
	c.SetBounds(quality.Bounds{RenderScale: 1, Effect: quality.EffectLow})
	assert.False(t, c.BloomActive())

	require.NoError(t, c.Render(0))
	passes := b.LastFrame()
	assert.Equal(t, []string{ScenePass, GrainPass}, passLabels(passes))

	c.SetBounds(quality.Bounds{RenderScale: 1, Effect: quality.EffectMedium})
	require.NoError(t, c.Render(16))
	assert.Equal(t, []string{ScenePass, BloomPass, GrainPass}, passLabels(b.LastFrame()))
}

func TestRenderScaleSizesTargets(t *testing.T) {
	c, _, b := newTestCompositor(t, nil, WithRenderScale(0.5))
	require.NoError(t, c.Render(0))
	scene, _ := c.SceneTarget()
	desc, _ := b.Target(scene)
	assert.Equal(t, 400, desc.Width)
	assert.Equal(t, 300, desc.Height)

	c.SetBounds(quality.Bounds{RenderScale: 0.25, Effect: quality.EffectHigh})
	_, ok := c.SceneTarget()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Stats().Targets)

	require.NoError(t, c.Render(16))
	scene, _ = c.SceneTarget()
	desc, _ = b.Target(scene)
	assert.Equal(t, 200, desc.Width)
	assert.Equal(t, 150, desc.Height)
}

func TestResize(t *testing.T) {
	c, r, b := newTestCompositor(t, nil)

	c.Resize(1024, 768)
	w, h := r.SurfaceSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	require.NoError(t, c.Render(0))
	c.Resize(320, 200)
	assert.Equal(t, 0, b.Stats().Targets)

	require.NoError(t, c.Render(16))
	w, h = c.TargetSize()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.Equal(t, 2, b.Stats().Targets)
}

func TestDispose(t *testing.T) {
	c, _, b := newTestCompositor(t, nil)
	c.Dispose()
	c.Dispose()
	assert.ErrorIs(t, c.Render(0), ErrDisposed)

	c, _, b = newTestCompositor(t, nil)
	require.NoError(t, c.Render(0))
	c.Dispose()
	c.Dispose()
	stats := b.Stats()
	assert.Equal(t, 0, stats.Targets)
	assert.Equal(t, 0, stats.Uniforms)
	assert.ErrorIs(t, c.Render(16), ErrDisposed)
	c.Resize(10, 10)
}

func TestSceneErrorLeavesRendererUsable(t *testing.T) {
	fail := true
	boom := errors.New("boom")
	c, _, b := newTestCompositor(t, SceneDrawerFunc(func(renderer.Renderer) error {
		if fail {
			return boom
		}
		return nil
	}))

	assert.ErrorIs(t, c.Render(0), boom)
	fail = false
	require.NoError(t, c.Render(16))
	assert.Len(t, b.LastFrame(), 3)
}
