package scene

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/component"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
)

func testCamera() camera.Camera {
	ctrl := camera.NewCameraController(
		camera.WithTarget(mgl32.Vec3{0, 0, 0}),
		camera.WithPosition(mgl32.Vec3{-3, 2.5, 6}),
	)
	return camera.NewCamera(camera.WithAspect(640.0/480.0), camera.WithController(ctrl))
}

func lightScene(projects []content.Project, options ...SceneBuilderOption) Scene {
	base := []SceneBuilderOption{
		WithSeed(42),
		WithBakeWorkers(2),
		WithCamera(testCamera()),
		WithCrystalOptions(component.WithCrystalDetail(1)),
		WithParticleOptions(component.WithParticleCapacity(10)),
		WithTerrainOptions(component.WithTerrainSize(10, 10, 4, 4)),
		WithVolumeOptions(component.WithVolumeRadius(5, 8)),
	}
	return NewScene(projects, append(base, options...)...)
}

func newHeadless() (renderer.Renderer, *renderer.HeadlessBackend) {
	b := renderer.NewHeadlessBackend()
	return renderer.NewRenderer(renderer.WithBackend(b), renderer.WithSurfaceSize(640, 480)), b
}

func frameContext(s Scene, t float64) frame.Context {
	return frame.Context{
		Time:   t,
		Camera: s.Camera().State(),
		Bounds: quality.Bounds{MaxParticles: 200, RenderScale: 1, Effect: quality.EffectHigh},
		Width:  640,
		Height: 480,
	}
}

func TestInitCreatesResources(t *testing.T) {
	r, b := newHeadless()
	projects := content.Default()
	s := lightScene(projects)

	require.NoError(t, s.Init(r))
	require.NoError(t, s.Init(r))
	assert.True(t, s.Ready())

	n := len(projects)
	stats := b.Stats()
	assert.Equal(t, 5+n, stats.Meshes)
	assert.Equal(t, 2+1+2+1+1+n+1, stats.Uniforms)
	assert.Equal(t, 6, stats.Pipelines)
	assert.Equal(t, n, s.Markers().Len())
	assert.Equal(t, component.DwellingBlocks, s.Dwelling().Len())
}

func TestDrawOrder(t *testing.T) {
	r, b := newHeadless()
	s := lightScene(testProjects(2))
	require.NoError(t, s.Init(r))
	s.Update(frameContext(s, 2))

	target, err := r.CreateTarget(renderer.TargetDescriptor{Label: "scene", Width: 640, Height: 480, Format: pipeline.FormatRGBA16Float, Depth: true})
	require.NoError(t, err)
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(renderer.PassDescriptor{Label: "scene", Target: target}))
	require.NoError(t, s.DrawScene(r))
	require.NoError(t, r.EndPass())
	require.NoError(t, r.EndFrame())
	r.Present()

	passes := b.LastFrame()
	require.Len(t, passes, 1)
	assert.Equal(t, []string{"terrain", "dwelling", "volumetric", "crystal", "markers", "markers", "particles"}, passes[0].Draws)
}

func TestFrameUniformFollowsContext(t *testing.T) {
	r, b := newHeadless()
	s := lightScene(nil)
	require.NoError(t, s.Init(r))
	s.Update(frameContext(s, 3.5))

	target, err := r.CreateTarget(renderer.TargetDescriptor{Label: "scene", Width: 640, Height: 480, Format: pipeline.FormatRGBA16Float, Depth: true})
	require.NoError(t, err)
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(renderer.PassDescriptor{Label: "scene", Target: target}))
	require.NoError(t, s.DrawScene(r))

	sc := s.(*scene)
	data, ok := b.UniformData(sc.shared[component.BindingFrame])
	require.True(t, ok)
	want := camera.GPUFrameUniform{
		ViewProj:       s.Camera().ViewProjectionMatrix(),
		View:           s.Camera().ViewMatrix(),
		CameraPosition: [3]float32{-3, 2.5, 6},
		Time:           3.5,
		Resolution:     [2]float32{640, 480},
	}
	require.Len(t, data, want.Size())
	for off := 128; off < 152; off += 4 {
		assert.InDelta(t, f32At(want.Marshal(), off), f32At(data, off), 1e-4, "offset %d", off)
	}
}

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestSeedReproducesWorld(t *testing.T) {
	a := lightScene(testProjects(3))
	b := lightScene(testProjects(3))
	require.NoError(t, a.Markers().Bake())
	require.NoError(t, b.Markers().Bake())
	require.NoError(t, a.Particles().Bake())
	require.NoError(t, b.Particles().Bake())

	for i := range 3 {
		assert.Equal(t, a.Markers().Position(i), b.Markers().Position(i))
	}
	for i := range a.Particles().Capacity() {
		assert.Equal(t, a.Particles().Attributes(i), b.Particles().Attributes(i))
	}

	c := lightScene(testProjects(3), WithSeed(7))
	require.NoError(t, c.Markers().Bake())
	assert.NotEqual(t, a.Markers().Position(0), c.Markers().Position(0))
}

func TestPickHoverClick(t *testing.T) {
	r, _ := newHeadless()
	s := lightScene(testProjects(1))
	require.NoError(t, s.Init(r))

	p := s.Markers().Position(0)
	clip := s.Camera().ViewProjectionMatrix().Mul4x1(p.Vec4(1))
	pointer := mgl32.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}

	index, ok := s.Pick(pointer)
	require.True(t, ok)
	assert.Equal(t, 0, index)

	_, ok = s.Pick(mgl32.Vec2{-0.99, -0.99})
	assert.False(t, ok)

	assert.Equal(t, 0, s.Hover(&pointer))
	s.Update(frameContext(s, 0))
	assert.InDelta(t, 0.1, s.Markers().Hover(0), 1e-6)

	assert.Equal(t, -1, s.Hover(nil))
	for range 200 {
		s.Update(frameContext(s, 0))
	}
	assert.Less(t, s.Markers().Hover(0), float32(0.01))

	project, ok := s.Click(pointer)
	require.True(t, ok)
	assert.Equal(t, "project 0", project.Title)
}

func TestPickWithoutCamera(t *testing.T) {
	s := NewScene(testProjects(1), WithSeed(1))
	_, ok := s.Pick(mgl32.Vec2{})
	assert.False(t, ok)
	assert.Equal(t, -1, s.Hover(&mgl32.Vec2{}))
}

func TestBakeErrorsAreJoined(t *testing.T) {
	r, b := newHeadless()
	s := lightScene(nil,
		WithParticleOptions(component.WithParticleCapacity(0)),
		WithTerrainOptions(component.WithTerrainSize(0, 10, 4, 4)),
	)

	err := s.Init(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrInvalidDimensions)
	assert.ErrorContains(t, err, "bake particles")
	assert.ErrorContains(t, err, "bake terrain")
	assert.False(t, s.Ready())
	assert.Equal(t, 0, b.Stats().Uniforms)
}

func TestDispose(t *testing.T) {
	r, b := newHeadless()
	s := lightScene(testProjects(2))
	require.NoError(t, s.Init(r))

	s.Dispose(r)
	s.Dispose(r)
	stats := b.Stats()
	assert.Zero(t, stats.Meshes)
	assert.Zero(t, stats.Uniforms)
	assert.False(t, s.Ready())
	assert.ErrorIs(t, s.DrawScene(r), component.ErrNotInitialized)
}

func TestSequencerDrivesDwelling(t *testing.T) {
	r, _ := newHeadless()
	s := lightScene(nil)
	require.NoError(t, s.Init(r))

	start := time.Unix(50, 0)
	_, err := s.Sequencer().Disassemble(start)
	require.NoError(t, err)
	s.Sequencer().Advance(start.Add(time.Minute))
	assert.True(t, s.Sequencer().Disassembled())

	moved := s.Dwelling().Transform(0).Position.Sub(s.Dwelling().Snapshot(0).Position).Len()
	assert.Greater(t, float64(moved), 0.5)
	assert.False(t, math.IsNaN(float64(moved)))
}

func testProjects(n int) []content.Project {
	projects := make([]content.Project, n)
	for i := range projects {
		projects[i] = content.Project{ID: i + 1, Title: "project " + string(rune('0'+i))}
	}
	return projects
}
