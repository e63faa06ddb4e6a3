package component

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

type testScene struct {
	r      renderer.Renderer
	b      *renderer.HeadlessBackend
	pp     shader.PreProcessor
	target renderer.TargetHandle
	shared []renderer.UniformHandle
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	b := renderer.NewHeadlessBackend()
	r := renderer.NewRenderer(renderer.WithBackend(b), renderer.WithSurfaceSize(640, 480))

	target, err := r.CreateTarget(renderer.TargetDescriptor{
		Label: "scene", Width: 640, Height: 480, Format: pipeline.FormatRGBA16Float, Depth: true,
	})
	require.NoError(t, err)
	frameU, err := r.CreateUniform("frame", 160)
	require.NoError(t, err)
	rigU, err := r.CreateUniform("rig", 112)
	require.NoError(t, err)

	return &testScene{r: r, b: b, pp: shader.NewPreProcessor(), target: target, shared: []renderer.UniformHandle{frameU, rigU}}
}

// draw records one frame with a single scene pass and returns the pipeline keys drawn.
func (s *testScene) draw(t *testing.T, components ...Component) []string {
	t.Helper()
	require.NoError(t, s.r.BeginFrame())
	require.NoError(t, s.r.BeginPass(renderer.PassDescriptor{Label: "scene", Target: s.target}))
	for _, c := range components {
		require.NoError(t, c.Draw(s.r, s.shared))
	}
	require.NoError(t, s.r.EndPass())
	require.NoError(t, s.r.EndFrame())
	s.r.Present()

	passes := s.b.LastFrame()
	require.Len(t, passes, 1)
	return passes[0].Draws
}

func fullBounds() quality.Bounds {
	return quality.Bounds{MaxParticles: 200, RenderScale: 1, Effect: quality.EffectHigh}
}

func testProjects() []content.Project {
	return []content.Project{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two"},
		{ID: 3, Title: "three"},
	}
}

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestRecordSizes(t *testing.T) {
	tests := []struct {
		name string
		rec  record
		size int
	}{
		{"crystal", &GPUCrystalUniform{}, 96},
		{"dwelling", &GPUDwellingUniform{}, 80},
		{"blocks", &GPUBlockTransforms{}, 9216},
		{"terrain", &GPUTerrainUniform{}, 144},
		{"particles", &GPUParticleUniform{}, 16},
		{"volumetric", &GPUVolumetricUniform{}, 32},
		{"marker", &GPUMarkerUniform{}, 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.rec.Size())
			assert.Zero(t, tt.rec.Size()%16)
			assert.Len(t, tt.rec.Marshal(), tt.size)
		})
	}

	set := &GPUMarkerSet{Markers: make([]GPUMarkerUniform, 3)}
	assert.Equal(t, KindMarkers, set.Kind())
	assert.Len(t, set.Marshal(), 3*96)
}

func TestCrystalUniformLayout(t *testing.T) {
	u := GPUCrystalUniform{
		Model:          mgl32.Translate3D(1, 2, 3),
		CameraPosition: [3]float32{4, 5, 6},
		Time:           7,
		Pointer:        [2]float32{0.25, -0.5},
		RotationBase:   0.06,
		RotationGain:   0.15,
	}
	buf := u.Marshal()
	assert.Equal(t, float32(1), f32At(buf, 48))
	assert.Equal(t, float32(4), f32At(buf, 64))
	assert.Equal(t, float32(7), f32At(buf, 76))
	assert.Equal(t, float32(0.25), f32At(buf, 80))
	assert.Equal(t, float32(-0.5), f32At(buf, 84))
	assert.Equal(t, float32(0.06), f32At(buf, 88))
	assert.Equal(t, float32(0.15), f32At(buf, 92))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "crystal", KindCrystal.String())
	assert.Equal(t, "markers", KindMarkers.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, "volumetric_uniform", KindVolumetric.chunk())
}

func TestCrystalPointerSmoothing(t *testing.T) {
	c := NewCrystal(WithCrystalDetail(1), WithCrystalRandom(common.NewRandom(1)))
	ctx := frame.Context{Pointer: frame.PointerState{Position: mgl32.Vec2{1, 0}, Inside: true}}

	c.Update(ctx)
	assert.InDelta(t, 0.8*0.08, c.Pointer().X(), 1e-6)
	assert.InDelta(t, 0, c.Pointer().Y(), 1e-6)

	for range 300 {
		c.Update(ctx)
	}
	assert.InDelta(t, 0.8, c.Pointer().X(), 1e-4)

	u := c.Uniforms().(*GPUCrystalUniform)
	assert.Equal(t, KindCrystal, u.Kind())
	assert.InDelta(t, 1.5, u.Model[13], 1e-6)
}

func TestTimeIsMonotonic(t *testing.T) {
	components := []Component{
		NewCrystal(WithCrystalDetail(1)),
		NewDwelling(),
		NewTerrain(),
		NewParticleField(WithParticleCapacity(4)),
		NewVolumetricLight(),
	}
	for _, c := range components {
		t.Run(c.Kind().String(), func(t *testing.T) {
			require.NoError(t, c.Bake())
			c.Update(frame.Context{Time: 5, Bounds: fullBounds()})
			c.Update(frame.Context{Time: 3, Bounds: fullBounds()})

			buf := c.Uniforms().Marshal()
			var got float32
			switch c.Kind() {
			case KindCrystal:
				got = f32At(buf, 76)
			case KindDwelling:
				got = f32At(buf, 64)
			case KindTerrain:
				got = f32At(buf, 76)
			case KindParticles:
				got = f32At(buf, 8)
			case KindVolumetric:
				got = f32At(buf, 12)
			}
			assert.Equal(t, float32(5), got)
		})
	}
}

func TestLifecycle(t *testing.T) {
	s := newTestScene(t)
	base := s.b.Stats()

	components := []Component{
		NewTerrain(WithTerrainSize(10, 10, 4, 4)),
		NewDwelling(),
		NewVolumetricLight(WithVolumeRadius(5, 8)),
		NewCrystal(WithCrystalDetail(1), WithCrystalRandom(common.NewRandom(2))),
		NewProjectMarkers(testProjects(), WithMarkerRandom(common.NewRandom(3))),
		NewParticleField(WithParticleCapacity(10), WithParticleRandom(common.NewRandom(4))),
	}

	for _, c := range components {
		assert.ErrorIs(t, c.Draw(s.r, s.shared), ErrNotInitialized)
		require.NoError(t, c.Init(s.r, s.pp), c.Kind().String())
		require.NoError(t, c.Init(s.r, s.pp))
		c.Update(frame.Context{Time: 1, Bounds: fullBounds()})
	}

	draws := s.draw(t, components...)
	assert.Equal(t, []string{"terrain", "dwelling", "volumetric", "crystal", "markers", "markers", "markers", "particles"}, draws)

	stats := s.b.Stats()
	assert.Equal(t, base.Meshes+5+3, stats.Meshes)
	assert.Equal(t, base.Uniforms+1+2+1+1+3+1, stats.Uniforms)
	assert.Equal(t, 6, stats.Pipelines)

	for _, c := range components {
		c.Dispose(s.r)
		c.Dispose(s.r)
		assert.ErrorIs(t, c.Draw(s.r, s.shared), ErrNotInitialized)
	}
	stats = s.b.Stats()
	assert.Equal(t, base.Meshes, stats.Meshes)
	assert.Equal(t, base.Uniforms, stats.Uniforms)
}

func TestDrawRequiresSharedUniforms(t *testing.T) {
	s := newTestScene(t)
	c := NewTerrain(WithTerrainSize(4, 4, 2, 2))
	require.NoError(t, c.Init(s.r, s.pp))

	require.NoError(t, s.r.BeginFrame())
	require.NoError(t, s.r.BeginPass(renderer.PassDescriptor{Label: "scene", Target: s.target}))
	assert.ErrorContains(t, c.Draw(s.r, s.shared[:1]), "shared uniforms")
}

func TestPipelineStates(t *testing.T) {
	s := newTestScene(t)
	for _, c := range []Component{
		NewCrystal(WithCrystalDetail(1)),
		NewParticleField(WithParticleCapacity(2)),
		NewVolumetricLight(WithVolumeRadius(5, 8)),
		NewDwelling(),
	} {
		require.NoError(t, c.Init(s.r, s.pp))
	}

	crystal := s.r.Pipeline("crystal")
	assert.Equal(t, pipeline.BlendModeAlpha, crystal.BlendMode())
	assert.False(t, crystal.DepthWriteEnabled())
	assert.Equal(t, pipeline.CullModeNone, crystal.CullMode())
	assert.Contains(t, crystal.Shader(shader.ShaderTypeVertex).Source(), "struct CrystalUniform")
	assert.Equal(t, "vs_main", crystal.Shader(shader.ShaderTypeVertex).EntryPoint())
	assert.Equal(t, "fs_main", crystal.Shader(shader.ShaderTypeFragment).EntryPoint())

	particles := s.r.Pipeline("particles")
	assert.False(t, particles.DepthTestEnabled())
	assert.Equal(t, pipeline.BlendModeAlpha, particles.BlendMode())

	volume := s.r.Pipeline("volumetric")
	assert.Equal(t, pipeline.CullModeFront, volume.CullMode())
	assert.Equal(t, pipeline.BlendModeAdditive, volume.BlendMode())
	assert.True(t, volume.DepthTestEnabled())
	assert.False(t, volume.DepthWriteEnabled())

	dwelling := s.r.Pipeline("dwelling")
	assert.Equal(t, 4, dwelling.UniformCount())
	assert.Contains(t, dwelling.Shader(shader.ShaderTypeFragment).Source(), "fn light_contribution")
}

func TestDwellingBlocks(t *testing.T) {
	d := NewDwelling()
	require.NoError(t, d.Bake())
	require.Equal(t, DwellingBlocks, d.Len())

	for i := range d.Len() {
		assert.Equal(t, d.Snapshot(i), d.Transform(i))
	}

	// The arch blocks sit in front of the dome at z = 3.
	last := d.Snapshot(d.Len() - 1)
	assert.InDelta(t, 3.0, last.Position.Z(), 1e-5)

	// Tunnel blocks carry the quarter turn about Z.
	tunnel := d.Snapshot(128)
	assert.InDelta(t, math.Pi/2, tunnel.Rotation.Z(), 1e-6)
}

func TestDwellingSequenceRoundTrip(t *testing.T) {
	d := NewDwelling()
	require.NoError(t, d.Bake())
	seq := animator.NewSequencer(d, animator.WithRandom(common.NewRandom(9)))

	start := time.Unix(100, 0)
	_, err := seq.Disassemble(start)
	require.NoError(t, err)
	seq.Advance(start.Add(10 * time.Second))
	assert.True(t, seq.Disassembled())
	assert.NotEqual(t, d.Snapshot(0).Position, d.Transform(0).Position)

	d.Update(frame.Context{Time: 1})
	u := d.(*dwelling)
	assert.Equal(t, d.Transform(0).Matrix(), mgl32.Mat4(u.transforms.Matrices[0]))

	_, err = seq.Reassemble(start.Add(10 * time.Second))
	require.NoError(t, err)
	seq.Advance(start.Add(20 * time.Second))
	for i := range d.Len() {
		assert.Equal(t, d.Snapshot(i), d.Transform(i))
	}
}

func TestTerrainHeightAt(t *testing.T) {
	tr := NewTerrain()
	assert.InDelta(t, -2+geometry.TerrainHeight(1.5, -3), tr.HeightAt(1.5, -3), 1e-5)

	u := tr.Uniforms().(*GPUTerrainUniform)
	assert.Equal(t, uint32(3), u.OctaveCount)
	assert.Equal(t, [4]float32{0.8, 0.2, 0, 0}, u.Octaves[1])
}

func TestParticleAttributes(t *testing.T) {
	p := NewParticleField(WithParticleRandom(common.NewRandom(5)))
	require.NoError(t, p.Bake())
	require.Equal(t, 120, p.Capacity())

	for i := range p.Capacity() {
		a := p.Attributes(i)
		assert.GreaterOrEqual(t, a.Scale, float32(0.3))
		assert.Less(t, a.Scale, float32(1.1))
		assert.GreaterOrEqual(t, a.Speed, float32(0.2))
		assert.Less(t, a.Speed, float32(0.6))
		assert.GreaterOrEqual(t, a.Position.Y(), float32(-1.5))
		assert.Less(t, a.Position.Y(), float32(4.5))
		for _, o := range a.Offset {
			assert.GreaterOrEqual(t, o, float32(-3))
			assert.Less(t, o, float32(3))
		}
		assert.LessOrEqual(t, mgl32.Vec2{a.Position.X(), a.Position.Z()}.Len(), float32(14.001))
	}
}

func TestParticlePositionAt(t *testing.T) {
	p := NewParticleField(WithParticleCapacity(3), WithParticleRandom(common.NewRandom(6)))
	require.NoError(t, p.Bake())

	a := p.Attributes(1)
	got := p.PositionAt(1, 0, mgl32.Vec2{})
	angle := float64(a.Offset.X()) * 1.5
	want := a.Position.Add(a.Offset).Add(mgl32.Vec3{
		float32(math.Sin(angle) * 0.5),
		float32(math.Sin(float64(a.Offset.Y())*2)*1.2 + math.Cos(float64(a.Offset.Z())*1.5)*0.6),
		float32(math.Cos(angle) * 0.5),
	})
	assert.InDelta(t, want.X(), got.X(), 1e-5)
	assert.InDelta(t, want.Y(), got.Y(), 1e-5)
	assert.InDelta(t, want.Z(), got.Z(), 1e-5)

	pulled := p.PositionAt(1, 4, mgl32.Vec2{1, 0}).Sub(p.PositionAt(1, 4, mgl32.Vec2{}))
	assert.InDelta(t, 0.45, pulled.X(), 1e-5)
	assert.InDelta(t, 0, pulled.Y(), 1e-5)
	assert.InDelta(t, 0, pulled.Z(), 1e-5)
}

func TestParticleDrawCountFollowsBounds(t *testing.T) {
	s := newTestScene(t)
	p := NewParticleField(WithParticleCapacity(20))
	require.NoError(t, p.Init(s.r, s.pp))

	p.Update(frame.Context{Bounds: quality.Bounds{MaxParticles: 7}})
	assert.Equal(t, 7, p.Drawn())
	p.Update(frame.Context{Bounds: quality.Bounds{MaxParticles: 500}})
	assert.Equal(t, 20, p.Drawn())

	p.Update(frame.Context{Bounds: quality.Bounds{MaxParticles: 0}})
	assert.Empty(t, s.draw(t, p))
}

func TestParticleCapacityValidation(t *testing.T) {
	p := NewParticleField(WithParticleCapacity(0))
	assert.ErrorIs(t, p.Bake(), geometry.ErrInvalidDimensions)
}

func TestVolumetricSkippedAtLowEffect(t *testing.T) {
	s := newTestScene(t)
	v := NewVolumetricLight(WithVolumeRadius(5, 8))
	require.NoError(t, v.Init(s.r, s.pp))

	v.Update(frame.Context{Bounds: quality.Bounds{Effect: quality.EffectLow}})
	assert.False(t, v.Active())
	assert.Empty(t, s.draw(t, v))

	v.Update(frame.Context{Bounds: quality.Bounds{Effect: quality.EffectMedium}})
	assert.True(t, v.Active())
	assert.Equal(t, []string{"volumetric"}, s.draw(t, v))
}

func TestVolumetricDensity(t *testing.T) {
	v := NewVolumetricLight()
	assert.InDelta(t, 0.4*0.75, v.Density(mgl32.Vec3{-2, 6, 4}, 0.5), 1e-6)

	// 10 units away: attenuation 1 / (1 + 1 + 1).
	assert.InDelta(t, 0.4*0.5/3, v.Density(mgl32.Vec3{8, 6, 4}, 0), 1e-6)
}

func TestMarkerPlacement(t *testing.T) {
	m := NewProjectMarkers(testProjects(), WithMarkerRandom(common.NewRandom(7)))
	require.NoError(t, m.Bake())
	require.Equal(t, 3, m.Len())

	for i := range m.Len() {
		p := m.Position(i)
		r := mgl32.Vec2{p.X(), p.Z()}.Len()
		assert.GreaterOrEqual(t, r, float32(4.5)-1e-4)
		assert.Less(t, r, float32(5.0)+1e-4)
		assert.GreaterOrEqual(t, p.Y(), float32(1))
		assert.Less(t, p.Y(), float32(2))
	}
	first := m.Position(0)
	assert.InDelta(t, 0, first.Z(), 1e-5)
	assert.Greater(t, first.X(), float32(0))

	set := m.Uniforms().(*GPUMarkerSet)
	require.Len(t, set.Markers, 3)
	assert.Equal(t, MarkerPalette[1], set.Markers[1].Color)
	assert.Equal(t, float32(0.15), set.Markers[2].Opacity)
}

func TestMarkerHoverAndClick(t *testing.T) {
	m := NewProjectMarkers(testProjects(), WithMarkerRandom(common.NewRandom(8)))
	require.NoError(t, m.Bake())

	m.OnHover(1, true)
	m.OnHover(-1, true)
	m.OnHover(99, true)
	m.Update(frame.Context{Time: 0})
	assert.InDelta(t, 0.1, m.Hover(1), 1e-6)
	assert.Zero(t, m.Hover(0))

	for range 100 {
		m.Update(frame.Context{Time: 0})
	}
	assert.InDelta(t, 1, m.Hover(1), 1e-3)

	m.OnHover(1, false)
	m.Update(frame.Context{Time: 0})
	assert.Less(t, m.Hover(1), float32(1))

	p, ok := m.OnClick(2)
	require.True(t, ok)
	assert.Equal(t, "three", p.Title)

	p, ok = m.OnClick(3)
	assert.False(t, ok)
	assert.Nil(t, p)

	assert.Zero(t, m.Hover(-1))
	assert.Zero(t, m.Hover(3))
	assert.Equal(t, mgl32.Vec3{}, m.Position(-1))
	assert.Equal(t, mgl32.Vec3{}, m.Position(3))
}

func TestMarkerFloat(t *testing.T) {
	m := NewProjectMarkers(testProjects(), WithMarkerRandom(common.NewRandom(10)))
	require.NoError(t, m.Bake())
	y0 := m.Position(1).Y()

	m.Update(frame.Context{Time: math.Pi})
	want := float64(y0) + math.Sin(math.Pi*0.5+2.5)*0.3
	assert.InDelta(t, want, m.Position(1).Y(), 1e-5)
}

func TestMarkerPick(t *testing.T) {
	m := NewProjectMarkers(testProjects(), WithMarkerRandom(common.NewRandom(11)))
	require.NoError(t, m.Bake())

	eye := mgl32.Vec3{0, 1.5, 0}
	for i := range m.Len() {
		idx, ok := m.Pick(eye, m.Position(i).Sub(eye))
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}

	_, ok := m.Pick(eye, mgl32.Vec3{0, 1, 0})
	assert.False(t, ok)
	_, ok = m.Pick(eye, mgl32.Vec3{})
	assert.False(t, ok)

	// A marker behind the ray origin is not hit.
	target := m.Position(0)
	_, ok = m.Pick(target.Mul(2), target)
	assert.False(t, ok)
}

func TestMarkersWithoutProjects(t *testing.T) {
	s := newTestScene(t)
	m := NewProjectMarkers(nil)
	require.NoError(t, m.Init(s.r, s.pp))
	_, ok := m.Pick(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	assert.False(t, ok)
	assert.Empty(t, s.draw(t, m))
}
