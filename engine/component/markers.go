package component

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

//go:embed assets/markers.wgsl
var markerShaderSource string

// MarkerPalette is cycled across the markers in project order.
var MarkerPalette = [][3]float32{
	{0.9, 0.9, 0.95},
	{0.95, 0.9, 0.95},
	{0.95, 0.93, 0.9},
	{0.9, 0.95, 0.92},
}

// marker is the CPU state of one project marker.
type marker struct {
	project     content.Project
	mesh        *geometry.Mesh
	radius      float32
	origin      mgl32.Vec3
	transform   common.Transform
	hover       float32
	hoverTarget float32
	uniform     GPUMarkerUniform
}

// projectMarkers is the implementation of the ProjectMarkers interface.
type projectMarkers struct {
	projects []content.Project
	rng      common.Random
	opacity  float32

	markers []*marker
	baked   bool
	clock   clock
	res     resources
}

// ProjectMarkers places one translucent octahedron per project record in a ring around the
// dwelling. Markers float and spin, and glow while hovered.
type ProjectMarkers interface {
	Component

	// Len returns the number of markers.
	//
	// Returns:
	//   - int: one per project
	Len() int

	// Position returns the current world-space center of marker i, or the origin when i is out of range.
	//
	// Parameters:
	//   - index: the marker index
	//
	// Returns:
	//   - mgl32.Vec3: the center
	Position(index int) mgl32.Vec3

	// Hover returns the smoothed hover scalar of marker i in [0, 1], or 0 when i is out of range.
	//
	// Parameters:
	//   - index: the marker index
	//
	// Returns:
	//   - float32: the hover scalar
	Hover(index int) float32

	// OnHover sets the hover target of marker i. Out-of-range indices are ignored.
	//
	// Parameters:
	//   - index: the marker index
	//   - hovering: true to glow, false to fade back
	OnHover(index int, hovering bool)

	// OnClick returns the project record behind marker i.
	//
	// Parameters:
	//   - index: the marker index
	//
	// Returns:
	//   - *content.Project: a copy of the record, or nil when out of range
	//   - bool: false when out of range
	OnClick(index int) (*content.Project, bool)

	// Pick intersects a world-space ray with every marker's bounding sphere.
	//
	// Parameters:
	//   - origin: the ray origin
	//   - direction: the ray direction (need not be normalized)
	//
	// Returns:
	//   - int: the nearest hit marker index
	//   - bool: false when no marker is hit
	Pick(origin, direction mgl32.Vec3) (int, bool)
}

var _ ProjectMarkers = &projectMarkers{}

// NewProjectMarkers creates one marker per project with opacity 0.15.
//
// Parameters:
//   - projects: the project records, not modified
//   - options: functional options applied after the defaults
//
// Returns:
//   - ProjectMarkers: the new component
func NewProjectMarkers(projects []content.Project, options ...MarkerBuilderOption) ProjectMarkers {
	m := &projectMarkers{
		projects: append([]content.Project(nil), projects...),
		opacity:  0.15,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.rng == nil {
		m.rng = common.NewRandom(uint64(time.Now().UnixNano()))
	}
	return m
}

func (m *projectMarkers) Kind() Kind {
	return KindMarkers
}

// Bake places marker i at angle i/n * 2pi on a ring of radius 4.5 + r*0.5 at height 1 + r with a
// random rotation in [0, pi) per axis.
func (m *projectMarkers) Bake() error {
	if m.baked {
		return nil
	}
	n := len(m.projects)
	markers := make([]*marker, 0, n)
	for i, p := range m.projects {
		mesh, err := geometry.GenerateOctahedron(0.3, 2, 0.05, m.rng)
		if err != nil {
			return fmt.Errorf("marker %d: %w", i, err)
		}

		angle := float64(i) / float64(n) * 2 * math.Pi
		radius := 4.5 + m.rng.Float64()*0.5
		height := 1 + m.rng.Float64()
		origin := mgl32.Vec3{float32(math.Cos(angle) * radius), float32(height), float32(math.Sin(angle) * radius)}

		t := common.NewTransform(origin)
		t.Rotation = mgl32.Vec3{
			float32(m.rng.Float64() * math.Pi),
			float32(m.rng.Float64() * math.Pi),
			float32(m.rng.Float64() * math.Pi),
		}

		mk := &marker{
			project:   p,
			mesh:      mesh,
			radius:    mesh.BoundingRadius(),
			origin:    origin,
			transform: t,
			uniform: GPUMarkerUniform{
				Model:   t.Matrix(),
				Color:   MarkerPalette[i%len(MarkerPalette)],
				Opacity: m.opacity,
			},
		}
		markers = append(markers, mk)
	}
	m.markers = markers
	m.baked = true
	return nil
}

func (m *projectMarkers) Init(r renderer.Renderer, pp shader.PreProcessor) error {
	if m.res.ready {
		return nil
	}
	if err := m.Bake(); err != nil {
		return err
	}

	pp.Register(KindMarkers.chunk(), GPUMarkerUniformSource)
	p, err := newScenePipeline(pp, KindMarkers.String(), markerShaderSource, 1,
		pipeline.WithBlendMode(pipeline.BlendModeAlpha),
		pipeline.WithCullMode(pipeline.CullModeNone),
	)
	if err != nil {
		return fmt.Errorf("marker pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	for i, mk := range m.markers {
		label := fmt.Sprintf("marker %d", i)
		if _, err := m.res.uploadMesh(r, label, mk.mesh); err != nil {
			m.res.release(r)
			return err
		}
		if _, err := m.res.createUniform(r, label, &mk.uniform); err != nil {
			m.res.release(r)
			return err
		}
	}
	m.res.ready = true
	return nil
}

func (m *projectMarkers) Update(ctx frame.Context) {
	t := m.clock.advance(ctx.Time)
	for i, mk := range m.markers {
		mk.hover = common.Lerp(mk.hover, mk.hoverTarget, 0.1)

		mk.transform.Position[1] = mk.origin.Y() + float32(math.Sin(t*0.5+float64(i)*2.5)*0.3)
		mk.transform.Rotation[1] += 0.005
		mk.transform.Rotation[0] += 0.003

		mk.uniform.Model = mk.transform.Matrix()
		mk.uniform.Hover = mk.hover
		mk.uniform.Time = float32(t)
	}
}

func (m *projectMarkers) Draw(r renderer.Renderer, shared []renderer.UniformHandle) error {
	if !m.res.ready {
		return fmt.Errorf("markers: %w", ErrNotInitialized)
	}
	for i, mk := range m.markers {
		own := m.res.uniforms[i]
		b, err := bindings(KindMarkers, shared, own)
		if err != nil {
			return err
		}
		if err := r.WriteUniform(own, mk.uniform.Marshal()); err != nil {
			return fmt.Errorf("marker %d uniform: %w", i, err)
		}
		if err := r.Draw(renderer.DrawCall{
			Pipeline: KindMarkers.String(),
			Mesh:     m.res.meshes[i],
			Uniforms: b,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *projectMarkers) Uniforms() Uniforms {
	set := &GPUMarkerSet{Markers: make([]GPUMarkerUniform, len(m.markers))}
	for i, mk := range m.markers {
		set.Markers[i] = mk.uniform
	}
	return set
}

func (m *projectMarkers) Dispose(r renderer.Renderer) {
	m.res.release(r)
}

func (m *projectMarkers) Len() int {
	return len(m.markers)
}

func (m *projectMarkers) Position(index int) mgl32.Vec3 {
	if index < 0 || index >= len(m.markers) {
		return mgl32.Vec3{}
	}
	return m.markers[index].transform.Position
}

func (m *projectMarkers) Hover(index int) float32 {
	if index < 0 || index >= len(m.markers) {
		return 0
	}
	return m.markers[index].hover
}

func (m *projectMarkers) OnHover(index int, hovering bool) {
	if index < 0 || index >= len(m.markers) {
		return
	}
	if hovering {
		m.markers[index].hoverTarget = 1
	} else {
		m.markers[index].hoverTarget = 0
	}
}

func (m *projectMarkers) OnClick(index int) (*content.Project, bool) {
	if index < 0 || index >= len(m.markers) {
		return nil, false
	}
	p := m.markers[index].project
	return &p, true
}

func (m *projectMarkers) Pick(origin, direction mgl32.Vec3) (int, bool) {
	if direction.Len() == 0 {
		return -1, false
	}
	dir := direction.Normalize()

	best, bestT := -1, float32(math.MaxFloat32)
	for i, mk := range m.markers {
		// The vertex shader bobs by up to 0.1 and grows by up to 20% while hovered.
		r := mk.radius*(1+mk.hover*0.2) + 0.1
		oc := mk.transform.Position.Sub(origin)
		along := oc.Dot(dir)
		d2 := oc.Dot(oc) - along*along
		if d2 > r*r {
			continue
		}
		half := float32(math.Sqrt(float64(r*r - d2)))
		t := along - half
		if t < 0 {
			t = along + half
		}
		if t >= 0 && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}
