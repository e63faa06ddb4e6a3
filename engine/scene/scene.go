// Package scene composes the frost scene: it owns the six components, the shared frame and light
// rig uniforms and the dwelling sequencer, and exposes pointer picking over the project markers.
package scene

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/component"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/light"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// Scene is the composition root of the rendered world. Init, Update, DrawScene and Dispose are
// called from the frame thread. Pick, Hover and Click may be called from input callbacks on the
// same thread.
type Scene interface {
	// Init pre-bakes every component's geometry in parallel, then creates the shared uniforms
	// and initializes the components on the renderer. A second call is a no-op.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: the joined bake errors, or the first initialization error
	Init(r renderer.Renderer) error

	// Ready reports whether Init has completed and Dispose has not been called.
	//
	// Returns:
	//   - bool: true between Init and Dispose
	Ready() bool

	// Update advances every component and snapshots the frame uniform for the next draw.
	//
	// Parameters:
	//   - ctx: the frame context
	Update(ctx frame.Context)

	// DrawScene uploads the shared uniforms and records every component into the active pass,
	// opaque components first.
	//
	// Parameters:
	//   - r: the renderer with the scene pass open
	//
	// Returns:
	//   - error: the first component draw error
	DrawScene(r renderer.Renderer) error

	// Pick casts the camera ray through a normalized pointer position and returns the nearest
	// project marker it hits.
	//
	// Parameters:
	//   - pointer: the pointer in [-1, 1]², y up
	//
	// Returns:
	//   - int: the marker index
	//   - bool: false without a camera or on a miss
	Pick(pointer mgl32.Vec2) (int, bool)

	// Hover sets the hover target of the marker under the pointer and clears the previous one.
	//
	// Parameters:
	//   - pointer: the pointer in [-1, 1]², y up, or nil when it left the window
	//
	// Returns:
	//   - int: the hovered marker index, -1 if none
	Hover(pointer *mgl32.Vec2) int

	// Click resolves the project under the pointer.
	//
	// Parameters:
	//   - pointer: the pointer in [-1, 1]², y up
	//
	// Returns:
	//   - *content.Project: a copy of the project record
	//   - bool: false on a miss
	Click(pointer mgl32.Vec2) (*content.Project, bool)

	// Components returns the components in draw order.
	//
	// Returns:
	//   - []component.Component: the components
	Components() []component.Component

	Crystal() component.Crystal
	Dwelling() component.Dwelling
	Terrain() component.Terrain
	Particles() component.ParticleField
	Volume() component.VolumetricLight
	Markers() component.ProjectMarkers

	// Sequencer returns the sequencer driving the dwelling blocks.
	//
	// Returns:
	//   - animator.Sequencer: the sequencer
	Sequencer() animator.Sequencer

	// Camera returns the camera used for picking, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Dispose releases the component resources and the shared uniforms. It is idempotent.
	//
	// Parameters:
	//   - r: the renderer passed to Init
	Dispose(r renderer.Renderer)
}

type scene struct {
	mu *sync.RWMutex

	cam camera.Camera
	rig *light.Rig
	pp  shader.PreProcessor

	seed        uint64
	bakeWorkers int
	bakePool    worker.DynamicWorkerPool

	crystalOpts   []component.CrystalBuilderOption
	particleOpts  []component.ParticleBuilderOption
	terrainOpts   []component.TerrainBuilderOption
	volumeOpts    []component.VolumetricBuilderOption
	markerOpts    []component.MarkerBuilderOption
	sequencerOpts []animator.SequencerBuilderOption

	projects   []content.Project
	crystal    component.Crystal
	dwelling   component.Dwelling
	terrain    component.Terrain
	particles  component.ParticleField
	volume     component.VolumetricLight
	markers    component.ProjectMarkers
	components []component.Component
	sequencer  animator.Sequencer

	frameUniform camera.GPUFrameUniform
	shared       []renderer.UniformHandle
	hovered      int
	ready        bool
}

var _ Scene = &scene{}

// NewScene creates the scene for the given projects. Components are constructed here with
// random sources forked from one seed, so a fixed seed reproduces the same world.
//
// Parameters:
//   - projects: the project records shown as markers
//   - options: functional options applied after the defaults
//
// Returns:
//   - Scene: the new scene
func NewScene(projects []content.Project, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		rig:         light.DefaultRig(),
		seed:        uint64(time.Now().UnixNano()),
		bakeWorkers: max(runtime.NumCPU()-1, 1),
		projects:    append([]content.Project(nil), projects...),
		hovered:     -1,
	}
	for _, option := range options {
		option(s)
	}
	if s.pp == nil {
		s.pp = shader.NewPreProcessor()
	}
	s.bakePool = worker.NewDynamicWorkerPool(s.bakeWorkers, 256, 1*time.Second)

	rng := common.NewRandom(s.seed)
	s.crystal = component.NewCrystal(append([]component.CrystalBuilderOption{component.WithCrystalRandom(common.Fork(rng))}, s.crystalOpts...)...)
	s.particles = component.NewParticleField(append([]component.ParticleBuilderOption{component.WithParticleRandom(common.Fork(rng))}, s.particleOpts...)...)
	s.markers = component.NewProjectMarkers(s.projects, append([]component.MarkerBuilderOption{component.WithMarkerRandom(common.Fork(rng))}, s.markerOpts...)...)
	s.terrain = component.NewTerrain(s.terrainOpts...)
	s.dwelling = component.NewDwelling()
	s.volume = component.NewVolumetricLight(s.volumeOpts...)
	s.sequencer = animator.NewSequencer(s.dwelling, append([]animator.SequencerBuilderOption{animator.WithRandom(common.Fork(rng))}, s.sequencerOpts...)...)

	s.components = []component.Component{s.terrain, s.dwelling, s.volume, s.crystal, s.markers, s.particles}
	return s
}

func (s *scene) Init(r renderer.Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	start := time.Now()
	if err := s.bake(); err != nil {
		return err
	}
	baked := time.Since(start)

	frameHandle, err := r.CreateUniform("frame", s.frameUniform.Size())
	if err != nil {
		return fmt.Errorf("frame uniform: %w", err)
	}
	rig := s.rig.GPU()
	rigHandle, err := r.CreateUniform("light rig", rig.Size())
	if err != nil {
		_ = r.ReleaseUniform(frameHandle)
		return fmt.Errorf("light rig uniform: %w", err)
	}
	s.shared = []renderer.UniformHandle{frameHandle, rigHandle}
	if err := r.WriteUniform(rigHandle, rig.Marshal()); err != nil {
		s.release(r)
		return fmt.Errorf("light rig uniform: %w", err)
	}

	for _, c := range s.components {
		if err := c.Init(r, s.pp); err != nil {
			s.release(r)
			return fmt.Errorf("init %s: %w", c.Kind(), err)
		}
	}
	s.ready = true

	log.Info().
		Str("component", "scene").
		Int("components", len(s.components)).
		Int("markers", s.markers.Len()).
		Dur("bake", baked).
		Dur("total", time.Since(start)).
		Msg("scene built")
	return nil
}

// bake runs every component's Bake on the worker pool and waits for all of them.
func (s *scene) bake() error {
	var wg sync.WaitGroup
	errs := make([]error, len(s.components))
	for i, c := range s.components {
		wg.Add(1)
		s.bakePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := c.Bake(); err != nil {
					errs[i] = fmt.Errorf("bake %s: %w", c.Kind(), err)
				}
				return nil, errs[i]
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *scene) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *scene) Update(ctx frame.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.components {
		c.Update(ctx)
	}
	s.frameUniform = camera.GPUFrameUniform{
		ViewProj:       ctx.Camera.ViewProj(),
		View:           ctx.Camera.View,
		CameraPosition: ctx.Camera.Position,
		Time:           float32(ctx.Time),
		Resolution:     [2]float32{float32(ctx.Width), float32(ctx.Height)},
		Pointer:        ctx.Pointer.Position,
	}
}

func (s *scene) DrawScene(r renderer.Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return fmt.Errorf("scene: %w", component.ErrNotInitialized)
	}

	if err := r.WriteUniform(s.shared[component.BindingFrame], s.frameUniform.Marshal()); err != nil {
		return fmt.Errorf("frame uniform: %w", err)
	}
	for _, c := range s.components {
		if err := c.Draw(r, s.shared); err != nil {
			return err
		}
	}
	return nil
}

func (s *scene) Pick(pointer mgl32.Vec2) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pick(pointer)
}

func (s *scene) pick(pointer mgl32.Vec2) (int, bool) {
	if s.cam == nil {
		return -1, false
	}
	origin, direction := s.cam.Ray(pointer)
	return s.markers.Pick(origin, direction)
}

func (s *scene) Hover(pointer *mgl32.Vec2) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	if pointer != nil {
		if i, ok := s.pick(*pointer); ok {
			index = i
		}
	}
	if index == s.hovered {
		return index
	}
	s.markers.OnHover(s.hovered, false)
	s.markers.OnHover(index, true)
	s.hovered = index
	return index
}

func (s *scene) Click(pointer mgl32.Vec2) (*content.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index, ok := s.pick(pointer)
	if !ok {
		return nil, false
	}
	return s.markers.OnClick(index)
}

func (s *scene) Components() []component.Component {
	return append([]component.Component(nil), s.components...)
}

func (s *scene) Crystal() component.Crystal {
	return s.crystal
}

func (s *scene) Dwelling() component.Dwelling {
	return s.dwelling
}

func (s *scene) Terrain() component.Terrain {
	return s.terrain
}

func (s *scene) Particles() component.ParticleField {
	return s.particles
}

func (s *scene) Volume() component.VolumetricLight {
	return s.volume
}

func (s *scene) Markers() component.ProjectMarkers {
	return s.markers
}

func (s *scene) Sequencer() animator.Sequencer {
	return s.sequencer
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Dispose(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(r)
}

// release disposes the components and frees the shared uniforms. Caller must hold the lock.
func (s *scene) release(r renderer.Renderer) {
	for _, c := range s.components {
		c.Dispose(r)
	}
	for _, h := range s.shared {
		_ = r.ReleaseUniform(h)
	}
	s.shared = nil
	s.ready = false
}
