package renderer

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backend RendererBackend

	// Pre-creation config collected from builder options
	pendingPresentMode *PresentMode
	pendingWidth       int
	pendingHeight      int
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines and hands out opaque handles for meshes, uniform buffers
// and render targets. The backend behind it is swappable: the WebGPU backend renders to a window,
// the headless backend validates and counts commands without a GPU.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// CreateMesh uploads vertex and index data and returns a handle for draw calls.
	//
	// Parameters:
	//   - label: debug label
	//   - vertices: raw vertex bytes
	//   - indices: raw uint32 index bytes
	//   - indexCount: number of indices
	//
	// Returns:
	//   - MeshHandle: the mesh handle
	//   - error: an error if buffer creation fails
	CreateMesh(label string, vertices, indices []byte, indexCount int) (MeshHandle, error)

	// ReleaseMesh frees a mesh created by CreateMesh.
	//
	// Parameters:
	//   - h: the mesh handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live
	ReleaseMesh(h MeshHandle) error

	// CreateUniform allocates a uniform buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - size: buffer size in bytes
	//
	// Returns:
	//   - UniformHandle: the uniform handle
	//   - error: an error if buffer creation fails
	CreateUniform(label string, size int) (UniformHandle, error)

	// WriteUniform uploads data to a uniform buffer.
	//
	// Parameters:
	//   - h: the uniform handle
	//   - data: bytes to upload at offset 0
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live, or an error if data overflows the buffer
	WriteUniform(h UniformHandle, data []byte) error

	// ReleaseUniform frees a uniform buffer.
	//
	// Parameters:
	//   - h: the uniform handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live
	ReleaseUniform(h UniformHandle) error

	// CreateTarget allocates an offscreen render target.
	//
	// Parameters:
	//   - desc: size, format and depth of the target
	//
	// Returns:
	//   - TargetHandle: the target handle
	//   - error: an error if texture creation fails
	CreateTarget(desc TargetDescriptor) (TargetHandle, error)

	// ReleaseTarget frees an offscreen render target.
	//
	// Parameters:
	//   - h: the target handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live
	ReleaseTarget(h TargetHandle) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceSize returns the configured surface size.
	//
	// Returns:
	//   - width, height: surface size in pixels
	SurfaceSize() (width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture and starts command recording.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BeginPass starts a render pass into a target. Passes do not nest.
	//
	// Parameters:
	//   - desc: the pass target and clear settings
	//
	// Returns:
	//   - error: ErrNoActivePass if no frame is active or a pass is already open, ErrUnknownHandle for a dead target
	BeginPass(desc PassDescriptor) error

	// Draw resolves the pipeline by key and encodes a draw in the active pass.
	//
	// Parameters:
	//   - call: pipeline key, mesh and bindings
	//
	// Returns:
	//   - error: ErrUnknownPipeline, ErrNoActivePass or ErrUnknownHandle on misuse
	Draw(call DrawCall) error

	// EndPass ends the active render pass.
	//
	// Returns:
	//   - error: ErrNoActivePass if no pass is open
	EndPass() error

	// EndFrame submits the recorded commands. Does not present; call Present afterwards.
	//
	// Returns:
	//   - error: an error if a pass is still open or submission fails
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Stats returns backend resource and command counters.
	//
	// Returns:
	//   - Stats: the counters snapshot
	Stats() Stats

	// Release frees the pipeline cache and every backend resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer. The backend defaults to a headless backend;
// supply the WebGPU backend with WithBackend to render to a window.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		r.backend = NewHeadlessBackend()
	}
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingWidth > 0 && r.pendingHeight > 0 {
		r.backend.ConfigureSurface(r.pendingWidth, r.pendingHeight)
	}
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.CreatePipeline(p); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		log.Debug().Str("component", "renderer").Str("pipeline", key).Msg("pipeline registered")
	}
	return nil
}

func (r *renderer) CreateMesh(label string, vertices, indices []byte, indexCount int) (MeshHandle, error) {
	return r.backend.CreateMesh(label, vertices, indices, indexCount)
}

func (r *renderer) ReleaseMesh(h MeshHandle) error {
	return r.backend.ReleaseMesh(h)
}

func (r *renderer) CreateUniform(label string, size int) (UniformHandle, error) {
	return r.backend.CreateUniform(label, size)
}

func (r *renderer) WriteUniform(h UniformHandle, data []byte) error {
	return r.backend.WriteUniform(h, data)
}

func (r *renderer) ReleaseUniform(h UniformHandle) error {
	return r.backend.ReleaseUniform(h)
}

func (r *renderer) CreateTarget(desc TargetDescriptor) (TargetHandle, error) {
	return r.backend.CreateTarget(desc)
}

func (r *renderer) ReleaseTarget(h TargetHandle) error {
	return r.backend.ReleaseTarget(h)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (width, height int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginPass(desc PassDescriptor) error {
	return r.backend.BeginPass(desc)
}

func (r *renderer) Draw(call DrawCall) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[call.Pipeline]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q: %w", call.Pipeline, ErrUnknownPipeline)
	}
	return r.backend.Draw(p, call)
}

func (r *renderer) EndPass() error {
	return r.backend.EndPass()
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Stats() Stats {
	return r.backend.Stats()
}

func (r *renderer) Release() {
	r.mu.Lock()
	r.pipelineCache = make(map[string]pipeline.Pipeline)
	r.mu.Unlock()
	r.backend.Release()
}
