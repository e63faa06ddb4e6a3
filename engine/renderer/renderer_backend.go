package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
)

var (
	// ErrUnknownHandle is returned when a mesh, uniform or target handle was never created or has been released.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrNoActivePass is returned when a draw is issued outside of a render pass, or a pass is
	// begun or ended out of order.
	ErrNoActivePass = errors.New("no active render pass")

	// ErrUnknownPipeline is returned when a draw references a pipeline key that was never registered.
	ErrUnknownPipeline = errors.New("unknown pipeline")
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MeshHandle identifies an uploaded vertex/index buffer pair.
type MeshHandle uint32

// UniformHandle identifies a uniform buffer.
type UniformHandle uint32

// TargetHandle identifies an offscreen color target with an optional depth attachment.
type TargetHandle uint32

// SurfaceTarget is the swapchain. It is never created or released explicitly.
const SurfaceTarget TargetHandle = 0

// TargetDescriptor describes an offscreen render target.
type TargetDescriptor struct {
	Label  string
	Width  int
	Height int
	Format pipeline.Format
	Depth  bool
}

// PassDescriptor describes a render pass.
type PassDescriptor struct {
	Label string

	// Target is the color target. SurfaceTarget renders to the swapchain (no depth attachment).
	Target TargetHandle

	// ClearColor is the RGBA value the target is cleared to when Load is false.
	ClearColor [4]float64

	// Load keeps the previous target contents instead of clearing.
	Load bool
}

// DrawCall describes a single draw within a render pass.
type DrawCall struct {
	// Pipeline is the key of a registered pipeline.
	Pipeline string

	// Mesh is the vertex/index source. Ignored for pipelines with pipeline.VertexLayoutNone.
	Mesh MeshHandle

	// IndexCount limits the indices drawn from Mesh. Zero draws every index.
	IndexCount int

	// VertexCount is the number of vertices drawn for pipelines without a vertex layout.
	VertexCount int

	// Uniforms bind to @group(0) in order.
	Uniforms []UniformHandle

	// Textures bind to @group(1) in order. A target cannot be sampled while it is being rendered to.
	Textures []TargetHandle
}

// Stats is a snapshot of backend resource and command counters.
type Stats struct {
	Frames    int
	Passes    int
	Draws     int
	Meshes    int
	Uniforms  int
	Targets   int
	Pipelines int
}

// RendererBackend is the API-specific implementation behind the Renderer. Backends validate
// handles and pass ordering and return ErrUnknownHandle or ErrNoActivePass on misuse.
type RendererBackend interface {
	// CreatePipeline creates the backend object for p and stores it with p.SetHandle.
	CreatePipeline(p pipeline.Pipeline) error

	// CreateMesh uploads vertex and index data.
	CreateMesh(label string, vertices, indices []byte, indexCount int) (MeshHandle, error)

	// ReleaseMesh frees a mesh.
	ReleaseMesh(h MeshHandle) error

	// CreateUniform allocates a uniform buffer of size bytes.
	CreateUniform(label string, size int) (UniformHandle, error)

	// WriteUniform uploads data at offset 0. data must not exceed the buffer size.
	WriteUniform(h UniformHandle, data []byte) error

	// ReleaseUniform frees a uniform buffer.
	ReleaseUniform(h UniformHandle) error

	// CreateTarget allocates an offscreen render target.
	CreateTarget(desc TargetDescriptor) (TargetHandle, error)

	// ReleaseTarget frees an offscreen render target.
	ReleaseTarget(h TargetHandle) error

	// ConfigureSurface (re)configures the swapchain for a new size.
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured swapchain size.
	SurfaceSize() (width, height int)

	// SetPresentMode selects the present mode used at the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture and starts command recording.
	BeginFrame() error

	// BeginPass starts a render pass. Passes do not nest.
	BeginPass(desc PassDescriptor) error

	// Draw encodes a draw in the active pass with the resolved pipeline.
	Draw(p pipeline.Pipeline, call DrawCall) error

	// EndPass ends the active pass.
	EndPass() error

	// EndFrame submits recorded commands.
	EndFrame() error

	// Present displays the frame and releases the swapchain texture.
	Present()

	// Stats returns resource and command counters.
	Stats() Stats

	// Release frees every backend resource. The backend is unusable afterwards.
	Release()
}
