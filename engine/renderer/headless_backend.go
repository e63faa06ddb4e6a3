package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

// PassRecord is the headless backend's record of one render pass.
type PassRecord struct {
	Label  string
	Target TargetHandle
	Draws  []string
}

type headlessMesh struct {
	label      string
	size       int
	indexCount int
}

type headlessUniform struct {
	label string
	data  []byte
}

// HeadlessBackend is a RendererBackend that allocates no GPU resources. It tracks handles, enforces
// the same ordering and binding rules as the WebGPU backend and records each frame's passes, so
// rendering code can be exercised without a device or a display.
type HeadlessBackend struct {
	mu *sync.Mutex

	nextHandle uint32
	meshes     map[MeshHandle]headlessMesh
	uniforms   map[UniformHandle]*headlessUniform
	targets    map[TargetHandle]TargetDescriptor
	pipelines  map[string]bool

	width       int
	height      int
	presentMode PresentMode

	frameActive bool
	acquired    bool
	pass        *PassRecord
	frame       []PassRecord
	lastFrame   []PassRecord

	stats Stats
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates a headless backend with a 1x1 surface.
//
// Returns:
//   - *HeadlessBackend: the backend
func NewHeadlessBackend() *HeadlessBackend {
	b := &HeadlessBackend{mu: &sync.Mutex{}, width: 1, height: 1}
	b.reset()
	return b
}

func (b *HeadlessBackend) reset() {
	b.meshes = make(map[MeshHandle]headlessMesh)
	b.uniforms = make(map[UniformHandle]*headlessUniform)
	b.targets = make(map[TargetHandle]TargetDescriptor)
	b.pipelines = make(map[string]bool)
	b.frameActive = false
	b.acquired = false
	b.pass = nil
	b.frame = nil
}

// handle returns the next non-zero handle value. Zero is reserved for SurfaceTarget.
// Caller must hold the mutex.
func (b *HeadlessBackend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

func (b *HeadlessBackend) CreatePipeline(p pipeline.Pipeline) error {
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipelines[p.PipelineKey()] = true
	p.SetHandle("headless:" + p.PipelineKey())
	return nil
}

func (b *HeadlessBackend) CreateMesh(label string, vertices, indices []byte, indexCount int) (MeshHandle, error) {
	if len(vertices) == 0 {
		return 0, fmt.Errorf("mesh %s: no vertex data", label)
	}
	if indexCount < 0 || indexCount*4 > len(indices) {
		return 0, fmt.Errorf("mesh %s: index count %d exceeds %d index bytes", label, indexCount, len(indices))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	h := MeshHandle(b.handle())
	b.meshes[h] = headlessMesh{label: label, size: len(vertices) + len(indices), indexCount: indexCount}
	return h, nil
}

func (b *HeadlessBackend) ReleaseMesh(h MeshHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.meshes[h]; !ok {
		return fmt.Errorf("mesh %d: %w", h, ErrUnknownHandle)
	}
	delete(b.meshes, h)
	return nil
}

func (b *HeadlessBackend) CreateUniform(label string, size int) (UniformHandle, error) {
	if size <= 0 || size%16 != 0 {
		return 0, fmt.Errorf("uniform %s: size %d is not a positive multiple of 16", label, size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	h := UniformHandle(b.handle())
	b.uniforms[h] = &headlessUniform{label: label, data: make([]byte, size)}
	return h, nil
}

func (b *HeadlessBackend) WriteUniform(h UniformHandle, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.uniforms[h]
	if !ok {
		return fmt.Errorf("uniform %d: %w", h, ErrUnknownHandle)
	}
	if len(data) > len(u.data) {
		return fmt.Errorf("uniform %s: write of %d bytes overflows %d byte buffer", u.label, len(data), len(u.data))
	}
	copy(u.data, data)
	return nil
}

func (b *HeadlessBackend) ReleaseUniform(h UniformHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.uniforms[h]; !ok {
		return fmt.Errorf("uniform %d: %w", h, ErrUnknownHandle)
	}
	delete(b.uniforms, h)
	return nil
}

func (b *HeadlessBackend) CreateTarget(desc TargetDescriptor) (TargetHandle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("target %s: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	h := TargetHandle(b.handle())
	b.targets[h] = desc
	return h, nil
}

func (b *HeadlessBackend) ReleaseTarget(h TargetHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.targets[h]; !ok {
		return fmt.Errorf("target %d: %w", h, ErrUnknownHandle)
	}
	delete(b.targets, h)
	return nil
}

func (b *HeadlessBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
	b.height = height
}

func (b *HeadlessBackend) SurfaceSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *HeadlessBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *HeadlessBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.acquired {
		return errors.New("previous frame surface not yet presented")
	}
	if b.width <= 0 || b.height <= 0 {
		return fmt.Errorf("surface not configured (%dx%d)", b.width, b.height)
	}
	b.frameActive = true
	b.acquired = true
	b.frame = nil
	return nil
}

func (b *HeadlessBackend) BeginPass(desc PassDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.frameActive {
		return fmt.Errorf("begin pass %s outside a frame: %w", desc.Label, ErrNoActivePass)
	}
	if b.pass != nil {
		return fmt.Errorf("begin pass %s while %s is open: %w", desc.Label, b.pass.Label, ErrNoActivePass)
	}
	if desc.Target != SurfaceTarget {
		if _, ok := b.targets[desc.Target]; !ok {
			return fmt.Errorf("pass %s target %d: %w", desc.Label, desc.Target, ErrUnknownHandle)
		}
	}
	b.pass = &PassRecord{Label: desc.Label, Target: desc.Target}
	return nil
}

func (b *HeadlessBackend) Draw(p pipeline.Pipeline, call DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pass == nil {
		return fmt.Errorf("draw %s: %w", call.Pipeline, ErrNoActivePass)
	}
	if !b.pipelines[p.PipelineKey()] {
		return fmt.Errorf("draw %s: pipeline not created: %w", call.Pipeline, ErrUnknownPipeline)
	}

	format, depth := pipeline.FormatSurface, false
	if b.pass.Target != SurfaceTarget {
		t := b.targets[b.pass.Target]
		format, depth = t.Format, t.Depth
	}
	if p.Format() != format || p.DepthAttachment() != depth {
		return fmt.Errorf("draw %s: pipeline attachments do not match pass %s", call.Pipeline, b.pass.Label)
	}

	if len(call.Uniforms) != p.UniformCount() {
		return fmt.Errorf("draw %s: %d uniforms bound, pipeline expects %d", call.Pipeline, len(call.Uniforms), p.UniformCount())
	}
	for _, u := range call.Uniforms {
		if _, ok := b.uniforms[u]; !ok {
			return fmt.Errorf("draw %s uniform %d: %w", call.Pipeline, u, ErrUnknownHandle)
		}
	}
	if len(call.Textures) != p.TextureCount() {
		return fmt.Errorf("draw %s: %d textures bound, pipeline expects %d", call.Pipeline, len(call.Textures), p.TextureCount())
	}
	for _, t := range call.Textures {
		if _, ok := b.targets[t]; !ok {
			return fmt.Errorf("draw %s texture %d: %w", call.Pipeline, t, ErrUnknownHandle)
		}
		if t == b.pass.Target {
			return fmt.Errorf("draw %s: target %d sampled while bound as attachment", call.Pipeline, t)
		}
	}

	switch p.VertexLayout() {
	case pipeline.VertexLayoutMesh:
		m, ok := b.meshes[call.Mesh]
		if !ok {
			return fmt.Errorf("draw %s mesh %d: %w", call.Pipeline, call.Mesh, ErrUnknownHandle)
		}
		if call.IndexCount > m.indexCount {
			return fmt.Errorf("draw %s: index count %d exceeds mesh %s (%d)", call.Pipeline, call.IndexCount, m.label, m.indexCount)
		}
	case pipeline.VertexLayoutNone:
		if call.VertexCount <= 0 {
			return fmt.Errorf("draw %s: vertex count must be positive", call.Pipeline)
		}
	}

	b.pass.Draws = append(b.pass.Draws, call.Pipeline)
	b.stats.Draws++
	return nil
}

func (b *HeadlessBackend) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pass == nil {
		return fmt.Errorf("end pass: %w", ErrNoActivePass)
	}
	b.frame = append(b.frame, *b.pass)
	b.pass = nil
	b.stats.Passes++
	return nil
}

func (b *HeadlessBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.frameActive {
		return errors.New("end frame without begin frame")
	}
	if b.pass != nil {
		return fmt.Errorf("end frame while pass %s is open", b.pass.Label)
	}
	b.frameActive = false
	b.lastFrame = b.frame
	b.frame = nil
	b.stats.Frames++
	return nil
}

func (b *HeadlessBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.acquired = false
}

func (b *HeadlessBackend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.Meshes = len(b.meshes)
	s.Uniforms = len(b.uniforms)
	s.Targets = len(b.targets)
	s.Pipelines = len(b.pipelines)
	return s
}

func (b *HeadlessBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

// LastFrame returns the passes recorded by the most recently ended frame.
//
// Returns:
//   - []PassRecord: passes in submission order
func (b *HeadlessBackend) LastFrame() []PassRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]PassRecord(nil), b.lastFrame...)
}

// UniformData returns a copy of a uniform buffer's contents.
//
// Parameters:
//   - h: the uniform handle
//
// Returns:
//   - []byte: buffer contents
//   - bool: false if h is not live
func (b *HeadlessBackend) UniformData(h UniformHandle) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.uniforms[h]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), u.data...), true
}

// Target returns the descriptor of a live target.
//
// Parameters:
//   - h: the target handle
//
// Returns:
//   - TargetDescriptor: the descriptor
//   - bool: false if h is not live
func (b *HeadlessBackend) Target(h TargetHandle) (TargetDescriptor, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.targets[h]
	return d, ok
}

// PresentMode returns the last present mode set.
//
// Returns:
//   - PresentMode: the present mode
func (b *HeadlessBackend) PresentMode() PresentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentMode
}
