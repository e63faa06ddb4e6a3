// Package gpu implements the renderer.RendererBackend interface on WebGPU through cogentcore/webgpu.
package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/engine/geometry"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer/shader"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type gpuMesh struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount int
}

type gpuUniform struct {
	buffer *wgpu.Buffer
	size   int
}

type gpuTarget struct {
	desc      renderer.TargetDescriptor
	color     *wgpu.Texture
	colorView *wgpu.TextureView
	depth     *wgpu.Texture
	depthView *wgpu.TextureView
}

// gpuPipeline is stored on pipeline.Pipeline via SetHandle.
type gpuPipeline struct {
	render        *wgpu.RenderPipeline
	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
}

// Backend is the WebGPU RendererBackend. All methods must be called from the thread that
// created it.
type Backend struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	width         int
	height        int

	sampler *wgpu.Sampler

	nextHandle uint32
	meshes     map[renderer.MeshHandle]*gpuMesh
	uniforms   map[renderer.UniformHandle]*gpuUniform
	targets    map[renderer.TargetHandle]*gpuTarget
	pipelines  int
	bindGroups map[string]*wgpu.BindGroup

	// Frame state for batched rendering across multiple passes
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	passTarget   renderer.TargetHandle
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	stats renderer.Stats

	forceFallbackAdapter bool
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend creates the WebGPU instance, surface, adapter and device. The calling goroutine is
// locked to its OS thread. Device acquisition failures panic since nothing can render without one.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the desktop window
//   - options: functional options
//
// Returns:
//   - *Backend: the backend
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendOption) *Backend {
	runtime.LockOSThread()
	b := &Backend{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeImmediate,
		meshes:      make(map[renderer.MeshHandle]*gpuMesh),
		uniforms:    make(map[renderer.UniformHandle]*gpuUniform),
		targets:     make(map[renderer.TargetHandle]*gpuTarget),
		bindGroups:  make(map[string]*wgpu.BindGroup),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.sampler, err = d.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Target Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}

	log.Info().Str("component", "gpu").Bool("fallback_adapter", b.forceFallbackAdapter).Msg("device acquired")
	return b
}

// handle returns the next non-zero handle value. Caller must hold the mutex.
func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

func (b *Backend) colorFormat(f pipeline.Format) (wgpu.TextureFormat, error) {
	switch f {
	case pipeline.FormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float, nil
	case pipeline.FormatSurface:
		if b.surfaceFormat == nil {
			return 0, errors.New("surface format requested before the surface was configured")
		}
		return *b.surfaceFormat, nil
	default:
		return 0, fmt.Errorf("unsupported color format %d", f)
	}
}

func (b *Backend) CreatePipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	format, err := b.colorFormat(p.Format())
	if err != nil {
		return err
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return err
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return err
	}

	gp := &gpuPipeline{}
	var layouts []*wgpu.BindGroupLayout

	uniformEntries := make([]wgpu.BindGroupLayoutEntry, p.UniformCount())
	for i := range uniformEntries {
		uniformEntries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		uniformEntries[i].Buffer.Type = wgpu.BufferBindingTypeUniform
	}
	gp.uniformLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   p.PipelineKey() + " Uniforms",
		Entries: uniformEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout for group 0: %w", err)
	}
	layouts = append(layouts, gp.uniformLayout)

	if p.TextureCount() > 0 {
		textureEntries := make([]wgpu.BindGroupLayoutEntry, 0, p.TextureCount()*2)
		for i := range p.TextureCount() {
			tex := wgpu.BindGroupLayoutEntry{Binding: uint32(2 * i), Visibility: wgpu.ShaderStageFragment}
			tex.Texture.SampleType = wgpu.TextureSampleTypeFloat
			tex.Texture.ViewDimension = wgpu.TextureViewDimension2D
			samp := wgpu.BindGroupLayoutEntry{Binding: uint32(2*i + 1), Visibility: wgpu.ShaderStageFragment}
			samp.Sampler.Type = wgpu.SamplerBindingTypeFiltering
			textureEntries = append(textureEntries, tex, samp)
		}
		gp.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   p.PipelineKey() + " Textures",
			Entries: textureEntries,
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group 1: %w", err)
		}
		layouts = append(layouts, gp.textureLayout)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return err
	}

	var buffers []wgpu.VertexBufferLayout
	if p.VertexLayout() == pipeline.VertexLayoutMesh {
		buffers = []wgpu.VertexBufferLayout{meshVertexLayout}
	}

	target := wgpu.ColorTargetState{Format: format, WriteMask: wgpu.ColorWriteMaskAll}
	target.Blend = blendState(p.BlendMode())

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode(p.CullMode()),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.DepthAttachment() {
		depthCompare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	gp.render, err = b.device.CreateRenderPipeline(desc)
	if err != nil {
		return err
	}
	p.SetHandle(gp)
	b.pipelines++
	return nil
}

func (b *Backend) CreateMesh(label string, vertices, indices []byte, indexCount int) (renderer.MeshHandle, error) {
	if len(vertices) == 0 {
		return 0, fmt.Errorf("mesh %s: no vertex data", label)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	m := &gpuMesh{indexCount: indexCount}
	var err error
	m.vertex, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertices)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, err
	}
	b.queue.WriteBuffer(m.vertex, 0, vertices)

	if len(indices) > 0 {
		m.index, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label + " Index Buffer",
			Size:  uint64(len(indices)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			m.vertex.Release()
			return 0, err
		}
		b.queue.WriteBuffer(m.index, 0, indices)
	}

	h := renderer.MeshHandle(b.handle())
	b.meshes[h] = m
	return h, nil
}

func (b *Backend) ReleaseMesh(h renderer.MeshHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.meshes[h]
	if !ok {
		return fmt.Errorf("mesh %d: %w", h, renderer.ErrUnknownHandle)
	}
	m.vertex.Release()
	if m.index != nil {
		m.index.Release()
	}
	delete(b.meshes, h)
	return nil
}

func (b *Backend) CreateUniform(label string, size int) (renderer.UniformHandle, error) {
	if size <= 0 || size%16 != 0 {
		return 0, fmt.Errorf("uniform %s: size %d is not a positive multiple of 16", label, size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  uint64(size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, err
	}
	h := renderer.UniformHandle(b.handle())
	b.uniforms[h] = &gpuUniform{buffer: buf, size: size}
	return h, nil
}

func (b *Backend) WriteUniform(h renderer.UniformHandle, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.uniforms[h]
	if !ok {
		return fmt.Errorf("uniform %d: %w", h, renderer.ErrUnknownHandle)
	}
	if len(data) > u.size {
		return fmt.Errorf("uniform %d: write of %d bytes overflows %d byte buffer", h, len(data), u.size)
	}
	b.queue.WriteBuffer(u.buffer, 0, data)
	return nil
}

func (b *Backend) ReleaseUniform(h renderer.UniformHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.uniforms[h]
	if !ok {
		return fmt.Errorf("uniform %d: %w", h, renderer.ErrUnknownHandle)
	}
	u.buffer.Release()
	delete(b.uniforms, h)
	b.dropBindGroups()
	return nil
}

func (b *Backend) CreateTarget(desc renderer.TargetDescriptor) (renderer.TargetHandle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("target %s: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	format, err := b.colorFormat(desc.Format)
	if err != nil {
		return 0, err
	}
	size := wgpu.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1}

	t := &gpuTarget{desc: desc}
	t.color, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label + " Color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return 0, err
	}
	t.colorView, err = t.color.CreateView(nil)
	if err != nil {
		t.color.Release()
		return 0, err
	}

	if desc.Depth {
		t.depth, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         desc.Label + " Depth",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        depthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			t.release()
			return 0, err
		}
		t.depthView, err = t.depth.CreateView(nil)
		if err != nil {
			t.release()
			return 0, err
		}
	}

	h := renderer.TargetHandle(b.handle())
	b.targets[h] = t
	return h, nil
}

func (t *gpuTarget) release() {
	if t.depthView != nil {
		t.depthView.Release()
	}
	if t.depth != nil {
		t.depth.Release()
	}
	if t.colorView != nil {
		t.colorView.Release()
	}
	if t.color != nil {
		t.color.Release()
	}
}

func (b *Backend) ReleaseTarget(h renderer.TargetHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.targets[h]
	if !ok {
		return fmt.Errorf("target %d: %w", h, renderer.ErrUnknownHandle)
	}
	t.release()
	delete(b.targets, h)
	b.dropBindGroups()
	return nil
}

// dropBindGroups releases every cached bind group. Caller must hold the mutex.
func (b *Backend) dropBindGroups() {
	for k, bg := range b.bindGroups {
		bg.Release()
		delete(b.bindGroups, k)
	}
}

func (b *Backend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.width = width
	b.height = height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *Backend) SurfaceSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case renderer.PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case renderer.PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *Backend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A held surface texture means the previous frame was never presented.
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *Backend) BeginPass(desc renderer.PassDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frameEncoder == nil {
		return fmt.Errorf("begin pass %s outside a frame: %w", desc.Label, renderer.ErrNoActivePass)
	}
	if b.framePass != nil {
		return fmt.Errorf("begin pass %s while another pass is open: %w", desc.Label, renderer.ErrNoActivePass)
	}

	loadOp := wgpu.LoadOpClear
	if desc.Load {
		loadOp = wgpu.LoadOpLoad
	}
	color := wgpu.RenderPassColorAttachment{
		View:    b.frameView,
		LoadOp:  loadOp,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: desc.ClearColor[0], G: desc.ClearColor[1], B: desc.ClearColor[2], A: desc.ClearColor[3],
		},
	}
	passDesc := &wgpu.RenderPassDescriptor{Label: desc.Label}

	if desc.Target != renderer.SurfaceTarget {
		t, ok := b.targets[desc.Target]
		if !ok {
			return fmt.Errorf("pass %s target %d: %w", desc.Label, desc.Target, renderer.ErrUnknownHandle)
		}
		color.View = t.colorView
		if t.depthView != nil {
			passDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
				View:            t.depthView,
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpDiscard,
				DepthClearValue: 1.0,
			}
		}
	}
	passDesc.ColorAttachments = []wgpu.RenderPassColorAttachment{color}

	b.framePass = b.frameEncoder.BeginRenderPass(passDesc)
	b.passTarget = desc.Target
	return nil
}

func (b *Backend) Draw(p pipeline.Pipeline, call renderer.DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil {
		return fmt.Errorf("draw %s: %w", call.Pipeline, renderer.ErrNoActivePass)
	}
	gp, ok := p.Handle().(*gpuPipeline)
	if !ok {
		return fmt.Errorf("draw %s: pipeline not created: %w", call.Pipeline, renderer.ErrUnknownPipeline)
	}
	if len(call.Uniforms) != p.UniformCount() || len(call.Textures) != p.TextureCount() {
		return fmt.Errorf("draw %s: binding counts do not match the pipeline", call.Pipeline)
	}

	uniforms, err := b.uniformBindGroup(p.PipelineKey(), gp, call.Uniforms)
	if err != nil {
		return err
	}
	b.framePass.SetPipeline(gp.render)
	b.framePass.SetBindGroup(0, uniforms, nil)

	if gp.textureLayout != nil {
		textures, err := b.textureBindGroup(p.PipelineKey(), gp, call.Textures)
		if err != nil {
			return err
		}
		b.framePass.SetBindGroup(1, textures, nil)
	}

	switch p.VertexLayout() {
	case pipeline.VertexLayoutNone:
		b.framePass.Draw(uint32(call.VertexCount), 1, 0, 0)
	default:
		m, ok := b.meshes[call.Mesh]
		if !ok {
			return fmt.Errorf("draw %s mesh %d: %w", call.Pipeline, call.Mesh, renderer.ErrUnknownHandle)
		}
		count := m.indexCount
		if call.IndexCount > 0 && call.IndexCount < count {
			count = call.IndexCount
		}
		b.framePass.SetVertexBuffer(0, m.vertex, 0, wgpu.WholeSize)
		b.framePass.SetIndexBuffer(m.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(uint32(count), 1, 0, 0, 0)
	}
	b.stats.Draws++
	return nil
}

// uniformBindGroup returns the cached group 0 bind group for a pipeline and uniform set.
// Caller must hold the mutex.
func (b *Backend) uniformBindGroup(key string, gp *gpuPipeline, handles []renderer.UniformHandle) (*wgpu.BindGroup, error) {
	ids := make([]string, len(handles))
	entries := make([]wgpu.BindGroupEntry, len(handles))
	for i, h := range handles {
		u, ok := b.uniforms[h]
		if !ok {
			return nil, fmt.Errorf("draw %s uniform %d: %w", key, h, renderer.ErrUnknownHandle)
		}
		ids[i] = fmt.Sprint(h)
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), Buffer: u.buffer, Offset: 0, Size: wgpu.WholeSize}
	}
	return b.bindGroup(key+"|u|"+strings.Join(ids, ","), gp.uniformLayout, entries)
}

// textureBindGroup returns the cached group 1 bind group for a pipeline and texture set.
// Caller must hold the mutex.
func (b *Backend) textureBindGroup(key string, gp *gpuPipeline, handles []renderer.TargetHandle) (*wgpu.BindGroup, error) {
	ids := make([]string, len(handles))
	entries := make([]wgpu.BindGroupEntry, 0, len(handles)*2)
	for i, h := range handles {
		t, ok := b.targets[h]
		if !ok {
			return nil, fmt.Errorf("draw %s texture %d: %w", key, h, renderer.ErrUnknownHandle)
		}
		if h == b.passTarget {
			return nil, fmt.Errorf("draw %s: target %d sampled while bound as attachment", key, h)
		}
		ids[i] = fmt.Sprint(h)
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: uint32(2 * i), TextureView: t.colorView},
			wgpu.BindGroupEntry{Binding: uint32(2*i + 1), Sampler: b.sampler},
		)
	}
	return b.bindGroup(key+"|t|"+strings.Join(ids, ","), gp.textureLayout, entries)
}

func (b *Backend) bindGroup(cacheKey string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	if bg, ok := b.bindGroups[cacheKey]; ok {
		return bg, nil
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   cacheKey,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	b.bindGroups[cacheKey] = bg
	return bg, nil
}

func (b *Backend) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil {
		return fmt.Errorf("end pass: %w", renderer.ErrNoActivePass)
	}
	b.framePass.End()
	b.framePass = nil
	b.passTarget = renderer.SurfaceTarget
	b.stats.Passes++
	return nil
}

func (b *Backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frameEncoder == nil {
		return errors.New("end frame without begin frame")
	}
	if b.framePass != nil {
		return errors.New("end frame while a pass is open")
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.stats.Frames++
	return nil
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *Backend) Stats() renderer.Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.Meshes = len(b.meshes)
	s.Uniforms = len(b.uniforms)
	s.Targets = len(b.targets)
	s.Pipelines = b.pipelines
	return s
}

func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropBindGroups()
	for h, m := range b.meshes {
		m.vertex.Release()
		if m.index != nil {
			m.index.Release()
		}
		delete(b.meshes, h)
	}
	for h, u := range b.uniforms {
		u.buffer.Release()
		delete(b.uniforms, h)
	}
	handles := make([]int, 0, len(b.targets))
	for h := range b.targets {
		handles = append(handles, int(h))
	}
	sort.Ints(handles)
	for _, h := range handles {
		b.targets[renderer.TargetHandle(h)].release()
		delete(b.targets, renderer.TargetHandle(h))
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// meshVertexLayout matches geometry.Vertex: position, normal, color, extra.
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(geometry.VertexSize),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 36, ShaderLocation: 3},
	},
}

func cullMode(m pipeline.CullMode) wgpu.CullMode {
	switch m {
	case pipeline.CullModeBack:
		return wgpu.CullModeBack
	case pipeline.CullModeFront:
		return wgpu.CullModeFront
	default:
		return wgpu.CullModeNone
	}
}

func blendState(m pipeline.BlendMode) *wgpu.BlendState {
	switch m {
	case pipeline.BlendModeAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case pipeline.BlendModeAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}
