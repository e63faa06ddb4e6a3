package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (160 bytes, uniform aligned).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniform is the GPU-aligned per-frame uniform shared by every scene pipeline.
// Matches the WGSL FrameUniform struct layout exactly (see GPUFrameUniformSource).
// Size: 160 bytes.
type GPUFrameUniform struct {
	ViewProj       [16]float32 // offset   0: combined view-projection matrix (mat4x4<f32>)
	View           [16]float32 // offset  64: view matrix, used for billboarding (mat4x4<f32>)
	CameraPosition [3]float32  // offset 128: world-space camera position (vec3<f32>)
	Time           float32     // offset 140: seconds since start (f32)
	Resolution     [2]float32  // offset 144: drawable size in pixels (vec2<f32>)
	Pointer        [2]float32  // offset 152: normalized pointer, y up (vec2<f32>)
}

// NewGPUFrameUniform snapshots a camera and frame timing into a GPUFrameUniform.
//
// Parameters:
//   - cam: the camera to read matrices and position from
//   - time: seconds since start
//   - width, height: drawable size in pixels
//   - pointer: normalized pointer position
//
// Returns:
//   - GPUFrameUniform: the populated uniform
func NewGPUFrameUniform(cam Camera, time float32, width, height int, pointer mgl32.Vec2) GPUFrameUniform {
	state := cam.State()
	return GPUFrameUniform{
		ViewProj:       cam.ViewProjectionMatrix(),
		View:           state.View,
		CameraPosition: state.Position,
		Time:           time,
		Resolution:     [2]float32{float32(width), float32(height)},
		Pointer:        pointer,
	}
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.View[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(g.Time))
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[144+i*4:], math.Float32bits(g.Resolution[i]))
		binary.LittleEndian.PutUint32(buf[152+i*4:], math.Float32bits(g.Pointer[i]))
	}
	return buf
}
