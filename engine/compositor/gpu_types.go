package compositor

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// GPUPostUniformSource is the canonical WGSL definition of the PostUniform struct.
// Matches GPUPostUniform layout exactly (48 bytes, uniform aligned).
//
//go:embed assets/post_uniform.wgsl
var GPUPostUniformSource string

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

// GPUPostUniform is the record shared by the bloom and grain passes.
// Size: 48 bytes.
type GPUPostUniform struct {
	Resolution     [2]float32 // offset  0: scene target size in pixels (vec2<f32>)
	Time           float32    // offset  8: grain seed (f32)
	GrainAmount    float32    // offset 12: grain intensity (f32)
	BloomThreshold float32    // offset 16: luminance threshold (f32)
	BloomStrength  float32    // offset 20: gain above the threshold (f32)
	BloomFloor     float32    // offset 24: gain below the threshold (f32)
	_              float32    // offset 28: padding
	VignetteInner  float32    // offset 32: smoothstep lower edge (f32)
	VignetteOuter  float32    // offset 36: smoothstep upper edge (f32)
	_              [2]float32 // offset 40: padding
}

// Size returns the size of the GPUPostUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (u *GPUPostUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the GPUPostUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (u *GPUPostUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutFloat32(buf, 0, u.Resolution[0])
	common.PutFloat32(buf, 4, u.Resolution[1])
	common.PutFloat32(buf, 8, u.Time)
	common.PutFloat32(buf, 12, u.GrainAmount)
	common.PutFloat32(buf, 16, u.BloomThreshold)
	common.PutFloat32(buf, 20, u.BloomStrength)
	common.PutFloat32(buf, 24, u.BloomFloor)
	common.PutFloat32(buf, 32, u.VignetteInner)
	common.PutFloat32(buf, 36, u.VignetteOuter)
	return buf
}
