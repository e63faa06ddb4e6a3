package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Lerp linearly interpolates between a and b by t.
//
// Parameters:
//   - a: start value
//   - b: end value
//   - t: interpolation factor (0 = a, 1 = b)
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates each component of two vectors by t.
//
// Parameters:
//   - a: start vector
//   - b: end vector
//   - t: interpolation factor (0 = a, 1 = b)
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// ExpSmooth moves current toward target by a fixed fraction of the remaining distance.
// With 0 < factor < 1 the result approaches but never reaches the target in a single step.
//
// Parameters:
//   - current: the current smoothed value
//   - target: the value being approached
//   - factor: fraction of the remaining distance covered per call
//
// Returns:
//   - mgl32.Vec2: the new smoothed value
func ExpSmooth(current, target mgl32.Vec2, factor float32) mgl32.Vec2 {
	return current.Add(target.Sub(current).Mul(factor))
}

// Smoothstep performs Hermite interpolation between 0 and 1 when edge0 < x < edge1,
// matching the WGSL/GLSL builtin of the same name.
//
// Parameters:
//   - edge0: lower edge
//   - edge1: upper edge
//   - x: the source value
//
// Returns:
//   - float32: the smoothed value in [0, 1]
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Fract returns the fractional part of x, matching WGSL fract (x - floor(x)).
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// PutFloat32 writes a little-endian float32 at the given byte offset.
func PutFloat32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

// PutVec3 writes a vec3 at the given byte offset followed by the supplied fourth lane,
// filling one 16-byte WGSL vec4 slot.
//
// Parameters:
//   - buf: destination buffer
//   - offset: byte offset of the slot (must be 16-byte aligned for WGSL uniforms)
//   - v: the vector to write
//   - w: the value written into the fourth lane
func PutVec3(buf []byte, offset int, v mgl32.Vec3, w float32) {
	for i := range 3 {
		PutFloat32(buf, offset+i*4, v[i])
	}
	PutFloat32(buf, offset+12, w)
}

// PutVec4 writes a vec4 at the given byte offset.
func PutVec4(buf []byte, offset int, v mgl32.Vec4) {
	for i := range 4 {
		PutFloat32(buf, offset+i*4, v[i])
	}
}

// PutMat4 writes a column-major 4x4 matrix (64 bytes) at the given byte offset.
func PutMat4(buf []byte, offset int, m mgl32.Mat4) {
	for i := range 16 {
		PutFloat32(buf, offset+i*4, m[i])
	}
}
