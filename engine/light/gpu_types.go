package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightRigSource is the canonical WGSL definition of the Light and LightRig structs plus the
// shared shade_rig helper. Matches GPULightRig layout exactly (112 bytes, uniform aligned).
//
//go:embed assets/light_rig.wgsl
var GPULightRigSource string

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightRigSource).
// Size: 48 bytes.
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position
	LightType  uint32     // offset 12: 0 = directional, 1 = point
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier (0 when disabled)
	Direction  [3]float32 // offset 32: normalized direction (directional) or unused (point)
	LightRange float32    // offset 44: attenuation cutoff distance
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 48)
	g.marshalInto(buf)
	return buf
}

func (g *GPULight) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.LightRange))
}

// GPULightRig is the shared per-scene lighting uniform.
// Matches the WGSL LightRig struct layout exactly (see GPULightRigSource).
// Size: 112 bytes (16 header + 2 x 48 lights).
type GPULightRig struct {
	AmbientColor     [3]float32 // offset  0: ambient RGB
	AmbientIntensity float32    // offset 12: ambient multiplier
	Key              GPULight   // offset 16: directional key light
	Rim              GPULight   // offset 64: point rim light
}

// Size returns the size of the GPULightRig struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (r *GPULightRig) Size() int {
	return int(unsafe.Sizeof(*r))
}

// Marshal serializes the GPULightRig struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload
func (r *GPULightRig) Marshal() []byte {
	buf := make([]byte, 112)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(r.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(r.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(r.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(r.AmbientIntensity))
	r.Key.marshalInto(buf[16:64])
	r.Rim.marshalInto(buf[64:112])
	return buf
}
