package component

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// WGSL struct definitions matching the records below, registered with the pre-processor under
// the kind name plus "_uniform".
var (
	//go:embed assets/crystal_uniform.wgsl
	GPUCrystalUniformSource string

	//go:embed assets/dwelling_uniform.wgsl
	GPUDwellingUniformSource string

	//go:embed assets/terrain_uniform.wgsl
	GPUTerrainUniformSource string

	//go:embed assets/particle_uniform.wgsl
	GPUParticleUniformSource string

	//go:embed assets/volumetric_uniform.wgsl
	GPUVolumetricUniformSource string

	//go:embed assets/marker_uniform.wgsl
	GPUMarkerUniformSource string
)

// GPUCrystalUniform is the centerpiece crystal record.
// Size: 96 bytes.
type GPUCrystalUniform struct {
	Model          [16]float32 // offset  0: model matrix
	CameraPosition [3]float32  // offset 64: world-space eye
	Time           float32     // offset 76: seconds since start
	Pointer        [2]float32  // offset 80: smoothed pointer
	RotationBase   float32     // offset 88: spin speed at rest
	RotationGain   float32     // offset 92: spin speed added per unit of pointer distance
}

var _ Uniforms = &GPUCrystalUniform{}

func (u *GPUCrystalUniform) Kind() Kind {
	return KindCrystal
}

func (u *GPUCrystalUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUCrystalUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.Model)
	common.PutVec3(buf, 64, u.CameraPosition, u.Time)
	common.PutFloat32(buf, 80, u.Pointer[0])
	common.PutFloat32(buf, 84, u.Pointer[1])
	common.PutFloat32(buf, 88, u.RotationBase)
	common.PutFloat32(buf, 92, u.RotationGain)
	return buf
}

// GPUDwellingUniform is the dwelling group record.
// Size: 80 bytes.
type GPUDwellingUniform struct {
	Model      [16]float32 // offset  0: group model matrix
	Time       float32     // offset 64: seconds since start
	BlockCount uint32      // offset 68: live entries in the block transform array
	Ambient    float32     // offset 72: unlit share of the block color
	Diffuse    float32     // offset 76: share scaled by N.L
}

var _ Uniforms = &GPUDwellingUniform{}

func (u *GPUDwellingUniform) Kind() Kind {
	return KindDwelling
}

func (u *GPUDwellingUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUDwellingUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.Model)
	common.PutFloat32(buf, 64, u.Time)
	binary.LittleEndian.PutUint32(buf[68:72], u.BlockCount)
	common.PutFloat32(buf, 72, u.Ambient)
	common.PutFloat32(buf, 76, u.Diffuse)
	return buf
}

// DwellingBlocks is the fixed block count of the dwelling: 128 dome, 8 tunnel and 8 arch blocks.
// It matches DWELLING_BLOCKS in GPUDwellingUniformSource.
const DwellingBlocks = 144

// GPUBlockTransforms carries one model matrix per dwelling block, relative to the group.
// Size: 9216 bytes.
type GPUBlockTransforms struct {
	Matrices [DwellingBlocks][16]float32
}

func (b *GPUBlockTransforms) Size() int {
	return int(unsafe.Sizeof(*b))
}

func (b *GPUBlockTransforms) Marshal() []byte {
	buf := make([]byte, b.Size())
	for i := range b.Matrices {
		common.PutMat4(buf, i*64, b.Matrices[i])
	}
	return buf
}

// GPUTerrainUniform is the terrain record. Octaves holds (frequency, amplitude, 0, 0).
// Size: 144 bytes.
type GPUTerrainUniform struct {
	Model       [16]float32   // offset  0: model matrix
	DarkColor   [3]float32    // offset 64: low elevation color
	Time        float32       // offset 76: seconds since start
	LightColor  [3]float32    // offset 80: high elevation color
	OctaveCount uint32        // offset 92: octaves used, at most 3
	Octaves     [3][4]float32 // offset 96: simplex octaves
}

var _ Uniforms = &GPUTerrainUniform{}

func (u *GPUTerrainUniform) Kind() Kind {
	return KindTerrain
}

func (u *GPUTerrainUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUTerrainUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.Model)
	common.PutVec3(buf, 64, u.DarkColor, u.Time)
	common.PutVec3(buf, 80, u.LightColor, 0)
	binary.LittleEndian.PutUint32(buf[92:96], u.OctaveCount)
	for i, o := range u.Octaves {
		common.PutVec4(buf, 96+i*16, o)
	}
	return buf
}

// GPUParticleUniform is the particle field record.
// Size: 16 bytes.
type GPUParticleUniform struct {
	Pointer  [2]float32 // offset 0: smoothed pointer
	Time     float32    // offset 8: seconds since start
	BaseSize float32    // offset 12: sprite size multiplier
}

var _ Uniforms = &GPUParticleUniform{}

func (u *GPUParticleUniform) Kind() Kind {
	return KindParticles
}

func (u *GPUParticleUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUParticleUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutFloat32(buf, 0, u.Pointer[0])
	common.PutFloat32(buf, 4, u.Pointer[1])
	common.PutFloat32(buf, 8, u.Time)
	common.PutFloat32(buf, 12, u.BaseSize)
	return buf
}

// GPUVolumetricUniform is the volumetric light record.
// Size: 32 bytes.
type GPUVolumetricUniform struct {
	LightPosition [3]float32 // offset  0: scattering light position
	Time          float32    // offset 12: seconds since start
	LightColor    [3]float32 // offset 16: scattering color
	Density       float32    // offset 28: fog density
}

var _ Uniforms = &GPUVolumetricUniform{}

func (u *GPUVolumetricUniform) Kind() Kind {
	return KindVolumetric
}

func (u *GPUVolumetricUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUVolumetricUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutVec3(buf, 0, u.LightPosition, u.Time)
	common.PutVec3(buf, 16, u.LightColor, u.Density)
	return buf
}

// GPUMarkerUniform is the record of one project marker.
// Size: 96 bytes.
type GPUMarkerUniform struct {
	Model   [16]float32 // offset  0: model matrix
	Color   [3]float32  // offset 64: base tint
	Hover   float32     // offset 76: smoothed hover scalar in [0, 1]
	Time    float32     // offset 80: seconds since start
	Opacity float32     // offset 84: base opacity
	_       [2]float32  // offset 88: padding
}

func (u *GPUMarkerUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

func (u *GPUMarkerUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutMat4(buf, 0, u.Model)
	common.PutVec3(buf, 64, u.Color, u.Hover)
	common.PutFloat32(buf, 80, u.Time)
	common.PutFloat32(buf, 84, u.Opacity)
	return buf
}

// GPUMarkerSet is the markers' Uniforms record: one GPUMarkerUniform per marker, each uploaded
// to its own buffer.
type GPUMarkerSet struct {
	Markers []GPUMarkerUniform
}

var _ Uniforms = &GPUMarkerSet{}

func (s *GPUMarkerSet) Kind() Kind {
	return KindMarkers
}

func (s *GPUMarkerSet) Size() int {
	return len(s.Markers) * int(unsafe.Sizeof(GPUMarkerUniform{}))
}

func (s *GPUMarkerSet) Marshal() []byte {
	buf := make([]byte, 0, s.Size())
	for i := range s.Markers {
		buf = append(buf, s.Markers[i].Marshal()...)
	}
	return buf
}
