package geometry

import (
	_ "embed"
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// ErrInvalidDimensions is returned by every generator when a resolution, segment count or
// dimension is zero or negative. It is wrapped with the offending values.
var ErrInvalidDimensions = errors.New("invalid mesh dimensions")

// VertexSource is the canonical WGSL definition of the VertexInput struct shared by every scene pipeline.
// Matches Vertex layout exactly (52 bytes, tightly packed vertex buffer).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// Vertex is the packed vertex layout used by every procedural mesh.
// Size: 52 bytes. The meaning of Color and Extra depends on the mesh.
type Vertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Normal   [3]float32 // offset 12: normal, or a per-vertex direction attribute (12 bytes)
	Color    [3]float32 // offset 24: RGB color or scalar attributes (12 bytes)
	Extra    [4]float32 // offset 36: uv, block index or quad corner (16 bytes)
}

// VertexSize is the byte size of one packed Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return VertexSize
}

// Marshal serializes the Vertex into a 52-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.marshalInto(buf)
	return buf
}

func (v *Vertex) marshalInto(buf []byte) {
	for i := range 3 {
		common.PutFloat32(buf, i*4, v.Position[i])
		common.PutFloat32(buf, 12+i*4, v.Normal[i])
		common.PutFloat32(buf, 24+i*4, v.Color[i])
	}
	for i := range 4 {
		common.PutFloat32(buf, 36+i*4, v.Extra[i])
	}
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// MarshalVertices packs every vertex into one contiguous buffer.
//
// Returns:
//   - []byte: len(Vertices) * VertexSize bytes.
func (m *Mesh) MarshalVertices() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i := range m.Vertices {
		m.Vertices[i].marshalInto(buf[i*VertexSize:])
	}
	return buf
}

// MarshalIndices returns the index list as bytes in host order, which is little-endian on
// every platform the GPU backend targets. The result shares memory with Indices; upload it
// before modifying the mesh.
func (m *Mesh) MarshalIndices() []byte {
	return common.SliceToBytes(m.Indices)
}

// IndexCount returns the number of indices as the uint32 draw calls expect.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Append merges other into m, rebasing its indices.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// BoundingRadius returns the largest vertex distance from the model origin.
func (m *Mesh) BoundingRadius() float32 {
	var r float32
	for _, v := range m.Vertices {
		r = max(r, mgl32.Vec3(v.Position).Len())
	}
	return r
}

// ComputeVertexNormals recomputes every vertex normal from the triangle topology.
// Face normals are accumulated unnormalized so larger faces weigh more, then each
// vertex sum is normalized. Vertices referenced by no triangle keep a zero normal.
func (m *Mesh) ComputeVertexNormals() {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		ia, ib, ic := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		a := mgl32.Vec3(m.Vertices[ia].Position)
		b := mgl32.Vec3(m.Vertices[ib].Position)
		c := mgl32.Vec3(m.Vertices[ic].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}
	for i, n := range acc {
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		m.Vertices[i].Normal = n
	}
}

// NoiseSource holds the WGSL noise helpers (snoise, fbm4, hash2) shared by the scene shaders.
//
//go:embed assets/noise.wgsl
var NoiseSource string
