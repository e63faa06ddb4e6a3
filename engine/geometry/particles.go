package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticleAttributes are the per-particle values baked once at creation.
type ParticleAttributes struct {
	Position mgl32.Vec3
	Offset   mgl32.Vec3
	Scale    float32
	Speed    float32
}

var quadCorners = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// GenerateParticleQuads builds one camera-facing quad per particle. Every corner carries the
// particle's attributes: base position in Position, offset in Normal, (scale, speed, index) in
// Color and the corner in Extra[0:2]. The vertex shader expands the quad in view space.
// Drawing the first n*6 indices draws the first n particles.
//
// Parameters:
//   - attrs: the baked particle attributes (non-empty)
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions when attrs is empty
func GenerateParticleQuads(attrs []ParticleAttributes) (*Mesh, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("particle field with 0 particles: %w", ErrInvalidDimensions)
	}
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, len(attrs)*4),
		Indices:  make([]uint32, 0, len(attrs)*6),
	}
	for i, a := range attrs {
		base := uint32(len(mesh.Vertices))
		for _, c := range quadCorners {
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: a.Position,
				Normal:   a.Offset,
				Color:    [3]float32{a.Scale, a.Speed, float32(i)},
				Extra:    [4]float32{c[0], c[1], 0, 0},
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh, nil
}
