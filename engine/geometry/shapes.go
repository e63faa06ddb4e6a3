package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Block is one independently animated piece of a segmented shape. The mesh is expressed
// relative to Center so a block rotates about its own middle.
type Block struct {
	Center mgl32.Vec3
	Mesh   *Mesh
}

// Transform moves the block by an affine matrix: the center is transformed as a point and
// the local vertices and normals by the rotational part only.
func (b *Block) Transform(m mgl32.Mat4) {
	b.Center = m.Mul4x1(b.Center.Vec4(1)).Vec3()
	rot := m.Mat3()
	for i := range b.Mesh.Vertices {
		v := &b.Mesh.Vertices[i]
		v.Position = rot.Mul3x1(v.Position)
		if n := rot.Mul3x1(v.Normal); n.Len() > 0 {
			v.Normal = n.Normalize()
		}
	}
}

// quadBlock builds a two-triangle block from four corners in counter-clockwise order with
// per-corner normals and uvs.
func quadBlock(corners, normals [4]mgl32.Vec3, uvs [4]mgl32.Vec2) Block {
	center := corners[0].Add(corners[1]).Add(corners[2]).Add(corners[3]).Mul(0.25)
	mesh := &Mesh{
		Vertices: make([]Vertex, 4),
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	for i := range 4 {
		mesh.Vertices[i] = Vertex{
			Position: corners[i].Sub(center),
			Normal:   normals[i],
			Color:    [3]float32{1, 1, 1},
			Extra:    [4]float32{0, uvs[i].X(), uvs[i].Y(), 0},
		}
	}
	return Block{Center: center, Mesh: mesh}
}

func spherePoint(radius, phi, theta float64) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(-radius * math.Cos(phi) * math.Sin(theta)),
		float32(radius * math.Cos(theta)),
		float32(radius * math.Sin(phi) * math.Sin(theta)),
	}
}

// SphereBand splits a spherical band into one quad block per azimuth segment and ring.
// The band spans the full turn in azimuth and theta in [0, thetaLength] from the pole.
//
// Parameters:
//   - radius: sphere radius (> 0)
//   - azimuthSegments, rings: segment counts (> 0)
//   - thetaLength: polar extent in radians (> 0)
//
// Returns:
//   - []Block: azimuthSegments * rings blocks, ring-major from the pole
//   - error: ErrInvalidDimensions for invalid inputs
func SphereBand(radius float32, azimuthSegments, rings int, thetaLength float64) ([]Block, error) {
	if radius <= 0 || azimuthSegments <= 0 || rings <= 0 || thetaLength <= 0 {
		return nil, fmt.Errorf("sphere band radius %.2f %dx%d theta %.3f: %w",
			radius, azimuthSegments, rings, thetaLength, ErrInvalidDimensions)
	}
	r := float64(radius)
	blocks := make([]Block, 0, azimuthSegments*rings)
	for ring := range rings {
		v0, v1 := float64(ring)/float64(rings), float64(ring+1)/float64(rings)
		t0, t1 := v0*thetaLength, v1*thetaLength
		for seg := range azimuthSegments {
			u0, u1 := float64(seg)/float64(azimuthSegments), float64(seg+1)/float64(azimuthSegments)
			p0, p1 := u0*2*math.Pi, u1*2*math.Pi
			corners := [4]mgl32.Vec3{
				spherePoint(r, p0, t0), spherePoint(r, p0, t1),
				spherePoint(r, p1, t1), spherePoint(r, p1, t0),
			}
			var normals [4]mgl32.Vec3
			for i, c := range corners {
				normals[i] = c.Normalize()
			}
			uvs := [4]mgl32.Vec2{
				{float32(u0), float32(1 - v0)}, {float32(u0), float32(1 - v1)},
				{float32(u1), float32(1 - v1)}, {float32(u1), float32(1 - v0)},
			}
			blocks = append(blocks, quadBlock(corners, normals, uvs))
		}
	}
	return blocks, nil
}

// CylinderArc splits an open cylinder wall spanning arc radians around Y into one block per segment.
//
// Parameters:
//   - radius: cylinder radius (> 0)
//   - height: wall height centered on y = 0 (> 0)
//   - segments: segment count (> 0)
//   - arc: angular extent in radians (> 0)
//
// Returns:
//   - []Block: one block per segment
//   - error: ErrInvalidDimensions for invalid inputs
func CylinderArc(radius, height float32, segments int, arc float64) ([]Block, error) {
	if radius <= 0 || height <= 0 || segments <= 0 || arc <= 0 {
		return nil, fmt.Errorf("cylinder arc radius %.2f height %.2f segments %d arc %.3f: %w",
			radius, height, segments, arc, ErrInvalidDimensions)
	}
	half := height / 2
	blocks := make([]Block, 0, segments)
	for seg := range segments {
		u0, u1 := float64(seg)/float64(segments), float64(seg+1)/float64(segments)
		a0, a1 := u0*arc, u1*arc
		n0 := mgl32.Vec3{float32(math.Sin(a0)), 0, float32(math.Cos(a0))}
		n1 := mgl32.Vec3{float32(math.Sin(a1)), 0, float32(math.Cos(a1))}
		corners := [4]mgl32.Vec3{
			n0.Mul(radius).Add(mgl32.Vec3{0, half, 0}),
			n0.Mul(radius).Sub(mgl32.Vec3{0, half, 0}),
			n1.Mul(radius).Sub(mgl32.Vec3{0, half, 0}),
			n1.Mul(radius).Add(mgl32.Vec3{0, half, 0}),
		}
		uvs := [4]mgl32.Vec2{{float32(u0), 1}, {float32(u0), 0}, {float32(u1), 0}, {float32(u1), 1}}
		blocks = append(blocks, quadBlock(corners, [4]mgl32.Vec3{n0, n0, n1, n1}, uvs))
	}
	return blocks, nil
}

// RingArc splits a flat annulus in the XY plane spanning arc radians into one block per segment.
//
// Parameters:
//   - inner, outer: radii with 0 < inner < outer
//   - segments: segment count (> 0)
//   - arc: angular extent in radians (> 0)
//
// Returns:
//   - []Block: one block per segment
//   - error: ErrInvalidDimensions for invalid inputs
func RingArc(inner, outer float32, segments int, arc float64) ([]Block, error) {
	if inner <= 0 || outer <= inner || segments <= 0 || arc <= 0 {
		return nil, fmt.Errorf("ring arc %.2f..%.2f segments %d arc %.3f: %w",
			inner, outer, segments, arc, ErrInvalidDimensions)
	}
	normal := mgl32.Vec3{0, 0, 1}
	blocks := make([]Block, 0, segments)
	for seg := range segments {
		a0 := float64(seg) / float64(segments) * arc
		a1 := float64(seg+1) / float64(segments) * arc
		d0 := mgl32.Vec3{float32(math.Cos(a0)), float32(math.Sin(a0)), 0}
		d1 := mgl32.Vec3{float32(math.Cos(a1)), float32(math.Sin(a1)), 0}
		corners := [4]mgl32.Vec3{d0.Mul(inner), d0.Mul(outer), d1.Mul(outer), d1.Mul(inner)}
		uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		blocks = append(blocks, quadBlock(corners, [4]mgl32.Vec3{normal, normal, normal, normal}, uvs))
	}
	return blocks, nil
}

// GenerateSphere builds an indexed UV sphere with outward normals and uv in Extra[0:2].
//
// Parameters:
//   - radius: sphere radius (> 0)
//   - widthSegments: azimuth segments (>= 3)
//   - heightSegments: polar segments (>= 2)
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions for invalid inputs
func GenerateSphere(radius float32, widthSegments, heightSegments int) (*Mesh, error) {
	if radius <= 0 || widthSegments < 3 || heightSegments < 2 {
		return nil, fmt.Errorf("sphere radius %.2f %dx%d: %w", radius, widthSegments, heightSegments, ErrInvalidDimensions)
	}
	cols := widthSegments + 1
	mesh := &Mesh{}
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			p := spherePoint(float64(radius), u*2*math.Pi, v*math.Pi)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: p,
				Normal:   p.Normalize(),
				Color:    [3]float32{1, 1, 1},
				Extra:    [4]float32{float32(u), float32(1 - v), 0, 0},
			})
		}
	}
	for iy := range heightSegments {
		for ix := range widthSegments {
			a := uint32(iy*cols + ix + 1)
			b := uint32(iy*cols + ix)
			c := uint32((iy+1)*cols + ix)
			d := uint32((iy+1)*cols + ix + 1)
			if iy != 0 {
				mesh.Indices = append(mesh.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				mesh.Indices = append(mesh.Indices, b, c, d)
			}
		}
	}
	return mesh, nil
}
