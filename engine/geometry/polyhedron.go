package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

var (
	icosahedronVertices = func() []mgl64.Vec3 {
		t := (1 + math.Sqrt(5)) / 2
		return []mgl64.Vec3{
			{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
			{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
			{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
		}
	}()
	icosahedronFaces = []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	octahedronVertices = []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	octahedronFaces = []uint32{
		0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2,
		1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2,
	}
)

// weldScale quantizes positions when merging coincident subdivision vertices. Subdivision runs in
// float64 so shared edge points from neighboring faces land in the same bucket.
const weldScale = 1e6

func lerp64(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// polyhedron subdivides every base face into (detail+1)^2 triangles, projects the result onto
// a sphere of the given radius and welds shared edge vertices. Normals point outward.
func polyhedron(base []mgl64.Vec3, faces []uint32, radius float32, detail int) *Mesh {
	mesh := &Mesh{}
	seen := make(map[[3]int64]uint32)

	add := func(p64 mgl64.Vec3) uint32 {
		p64 = p64.Normalize()
		key := [3]int64{
			int64(math.Round(p64.X() * weldScale)),
			int64(math.Round(p64.Y() * weldScale)),
			int64(math.Round(p64.Z() * weldScale)),
		}
		if idx, ok := seen[key]; ok {
			return idx
		}
		idx := uint32(len(mesh.Vertices))
		seen[key] = idx
		p := mgl32.Vec3{float32(p64.X()), float32(p64.Y()), float32(p64.Z())}
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: p.Mul(radius),
			Normal:   p,
			Color:    [3]float32{1, 1, 1},
		})
		return idx
	}

	cols := detail + 1
	for f := 0; f+2 < len(faces); f += 3 {
		a, b, c := base[faces[f]], base[faces[f+1]], base[faces[f+2]]

		grid := make([][]uint32, cols+1)
		for i := 0; i <= cols; i++ {
			ai := lerp64(a, c, float64(i)/float64(cols))
			bi := lerp64(b, c, float64(i)/float64(cols))
			rows := cols - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = add(ai)
					continue
				}
				grid[i][j] = add(lerp64(ai, bi, float64(j)/float64(rows)))
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					mesh.Indices = append(mesh.Indices, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					mesh.Indices = append(mesh.Indices, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}
	return mesh
}

// GenerateIcosphere returns a welded icosahedron of the given radius subdivided detail times.
//
// Parameters:
//   - radius: sphere radius (> 0)
//   - detail: subdivision level (>= 0)
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions for a non-positive radius or negative detail
func GenerateIcosphere(radius float32, detail int) (*Mesh, error) {
	if radius <= 0 || detail < 0 {
		return nil, fmt.Errorf("icosphere radius %.3f detail %d: %w", radius, detail, ErrInvalidDimensions)
	}
	return polyhedron(icosahedronVertices, icosahedronFaces, radius, detail), nil
}

// GenerateOctahedron returns a welded, subdivided octahedron whose vertices are each shifted by
// one uniform random amount in [-jitter, jitter] on all three axes, with normals recomputed.
//
// Parameters:
//   - radius: circumscribed radius (> 0)
//   - detail: subdivision level (>= 0)
//   - jitter: maximum per-vertex shift (>= 0)
//   - rng: random source for the shifts
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions for invalid inputs
func GenerateOctahedron(radius float32, detail int, jitter float32, rng common.Random) (*Mesh, error) {
	if radius <= 0 || detail < 0 || jitter < 0 {
		return nil, fmt.Errorf("octahedron radius %.3f detail %d jitter %.3f: %w", radius, detail, jitter, ErrInvalidDimensions)
	}
	mesh := polyhedron(octahedronVertices, octahedronFaces, radius, detail)
	if jitter > 0 {
		for i := range mesh.Vertices {
			n := float32(rng.Float64()-0.5) * 2 * jitter
			p := &mesh.Vertices[i].Position
			p[0] += n
			p[1] += n
			p[2] += n
		}
		mesh.ComputeVertexNormals()
	}
	return mesh, nil
}
