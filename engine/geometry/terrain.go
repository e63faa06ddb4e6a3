package geometry

import (
	"fmt"
)

// TerrainOctave is one frequency/amplitude layer of the terrain heightfield.
type TerrainOctave struct {
	Frequency float64
	Amplitude float64
}

// TerrainOctaves are summed by TerrainHeight and by the terrain vertex shader.
var TerrainOctaves = []TerrainOctave{
	{Frequency: 0.3, Amplitude: 0.5},
	{Frequency: 0.8, Amplitude: 0.2},
	{Frequency: 2.0, Amplitude: 0.1},
}

// TerrainHeight is the CPU mirror of the terrain vertex displacement at model-space (x, z).
//
// Parameters:
//   - x, z: position on the flat plane
//
// Returns:
//   - float64: elevation added to y
func TerrainHeight(x, z float64) float64 {
	var h float64
	for _, o := range TerrainOctaves {
		h += Simplex3(x*o.Frequency, 0, z*o.Frequency) * o.Amplitude
	}
	return h
}

// GenerateTerrain builds a flat width x depth plane in the XZ plane with resolutionX x resolutionZ
// segments, normals +Y and uv in Extra[0:2]. Elevation is applied in the vertex shader.
//
// Parameters:
//   - width, depth: plane extents (> 0)
//   - resolutionX, resolutionZ: segment counts (> 0)
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions for any non-positive input
func GenerateTerrain(width, depth float32, resolutionX, resolutionZ int) (*Mesh, error) {
	if width <= 0 || depth <= 0 || resolutionX <= 0 || resolutionZ <= 0 {
		return nil, fmt.Errorf("terrain %.2fx%.2f with %dx%d segments: %w",
			width, depth, resolutionX, resolutionZ, ErrInvalidDimensions)
	}

	cols, rows := resolutionX+1, resolutionZ+1
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, cols*rows),
		Indices:  make([]uint32, 0, resolutionX*resolutionZ*6),
	}

	segW := width / float32(resolutionX)
	segD := depth / float32(resolutionZ)
	for iz := range rows {
		z := -depth/2 + float32(iz)*segD
		for ix := range cols {
			x := -width/2 + float32(ix)*segW
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: [3]float32{x, 0, z},
				Normal:   [3]float32{0, 1, 0},
				Color:    [3]float32{1, 1, 1},
				Extra:    [4]float32{float32(ix) / float32(resolutionX), 1 - float32(iz)/float32(resolutionZ), 0, 0},
			})
		}
	}

	for iz := range resolutionZ {
		for ix := range resolutionX {
			a := uint32(ix + cols*iz)
			b := uint32(ix + cols*(iz+1))
			c := uint32(ix + 1 + cols*(iz+1))
			d := uint32(ix + 1 + cols*iz)
			mesh.Indices = append(mesh.Indices, a, b, d, b, c, d)
		}
	}
	return mesh, nil
}
