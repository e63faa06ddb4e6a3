package component

import "github.com/go-gl/mathgl/mgl32"

// TerrainBuilderOption is a function that configures a terrain.
type TerrainBuilderOption func(*terrain)

// WithTerrainSize sets the plane extents and segment counts. Non-positive values fail at Bake.
//
// Parameters:
//   - width, depth: plane extents
//   - segmentsX, segmentsZ: segment counts
//
// Returns:
//   - TerrainBuilderOption: a function that applies the size
func WithTerrainSize(width, depth float32, segmentsX, segmentsZ int) TerrainBuilderOption {
	return func(t *terrain) {
		t.width, t.depth = width, depth
		t.segX, t.segZ = segmentsX, segmentsZ
	}
}

// WithTerrainPosition sets the model position.
func WithTerrainPosition(position mgl32.Vec3) TerrainBuilderOption {
	return func(t *terrain) {
		t.position = position
	}
}

// WithTerrainColors sets the low and high elevation colors.
func WithTerrainColors(dark, light [3]float32) TerrainBuilderOption {
	return func(t *terrain) {
		t.dark, t.lightCol = dark, light
	}
}
