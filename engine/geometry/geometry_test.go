package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

func TestVertexLayout(t *testing.T) {
	v := Vertex{Position: [3]float32{1, 2, 3}, Extra: [4]float32{0, 0, 0, 9}}
	assert.Equal(t, 52, VertexSize)
	assert.Equal(t, 52, v.Size())

	buf := v.Marshal()
	require.Len(t, buf, 52)
	assert.Equal(t, math.Float32bits(2), uint32(buf[4])|uint32(buf[5])<<8|uint32(buf[6])<<16|uint32(buf[7])<<24)
	assert.Equal(t, math.Float32bits(9), uint32(buf[48])|uint32(buf[49])<<8|uint32(buf[50])<<16|uint32(buf[51])<<24)
}

func TestGeneratorsRejectInvalidDimensions(t *testing.T) {
	rng := common.NewRandom(1)
	cases := map[string]func() error{
		"crystal zero":        func() error { _, err := GenerateCrystal(0, rng); return err },
		"crystal negative":    func() error { _, err := GenerateCrystal(-2, rng); return err },
		"terrain width":       func() error { _, err := GenerateTerrain(0, 50, 10, 10); return err },
		"terrain depth":       func() error { _, err := GenerateTerrain(50, -1, 10, 10); return err },
		"terrain resolutionX": func() error { _, err := GenerateTerrain(50, 50, 0, 10); return err },
		"terrain resolutionZ": func() error { _, err := GenerateTerrain(50, 50, 10, -5); return err },
		"octahedron radius":   func() error { _, err := GenerateOctahedron(0, 2, 0.05, rng); return err },
		"sphere segments":     func() error { _, err := GenerateSphere(25, 2, 32); return err },
		"sphere band rings":   func() error { _, err := SphereBand(2.5, 16, 0, math.Pi); return err },
		"cylinder height":     func() error { _, err := CylinderArc(0.8, 0, 8, math.Pi); return err },
		"ring radii":          func() error { _, err := RingArc(1.0, 0.6, 8, math.Pi); return err },
		"particles empty":     func() error { _, err := GenerateParticleQuads(nil); return err },
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, gen(), ErrInvalidDimensions)
		})
	}
}

func TestTerrainErrorNamesValues(t *testing.T) {
	_, err := GenerateTerrain(50, 50, 0, 100)
	assert.ErrorContains(t, err, "0x100 segments")
}

func TestCrystalDisplacementBound(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		mesh, err := GenerateCrystal(CrystalDetail, common.NewRandom(seed))
		require.NoError(t, err)
		require.NotEmpty(t, mesh.Vertices)

		for i, v := range mesh.Vertices {
			d := math.Abs(float64(v.Extra[0]))
			require.LessOrEqual(t, d, 0.3, "seed %d vertex %d", seed, i)

			r := float64(mgl32.Vec3(v.Position).Len())
			require.InDelta(t, float64(CrystalRadius), r, 0.3+1e-4, "seed %d vertex %d radius", seed, i)
		}
	}
}

func TestCrystalSameSeedSameShape(t *testing.T) {
	a, err := GenerateCrystal(2, common.NewRandom(42))
	require.NoError(t, err)
	b, err := GenerateCrystal(2, common.NewRandom(42))
	require.NoError(t, err)
	assert.Equal(t, a.Vertices, b.Vertices)

	c, err := GenerateCrystal(2, common.NewRandom(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Vertices, c.Vertices)
}

func TestCrystalIsWeldedAndOutward(t *testing.T) {
	mesh, err := GenerateCrystal(3, common.NewRandom(7))
	require.NoError(t, err)

	// a welded icosphere with detail n has 10(n+1)^2 + 2 vertices and 20(n+1)^2 faces
	assert.Len(t, mesh.Vertices, 10*16+2)
	assert.Len(t, mesh.Indices, 20*16*3)

	for i, v := range mesh.Vertices {
		n := mgl32.Vec3(v.Normal)
		assert.InDelta(t, 1, n.Len(), 1e-4, "vertex %d", i)
		assert.Greater(t, n.Dot(mgl32.Vec3(v.Position)), float32(0), "vertex %d normal points inward", i)
	}
}

func TestTerrainLayout(t *testing.T) {
	mesh, err := GenerateTerrain(50, 50, 100, 100)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 101*101)
	assert.Len(t, mesh.Indices, 100*100*6)

	first, last := mesh.Vertices[0], mesh.Vertices[len(mesh.Vertices)-1]
	assert.Equal(t, [3]float32{-25, 0, -25}, first.Position)
	assert.InDelta(t, 25, last.Position[0], 1e-4)
	assert.InDelta(t, 25, last.Position[2], 1e-4)

	// flat and facing up: triangle normals computed from winding must be +Y
	mesh.ComputeVertexNormals()
	for _, v := range mesh.Vertices[:10] {
		assert.InDelta(t, 1, v.Normal[1], 1e-5)
	}
}

func TestSimplexRangeAndContinuity(t *testing.T) {
	for i := range 500 {
		x := float64(i) * 0.137
		z := float64(i) * -0.071
		n := Simplex3(x, 0, z)
		assert.LessOrEqual(t, math.Abs(n), 1.1)
		assert.InDelta(t, n, Simplex3(x+1e-6, 0, z), 1e-3)
	}
}

func TestSimplexContinuousOnDiagonal(t *testing.T) {
	// points with x == y == z put every simplex offset in a tie
	for _, v := range []float64{0, 0.3, 1, -2.5, 7} {
		n := Simplex3(v, v, v)
		assert.InDelta(t, n, Simplex3(v+1e-6, v, v), 1e-3, "v=%v", v)
		assert.InDelta(t, n, Simplex3(v, v, v-1e-6), 1e-3, "v=%v", v)
	}
	assert.InDelta(t, TerrainHeight(0, 0), TerrainHeight(0.01, 0.01), 0.05)
}

func TestTerrainHeightBounded(t *testing.T) {
	limit := 0.0
	for _, o := range TerrainOctaves {
		limit += o.Amplitude
	}
	for x := -25.0; x <= 25; x += 1.7 {
		for z := -25.0; z <= 25; z += 2.3 {
			assert.LessOrEqual(t, math.Abs(TerrainHeight(x, z)), limit*1.1)
		}
	}
}

func TestFBMRange(t *testing.T) {
	for i := range 200 {
		v := FBM4(float64(i)*0.31, float64(i)*0.17, 2)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 0.9375)
	}
}

func TestOctahedronJitterKeepsWelds(t *testing.T) {
	mesh, err := GenerateOctahedron(0.3, 2, 0.05, common.NewRandom(3))
	require.NoError(t, err)
	// detail 2: 4(n+1)^2 + 2 welded vertices
	assert.Len(t, mesh.Vertices, 4*9+2)
	assert.LessOrEqual(t, mesh.BoundingRadius(), float32(0.3+0.05*math.Sqrt(3)+1e-4))
}

func TestDwellingShapesBlockCounts(t *testing.T) {
	dome, err := SphereBand(2.5, 16, 8, 0.6*math.Pi)
	require.NoError(t, err)
	tunnel, err := CylinderArc(0.8, 1.5, 8, math.Pi)
	require.NoError(t, err)
	arch, err := RingArc(0.6, 1.0, 8, math.Pi)
	require.NoError(t, err)

	assert.Len(t, dome, 128)
	assert.Len(t, tunnel, 8)
	assert.Len(t, arch, 8)

	for _, b := range dome {
		// local vertices are centered on the block
		var sum mgl32.Vec3
		for _, v := range b.Mesh.Vertices {
			sum = sum.Add(v.Position)
		}
		assert.InDelta(t, 0, sum.Len(), 1e-4)
		assert.InDelta(t, 2.5, b.Center.Len(), 0.2)
	}
}

func TestBlockTransform(t *testing.T) {
	blocks, err := RingArc(0.6, 1.0, 2, math.Pi)
	require.NoError(t, err)
	b := blocks[0]
	before := b.Center

	b.Transform(mgl32.Translate3D(0, 0.4, 3))
	assert.InDelta(t, before.X(), b.Center.X(), 1e-6)
	assert.InDelta(t, before.Y()+0.4, b.Center.Y(), 1e-6)
	assert.InDelta(t, 3, b.Center.Z(), 1e-6)
	assert.Equal(t, [3]float32{0, 0, 1}, b.Mesh.Vertices[0].Normal)
}

func TestParticleQuads(t *testing.T) {
	attrs := []ParticleAttributes{
		{Position: mgl32.Vec3{1, 2, 3}, Offset: mgl32.Vec3{0.5, 0, 0}, Scale: 0.4, Speed: 0.3},
		{Position: mgl32.Vec3{4, 5, 6}, Scale: 1.1, Speed: 0.6},
	}
	mesh, err := GenerateParticleQuads(attrs)
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 8)
	require.Len(t, mesh.Indices, 12)

	for corner := range 4 {
		v := mesh.Vertices[4+corner]
		assert.Equal(t, [3]float32{4, 5, 6}, v.Position)
		assert.Equal(t, [3]float32{1.1, 0.6, 1}, v.Color)
	}
	assert.Equal(t, uint32(4), mesh.Indices[6])
}

func TestMeshAppendRebasesIndices(t *testing.T) {
	a := &Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 2}}
	b := &Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 2, 1}}
	a.Append(b)
	assert.Equal(t, []uint32{0, 1, 2, 3, 5, 4}, a.Indices)
	assert.Len(t, a.MarshalVertices(), 6*VertexSize)
	assert.Len(t, a.MarshalIndices(), 24)
	assert.Equal(t, []byte{5, 0, 0, 0}, a.MarshalIndices()[16:20])
}
