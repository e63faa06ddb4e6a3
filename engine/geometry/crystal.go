package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

const (
	// CrystalRadius is the radius of the undisplaced centerpiece icosphere.
	CrystalRadius float32 = 1.5
	// CrystalDetail is the default subdivision level of the centerpiece.
	CrystalDetail = 3
	// CrystalJitter is the full width of the stochastic displacement term.
	CrystalJitter = 0.08
	// MaxCrystalDisplacement bounds |Deterministic + Stochastic| for every vertex.
	MaxCrystalDisplacement = 0.15 + 0.1 + CrystalJitter/2
)

// DeterministicDisplacement is the position-only part of the crystal displacement:
// sin(4x)cos(3y)sin(5z)*0.15 + sin(8|p|)*0.1. Its magnitude never exceeds 0.25.
//
// Parameters:
//   - p: vertex position on the undisplaced sphere
//
// Returns:
//   - float64: displacement along the outward normal
func DeterministicDisplacement(p mgl32.Vec3) float64 {
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	d := math.Sqrt(x*x + y*y + z*z)
	return math.Sin(x*4)*math.Cos(y*3)*math.Sin(z*5)*0.15 + math.Sin(d*8)*0.1
}

// StochasticDisplacement draws the random part of the crystal displacement, uniform in
// [-CrystalJitter/2, CrystalJitter/2).
func StochasticDisplacement(rng common.Random) float64 {
	return (rng.Float64() - 0.5) * CrystalJitter
}

// GenerateCrystal builds the centerpiece mesh: an icosphere of radius CrystalRadius subdivided
// baseResolution times, each welded vertex pushed along its outward normal by
// DeterministicDisplacement + StochasticDisplacement, then normals recomputed from the
// displaced topology. The applied displacement is stored in Extra[0].
//
// Parameters:
//   - baseResolution: subdivision level (> 0)
//   - rng: random source for the stochastic term; fix its seed for repeatable shapes
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidDimensions when baseResolution <= 0
func GenerateCrystal(baseResolution int, rng common.Random) (*Mesh, error) {
	if baseResolution <= 0 {
		return nil, fmt.Errorf("crystal resolution %d: %w", baseResolution, ErrInvalidDimensions)
	}
	mesh := polyhedron(icosahedronVertices, icosahedronFaces, CrystalRadius, baseResolution)

	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		p := mgl32.Vec3(v.Position)
		n := mgl32.Vec3(v.Normal)
		d := DeterministicDisplacement(p) + StochasticDisplacement(rng)
		v.Position = p.Add(n.Mul(float32(d)))
		v.Extra[0] = float32(d)
	}
	mesh.ComputeVertexNormals()
	return mesh, nil
}
