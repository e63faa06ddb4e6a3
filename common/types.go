// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local position, Euler rotation (radians, applied X then Y then Z) and scale.
type Transform struct {
	// Position is the translation in parent space.
	Position mgl32.Vec3
	// Rotation holds the Euler angles in radians around X, Y and Z.
	Rotation mgl32.Vec3
	// Scale is the per-axis scale factor. A zero Scale is treated as (1, 1, 1).
	Scale mgl32.Vec3
}

// NewTransform creates a Transform at the given position with no rotation and unit scale.
//
// Parameters:
//   - position: the translation in parent space
//
// Returns:
//   - Transform: the new transform
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the transform into a column-major model matrix: T * Rx * Ry * Rz * S.
//
// Returns:
//   - mgl32.Mat4: the model matrix
func (t Transform) Matrix() mgl32.Mat4 {
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation.X()))
	m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation.Y()))
	m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Lerp interpolates position and rotation toward other by t. Scale is taken from the receiver.
//
// Parameters:
//   - other: the destination transform
//   - f: interpolation factor (0 = receiver, 1 = other)
//
// Returns:
//   - Transform: the interpolated transform
func (t Transform) Lerp(other Transform, f float32) Transform {
	return Transform{
		Position: LerpVec3(t.Position, other.Position, f),
		Rotation: LerpVec3(t.Rotation, other.Rotation, f),
		Scale:    t.Scale,
	}
}

// Random is the injectable source of uniform randomness used by procedural generation.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// NewRandom creates a seeded PCG random source.
//
// Parameters:
//   - seed: the seed; identical seeds yield identical sequences
//
// Returns:
//   - *rand.Rand: the random source
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fork derives an independent child source from r. Used to hand each parallel
// generation task its own source while keeping the whole build reproducible from one seed.
//
// Parameters:
//   - r: the parent source
//
// Returns:
//   - *rand.Rand: a new source seeded from the parent's next value
func Fork(r Random) *rand.Rand {
	return NewRandom(uint64(r.Float64() * (1 << 53)))
}
