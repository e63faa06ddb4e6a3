package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{1, 2, 3})
	m := tr.Matrix()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, m.Col(3).Vec3())
	assert.Equal(t, float32(1), m.At(0, 0))

	zero := Transform{Position: mgl32.Vec3{1, 2, 3}}
	assert.Equal(t, m, zero.Matrix(), "zero scale is unit scale")

	rot := Transform{Rotation: mgl32.Vec3{0, 0, math.Pi / 2}, Scale: mgl32.Vec3{2, 2, 2}}
	v := rot.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, 2, v.Y(), 1e-5)
}

func TestTransformLerp(t *testing.T) {
	a := NewTransform(mgl32.Vec3{0, 0, 0})
	b := Transform{Position: mgl32.Vec3{2, 4, 6}, Rotation: mgl32.Vec3{1, 0, 0}, Scale: mgl32.Vec3{3, 3, 3}}
	mid := a.Lerp(b, 0.5)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, mid.Position)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, mid.Rotation)
	assert.Equal(t, a.Scale, mid.Scale)
}

func TestRandomIsReproducible(t *testing.T) {
	a, b := NewRandom(9), NewRandom(9)
	for range 8 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	fa, fb := Fork(NewRandom(9)), Fork(NewRandom(9))
	assert.Equal(t, fa.Float64(), fb.Float64())
	assert.NotEqual(t, NewRandom(1).Float64(), NewRandom(2).Float64())
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, 5, Clamp(9, 0, 5))
	assert.Equal(t, float32(-1), Clamp(float32(-3), -1, 1))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, float32(2.5), Lerp(0, 10, 0.25))
	assert.Equal(t, float32(0), Smoothstep(0.3, 0.8, 0.1))
	assert.Equal(t, float32(1), Smoothstep(0.3, 0.8, 0.9))
	assert.InDelta(t, 0.5, Smoothstep(0, 1, 0.5), 1e-6)
	assert.InDelta(t, 0.75, Fract(-1.25), 1e-12)
	assert.Equal(t, mgl32.Vec2{0.5, 1}, ExpSmooth(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 2}, 0.5))
}

func TestPutHelpers(t *testing.T) {
	buf := make([]byte, 96)
	PutVec3(buf, 0, mgl32.Vec3{1, 2, 3}, 9)
	PutVec4(buf, 16, mgl32.Vec4{4, 5, 6, 7})
	PutMat4(buf, 32, mgl32.Ident4())

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(3), f(8))
	assert.Equal(t, float32(9), f(12))
	assert.Equal(t, float32(7), f(28))
	assert.Equal(t, float32(1), f(32))
	assert.Equal(t, float32(0), f(36))
	assert.Equal(t, float32(1), f(32+5*4))

	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Nil(t, SliceToBytes[uint32](nil))
}
