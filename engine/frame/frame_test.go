package frame

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewPointerStateNormalizes(t *testing.T) {
	cases := []struct {
		name   string
		x, y   float64
		expect mgl32.Vec2
	}{
		{"center", 400, 300, mgl32.Vec2{0, 0}},
		{"top left", 0, 0, mgl32.Vec2{-1, 1}},
		{"bottom right", 800, 600, mgl32.Vec2{1, -1}},
		{"outside clamps", 1600, -300, mgl32.Vec2{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPointerState(tc.x, tc.y, 800, 600)
			assert.True(t, p.Inside)
			assert.InDelta(t, tc.expect.X(), p.Position.X(), 1e-6)
			assert.InDelta(t, tc.expect.Y(), p.Position.Y(), 1e-6)
		})
	}
}

func TestNewPointerStateZeroWindow(t *testing.T) {
	p := NewPointerState(10, 10, 0, 600)
	assert.False(t, p.Inside)
	assert.Equal(t, mgl32.Vec2{}, p.Position)
}
