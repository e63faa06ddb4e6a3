package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRig(t *testing.T) {
	rig := DefaultRig()

	assert.Equal(t, LightTypeDirectional, rig.Key.Type())
	assert.Equal(t, [3]float32{-2, 6, 4}, rig.Key.Position())
	dir := rig.Key.Direction()
	l := math.Sqrt(4 + 36 + 16)
	assert.InDelta(t, 2/l, dir[0], 1e-6)
	assert.InDelta(t, -6/l, dir[1], 1e-6)
	assert.InDelta(t, -4/l, dir[2], 1e-6)

	assert.Equal(t, LightTypePoint, rig.Rim.Type())
	assert.InDelta(t, 0x88/255.0, rig.Rim.Color()[0], 1e-6)
	assert.InDelta(t, 30, rig.Rim.Range(), 1e-6)
}

func TestRigMarshalLayout(t *testing.T) {
	rig := DefaultRig()
	gpu := rig.GPU()
	require.Equal(t, 112, gpu.Size())

	buf := gpu.Marshal()
	require.Len(t, buf, 112)
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }

	assert.InDelta(t, 0.6, f(12), 1e-6)
	assert.Equal(t, float32(-2), f(16))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[28:]))
	assert.Equal(t, float32(1.5), f(44))
	assert.Equal(t, float32(-8), f(64))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[76:]))
	assert.Equal(t, float32(30), f(108))
}

func TestDisabledLightMarshalsDark(t *testing.T) {
	l := NewLight(LightTypePoint, WithIntensity(3), WithEnabled(false))
	assert.Equal(t, float32(0), l.GPU().Intensity)

	l.SetEnabled(true)
	assert.Equal(t, float32(3), l.GPU().Intensity)
}
