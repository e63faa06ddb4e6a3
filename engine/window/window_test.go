package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaultsAndOptions(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 1280, c.Width)
	assert.Equal(t, 720, c.Height)

	c = NewConfig(WithTitle("frost"), WithWidth(800), WithHeight(600))
	assert.Equal(t, "frost", c.Title)
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 600, c.Height)

	c = NewConfig(WithTitle(""))
	assert.Equal(t, "oxy-frost", c.Title, "an empty title falls back to the default")
}

func TestHeadlessWindowFrameLimit(t *testing.T) {
	w := NewHeadlessWindow()
	updates := 0
	w.SetUpdateCallback(func() { updates++ })
	w.SetFrameLimit(5)

	w.ProcessMessages()
	assert.Equal(t, 5, updates)
	assert.Equal(t, 5, w.Frames())
	assert.False(t, w.IsRunning())
}

func TestHeadlessWindowCloseFromUpdate(t *testing.T) {
	w := NewHeadlessWindow()
	updates := 0
	w.SetUpdateCallback(func() {
		updates++
		if updates == 3 {
			require.NoError(t, w.Close())
		}
	})

	w.ProcessMessages()
	assert.Equal(t, 3, updates)
	assert.Error(t, w.Close())
}

func TestHeadlessWindowEvents(t *testing.T) {
	w := NewHeadlessWindow(WithWidth(100), WithHeight(50))

	var got []string
	w.SetKeyDownCallback(func(k uint32) { got = append(got, "key") })
	w.SetMouseDownCallback(func(b MouseButton, x, y float64) {
		assert.Equal(t, MouseButtonLeft, b)
		got = append(got, "down")
	})
	w.SetMouseMoveCallback(func(x, y float64) { got = append(got, "move") })
	w.SetScrollCallback(func(d float32) { got = append(got, "scroll") })
	w.SetFocusCallback(func(f bool) { got = append(got, "focus") })
	w.SetIconifyCallback(func(i bool) { got = append(got, "iconify") })
	w.SetResizeCallback(func(width, height int) { got = append(got, "resize") })

	w.EmitKeyDown(32)
	w.EmitMouseDown(MouseButtonLeft, 10, 10)
	w.EmitMouseMove(20, 20)
	w.EmitMouseUp(MouseButtonLeft, 20, 20)
	w.EmitScroll(1)
	w.EmitFocus(false)
	w.EmitIconify(true)
	w.Resize(200, 100)

	assert.Equal(t, []string{"key", "down", "move", "scroll", "focus", "iconify", "resize"}, got)
	assert.Equal(t, 200, w.Width())
	assert.Equal(t, 100, w.Height())
}
