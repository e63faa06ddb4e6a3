package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

var t0 = time.Unix(1000, 0)

func TestGesturesIgnoredWhileIdle(t *testing.T) {
	zooms := 0
	m := NewMachine(WithZoomCallback(func(time.Time) { zooms++ }))

	assert.False(t, m.Handle(GestureClick, t0))
	assert.Equal(t, StateIdle, m.State())
	assert.Zero(t, zooms)
	assert.Equal(t, 1.0, m.OverlayOpacity(t0.Add(time.Hour)))
	assert.True(t, m.RemovalAt().IsZero())
}

func TestEntrySequence(t *testing.T) {
	appState := store.NewAppState()
	var zoomedAt, enteredAt time.Time
	m := NewMachine(
		WithAppState(appState),
		WithZoomCallback(func(now time.Time) { zoomedAt = now }),
	)
	m.Subscribe(func(now time.Time) { enteredAt = now })

	require.True(t, m.Arm())
	assert.False(t, m.Arm())
	assert.Equal(t, StateWaitingForGesture, m.State())

	require.True(t, m.Handle(GestureSpace, t0))
	assert.Equal(t, StateZoomTriggered, m.State())
	assert.Equal(t, t0, zoomedAt)
	assert.Equal(t, t0, enteredAt)
	assert.Equal(t, t0.Add(1500*time.Millisecond), m.RemovalAt())

	assert.False(t, m.Handle(GestureClick, t0.Add(time.Millisecond)))

	m.Advance(t0.Add(1499 * time.Millisecond))
	assert.Equal(t, StateZoomTriggered, m.State())
	assert.False(t, appState.IsLoaded.Get())

	m.Advance(t0.Add(1500 * time.Millisecond))
	assert.Equal(t, StateEntered, m.State())
	assert.True(t, appState.IsLoaded.Get())

	assert.False(t, m.Handle(GestureEnter, t0.Add(2*time.Second)))
	assert.False(t, m.Arm())
	assert.Equal(t, StateEntered, m.State())
}

func TestOverlayOpacity(t *testing.T) {
	m := NewMachine()
	m.Arm()
	m.Handle(GestureTouch, t0)

	assert.Equal(t, 1.0, m.OverlayOpacity(t0))
	assert.Equal(t, 1.0, m.OverlayOpacity(t0.Add(time.Second)))
	assert.InDelta(t, 0.5, m.OverlayOpacity(t0.Add(1250*time.Millisecond)), 1e-9)
	assert.Equal(t, 0.0, m.OverlayOpacity(t0.Add(1600*time.Millisecond)))

	m.Advance(t0.Add(2 * time.Second))
	assert.Equal(t, 0.0, m.OverlayOpacity(t0))
}

func TestOverlayTimingOption(t *testing.T) {
	m := NewMachine(WithOverlayTiming(0, 0))
	m.Arm()
	m.Handle(GestureClick, t0)
	assert.Equal(t, 0.0, m.OverlayOpacity(t0.Add(time.Nanosecond)))
	m.Advance(t0)
	assert.Equal(t, StateEntered, m.State())
}

func TestUnsubscribe(t *testing.T) {
	m := NewMachine()
	calls := 0
	stop := m.Subscribe(func(time.Time) { calls++ })
	stop()
	m.Arm()
	m.Handle(GestureClick, t0)
	assert.Zero(t, calls)
}

func TestFromKey(t *testing.T) {
	tests := []struct {
		key  int
		want Gesture
		ok   bool
	}{
		{common.KeyEnter, GestureEnter, true},
		{common.KeyKPEnter, GestureEnter, true},
		{common.KeySpace, GestureSpace, true},
		{common.KeyD, 0, false},
	}
	for _, tt := range tests {
		g, ok := FromKey(tt.key)
		assert.Equal(t, tt.ok, ok, "key %d", tt.key)
		assert.Equal(t, tt.want, g, "key %d", tt.key)
	}
}

func TestParseGesture(t *testing.T) {
	g, err := ParseGesture("touch")
	require.NoError(t, err)
	assert.Equal(t, GestureTouch, g)

	_, err = ParseGesture("wave")
	assert.Error(t, err)
}
