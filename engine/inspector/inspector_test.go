package inspector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snap Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	return snap
}

func TestStateStreamsSnapshots(t *testing.T) {
	state := store.NewAppState()
	in := NewInspector(state)
	defer in.Close()
	srv := httptest.NewServer(in.Handler())
	defer srv.Close()

	conn := dial(t, srv, "/state")
	first := readSnapshot(t, conn)
	assert.Equal(t, 120.0, first.FPS)
	assert.False(t, first.ShouldReduceQuality)
	assert.Equal(t, [3]float32{-3, 2.5, 6}, first.CameraPosition)

	// the connection is registered after the first write; wait until Flush reaches it
	state.UpdateFPS(30)
	var next Snapshot
	require.Eventually(t, func() bool {
		in.mu.RLock()
		n := len(in.clients)
		in.mu.RUnlock()
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, in.Flush())
	next = readSnapshot(t, conn)
	assert.Equal(t, 30.0, next.FPS)
	assert.True(t, next.ShouldReduceQuality)

	assert.False(t, in.Flush(), "nothing changed since the last broadcast")
}

func TestControlAppliesCommandsThroughPoster(t *testing.T) {
	var posted int
	var got []Command
	in := NewInspector(store.NewAppState(),
		WithPoster(func(fn func()) bool {
			posted++
			fn()
			return true
		}),
		WithCommandHandler(func(cmd Command) error {
			got = append(got, cmd)
			return nil
		}),
	)
	defer in.Close()
	srv := httptest.NewServer(in.Handler())
	defer srv.Close()

	conn := dial(t, srv, "/control")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"gesture":"click","pointer":[0.5,-0.25]}`)))
	var reply Reply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.True(t, reply.OK)

	require.Len(t, got, 1)
	assert.Equal(t, 1, posted)
	assert.Equal(t, "click", got[0].Gesture)
	require.NotNil(t, got[0].Pointer)
	assert.Equal(t, [2]float32{0.5, -0.25}, *got[0].Pointer)
}

func TestControlReportsErrors(t *testing.T) {
	in := NewInspector(store.NewAppState(),
		WithCommandHandler(func(cmd Command) error {
			if cmd.Sequence != "" && cmd.Sequence != "disassemble" && cmd.Sequence != "reassemble" {
				return assert.AnError
			}
			return nil
		}),
	)
	defer in.Close()
	srv := httptest.NewServer(in.Handler())
	defer srv.Close()
	conn := dial(t, srv, "/control")

	var reply Reply
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "decode")

	require.NoError(t, conn.WriteJSON(Command{Sequence: "explode"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.False(t, reply.OK)
	assert.Equal(t, assert.AnError.Error(), reply.Error)
}

func TestControlRejectedPoster(t *testing.T) {
	in := NewInspector(store.NewAppState(),
		WithPoster(func(func()) bool { return false }),
		WithCommandHandler(func(Command) error { return nil }),
	)
	defer in.Close()
	assert.ErrorIs(t, in.apply(Command{Click: true}), ErrRejected)
}

func TestHealth(t *testing.T) {
	state := store.NewAppState()
	state.SetLoaded(true)
	in := NewInspector(state)
	defer in.Close()

	rec := httptest.NewRecorder()
	in.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.IsLoaded)
	assert.Nil(t, snap.SelectedProject)
}
