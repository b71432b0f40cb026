package monitor

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

	"github.com/timberwise/sortline/controller"
)

func TestStatusEndpoint(t *testing.T) {
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	srv.SetState(controller.Snapshot{Mode: "IDLE", Previous: "IDLE", Boards: 3})

	resp, err = http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap controller.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "IDLE", snap.Mode)
	assert.Equal(t, uint32(3), snap.Boards)

	post, err := http.Post(ts.URL+"/status", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestStream(t *testing.T) {
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	srv.SetState(controller.Snapshot{Mode: "SCAN_PHASE", ScanActive: true})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// the current state arrives first, which also confirms the client
	// is registered before we publish anything else
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "state", ev.Type)
	require.NotNil(t, ev.State)
	assert.Equal(t, "SCAN_PHASE", ev.State.Mode)
	assert.True(t, ev.State.ScanActive)

	srv.PublishLine("CAPTURE:1")
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "line", ev.Type)
	assert.Equal(t, "CAPTURE:1", ev.Line)
	assert.Nil(t, ev.State)

	srv.SetState(controller.Snapshot{Mode: "SCAN_PHASE", ScanActive: true, Boards: 1})
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "state", ev.Type)
	assert.Equal(t, uint32(1), ev.State.Boards)

	assert.Zero(t, srv.Dropped())
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	c := &wsClient{
		sendCh: make(chan Event, 1),
		done:   make(chan struct{}),
	}

	assert.True(t, c.enqueue(Event{Type: "line", Line: "B"}))
	assert.False(t, c.enqueue(Event{Type: "line", Line: "B"}))

	close(c.done)
	assert.True(t, c.enqueue(Event{Type: "line", Line: "B"}))
}
