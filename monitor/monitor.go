// Package monitor mirrors the controller's state over HTTP for shop
// dashboards. GET /status returns the latest snapshot as JSON; /ws
// streams snapshot updates and raw outbound lines over a WebSocket.
// Publishing never blocks the tick loop: slow consumers get frames
// dropped, not backpressure.
package monitor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/timberwise/sortline/controller"
)

// Event is one frame on the /ws stream
type Event struct {
	Type  string               `json:"type"` // "state" or "line"
	State *controller.Snapshot `json:"state,omitempty"`
	Line  string               `json:"line,omitempty"`
}

const (
	sendBuffer    = 16
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

type wsClient struct {
	conn   *websocket.Conn
	sendCh chan Event
	done   chan struct{}
	mu     sync.Mutex
}

// Server holds the latest snapshot and the set of connected stream
// clients. One Server is shared between the tick-loop goroutine, which
// publishes, and the HTTP handlers, which read.
type Server struct {
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	last     controller.Snapshot
	hasState bool
	clients  map[*wsClient]struct{}

	dropped atomic.Uint64
}

func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Handler returns the HTTP handler serving /status and /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// SetState records a new snapshot and pushes it to stream clients
func (s *Server) SetState(snap controller.Snapshot) {
	s.mu.Lock()
	s.last = snap
	s.hasState = true
	s.mu.Unlock()

	s.publish(Event{Type: "state", State: &snap})
}

// PublishLine pushes one outbound protocol line to stream clients
func (s *Server) PublishLine(line string) {
	s.publish(Event{Type: "line", Line: line})
}

// Dropped reports how many frames were discarded because a client's
// send buffer was full
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Server) publish(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		if !c.enqueue(ev) {
			s.dropped.Add(1)
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	snap, ok := s.last, s.hasState
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "no state yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Warn("encoding status", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "error", err)
		return
	}

	c := &wsClient{
		conn:   conn,
		sendCh: make(chan Event, sendBuffer),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	// queue the current state while registered, so the client never
	// misses the frame between snapshot and first update
	if s.hasState {
		snap := s.last
		c.enqueue(Event{Type: "state", State: &snap})
	}
	s.mu.Unlock()

	slog.Info("monitor client connected", "remote", conn.RemoteAddr())

	go c.writePump()
	c.readPump() // blocks until the connection closes

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	c.close()
	slog.Info("monitor client disconnected", "remote", conn.RemoteAddr())
}

// enqueue offers one event without blocking; false means dropped
func (c *wsClient) enqueue(ev Event) bool {
	select {
	case c.sendCh <- ev:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
	default:
		close(c.done)
	}

	c.conn.Close()
}

// readPump drains inbound messages until the peer goes away. The
// stream is one-way; anything the client sends is discarded.
func (c *wsClient) readPump() {
	defer c.close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read", "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case ev := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
