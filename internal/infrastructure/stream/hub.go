// Package stream pushes simulation snapshots to WebSocket subscribers.
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub tracks subscribers and fans out broadcasts to them
type Hub struct {
	logger  *zap.Logger
	clients map[*websocket.Conn]struct{}
	mu      sync.Mutex
	closed  bool
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logging.OrNop(logger),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the connection as a subscriber
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("subscriber connected", zap.String("remote", conn.RemoteAddr().String()))

	// subscribers never send; reading only detects the close
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Broadcast sends v as JSON to every subscriber and returns how many received it.
// Subscribers that fail to receive are dropped.
func (h *Hub) Broadcast(v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to encode broadcast: %w", err)
	}
	msg, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare broadcast: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WritePreparedMessage(msg); err != nil {
			h.logger.Debug("dropping subscriber", zap.Error(err))
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	return sent, nil
}

// Len returns the number of connected subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeTimeout))
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}
