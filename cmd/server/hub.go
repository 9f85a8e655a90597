package main

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// hub tracks websocket subscribers and pushes refresh notifications
// when the series is re-ingested. Clients reconnect on their own;
// a failed write just drops the connection.
type hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   *log.Logger
}

type hubEvent struct {
	Event    string `json:"event"`
	LastKey  string `json:"last_key,omitempty"`
	Records  int    `json:"records,omitempty"`
	SentAtMs int64  `json:"sent_at_ms"`
}

func newHub(logger *log.Logger) *hub {
	return &hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Refresh pushes carry no sensitive data.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// handleWS upgrades the connection and parks it until the client
// disconnects. Inbound messages are discarded.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	h.logger.Printf("websocket client connected (%d total)", count)

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast pushes an event to every subscriber.
func (h *hub) broadcast(event string, records int, lastKey string) {
	msg := hubEvent{
		Event:    event,
		LastKey:  lastKey,
		Records:  records,
		SentAtMs: time.Now().UnixMilli(),
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			h.drop(conn)
		}
	}
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// closeAll disconnects every subscriber, used during shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
