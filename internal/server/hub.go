package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/vellum-ui/vellum/internal/logging"
)

const writeWait = 10 * time.Second

// UpdateMessage is pushed to connected pages when a component updates.
type UpdateMessage struct {
	Kind        string `json:"kind"`
	ComponentID string `json:"componentId,omitempty"`
	TypeName    string `json:"type,omitempty"`
}

// Hub tracks websocket clients and broadcasts update messages.
type Hub struct {
	mu      sync.Mutex
	logger  logging.Logger
	origins []string
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a hub restricted to the given allowed origins. An empty
// list allows same-host connections only.
func NewHub(origins []string, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		logger:  logger.WithComponent("ws-hub"),
		origins: origins,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades a request and keeps the connection registered until
// the peer disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin already validated above
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug(r.Context(), "client connected", "total", count)

	// Reads are discarded; the socket is push-only. Reading still drives
	// close detection.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// checkOrigin validates the Origin header against the allowed list. A
// missing header is rejected.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	if len(h.origins) == 0 {
		return u.Host == r.Host
	}
	for _, allowed := range h.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Broadcast pushes one update message to every connected client. Clients
// that fail to accept the write are dropped.
func (h *Hub) Broadcast(msg UpdateMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}
