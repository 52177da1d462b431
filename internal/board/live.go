package board

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/closerops/salesboard/internal/observability/metrics"
	"github.com/closerops/salesboard/internal/schedule"
	"github.com/closerops/salesboard/pkg/logging"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveSendBuffer   = 8
)

// liveMessage is the payload pushed to connected sessions after every
// snapshot refresh.
type liveMessage struct {
	Type  string            `json:"type"`
	Date  schedule.Date     `json:"date"`
	Stats schedule.Snapshot `json:"stats"`
}

type liveClient struct {
	conn *websocket.Conn
	day  schedule.Date
	send chan liveMessage
}

// Hub pushes refreshed statistics to WebSocket clients so every open browser
// session sees board changes live. Clients subscribe to one date; a client
// that cannot keep up is dropped rather than blocking the rest.
type Hub struct {
	logger   *logging.Logger
	metrics  *metrics.BoardMetrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	board   *Board
	clients map[*liveClient]struct{}
}

// NewHub creates an unbound hub. Bind attaches the board whose stats it
// serves; Refresh is a no-op until then.
func NewHub(logger *logging.Logger, m *metrics.BoardMetrics) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin policy is enforced by the CORS middleware upstream.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*liveClient]struct{}),
	}
}

// Bind attaches the stats source.
func (h *Hub) Bind(b *Board) {
	h.mu.Lock()
	h.board = b
	h.mu.Unlock()
}

// Refresh recomputes stats for every subscribed date and fans the result out.
func (h *Hub) Refresh() {
	h.mu.Lock()
	board := h.board
	if board == nil || len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	byDay := make(map[schedule.Date]liveMessage)
	for _, c := range clients {
		msg, ok := byDay[c.day]
		if !ok {
			msg = liveMessage{Type: "stats", Date: c.day, Stats: board.Stats(c.day)}
			byDay[c.day] = msg
		}
		h.push(c, msg)
	}
}

// push enqueues a message for one client. A client that is not draining its
// buffer is cut loose rather than blocking the fan-out.
func (h *Hub) push(c *liveClient, msg liveMessage) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	select {
	case c.send <- msg:
		h.mu.Unlock()
	default:
		h.mu.Unlock()
		h.drop(c)
	}
}

// HandleLive upgrades a connection and streams stats for one date.
// GET /board/live?date=YYYY-MM-DD
func (h *Hub) HandleLive(w http.ResponseWriter, r *http.Request) {
	day, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live feed upgrade failed", "error", err)
		return
	}

	client := &liveClient{conn: conn, day: day, send: make(chan liveMessage, liveSendBuffer)}

	h.mu.Lock()
	board := h.board
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetLiveClients(n)

	go h.writeLoop(client)

	// Prime the new session with the current state.
	if board != nil {
		h.push(client, liveMessage{Type: "stats", Date: day, Stats: board.Stats(day)})
	}

	// Reader exists only to notice the peer going away.
	go func() {
		defer h.drop(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) writeLoop(c *liveClient) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *liveClient) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if present {
		_ = c.conn.Close()
		h.metrics.SetLiveClients(n)
	}
}

// ClientCount reports the number of connected live sessions.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
