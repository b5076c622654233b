package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"routeguide/internal/app/ports"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/logging"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 5 * time.Second
	DefaultPongWait = 60 * time.Second
)

const (
	MessageHighlight = "highlight"
	MessageClear     = "clear"
)

type Message struct {
	Type      string           `json:"type"`
	PageID    string           `json:"page"`
	SessionID string           `json:"session_id"`
	Direction route.Direction  `json:"direction"`
	Current   route.Coordinate `json:"current"`
	Index     int              `json:"index"`
}

type clientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

// enqueue drops the message when the client is too slow; only the newest
// direction matters to the page.
func (c *clientConn) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

// writePump owns every write on the connection, pings included.
func (c *clientConn) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

type lastMessage struct {
	sessionID string
	payload   []byte
}

type Option func(*Hub)

// WithPongWait sets how long a client may stay silent before it is dropped.
// Pings go out at nine tenths of that window.
func WithPongWait(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pongWait = d
			h.pingPeriod = d * 9 / 10
		}
	}
}

// Hub pushes highlight messages to the websocket clients watching a page. A client
// that connects late receives the page's latest highlight first, unless it has
// been cleared since.
type Hub struct {
	log        *zap.SugaredLogger
	upgrader   websocket.Upgrader
	pongWait   time.Duration
	pingPeriod time.Duration

	mu      sync.Mutex
	clients map[string]map[*clientConn]struct{}
	last    map[string]lastMessage
}

func NewHub(log *zap.SugaredLogger, opts ...Option) *Hub {
	if log == nil {
		log = logging.Nop()
	}
	h := &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page-side script runs on the game's origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]map[*clientConn]struct{}),
		last:    make(map[string]lastMessage),
	}
	WithPongWait(DefaultPongWait)(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Highlight(_ context.Context, hl ports.Highlight) error {
	b, err := json.Marshal(Message{
		Type:      MessageHighlight,
		PageID:    hl.PageID,
		SessionID: hl.SessionID,
		Direction: hl.State.Direction,
		Current:   hl.State.Current,
		Index:     hl.State.Index,
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[hl.PageID] = lastMessage{sessionID: hl.SessionID, payload: b}
	h.broadcastLocked(hl.PageID, b)
	return nil
}

// ClearHighlight forgets the page's latest highlight and tells connected clients
// to hide it. A clear from a session that no longer owns the page is ignored.
func (h *Hub) ClearHighlight(_ context.Context, pageID, sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	last, ok := h.last[pageID]
	if !ok || (sessionID != "" && last.sessionID != sessionID) {
		return nil
	}
	b, err := json.Marshal(Message{
		Type:      MessageClear,
		PageID:    pageID,
		SessionID: sessionID,
		Direction: route.DirectionNone,
	})
	if err != nil {
		return err
	}
	delete(h.last, pageID)
	h.broadcastLocked(pageID, b)
	return nil
}

func (h *Hub) broadcastLocked(pageID string, b []byte) {
	for c := range h.clients[pageID] {
		c.enqueue(b)
	}
}

// ServeHTTP upgrades /ws?page=<id>.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pageID := strings.TrimSpace(r.URL.Query().Get("page"))
	if pageID == "" {
		http.Error(w, "missing page query", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "page", pageID, "error", err)
		return
	}
	c := &clientConn{ws: conn, send: make(chan []byte, 16)}
	h.register(pageID, c)
	h.log.Debugw("highlight client connected", "page", pageID)

	go c.writePump(h.pingPeriod)
	go h.readPump(pageID, c)
}

func (h *Hub) register(pageID string, c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[pageID]
	if !ok {
		set = make(map[*clientConn]struct{})
		h.clients[pageID] = set
	}
	set[c] = struct{}{}
	if last, ok := h.last[pageID]; ok {
		c.enqueue(last.payload)
	}
}

func (h *Hub) unregister(pageID string, c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[pageID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, pageID)
	}
	close(c.send)
}

// readPump only watches for the client going away; clients never send commands.
// Pongs answering writePump's pings keep the read deadline moving.
func (h *Hub) readPump(pageID string, c *clientConn) {
	defer func() {
		h.unregister(pageID, c)
		h.log.Debugw("highlight client disconnected", "page", pageID)
	}()
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(h.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(h.pongWait))
	}
}

func (h *Hub) Clients(pageID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[pageID])
}
