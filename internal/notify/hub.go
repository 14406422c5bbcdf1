package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is one websocket connection of a member.
type Client struct {
	memberID int64
	conn     *websocket.Conn
	send     chan []byte
}

type envelope struct {
	memberID int64
	payload  []byte
}

// Hub routes hand-off messages to the connected clients of each member.
// A member may hold several connections; slow clients are dropped.
type Hub struct {
	log        *slog.Logger
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and deliveries until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.memberID] == nil {
				h.clients[c.memberID] = make(map[*Client]struct{})
			}
			h.clients[c.memberID][c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
		case e := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[e.memberID] {
				select {
				case c.send <- e.payload:
				default:
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.memberID]
	if !ok {
		return
	}

	if _, ok := set[c]; !ok {
		return
	}

	delete(set, c)
	close(c.send)

	if len(set) == 0 {
		delete(h.clients, c.memberID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for c := range set {
			h.remove(c)
		}
	}
}

// Connected reports how many connections the member currently holds.
func (h *Hub) Connected(memberID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[memberID])
}

// NotifyReservation queues the hand-off for the reserving member. It never
// blocks the caller; if the queue is full the message is dropped and logged.
func (h *Hub) NotifyReservation(_ context.Context, r domain.Reservation) {
	payload, err := json.Marshal(newMessage(r))
	if err != nil {
		h.log.Error("failed to encode reservation message", sl.Err(err))
		return
	}

	select {
	case h.broadcast <- envelope{memberID: r.MemberID, payload: payload}:
	default:
		h.log.Warn("notification queue full, dropping message", slog.Int64("reservation_id", r.ID))
	}
}

// Serve registers conn for memberID and pumps messages until the peer goes away.
func (h *Hub) Serve(memberID int64, conn *websocket.Conn) {
	c := &Client{
		memberID: memberID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed unexpectedly", slog.Int64("member_id", c.memberID), sl.Err(err))
			}

			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
