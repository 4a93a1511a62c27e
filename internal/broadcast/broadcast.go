// Package broadcast fans the engine's event stream out to websocket
// spectators. The hub is write-only: clients receive a JSON envelope per
// event and send nothing back.
package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroomlabs/holdem/internal/game"
)

// Envelope is the wire format for one event.
type Envelope struct {
	GameID    string    `json:"gameId"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

const (
	// clientBuffer is the per-client send queue. A client that falls this
	// far behind is dropped rather than allowed to stall the table.
	clientBuffer = 64

	writeTimeout = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected spectators and fans events out to them.
type Hub struct {
	logger     *log.Logger
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewHub creates a hub. Run must be called before serving connections.
func NewHub(logger *log.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger: logger.WithPrefix("broadcast"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("spectator connected", "total", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("spectator disconnected", "total", total)

		case <-h.ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop disconnects every client and shuts the hub down.
func (h *Hub) Stop() {
	h.cancel()
}

// Publish encodes each event and queues it for every client. Implements
// manager.Sink.
func (h *Hub) Publish(gameID string, events []game.Event) {
	frames := make([][]byte, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(Envelope{
			GameID:    gameID,
			Kind:      string(e.Kind()),
			Timestamp: e.Timestamp(),
			Payload:   e,
		})
		if err != nil {
			h.logger.Error("failed to encode event", "kind", e.Kind(), "error", err)
			continue
		}
		frames = append(frames, data)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, frames)
	}
}

// enqueue queues frames for one client, dropping the client if its buffer
// fills rather than blocking the publisher.
func (h *Hub) enqueue(c *client, frames [][]byte) {
	for _, frame := range frames {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("dropping slow spectator")
			go h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

// ServeHTTP upgrades the request and streams events until the client goes
// away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- c:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.drop(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop discards inbound frames; its job is noticing the disconnect.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}
