package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageType identifies a monitoring event kind.
type MessageType string

const (
	PredictionEvent MessageType = "prediction"
	SystemStatus    MessageType = "system_status"
	Heartbeat       MessageType = "heartbeat"
)

// Message is one monitoring event pushed to subscribers.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	ID        string          `json:"id"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans monitoring events out to connected WebSocket clients. Events are
// best-effort: a slow client is disconnected rather than blocking the
// prediction path.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	upgrader websocket.Upgrader
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	seq    atomic.Uint64
}

func NewHub(log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run owns the client set. It blocks until Stop.
func (h *Hub) Run() {
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-h.ctx.Done():
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Info("monitor client connected", zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-heartbeat.C:
			h.Publish(Heartbeat, map[string]int{"clients": len(h.clients)})
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Publish queues one event for broadcast. It never blocks: if the queue is
// full the event is dropped.
func (h *Hub) Publish(kind MessageType, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Warn("monitor payload not serializable", zap.Error(err))
		return
	}
	msg := Message{
		Type:      kind,
		Timestamp: time.Now(),
		Data:      raw,
		ID:        fmt.Sprintf("evt-%d", h.seq.Add(1)),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// HandleWS upgrades the request and attaches the connection to the hub.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readPump drains client frames so pings and close frames are processed.
func (c *client) readPump(h *Hub) {
	defer func() {
		// Run may have exited already; don't hang on the unregister send.
		select {
		case h.unregister <- c:
		case <-h.ctx.Done():
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
