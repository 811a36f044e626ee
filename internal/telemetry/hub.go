// Package telemetry pushes robot frames to websocket viewers.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans frames out to every connected viewer. Viewers that fall
// behind by more than the send buffer are disconnected.
type Hub struct {
	clients map[*client]bool
	lock    sync.Mutex
	log     *zap.Logger
}

type Option func(*Hub)

func WithLogger(l *zap.Logger) Option {
	return func(h *Hub) { h.log = l }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{clients: make(map[*client]bool), log: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Publish encodes f once and queues it for every viewer.
func (h *Hub) Publish(f Frame) error {
	msg, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.broadcast(msg)
	return nil
}

func (h *Hub) broadcast(msg []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping slow viewer", zap.String("client", c.id))
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.clients[c] {
		close(c.send)
		delete(h.clients, c)
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), id: r.RemoteAddr}
	h.lock.Lock()
	h.clients[c] = true
	h.lock.Unlock()
	h.log.Debug("viewer connected", zap.String("client", c.id))

	go h.readPump(c)
	go h.writePump(c)
}

// readPump only watches for the viewer going away; incoming messages are
// ignored.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.log.Debug("viewer disconnected", zap.String("client", c.id))
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
