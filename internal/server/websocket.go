package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Send interval for keepalive pings
	pingPeriod = 30 * time.Second

	// Events queued per client before it is dropped as too slow
	sendBuffer = 64
)

// client is one WebSocket subscriber. Events are queued on send and
// written by the client's own goroutine, so broadcasting never waits on
// the network.
type client struct {
	conn      *websocket.Conn
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue queues ev without blocking. It returns false when the queue is
// full.
func (c *client) enqueue(ev Event) bool {
	select {
	case c.send <- ev:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump writes queued events and keepalive pings until the client is
// closed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				logging.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// hub tracks WebSocket clients and fans events out to them.
type hub struct {
	mu       sync.Mutex
	clients  map[*client]bool
	upgrader websocket.Upgrader
}

func newHub() *hub {
	return &hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// serve upgrades the request, queues the snapshot and then holds the
// connection until the client goes away. Incoming messages are discarded.
// The snapshot is taken after registration so no event is missed between
// the two.
func (h *hub) serve(w http.ResponseWriter, r *http.Request, snapshot func() Event) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Debug("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}
	logging.LogConnection(r.RemoteAddr, "websocket_opened")

	c := newClient(conn)
	h.mu.Lock()
	h.clients[c] = true
	c.enqueue(snapshot())
	h.mu.Unlock()

	go c.writePump()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
	logging.LogConnection(r.RemoteAddr, "websocket_closed")
}

// broadcast queues ev for every client. A client whose queue is full is
// dropped rather than allowed to hold up the caller.
func (h *hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.enqueue(ev) {
			logging.Debug("Dropping slow WebSocket client", zap.String("remote_addr", c.conn.RemoteAddr().String()))
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close disconnects every client.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
		c.close()
		delete(h.clients, c)
	}
}
