package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is a live delivery path to one connected client. Implementations must
// serialize concurrent sends so two deliveries never interleave on the wire.
type Conn interface {
	// ID identifies this connection, not the user behind it. The registry
	// compares connection IDs so a stale disconnect handler cannot evict a
	// newer connection for the same identity.
	ID() string
	Send(v any) error
	Close() error
}

const writeTimeout = 10 * time.Second

// wsConn wraps a gorilla websocket connection with a write lock. Sends to the
// same connection happen in submission order; a stalled peer times out the
// write without affecting other connections.
type wsConn struct {
	id string
	mu sync.Mutex
	ws *websocket.Conn
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{id: uuid.NewString(), ws: ws}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
