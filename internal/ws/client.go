package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// clientConn serializes writes to one websocket and carries the stable
// connection id the registry keys on.
type clientConn struct {
	id      string
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func newClientConn(raw *websocket.Conn) *clientConn {
	return &clientConn{id: uuid.NewString(), rawConn: raw}
}

func (c *clientConn) ID() string { return c.id }

func (c *clientConn) SendJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

func (c *clientConn) Close() error {
	return c.rawConn.Close()
}

func (c *clientConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
