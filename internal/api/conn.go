package api

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/serroba/whiteboard/internal/ws"
)

const pingWriteTimeout = 5 * time.Second

// wsConn adapts a gorilla connection to the ws.Conn interface.
type wsConn struct {
	*websocket.Conn
}

// Ping writes a ping control frame. A failed write means the transport is
// gone and the client should be swept.
func (c wsConn) Ping() error {
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteTimeout))
}

// Ensure wsConn implements ws.Conn.
var _ ws.Conn = wsConn{}
