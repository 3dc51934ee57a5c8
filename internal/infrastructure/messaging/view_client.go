package messaging

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
)

const (
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024
)

// ViewClient represents a single live-view socket of a session.
type ViewClient struct {
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte

	closeOnce sync.Once
}

// NewViewClient wraps an upgraded connection.
func NewViewClient(conn *websocket.Conn, sessionID string, bufferSize int) *ViewClient {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &ViewClient{
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, bufferSize),
	}
}

func (c *ViewClient) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// ReadPump drains the peer until it goes away, then unregisters the client.
// Inbound messages are ignored; the socket is push only.
func (c *ViewClient) ReadPump(b *ViewBroadcaster, logger *logging.ChanneledLogger) {
	defer func() {
		b.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithSession(logging.ChannelWebSocket, c.SessionID).Warn("View socket read error", "error", err)
			}
			return
		}
	}
}

// WritePump forwards queued messages to the socket and keeps it alive with
// pings. pingInterval must be shorter than the pong wait.
func (c *ViewClient) WritePump(writeTimeout, pingInterval time.Duration, logger *logging.ChanneledLogger) {
	if pingInterval <= 0 || pingInterval >= pongWait {
		pingInterval = (pongWait * 9) / 10
	}
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.WithSession(logging.ChannelWebSocket, c.SessionID).Warn("Failed to write view message", "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
