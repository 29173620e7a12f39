package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is one websocket connection. It watches at most one game.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string

	mu     sync.RWMutex
	gameID string
	closed bool
}

func newClient(conn *websocket.Conn, remote string) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		remote: remote,
	}
}

// GameID returns the game the client is attached to.
func (c *Client) GameID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

func (c *Client) setGameID(id string) {
	c.mu.Lock()
	c.gameID = id
	c.mu.Unlock()
}

// markClosed records that the hub is shutting the client down, so the read
// error that follows is expected.
func (c *Client) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if !c.isClosed() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.logger.Warn("websocket read failed", zap.String("remote", c.remote), zap.Error(err))
			}
			return
		}

		var msg Envelope
		if err := json.Unmarshal(message, &msg); err != nil {
			hub.logger.Debug("malformed message", zap.String("remote", c.remote), zap.Error(err))
			hub.sendError(c, err)
			continue
		}

		hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
