package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/chat"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Time between keepalive pings; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Errors
var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("connection send buffer full")
)

// Client is a single authenticated websocket connection. It is the opaque
// handle stored in the presence registry and fanned out to by the hub.
type Client struct {
	user        *model.User
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	connectedAt time.Time

	closeOnce sync.Once
	logger    *slog.Logger
}

// Ensure Client can be routed to by the chat service
var _ chat.Conn = (*Client)(nil)

// newClient wraps an upgraded websocket connection
func newClient(user *model.User, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		user:        user,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
		logger: logger.With(
			slog.String("user_id", string(user.ID)),
			slog.String("role", string(user.Role))),
	}
}

// User returns the identity resolved at connection time
func (c *Client) User() *model.User {
	return c.user
}

// Send marshals ev and queues it for the write pump. It fails fast with
// ErrSendBufferFull or ErrConnClosed rather than blocking the caller.
func (c *Client) Send(ev model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// enqueue queues raw bytes for the write pump without blocking
func (c *Client) enqueue(data []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrSendBufferFull
	}
}

// close marks the client as closed; safe to call more than once
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. Runs in its own goroutine, one per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
