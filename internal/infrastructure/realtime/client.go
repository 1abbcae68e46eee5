package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Per-client outbound buffer. A client that falls this far behind is
	// disconnected rather than allowed to block broadcasts.
	sendBufferSize = 64
)

// MessageHandler consumes one inbound client frame.
type MessageHandler func(client *Client, data []byte)

// Client is one websocket connection registered with the hub. Outbound
// frames go through a buffered channel drained by the write pump, so hub
// broadcasts never block on a peer's socket.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	onMessage MessageHandler

	// mu orders enqueue against Close. Hub broadcasts are already ordered
	// by the hub lock, but Send is also called from the read pump (command
	// acks) and can race a closeSlow from another broadcast.
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection. The caller must start
// the pumps with Run.
func NewClient(hub *Hub, conn *websocket.Conn, onMessage MessageHandler, logger *zap.Logger) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		logger:    logger,
		onMessage: onMessage,
	}
}

// Run starts the read and write pumps and blocks until the connection is
// gone. Membership cleanup is unconditional: whatever ends the connection,
// the client leaves every room it joined.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// Send enqueues a frame for this client only. Returns false when the
// client is too far behind.
func (c *Client) Send(frame []byte) bool {
	return c.enqueue(frame)
}

// Close tears the connection down and removes the client from all rooms.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.RemoveClient(c)
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
	})
}

// enqueue attempts a non-blocking handoff to the write pump. Returns false
// for a closed or backed-up client; it never panics on a concurrent Close.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSlow disconnects a client whose send buffer overflowed.
func (c *Client) closeSlow() {
	c.Close()
}

func (c *Client) readPump() {
	defer func() {
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if c.logger != nil {
					c.logger.Warn("websocket read error", zap.Error(err))
				}
			}
			return
		}
		if c.onMessage != nil {
			c.onMessage(c, data)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
