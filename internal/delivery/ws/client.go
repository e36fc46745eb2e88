package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; position reports are tiny
	maxMessageSize = 512
)

// Client represents a single websocket connection into the arena.
type Client struct {
	ID       string // assigned by the hub at registration
	Username string // empty for guests
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
}

// NewClient creates a Client for conn. The hub fills in the player id.
func NewClient(hub *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		Username: username,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
	}
}

// ReadPump consumes position reports from the connection and feeds them to
// the hub. Any read error tears the session down; removal is idempotent
// with the tick loop's send-failure path.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Remove(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var report domain.PositionReport
		if err := json.Unmarshal(message, &report); err != nil {
			continue
		}
		if c.hub.UpdatePosition(c.ID, report.X, report.Y) != nil {
			// The hub already dropped this session; stop reading.
			break
		}
	}
}

// WritePump drains the send channel onto the connection. The hub closes the
// channel when the session is removed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// queue offers msg to the client's outbound buffer without blocking.
// Reports whether the message was accepted.
func (c *Client) queue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
