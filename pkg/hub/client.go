package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// Connection timing. Pings go out well inside the pong window.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one websocket subscriber. Its writer goroutine is the only one
// that writes to conn.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient registers a subscriber for conn. If the hub is already stopped
// the client starts out closed.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := newClient(hub, conn)
	select {
	case hub.register <- client:
	case <-hub.done:
		close(client.send)
	}
	return client
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan Message, sendBuffer)}
}

// Run serves the connection until the peer leaves or the hub drops it.
func (c *Client) Run() {
	go c.deliver()
	c.watch()
}

// watch consumes inbound frames, which only carry pongs and close, and
// unregisters on the first read error.
func (c *Client) watch() {
	defer c.leave()

	c.conn.SetReadLimit(maxMessageSize)
	c.extendDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendDeadline()
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) extendDeadline() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	c.conn.Close()
}

// deliver forwards queued messages and keeps the peer alive with pings.
func (c *Client) deliver() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		var err error
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			err = c.write(frameType(msg), msg.Data)
		case <-ping.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}

func frameType(m Message) int {
	if m.Type == BinaryMessage {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
