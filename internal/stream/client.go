package stream

import (
	"encoding/json"
	"time"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Maximum message size allowed from peer
const maxMessageSize = 1024

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id          string
	remoteAddr  string
	connectedAt time.Time

	log *applogger.Logger
}

// NewClient wraps an upgraded connection. Buffer size and write/pong
// deadlines come from the hub's stream config.
func NewClient(hub *Hub, conn *websocket.Conn, log *applogger.Logger) *Client {
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, hub.cfg.SendBuffer),
		id:          uuid.New().String(),
		connectedAt: time.Now(),
		log:         log,
	}
	if conn != nil {
		c.remoteAddr = conn.RemoteAddr().String()
	}
	return c
}

// ID returns the client's identifier.
func (c *Client) ID() string { return c.id }

// ReadPump pumps commands from the websocket connection to the hub.
// One goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.log.Debug("stream read pump stopped",
			applogger.String("client_id", c.id),
			applogger.Duration("connected_ms", time.Since(c.connectedAt)),
		)
	}()

	pongWait := c.hub.cfg.PongTimeout
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected stream close",
					applogger.String("client_id", c.id),
					applogger.Error(err),
				)
			}
			break
		}

		var cmd models.StreamCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.log.Debug("dropping malformed stream command",
				applogger.String("client_id", c.id),
				applogger.Error(err),
			)
			continue
		}
		c.hub.Command(c, cmd)
	}
}

// WritePump pumps frames from the hub to the websocket connection and
// keeps the connection alive with pings.
func (c *Client) WritePump() {
	writeWait := c.hub.cfg.WriteTimeout
	// ping must fire comfortably inside the pong deadline
	ticker := time.NewTicker(c.hub.cfg.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

			// Drain any queued frames as separate websocket frames
			n := len(c.send)
			for i := 0; i < n; i++ {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS attaches an upgraded connection to the hub and starts its
// pumps.
func ServeWS(hub *Hub, conn *websocket.Conn, log *applogger.Logger) {
	client := NewClient(hub, conn, log)
	hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
