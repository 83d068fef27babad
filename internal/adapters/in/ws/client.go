package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// client is one authenticated websocket connection. It implements
// realtime.Member so the registry can deliver room broadcasts to it.
//
// All writes to the socket go through the send channel and the single
// writePump goroutine; gorilla connections do not support concurrent writers.
type client struct {
	conn     *websocket.Conn
	identity ports.Identity
	send     chan outboundFrame
	closed   chan struct{}
	logger   *slog.Logger
}

func newClient(conn *websocket.Conn, identity ports.Identity, logger *slog.Logger) *client {
	return &client{
		conn:     conn,
		identity: identity,
		send:     make(chan outboundFrame, sendBufferSize),
		closed:   make(chan struct{}),
		logger:   logger,
	}
}

// Deliver queues a room broadcast for this connection. A consumer that
// cannot keep up has its frames dropped instead of stalling the broadcast;
// clients recover by re-fetching on reconnect.
func (c *client) Deliver(event string, payload []byte) {
	frame := outboundFrame{
		Event: event,
		Data:  json.RawMessage(payload),
	}

	select {
	case c.send <- frame:
	case <-c.closed:
	default:
		c.logger.Warn("dropping frame for slow consumer",
			"user_id", c.identity.UserID.String(),
			"event", event,
		)
	}
}

// enqueue queues a direct (non-broadcast) frame such as an ack or an error.
func (c *client) enqueue(frame outboundFrame) {
	select {
	case c.send <- frame:
	case <-c.closed:
	default:
		c.logger.Warn("dropping frame for slow consumer",
			"user_id", c.identity.UserID.String(),
			"event", frame.Event,
		)
	}
}

// writePump serializes all socket writes. Runs until the send channel closes
// or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// close stops delivery and lets writePump send the close frame.
// The send channel is never closed; closed gates every producer.
func (c *client) close() {
	close(c.closed)
}
