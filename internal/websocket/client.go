// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package websocket

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/dishpick/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxInboundFrame caps what a subscriber may send. The feed never reads
	// application data, so anything larger is a misbehaving client.
	maxInboundFrame = 512

	sendBuffer = 64
)

var clientIDCounter atomic.Uint64

// Client is one feed subscriber. Only the server writes application
// messages; frames from the browser are read to keep control frames
// flowing and then discarded.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn

	// send is owned by the hub, which closes it on unregister or shutdown.
	// The client only receives from it.
	send chan Message
}

// NewClient creates a client with a unique, increasing ID.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

// ID returns the client's identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Start runs the client's read and write loops.
func (c *Client) Start() {
	go c.deliver()
	go c.listen()
}

// listen watches the inbound side until the peer goes away, then leaves the hub.
func (c *Client) listen() {
	defer func() {
		_ = c.conn.Close()
		c.hub.unregisterClient(c)
	}()

	c.conn.SetReadLimit(maxInboundFrame)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	if err := extend(""); err != nil {
		logging.Error().Err(err).Uint64("client_id", c.id).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(extend)

	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("feed subscriber left")
			}
			return
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			logging.Debug().Err(err).Uint64("client_id", c.id).Msg("dropping feed subscriber")
			return
		}
	}
}

// deliver writes queued feed messages and keepalive pings. It returns when
// the hub closes send or a write fails.
func (c *Client) deliver() {
	keepalive := time.NewTicker(pingPeriod)
	defer func() {
		keepalive.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			if !open {
				_ = c.write(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				logging.Error().Err(err).Str("message_type", msg.Type).Msg("unencodable feed message")
				continue
			}
			if err := c.write(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("feed write failed")
				return
			}

		case <-keepalive.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, payload)
}
