package event_hub

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only consume the stream; anything they send beyond control
	// frames is discarded, so inbound frames stay small.
	maxMessageSize = 1 << 10
)

// Client is one websocket subscriber of the alert event stream.
type Client struct {
	ID      uuid.UUID
	Conn    *websocket.Conn
	send    chan []byte
	hub     *EventHub
	writeMu sync.Mutex
	closed  chan struct{}
}

// NewClient wraps an upgraded connection and starts its ping loop. The
// caller still has to register the client with the hub and start the read
// and write loops.
func NewClient(id uuid.UUID, conn *websocket.Conn, hub *EventHub) *Client {
	c := &Client{
		ID:     id,
		Conn:   conn,
		send:   make(chan []byte, 16),
		hub:    hub,
		closed: make(chan struct{}),
	}

	go c.pingLoop()

	return c
}

// Register announces the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// Read drains and discards inbound frames, keeping the pong handler fed.
// It unregisters the client when the connection drops.
func (c *Client) Read() {
	defer func() {
		c.hub.unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	err := c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		wErr := errors.Wrap(err, "failed to set read deadline")
		log.Default().Info(wErr.Error())
	}
	c.Conn.SetPongHandler(func(string) error {
		err = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		if err != nil {
			wErr := errors.Wrap(err, "failed to set read deadline")
			log.Default().Info(wErr.Error())
		}
		return nil
	})

	for {
		if _, _, err = c.Conn.ReadMessage(); err != nil {
			log.Default().Debug(errors.Wrap(err, "event stream client read ended").Error())
			break
		}
	}
}

// Write pushes queued frames to the connection until the send channel is
// closed by the hub.
func (c *Client) Write() {
	for message := range c.send {
		if err := c.safeWrite(websocket.TextMessage, message); err != nil {
			log.Default().Info(errors.Wrap(err, "failed to send event frame").Error())
			return
		}
	}
	if err := c.safeWrite(websocket.CloseMessage, []byte{}); err != nil {
		log.Default().Info(errors.Wrap(err, "failed to send close message").Error())
	}
}

func (c *Client) safeWrite(msgType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(msgType, data)
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			if err := c.safeWrite(websocket.PingMessage, nil); err != nil {
				log.Default().Error(errors.Wrap(err, fmt.Sprintf("client [%s] ping error", c.ID.String())).Error())
				return
			}
		case <-c.closed:
			return
		}
	}
}

// Close tears the connection down without waiting for the hub.
func (c *Client) Close() {
	select {
	case <-c.closed:
		return
	default:
		close(c.closed)
		_ = c.Conn.Close()
	}
}
