package event_hub

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

// EventHub fans alert frames out to every connected websocket client.
// The client map is owned by the Run goroutine; all mutation goes through
// the register, unregister, and broadcast channels.
type EventHub struct {
	clients     map[*Client]bool
	broadcast   chan []byte
	register    chan *Client
	unregister  chan *Client
	clientCount atomic.Int64
}

var eventHub *EventHub

func GetEventHubInstance() *EventHub {
	if eventHub == nil {
		panic("EventHub is not initialized")
	}
	return eventHub
}

func NewEventHub() *EventHub {
	eventHub = &EventHub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	return eventHub
}

// Broadcast queues a frame for delivery to all clients. It never blocks;
// the frame is dropped when the hub cannot keep up.
func (h *EventHub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		log.Default().Debug("Event hub broadcast queue full, dropping frame")
	}
}

// ClientCount reports the number of connected clients. Safe to call from
// any goroutine.
func (h *EventHub) ClientCount() int64 {
	return h.clientCount.Load()
}

func (h *EventHub) Run(ctx context.Context) {
	log.Default().Info("Starting to listen for event stream clients")
	go func() {
		for {
			select {
			case client := <-h.register:
				h.registerClient(client)
			case client := <-h.unregister:
				h.removeClient(client)
			case frame := <-h.broadcast:
				h.publishFrame(frame)
			case <-ctx.Done():
				log.Default().Info("Shutting down event hub")
				return
			}
		}
	}()
}

func (h *EventHub) registerClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		log.Default().Debug(fmt.Sprintf("Registering new event stream client with id [%s]", client.ID.String()))
		h.clients[client] = true
		h.clientCount.Store(int64(len(h.clients)))
	} else {
		log.Default().Debug(fmt.Sprintf("Client with id [%s] already registered", client.ID.String()))
	}
	log.Default().Debug(fmt.Sprintf("There are [%d] clients connected", len(h.clients)))
}

func (h *EventHub) removeClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.clientCount.Store(int64(len(h.clients)))
		log.Default().Debug(fmt.Sprintf("Client with id [%s] disconnected", client.ID.String()))
	}
}

func (h *EventHub) publishFrame(frame []byte) {
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			delete(h.clients, client)
			close(client.send)
			h.clientCount.Store(int64(len(h.clients)))
		}
	}
}
