package hub

import (
	"encoding/json"
	"sync"

	"github.com/glyphcam/glyphcam/internal/log"
)

// Hub maintains the set of active clients for one feed and broadcasts
// messages to them. Slow clients are dropped rather than allowed to stall
// the feed.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Guards the client map for count reads from outside the run loop
	mu sync.RWMutex
}

// New creates a hub for the named feed.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's fan-out loop. Call in a goroutine; returns after
// Stop, disconnecting any remaining clients.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("client connected", "feed", h.name, "client", client.ID, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("client disconnected", "feed", h.name, "client", client.ID, "remaining", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client buffer full: drop it instead of blocking the feed
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow client", "feed", h.name, "client", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for all connected clients. If the broadcast
// queue itself is full the message is dropped; the next tick supersedes it
// anyway.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Debug("broadcast queue full, dropping message", "feed", h.name)
	}
}

// BroadcastText broadcasts a text payload.
func (h *Hub) BroadcastText(data []byte) {
	h.Broadcast(Text(data))
}

// BroadcastBinary broadcasts binary data such as JPEG frames.
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(Binary(data))
}

// BroadcastJSON encodes v and broadcasts it as text.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(Text(data))
	return nil
}

// Stop ends the fan-out loop. Idempotent.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
