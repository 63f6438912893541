package realtime

import (
	"context"
	"log"
	"sync"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"
)

// AllCollections subscribes a client to every collection.
const AllCollections = ""

// Client represents a single websocket client connection.
// The network conn itself is managed in the ws handler. Send must not block:
// Broadcast runs inside the request that changed the data.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub keeps subscribed clients per collection and pushes change events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[Client]struct{}),
	}
}

// Register subscribes a client to a collection (or AllCollections).
func (h *Hub) Register(collection string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[collection]; !ok {
		h.clients[collection] = make(map[Client]struct{})
	}
	h.clients[collection][client] = struct{}{}
}

// Unregister removes a client; empty collection sets are dropped.
func (h *Hub) Unregister(collection string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[collection]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, collection)
		}
	}
}

// Subscribers counts clients that would receive an event for collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.clients[collection])
	if collection != AllCollections {
		n += len(h.clients[AllCollections])
	}
	return n
}

// Broadcast sends a message to the collection's subscribers and to catch-all subscribers.
// A client that cannot keep up misses the message.
func (h *Hub) Broadcast(collection string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[collection] {
		c.Send(message)
	}
	if collection == AllCollections {
		return
	}
	for c := range h.clients[AllCollections] {
		c.Send(message)
	}
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, evt events.Event) {
	msg, err := evt.Marshal()
	if err != nil {
		log.Printf("realtime: encode %s event: %v", evt.Type, err)
		return
	}
	h.Broadcast(evt.Collection, msg)
}

var _ events.Publisher = (*Hub)(nil)
