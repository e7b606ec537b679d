package controller

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is what subscribers receive after a successful mutation. The id
// alone is enough for clients to re-fetch the authoritative record.
type Event struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// EventHub fans mutation events out to websocket subscribers.
type EventHub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	Logger *log.Logger
}

func NewEventHub(logger *log.Logger) *EventHub {
	return &EventHub{
		conns:  make(map[*websocket.Conn]struct{}),
		Logger: logger,
	}
}

// Handle registers the connection and holds it open until the peer goes
// away. Clients only listen; inbound messages are discarded.
func (h *EventHub) Handle(c *websocket.Conn) {
	defer c.Close()

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends an event to every subscriber. Connections that fail to
// take the write are dropped. Safe to call on a nil hub.
func (h *EventHub) Publish(eventType string, id uint) {
	if h == nil {
		return
	}

	event := Event{Type: eventType, ID: id}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(event); err != nil {
			h.Logger.Printf("dropping event subscriber: %v", err)
			c.Close()
			delete(h.conns, c)
		}
	}
}

// SubscriberCount reports how many connections are registered.
func (h *EventHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
