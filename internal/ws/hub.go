package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is one wire message pushed to every display watching a checkout.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// sessionEvent pairs an event with the room it is destined for.
type sessionEvent struct {
	SessionID uuid.UUID
	Event     Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients join a room per checkout session, so the cashier screen and a
// customer-facing display watching the same checkout both see every
// transition.
type Hub struct {
	// rooms holds connected clients grouped by checkout session ID.
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *sessionEvent

	// mu guards rooms for readers outside the Run loop.
	mu sync.RWMutex
}

// NewHub creates an empty hub with no rooms.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *sessionEvent, 256),
	}
}

// Run drains the register, unregister, and broadcast channels. It owns the
// room map and must be running (go hub.Run()) before the first client
// connects or event is published.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.sessionID] == nil {
				h.rooms[client.sessionID] = make(map[*Client]bool)
			}
			h.rooms[client.sessionID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.sessionID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.sessionID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.SessionID]

			// Encode once, fan the same bytes out to the room
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the loop
					close(client.send)
					delete(h.rooms[event.SessionID], client)
					if len(h.rooms[event.SessionID]) == 0 {
						delete(h.rooms, event.SessionID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSession sends an event to all clients watching one checkout.
// This is the public API for the session service to push state changes.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, event Event) {
	h.broadcast <- &sessionEvent{
		SessionID: sessionID,
		Event:     event,
	}
}
