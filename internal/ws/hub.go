package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/metrics"
)

// Event is the frame sent to dashboard clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans collection events out to the websocket clients watching that
// collection. Rooms are keyed by collection slug.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	room    string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run is the hub loop. It returns when ctx is cancelled and closes every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.room, msg.payload)
		}
	}
}

// Register adds a client to its room.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from its room.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for a room. It never blocks: when the queue is
// full the event is dropped and logged.
func (h *Hub) Publish(room, eventType string, data any) {
	raw, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logger.Log.WithError(err).WithField("event", eventType).Error("ws: marshal event")
		return
	}

	select {
	case h.broadcast <- message{room: room, payload: raw}:
	default:
		logger.Log.WithFields(map[string]any{"room": room, "event": eventType}).Warn("ws: broadcast queue full, event dropped")
	}
}

// RoomSize reports how many clients watch a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.room]; !ok {
		h.rooms[client.room] = make(map[*Client]struct{})
	}
	h.rooms[client.room][client] = struct{}{}
	metrics.WSConnections.Inc()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	client.closeSend()
	metrics.WSConnections.Dec()
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

func (h *Hub) send(room string, payload []byte) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.rooms[room] {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.removeClient(client)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, clients := range h.rooms {
		for client := range clients {
			client.closeSend()
			metrics.WSConnections.Dec()
		}
		delete(h.rooms, room)
	}
}
