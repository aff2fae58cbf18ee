package handlers

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"kadencja/internal/session"
)

const lobbyTopic = "lobby"

// Hub routes notifications to connected clients. It implements session.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	lobby   *EventBus
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		lobby:   NewEventBus(),
		logger:  logger.Named("hub"),
	}
}

// Lobby returns the bus carrying games-list updates for SSE subscribers
func (h *Hub) Lobby() *EventBus {
	return h.lobby
}

// Register adds a client
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// Unregister drops a client and its room memberships
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
	for code, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Members returns how many clients are subscribed to a room
func (h *Hub) Members(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

func (h *Hub) JoinRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) LeaveRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

func (h *Hub) Send(connID string, n session.Notification) {
	msg, ok := h.encode(n)
	if !ok {
		return
	}
	h.mu.RLock()
	c, exists := h.clients[connID]
	h.mu.RUnlock()
	if exists {
		c.Enqueue(msg)
	}
}

func (h *Hub) Broadcast(roomCode string, n session.Notification) {
	h.BroadcastExcept(roomCode, "", n)
}

func (h *Hub) BroadcastExcept(roomCode, exceptConnID string, n session.Notification) {
	msg, ok := h.encode(n)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID := range h.rooms[roomCode] {
		if connID == exceptConnID {
			continue
		}
		if c, exists := h.clients[connID]; exists {
			c.Enqueue(msg)
		}
	}
}

// BroadcastAll reaches every websocket client and the lobby stream
func (h *Hub) BroadcastAll(n session.Notification) {
	msg, ok := h.encode(n)
	if !ok {
		return
	}
	h.mu.RLock()
	for _, c := range h.clients {
		c.Enqueue(msg)
	}
	h.mu.RUnlock()

	h.lobby.Publish(Event{Type: string(n.Type), Topic: lobbyTopic, Data: n.Data})
}

func (h *Hub) encode(n session.Notification) ([]byte, bool) {
	msg, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("failed to encode notification", zap.String("type", string(n.Type)), zap.Error(err))
		return nil, false
	}
	return msg, true
}
