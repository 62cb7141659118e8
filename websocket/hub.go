package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and fans out events to them.
// Room membership drives message broadcasts; the per-user index drives
// unread notifications, which reach every identified connection of a user
// whether or not it has joined the room.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Rooms mapping (roomID -> clients)
	rooms map[uint]map[*Client]bool

	// Identified users mapping (userID -> clients)
	users map[string]map[*Client]bool

	mu sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
		users:      make(map[string]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				// Remove client from all rooms
				for roomID, clients := range h.rooms {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						if len(clients) == 0 {
							delete(h.rooms, roomID)
						}
					}
				}

				// Remove client from the user index
				if client.userID != "" {
					if set, ok := h.users[client.userID]; ok {
						delete(set, client)
						if len(set) == 0 {
							delete(h.users, client.userID)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// identify binds a client to a user identity so it can receive user-scoped
// notifications.
func (h *Hub) identify(client *Client, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.userID = userID
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[*Client]bool)
	}
	h.users[userID][client] = true
}

// joinRoom adds a client to a room
func (h *Hub) joinRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
}

// leaveRoom removes a client from a room
func (h *Hub) leaveRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; ok {
		delete(h.rooms[roomID], client)
		// Clean up empty rooms
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// broadcastToRoom sends a message to all clients currently joined to a room.
// Delivery is fire-and-forget: a client whose send buffer is full misses the
// frame and catches up from history on its next join.
func (h *Hub) broadcastToRoom(roomID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- message:
		default:
		}
	}
}

// sendToUser sends a message to every identified connection of a user.
func (h *Hub) sendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		select {
		case client.send <- message:
		default:
		}
	}
}

// BroadcastToRoom sends a typed event to all clients joined to a room.
func BroadcastToRoom(roomID uint, msgType string, payload interface{}) {
	msg := Message{
		Type:    msgType,
		Payload: payload,
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal broadcast message")
		return
	}

	hub.broadcastToRoom(roomID, msgBytes)
}

// NotifyUser sends a typed event to every live connection of a user.
func NotifyUser(userID string, msgType string, payload interface{}) {
	msg := Message{
		Type:    msgType,
		Payload: payload,
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal user notification")
		return
	}

	hub.sendToUser(userID, msgBytes)
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub
func InitHub() {
	hub = NewHub()
	go hub.Run()
}
