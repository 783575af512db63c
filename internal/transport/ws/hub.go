package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks every live connection. A user may hold several at once (tabs,
// devices); events address a user id and fan out to all of that user's
// connections.
type Hub struct {
	// clients maps connection → owning user.
	clients map[*Client]uuid.UUID

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	log *zap.Logger
}

type broadcastMsg struct {
	userID uuid.UUID
	data   []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]uuid.UUID),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		log:        log,
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = client.userID
			h.log.Debug("ws session connected",
				zap.String("user_id", client.userID.String()),
				zap.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				close(client.done)
				h.log.Debug("ws session disconnected",
					zap.String("user_id", client.userID.String()),
					zap.Int("total", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client, userID := range h.clients {
				if userID != msg.userID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToUser sends an event to every connection the user holds.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("ws hub: marshal error", zap.Error(err))
		return
	}
	h.broadcast <- &broadcastMsg{userID: userID, data: data}
}
