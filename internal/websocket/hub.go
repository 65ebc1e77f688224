package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/metrics"
)

// Hub tracks connected clients per room and fans envelopes out to them.
type Hub struct {
	// room_id -> clients
	rooms map[string]map[*Client]bool
	// room_player_id -> open connections, for presence
	players map[string]int

	broadcast  chan *BroadcastMessage
	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns.
	done     chan struct{}
	stopOnce sync.Once

	eventHandler *EventHandler

	mu sync.RWMutex
}

// BroadcastMessage is one envelope for a room. A non-empty PlayerID targets that player's
// connections only; a non-nil Target targets a single connection.
type BroadcastMessage struct {
	RoomID        string
	PlayerID      string
	Target        *Client
	Envelope      *ServerEnvelope
	ExcludeClient *Client
}

// NewHub creates a hub. eventHandler may be set later with SetEventHandler.
func NewHub(eventHandler *EventHandler) *Hub {
	return &Hub{
		rooms:        make(map[string]map[*Client]bool),
		players:      make(map[string]int),
		broadcast:    make(chan *BroadcastMessage, 256),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		eventHandler: eventHandler,
	}
}

// SetEventHandler sets the handler that receives client messages.
func (h *Hub) SetEventHandler(handler *EventHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eventHandler = handler
}

func (h *Hub) handler() *EventHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.eventHandler
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.RoomID] == nil {
				h.rooms[client.RoomID] = make(map[*Client]bool)
			}
			h.rooms[client.RoomID][client] = true
			h.players[client.RoomPlayerID]++
			total := len(h.rooms[client.RoomID])
			h.mu.Unlock()
			metrics.WebsocketConnections.Inc()
			log.Debug().Str("room_id", client.RoomID).Str("player_id", client.RoomPlayerID).Int("total", total).Msg("ws client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			removed := h.remove(client)
			h.mu.Unlock()
			if removed {
				log.Debug().Str("room_id", client.RoomID).Str("player_id", client.RoomPlayerID).Msg("ws client unregistered")
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[message.RoomID] {
				if client == message.ExcludeClient {
					continue
				}
				if message.PlayerID != "" && client.RoomPlayerID != message.PlayerID {
					continue
				}
				if message.Target != nil && client != message.Target {
					continue
				}
				select {
				case client.send <- message.Envelope:
				default:
					log.Warn().Str("room_id", client.RoomID).Str("player_id", client.RoomPlayerID).Msg("ws send buffer full, dropping client")
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client and closes its send channel. The caller holds mu.
func (h *Hub) remove(client *Client) bool {
	room, ok := h.rooms[client.RoomID]
	if !ok || !room[client] {
		return false
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.RoomID)
	}
	h.players[client.RoomPlayerID]--
	if h.players[client.RoomPlayerID] <= 0 {
		delete(h.players, client.RoomPlayerID)
	}
	metrics.WebsocketConnections.Dec()
	return true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for client := range room {
			h.remove(client)
		}
	}
}

// Register adds client to its room. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client; it returns immediately once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) send(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Broadcast sends envelope to every client in the room.
func (h *Hub) Broadcast(roomID string, envelope *ServerEnvelope) {
	h.send(&BroadcastMessage{RoomID: roomID, Envelope: envelope})
}

// BroadcastExcept sends envelope to every client in the room except exclude.
func (h *Hub) BroadcastExcept(roomID string, envelope *ServerEnvelope, exclude *Client) {
	h.send(&BroadcastMessage{RoomID: roomID, Envelope: envelope, ExcludeClient: exclude})
}

// SendToPlayer sends envelope to the connections of one player in the room.
func (h *Hub) SendToPlayer(roomID, roomPlayerID string, envelope *ServerEnvelope) {
	h.send(&BroadcastMessage{RoomID: roomID, PlayerID: roomPlayerID, Envelope: envelope})
}

// SendToClient sends envelope to a single connection if it is still registered.
func (h *Hub) SendToClient(client *Client, envelope *ServerEnvelope) {
	h.send(&BroadcastMessage{RoomID: client.RoomID, Target: client, Envelope: envelope})
}

// Connected reports whether the player has at least one open connection.
func (h *Hub) Connected(roomPlayerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.players[roomPlayerID] > 0
}

// GetRoomClientCount returns the number of clients in a room.
func (h *Hub) GetRoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
