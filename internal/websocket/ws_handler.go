package websocket

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/auth"
	"github.com/vntrieu/shadowquest/internal/store"
)

// RoomLookup resolves rooms and their players; *store.RoomStore implements it.
type RoomLookup interface {
	GetRoom(ctx context.Context, code string) (*store.Room, error)
	GetRoomPlayerInRoom(ctx context.Context, code, roomPlayerID string) (*store.RoomPlayer, error)
}

// WSHandler upgrades authenticated room connections.
type WSHandler struct {
	hub         *Hub
	rooms       RoomLookup
	tokenSecret []byte
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a WSHandler. checkOrigin may be nil to accept any origin.
func NewWSHandler(hub *Hub, rooms RoomLookup, tokenSecret []byte, checkOrigin func(*http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WSHandler{
		hub:         hub,
		rooms:       rooms,
		tokenSecret: tokenSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleRoomWebSocket handles GET /ws/rooms/{code}. The session token comes from the token query
// parameter or an Authorization bearer header and must belong to this room.
//
// @Summary  Room websocket
// @Tags     realtime
// @Param    code   path   string  true   "Room code"
// @Param    token  query  string  false  "Session token from create or join"
// @Success  101  {string}  string  "switching protocols"
// @Failure  401  {string}  string  "unauthorized"
// @Failure  404  {string}  string  "room not found"
// @Router   /ws/rooms/{code} [get]
func (h *WSHandler) HandleRoomWebSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.VerifyToken(token, h.tokenSecret)
	if err != nil {
		log.Info().Str("code", code).Err(err).Msg("websocket token rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	room, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) || errors.Is(err, store.ErrNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		log.Error().Str("code", code).Err(err).Msg("websocket room lookup failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if room.ID != claims.RoomID {
		http.Error(w, "room does not match token", http.StatusUnauthorized)
		return
	}
	player, err := h.rooms.GetRoomPlayerInRoom(r.Context(), code, claims.RoomPlayerID)
	if err != nil {
		log.Info().Str("room_id", room.ID).Str("player_id", claims.RoomPlayerID).Err(err).Msg("websocket player not in room")
		http.Error(w, "player not in room", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := newClient(h.hub, conn, room.ID, room.Code, player.ID, player.DisplayName)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func bearerToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	const prefix = "Bearer "
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return ""
}
