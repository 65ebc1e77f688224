package websocket

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/metrics"
	"github.com/vntrieu/shadowquest/internal/ratelimit"
	"github.com/vntrieu/shadowquest/internal/store"
)

// GameLookup finds the game a room is playing; *store.GameStore implements it.
type GameLookup interface {
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
	GetLatestGameForRoom(ctx context.Context, roomID string) (*store.Game, error)
}

// Engine is the part of the game engine the websocket layer drives; *games.Engine implements it.
type Engine interface {
	ApplyMove(ctx context.Context, gameID, roomPlayerID, moveType string, payload map[string]any) games.ApplyMoveResult
	GetState(ctx context.Context, gameID string) (*games.GameState, error)
	Views(ctx context.Context, state *games.GameState) map[string]*games.PlayerView
}

// EventHandler turns client envelopes into engine moves and pushes the results to the room.
type EventHandler struct {
	hub         *Hub
	games       GameLookup
	engine      Engine
	rateLimiter ratelimit.Limiter
}

// NewEventHandler creates an EventHandler. hub may be nil while the hub is being built; rateLimiter
// may be nil to disable move limiting.
func NewEventHandler(hub *Hub, lookup GameLookup, engine Engine, rateLimiter ratelimit.Limiter) *EventHandler {
	if rateLimiter == nil {
		rateLimiter = ratelimit.Noop{}
	}
	return &EventHandler{hub: hub, games: lookup, engine: engine, rateLimiter: rateLimiter}
}

// SetHub attaches the hub that delivers envelopes.
func (h *EventHandler) SetHub(hub *Hub) {
	h.hub = hub
}

// HandleRoomMessage processes one client envelope. Unknown types get an error envelope.
func (h *EventHandler) HandleRoomMessage(ctx context.Context, client *Client, msg *ClientInMessage) {
	if msg == nil || len(msg.Type) > MaxClientMessageTypeLength || !ValidClientMessageTypes[msg.Type] {
		h.sendError(client, msg, "validation", "unsupported_type", "unsupported message type")
		return
	}
	if msg.Type != ClientMessageTypeSyncState {
		if d := h.rateLimiter.Allow(ctx, client.RateLimitKey); !d.Allowed {
			metrics.RateLimited.WithLabelValues("websocket").Inc()
			h.sendError(client, msg, "rate_limited", "rate_limited", "rate limit exceeded; try again later")
			return
		}
	}
	game, err := h.games.GetLatestGameForRoom(ctx, client.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.sendError(client, msg, "not_found", "no_game", "no game found for room")
			return
		}
		log.Error().Err(err).Str("room_id", client.RoomID).Msg("load latest game failed")
		h.sendError(client, msg, "internal", "internal", "failed to load game")
		return
	}

	switch msg.Type {
	case ClientMessageTypeSyncState:
		h.syncState(ctx, client, msg, game.ID)
	case ClientMessageTypeVote:
		h.move(ctx, client, msg, game.ID, games.MoveVote)
	case ClientMessageTypeAction:
		h.move(ctx, client, msg, game.ID, games.MoveAction)
	}
}

func (h *EventHandler) move(ctx context.Context, client *Client, msg *ClientInMessage, gameID, moveType string) {
	payload := msg.Payload
	if payload == nil {
		payload = make(map[string]any)
	}
	result := h.engine.ApplyMove(ctx, gameID, client.RoomPlayerID, moveType, payload)
	if result.Error != nil {
		kind := games.ErrorKind(result.Error)
		message := result.Error.Error()
		if kind == games.KindInternal {
			log.Error().Err(result.Error).Str("game_id", gameID).Str("player_id", client.RoomPlayerID).Msg("move failed")
			message = "internal error"
		}
		h.sendError(client, msg, string(kind), games.ErrorCode(result.Error), message)
		return
	}
	h.publish(ctx, client.RoomID, result)
}

// syncState sends the public state and the caller's private view to the caller only.
func (h *EventHandler) syncState(ctx context.Context, client *Client, msg *ClientInMessage, gameID string) {
	state, err := h.engine.GetState(ctx, gameID)
	if err != nil {
		h.sendError(client, msg, string(games.ErrorKind(err)), games.ErrorCode(err), "failed to load state")
		return
	}
	env := stateEnvelope(state)
	env.CorrelationID = msgCorrelationID(msg)
	h.hub.SendToClient(client, env)
	if view, ok := h.engine.Views(ctx, state)[client.RoomPlayerID]; ok {
		h.hub.SendToClient(client, viewEnvelope(view))
	}
}

// Notify publishes a result produced outside a client message, such as a quiz timeout.
func (h *EventHandler) Notify(ctx context.Context, gameID string, res games.ApplyMoveResult) {
	game, err := h.games.GetGame(ctx, gameID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("notify: load game failed")
		return
	}
	h.publish(ctx, game.RoomID, res)
}

// publish broadcasts the events and the new public state, then refreshes private views when the
// result moved the game into a stage where they change.
func (h *EventHandler) publish(ctx context.Context, roomID string, result games.ApplyMoveResult) {
	if h.hub == nil {
		return
	}
	refreshViews := false
	for _, ev := range result.Events {
		h.hub.Broadcast(roomID, &ServerEnvelope{Type: ServerTypeEvent, Event: ev.Event, Payload: ev.Payload})
		switch ev.Event {
		case games.EventGameStarted, games.EventQuizStarted, games.EventEndgameStarted, games.EventGameOver:
			refreshViews = true
		}
	}
	if result.State == nil {
		return
	}
	h.hub.Broadcast(roomID, stateEnvelope(result.State))
	if !refreshViews {
		return
	}
	for playerID, view := range h.engine.Views(ctx, result.State) {
		h.hub.SendToPlayer(roomID, playerID, viewEnvelope(view))
	}
}

func (h *EventHandler) sendError(client *Client, msg *ClientInMessage, kind, code, message string) {
	if h.hub == nil {
		return
	}
	h.hub.SendToClient(client, errorEnvelope(msgCorrelationID(msg), kind, code, message))
}

func stateEnvelope(state *games.GameState) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeState, Event: ServerTypeState, Payload: map[string]any{
		"game_id": state.GameID,
		"phase":   state.Phase,
		"version": state.Version,
		"state":   state.Public(),
	}}
}

func viewEnvelope(view *games.PlayerView) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeView, Event: ServerTypeView, Payload: map[string]any{"view": view}}
}

func errorEnvelope(correlationID, kind, code, message string) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeError, CorrelationID: correlationID, Payload: map[string]any{
		"kind":    kind,
		"code":    code,
		"message": message,
	}}
}

func msgCorrelationID(msg *ClientInMessage) string {
	if msg == nil {
		return ""
	}
	return msg.CorrelationID
}
