package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameEvent is one entry of a game's append-only event log.
type GameEvent struct {
	ID           string         `json:"id"`
	GameID       string         `json:"game_id"`
	RoomPlayerID *string        `json:"room_player_id,omitempty"`
	Type         string         `json:"type"`
	Payload      map[string]any `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
}

// CreateGameEventRequest contains the data needed to create a game event.
type CreateGameEventRequest struct {
	GameID       string         `json:"game_id"`
	RoomPlayerID *string        `json:"room_player_id,omitempty"`
	Type         string         `json:"type"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// GameEventStore handles database operations for game events.
type GameEventStore struct {
	pool *pgxpool.Pool
}

// NewGameEventStore creates a new GameEventStore.
func NewGameEventStore(pool *pgxpool.Pool) *GameEventStore {
	return &GameEventStore{pool: pool}
}

// CreateGameEvent appends an event. A nil RoomPlayerID marks a system event.
func (s *GameEventStore) CreateGameEvent(ctx context.Context, req CreateGameEventRequest) (*GameEvent, error) {
	gameUUID, err := stringToUUID(req.GameID)
	if err != nil {
		return nil, fmt.Errorf("invalid game_id: %w", err)
	}
	var playerUUID pgtype.UUID
	if req.RoomPlayerID != nil && *req.RoomPlayerID != "" {
		playerUUID, err = stringToUUID(*req.RoomPlayerID)
		if err != nil {
			return nil, fmt.Errorf("invalid room_player_id: %w", err)
		}
	}
	payloadJSON, err := marshalSettings(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var id pgtype.UUID
	ev := &GameEvent{GameID: req.GameID, RoomPlayerID: req.RoomPlayerID, Type: req.Type, Payload: unmarshalSettings(payloadJSON)}
	err = s.pool.QueryRow(ctx, `
INSERT INTO game_events (game_id, room_player_id, type, payload_json) VALUES ($1, $2, $3, $4)
RETURNING id, created_at`, gameUUID, playerUUID, req.Type, payloadJSON).Scan(&id, &ev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game event: %w", err)
	}
	ev.ID = uuidToString(id)
	return ev, nil
}

// GetGameEvents returns the game's events oldest first.
func (s *GameEventStore) GetGameEvents(ctx context.Context, gameID string) ([]GameEvent, error) {
	gameUUID, err := stringToUUID(gameID)
	if err != nil {
		return nil, fmt.Errorf("invalid game_id: %w", err)
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, room_player_id, type, payload_json, created_at FROM game_events
WHERE game_id = $1 ORDER BY created_at, id`, gameUUID)
	if err != nil {
		return nil, fmt.Errorf("get game events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var id, playerUUID pgtype.UUID
		var payload []byte
		ev := GameEvent{GameID: gameID}
		if err := rows.Scan(&id, &playerUUID, &ev.Type, &payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game event: %w", err)
		}
		ev.ID = uuidToString(id)
		if playerUUID.Valid {
			pid := uuidToString(playerUUID)
			ev.RoomPlayerID = &pid
		}
		ev.Payload = unmarshalSettings(payload)
		events = append(events, ev)
	}
	return events, rows.Err()
}
