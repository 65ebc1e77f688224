package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Game statuses.
const (
	GameStatusWaiting    = "waiting"
	GameStatusInProgress = "in_progress"
	GameStatusFinished   = "finished"
)

// ErrGameInProgress is returned when a new game is requested while the room's latest game is running.
var ErrGameInProgress = errors.New("room already has a game in progress")

// LobbyStateJSON is the initial snapshot state of a new game.
var LobbyStateJSON = []byte(`{"phase":"lobby","status":"waiting"}`)

// LobbyPhase is the phase column of the initial snapshot.
const LobbyPhase = "lobby"

// Game is one play-through inside a room.
type Game struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"room_id"`
	Status    string         `json:"status"`
	Config    map[string]any `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
}

// Snapshot is one persisted version of a game's state.
type Snapshot struct {
	GameID    string    `json:"game_id"`
	Version   int32     `json:"version"`
	Phase     string    `json:"phase"`
	State     []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotUpdate is a conditional write: it succeeds only while the latest snapshot still has
// ExpectedVersion and ExpectedPhase.
type SnapshotUpdate struct {
	GameID          string
	ExpectedVersion int32
	ExpectedPhase   string
	Phase           string
	State           []byte
	Status          string
}

// CreateGameRequest asks for a new game in the room with the given code.
type CreateGameRequest struct {
	Code   string         `json:"code"`
	Config map[string]any `json:"config,omitempty"`
}

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// GameStore handles database operations for games and their snapshots.
type GameStore struct {
	pool *pgxpool.Pool
}

// NewGameStore creates a new GameStore.
func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

const insertGamePlayerSQL = `
INSERT INTO game_players (game_id, room_player_id) VALUES ($1, $2)
ON CONFLICT (game_id, room_player_id) DO NOTHING`

const insertSnapshotSQL = `
INSERT INTO game_state_snapshots (game_id, version, phase, state_json) VALUES ($1, $2, $3, $4)`

// insertGame creates a waiting game with the given players and its lobby snapshot.
func insertGame(ctx context.Context, tx pgx.Tx, roomID pgtype.UUID, configJSON []byte, players []pgtype.UUID) (*Game, error) {
	var gameUUID pgtype.UUID
	game := &Game{RoomID: uuidToString(roomID), Status: GameStatusWaiting}
	err := tx.QueryRow(ctx, `
INSERT INTO games (room_id, status, config_json) VALUES ($1, $2, $3)
RETURNING id, created_at`, roomID, GameStatusWaiting, configJSON).Scan(&gameUUID, &game.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	game.ID = uuidToString(gameUUID)
	game.Config = unmarshalSettings(configJSON)
	for _, p := range players {
		if _, err := tx.Exec(ctx, insertGamePlayerSQL, gameUUID, p); err != nil {
			return nil, fmt.Errorf("create game player: %w", err)
		}
	}
	if _, err := tx.Exec(ctx, insertSnapshotSQL, gameUUID, 1, LobbyPhase, LobbyStateJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}
	return game, nil
}

const gameColumns = `id, room_id, status, config_json, created_at, ended_at`

func scanGame(row pgx.Row) (*Game, pgtype.UUID, error) {
	var id, roomID pgtype.UUID
	var configJSON []byte
	var endedAt pgtype.Timestamptz
	g := &Game{}
	if err := row.Scan(&id, &roomID, &g.Status, &configJSON, &g.CreatedAt, &endedAt); err != nil {
		if isNoRows(err) {
			return nil, id, ErrNotFound
		}
		return nil, id, fmt.Errorf("scan game: %w", err)
	}
	g.ID = uuidToString(id)
	g.RoomID = uuidToString(roomID)
	g.Config = unmarshalSettings(configJSON)
	g.EndedAt = timestamptzPtr(endedAt)
	return g, id, nil
}

func latestGame(ctx context.Context, q pgxQuerier, roomID pgtype.UUID) (*Game, pgtype.UUID, error) {
	return scanGame(q.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE room_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, roomID))
}

// CreateGame starts a new waiting game in the room with every room player seated.
func (s *GameStore) CreateGame(ctx context.Context, req CreateGameRequest) (*Game, error) {
	configJSON, err := marshalSettings(req.Config)
	if err != nil {
		return nil, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var roomUUID pgtype.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM rooms WHERE code = $1 FOR UPDATE`, req.Code).Scan(&roomUUID); err != nil {
		if isNoRows(err) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room by code: %w", err)
	}
	current, _, err := latestGame(ctx, tx, roomUUID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if current != nil && current.Status == GameStatusInProgress {
		return nil, ErrGameInProgress
	}

	rows, err := tx.Query(ctx, `SELECT id FROM room_players WHERE room_id = $1 ORDER BY created_at, id`, roomUUID)
	if err != nil {
		return nil, fmt.Errorf("get room players: %w", err)
	}
	players, err := pgx.CollectRows(rows, pgx.RowTo[pgtype.UUID])
	if err != nil {
		return nil, fmt.Errorf("get room players: %w", err)
	}
	if len(players) == 0 {
		return nil, ErrRoomEmpty
	}

	game, err := insertGame(ctx, tx, roomUUID, configJSON, players)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return game, nil
}

// GetGame returns the game with the given id.
func (s *GameStore) GetGame(ctx context.Context, gameID string) (*Game, error) {
	gameUUID, err := stringToUUID(gameID)
	if err != nil {
		return nil, ErrNotFound
	}
	g, _, err := scanGame(s.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, gameUUID))
	return g, err
}

// GetLatestGameForRoom returns the most recently created game for the room, or ErrNotFound.
func (s *GameStore) GetLatestGameForRoom(ctx context.Context, roomID string) (*Game, error) {
	roomUUID, err := stringToUUID(roomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room_id: %w", err)
	}
	g, _, err := latestGame(ctx, s.pool, roomUUID)
	return g, err
}

// GetSnapshot returns the latest snapshot of the game, or ErrNotFound.
func (s *GameStore) GetSnapshot(ctx context.Context, gameID string) (*Snapshot, error) {
	gameUUID, err := stringToUUID(gameID)
	if err != nil {
		return nil, ErrNotFound
	}
	snap := &Snapshot{GameID: gameID}
	err = s.pool.QueryRow(ctx, `
SELECT version, phase, state_json, created_at FROM game_state_snapshots
WHERE game_id = $1 ORDER BY version DESC LIMIT 1`, gameUUID).Scan(&snap.Version, &snap.Phase, &snap.State, &snap.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

// casSnapshotSQL writes version+1 only if the expected version and phase are the current base.
// The unique (game_id, version) key rejects a second writer from the same base.
const casSnapshotSQL = `
INSERT INTO game_state_snapshots (game_id, version, phase, state_json)
SELECT $1::uuid, $2::int + 1, $4::text, $5::jsonb
WHERE EXISTS (
    SELECT 1 FROM game_state_snapshots WHERE game_id = $1::uuid AND version = $2::int AND phase = $3::text
)
ON CONFLICT (game_id, version) DO NOTHING`

// UpdateSnapshot performs the conditional write and updates the game status in the same transaction.
// It returns the new version, or ErrConflict when the base moved on.
func (s *GameStore) UpdateSnapshot(ctx context.Context, u SnapshotUpdate) (int32, error) {
	gameUUID, err := stringToUUID(u.GameID)
	if err != nil {
		return 0, ErrNotFound
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, casSnapshotSQL, gameUUID, u.ExpectedVersion, u.ExpectedPhase, u.Phase, u.State)
	if err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrConflict
	}
	if u.Status != "" {
		_, err = tx.Exec(ctx, `
UPDATE games SET status = $2,
    ended_at = CASE WHEN $2 = 'finished' THEN COALESCE(ended_at, now()) ELSE ended_at END
WHERE id = $1`, gameUUID, u.Status)
		if err != nil {
			return 0, fmt.Errorf("update game status: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return u.ExpectedVersion + 1, nil
}

// GetGamePlayerIDsInOrder returns the game's room_player ids in room join order.
func (s *GameStore) GetGamePlayerIDsInOrder(ctx context.Context, gameID string) ([]string, error) {
	_, order, err := s.players(ctx, gameID)
	return order, err
}

// DisplayNames maps each room_player id of the game to its display name.
func (s *GameStore) DisplayNames(ctx context.Context, gameID string) (map[string]string, error) {
	names, _, err := s.players(ctx, gameID)
	return names, err
}

func (s *GameStore) players(ctx context.Context, gameID string) (map[string]string, []string, error) {
	gameUUID, err := stringToUUID(gameID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	rows, err := s.pool.Query(ctx, `
SELECT rp.id, rp.display_name
FROM game_players gp JOIN room_players rp ON rp.id = gp.room_player_id
WHERE gp.game_id = $1 AND gp.left_at IS NULL
ORDER BY rp.created_at, rp.id`, gameUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("get game players: %w", err)
	}
	defer rows.Close()
	names := make(map[string]string)
	var order []string
	for rows.Next() {
		var id pgtype.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, fmt.Errorf("scan game player: %w", err)
		}
		sid := uuidToString(id)
		names[sid] = name
		order = append(order, sid)
	}
	return names, order, rows.Err()
}

// ListGameIDsInPhases returns unfinished games whose latest snapshot is in one of phases.
func (s *GameStore) ListGameIDsInPhases(ctx context.Context, phases ...string) ([]string, error) {
	if len(phases) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
SELECT g.id FROM games g
JOIN LATERAL (
    SELECT phase FROM game_state_snapshots s WHERE s.game_id = g.id ORDER BY version DESC LIMIT 1
) latest ON true
WHERE g.status = $1 AND latest.phase = ANY($2)
ORDER BY g.created_at`, GameStatusInProgress, phases)
	if err != nil {
		return nil, fmt.Errorf("list games by phase: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[pgtype.UUID])
	if err != nil {
		return nil, fmt.Errorf("list games by phase: %w", err)
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = uuidToString(id)
	}
	return out, nil
}

// DecodeConfig unmarshals the game's stored config into v.
func (g *Game) DecodeConfig(v any) error {
	if len(g.Config) == 0 {
		return nil
	}
	b, err := json.Marshal(g.Config)
	if err != nil {
		return fmt.Errorf("marshal game config: %w", err)
	}
	return json.Unmarshal(b, v)
}
