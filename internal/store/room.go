package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Room is a lobby that hosts successive games.
type Room struct {
	ID           string         `json:"id"`
	Code         string         `json:"code"`
	PasswordHash *string        `json:"-"`
	Settings     map[string]any `json:"settings"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// HasPassword reports whether joining needs a password.
func (r *Room) HasPassword() bool {
	return r.PasswordHash != nil
}

// RoomPlayer is a seat in a room, identified across its games.
type RoomPlayer struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoomRequest contains the data needed to create a room.
type CreateRoomRequest struct {
	Password    string         `json:"password,omitempty"`
	DisplayName string         `json:"display_name"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// CreateRoomResponse is the new room, its host and the waiting game.
// Token and ExpiresAt are filled in by the HTTP handler.
type CreateRoomResponse struct {
	Room       *Room       `json:"room"`
	RoomPlayer *RoomPlayer `json:"room_player"`
	Game       *Game       `json:"game"`
	Token      string      `json:"token,omitempty"`
	ExpiresAt  *time.Time  `json:"expires_at,omitempty"`
}

// JoinRoomRequest contains the data needed to join a room.
type JoinRoomRequest struct {
	Code        string `json:"code"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name"`
}

// JoinRoomResponse is the joined room and the new player. LatestGame is set when the player was
// also added to the room's current game.
type JoinRoomResponse struct {
	Room       *Room       `json:"room"`
	RoomPlayer *RoomPlayer `json:"room_player"`
	LatestGame *Game       `json:"latest_game,omitempty"`
	Token      string      `json:"token,omitempty"`
	ExpiresAt  *time.Time  `json:"expires_at,omitempty"`
}

// RoomStore handles database operations for rooms.
type RoomStore struct {
	pool *pgxpool.Pool
}

// NewRoomStore creates a new RoomStore.
func NewRoomStore(pool *pgxpool.Pool) *RoomStore {
	return &RoomStore{pool: pool}
}

const roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I

const roomCodeLength = 6

// generateRoomCode returns a random human-readable room code.
func generateRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return string(buf), nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func marshalSettings(settings map[string]any) ([]byte, error) {
	if len(settings) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return b, nil
}

func unmarshalSettings(b []byte) map[string]any {
	settings := make(map[string]any)
	if len(b) > 0 {
		_ = json.Unmarshal(b, &settings)
	}
	return settings
}

const insertRoomPlayerSQL = `
INSERT INTO room_players (room_id, display_name, is_host)
VALUES ($1, $2, $3)
RETURNING id, created_at`

func insertRoomPlayer(ctx context.Context, tx pgx.Tx, roomID pgtype.UUID, name string, host bool) (*RoomPlayer, pgtype.UUID, error) {
	var id pgtype.UUID
	var createdAt time.Time
	if err := tx.QueryRow(ctx, insertRoomPlayerSQL, roomID, name, host).Scan(&id, &createdAt); err != nil {
		if isUniqueViolation(err) {
			return nil, id, ErrDisplayNameTaken
		}
		return nil, id, fmt.Errorf("insert room player: %w", err)
	}
	return &RoomPlayer{
		ID:          uuidToString(id),
		RoomID:      uuidToString(roomID),
		DisplayName: name,
		IsHost:      host,
		CreatedAt:   createdAt,
	}, id, nil
}

// CreateRoom creates a room, its host player and a waiting game holding the lobby snapshot.
func (s *RoomStore) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	if req.DisplayName == "" {
		return nil, ErrDisplayNameNeeded
	}
	var passwordHash *string
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}
	settingsJSON, err := marshalSettings(req.Settings)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	room := &Room{PasswordHash: passwordHash, Settings: unmarshalSettings(settingsJSON)}
	var roomUUID pgtype.UUID
	for attempt := 0; ; attempt++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, err
		}
		err = tx.QueryRow(ctx, `
INSERT INTO rooms (code, password_hash, settings_json)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO NOTHING
RETURNING id, created_at, updated_at`, code, passwordHash, settingsJSON).Scan(&roomUUID, &room.CreatedAt, &room.UpdatedAt)
		if err == nil {
			room.Code = code
			break
		}
		if !isNoRows(err) || attempt >= 10 {
			return nil, fmt.Errorf("insert room: %w", err)
		}
	}
	room.ID = uuidToString(roomUUID)

	host, hostUUID, err := insertRoomPlayer(ctx, tx, roomUUID, req.DisplayName, true)
	if err != nil {
		return nil, err
	}
	game, err := insertGame(ctx, tx, roomUUID, []byte("{}"), []pgtype.UUID{hostUUID})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &CreateRoomResponse{Room: room, RoomPlayer: host, Game: game}, nil
}

const roomByCodeSQL = `
SELECT id, code, password_hash, settings_json, created_at, updated_at
FROM rooms WHERE code = $1`

func (s *RoomStore) roomByCode(ctx context.Context, q pgxQuerier, code string) (*Room, pgtype.UUID, error) {
	var id pgtype.UUID
	var settings []byte
	room := &Room{}
	err := q.QueryRow(ctx, roomByCodeSQL, code).Scan(&id, &room.Code, &room.PasswordHash, &settings, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, id, ErrRoomNotFound
		}
		return nil, id, fmt.Errorf("get room by code: %w", err)
	}
	room.ID = uuidToString(id)
	room.Settings = unmarshalSettings(settings)
	return room, id, nil
}

// JoinRoom adds a player to the room. The player also joins the latest game while it is still waiting.
func (s *RoomStore) JoinRoom(ctx context.Context, req JoinRoomRequest) (*JoinRoomResponse, error) {
	if req.DisplayName == "" {
		return nil, ErrDisplayNameNeeded
	}
	room, roomUUID, err := s.roomByCode(ctx, s.pool, req.Code)
	if err != nil {
		return nil, err
	}
	if room.PasswordHash != nil {
		if req.Password == "" {
			return nil, ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*room.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrInvalidPassword
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	player, playerUUID, err := insertRoomPlayer(ctx, tx, roomUUID, req.DisplayName, false)
	if err != nil {
		return nil, err
	}
	game, gameUUID, err := latestGame(ctx, tx, roomUUID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if game != nil && game.Status == GameStatusWaiting {
		if _, err := tx.Exec(ctx, insertGamePlayerSQL, gameUUID, playerUUID); err != nil {
			return nil, fmt.Errorf("create game player: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &JoinRoomResponse{Room: room, RoomPlayer: player, LatestGame: game}, nil
}

// GetRoom returns the room with the given code.
func (s *RoomStore) GetRoom(ctx context.Context, code string) (*Room, error) {
	room, _, err := s.roomByCode(ctx, s.pool, code)
	return room, err
}

// GetRoomPlayerInRoom returns the room player if they belong to the room identified by code.
func (s *RoomStore) GetRoomPlayerInRoom(ctx context.Context, code, roomPlayerID string) (*RoomPlayer, error) {
	playerUUID, err := stringToUUID(roomPlayerID)
	if err != nil {
		return nil, ErrPlayerNotInRoom
	}
	var id, roomUUID pgtype.UUID
	p := &RoomPlayer{}
	err = s.pool.QueryRow(ctx, `
SELECT rp.id, rp.room_id, rp.display_name, rp.is_host, rp.created_at
FROM room_players rp JOIN rooms r ON r.id = rp.room_id
WHERE r.code = $1 AND rp.id = $2`, code, playerUUID).Scan(&id, &roomUUID, &p.DisplayName, &p.IsHost, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			if _, _, rerr := s.roomByCode(ctx, s.pool, code); rerr != nil {
				return nil, rerr
			}
			return nil, ErrPlayerNotInRoom
		}
		return nil, fmt.Errorf("get room player: %w", err)
	}
	p.ID = uuidToString(id)
	p.RoomID = uuidToString(roomUUID)
	return p, nil
}

// ListRoomPlayers returns the room's players in join order.
func (s *RoomStore) ListRoomPlayers(ctx context.Context, code string) ([]RoomPlayer, error) {
	rows, err := s.pool.Query(ctx, `
SELECT rp.id, rp.room_id, rp.display_name, rp.is_host, rp.created_at
FROM room_players rp JOIN rooms r ON r.id = rp.room_id
WHERE r.code = $1
ORDER BY rp.created_at, rp.id`, code)
	if err != nil {
		return nil, fmt.Errorf("list room players: %w", err)
	}
	defer rows.Close()
	var out []RoomPlayer
	for rows.Next() {
		var id, roomUUID pgtype.UUID
		var p RoomPlayer
		if err := rows.Scan(&id, &roomUUID, &p.DisplayName, &p.IsHost, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room player: %w", err)
		}
		p.ID = uuidToString(id)
		p.RoomID = uuidToString(roomUUID)
		out = append(out, p)
	}
	return out, rows.Err()
}
