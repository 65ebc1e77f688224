package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/shadowquest/internal/auth"
	"github.com/vntrieu/shadowquest/internal/store"
)

// Validation limits for room endpoints.
const (
	DisplayNameMaxLen = 32
	PasswordMaxLen    = 72 // bcrypt ignores anything longer
)

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// RoomStore is the room persistence the handlers use; *store.RoomStore implements it.
type RoomStore interface {
	CreateRoom(ctx context.Context, req store.CreateRoomRequest) (*store.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, req store.JoinRoomRequest) (*store.JoinRoomResponse, error)
	GetRoom(ctx context.Context, code string) (*store.Room, error)
	GetRoomPlayerInRoom(ctx context.Context, code, roomPlayerID string) (*store.RoomPlayer, error)
	ListRoomPlayers(ctx context.Context, code string) ([]store.RoomPlayer, error)
}

// LatestGameLookup finds the current game of a room.
type LatestGameLookup interface {
	GetLatestGameForRoom(ctx context.Context, roomID string) (*store.Game, error)
}

// GetRoomResponse is the body of GET /api/rooms/{code}.
type GetRoomResponse struct {
	Room       *store.Room        `json:"room"`
	Players    []store.RoomPlayer `json:"players"`
	LatestGame *store.Game        `json:"latest_game,omitempty"`
}

// RoomHandler handles room-related HTTP requests.
type RoomHandler struct {
	rooms       RoomStore
	games       LatestGameLookup
	tokenSecret []byte
	tokenExpiry time.Duration
}

// NewRoomHandler creates a RoomHandler. Create and join responses carry a session token signed with
// tokenSecret; tokenExpiry <= 0 uses auth.DefaultTokenExpiry.
func NewRoomHandler(rooms RoomStore, lookup LatestGameLookup, tokenSecret []byte, tokenExpiry time.Duration) *RoomHandler {
	if tokenExpiry <= 0 {
		tokenExpiry = auth.DefaultTokenExpiry
	}
	return &RoomHandler{rooms: rooms, games: lookup, tokenSecret: tokenSecret, tokenExpiry: tokenExpiry}
}

func validateDisplayName(displayName string) string {
	s := strings.TrimSpace(displayName)
	if s == "" {
		return "display_name is required"
	}
	if utf8.RuneCountInString(s) > DisplayNameMaxLen {
		return fmt.Sprintf("display_name must be at most %d characters", DisplayNameMaxLen)
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) > PasswordMaxLen {
		return fmt.Sprintf("password must be at most %d bytes", PasswordMaxLen)
	}
	return ""
}

// roomCode reads the {code} path parameter in canonical upper case.
func roomCode(r *http.Request) (string, bool) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	return code, roomCodePattern.MatchString(code)
}

func (h *RoomHandler) issueToken(roomID, playerID string) (string, *time.Time, error) {
	token, expiresAt, err := auth.GenerateToken(roomID, playerID, h.tokenSecret, h.tokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, &expiresAt, nil
}

// CreateRoom handles POST /api/rooms
//
// @Summary      Create room
// @Description  Create a room and its first waiting game. The requester becomes the host.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        body  body      store.CreateRoomRequest   true  "Request body"
// @Success      201   {object}  store.CreateRoomResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      429   {string}  string  "Rate limited"
// @Failure      500   {object}  ErrorResponse
// @Router       /api/rooms [post]
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req store.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation", "bad_body", "invalid request body")
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		writeError(w, r, http.StatusBadRequest, "validation", "display_name", msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, r, http.StatusBadRequest, "validation", "password", msg)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	resp, err := h.rooms.CreateRoom(r.Context(), req)
	if err != nil {
		writeInternal(w, r, "failed to create room", err)
		return
	}
	if resp.Token, resp.ExpiresAt, err = h.issueToken(resp.Room.ID, resp.RoomPlayer.ID); err != nil {
		writeInternal(w, r, "failed to issue token", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// JoinRoom handles POST /api/rooms/{code}/join
//
// @Summary      Join room
// @Description  Join an existing room. A waiting game also gains the new player.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code  path      string                    true   "Room code (6 alphanumeric)"
// @Param        body  body      store.JoinRoomRequest     true   "Request body (code in path, not body)"
// @Success      200   {object}  store.JoinRoomResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse  "Password required or invalid"
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "Display name already taken in this room"
// @Router       /api/rooms/{code}/join [post]
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code, ok := roomCode(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "validation", "room_code", "invalid room code format")
		return
	}
	var req store.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation", "bad_body", "invalid request body")
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		writeError(w, r, http.StatusBadRequest, "validation", "display_name", msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, r, http.StatusBadRequest, "validation", "password", msg)
		return
	}
	req.Code = code
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	resp, err := h.rooms.JoinRoom(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrRoomNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "room_not_found", err.Error())
		return
	case errors.Is(err, store.ErrPasswordRequired):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "password_required", err.Error())
		return
	case errors.Is(err, store.ErrInvalidPassword):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "invalid_password", err.Error())
		return
	case errors.Is(err, store.ErrDisplayNameTaken):
		writeError(w, r, http.StatusConflict, "conflict", "display_name_taken", err.Error())
		return
	default:
		writeInternal(w, r, "failed to join room", err)
		return
	}
	if resp.Token, resp.ExpiresAt, err = h.issueToken(resp.Room.ID, resp.RoomPlayer.ID); err != nil {
		writeInternal(w, r, "failed to issue token", err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetRoom handles GET /api/rooms/{code}
//
// @Summary      Get room
// @Description  Room details, its players and the latest game. No authentication required.
// @Tags         rooms
// @Produce      json
// @Param        code  path      string  true  "Room code (6 alphanumeric)"
// @Success      200   {object}  GetRoomResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/rooms/{code} [get]
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code, ok := roomCode(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "validation", "room_code", "invalid room code format")
		return
	}
	room, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "room_not_found", err.Error())
			return
		}
		writeInternal(w, r, "failed to get room", err)
		return
	}
	players, err := h.rooms.ListRoomPlayers(r.Context(), code)
	if err != nil {
		writeInternal(w, r, "failed to list players", err)
		return
	}
	resp := GetRoomResponse{Room: room, Players: players}
	if resp.Players == nil {
		resp.Players = []store.RoomPlayer{}
	}
	game, err := h.games.GetLatestGameForRoom(r.Context(), room.ID)
	switch {
	case err == nil:
		resp.LatestGame = game
	case !errors.Is(err, store.ErrNotFound):
		writeInternal(w, r, "failed to get latest game", err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
