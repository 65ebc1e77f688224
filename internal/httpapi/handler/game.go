package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/store"
)

// CreateGameRequest is the body for POST /api/rooms/{code}/games.
type CreateGameRequest struct {
	Config map[string]any `json:"config,omitempty"`
}

// GameStore is the game persistence the handlers use; *store.GameStore implements it.
type GameStore interface {
	CreateGame(ctx context.Context, req store.CreateGameRequest) (*store.Game, error)
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
}

// PlayerLookup resolves a room member; *store.RoomStore implements it.
type PlayerLookup interface {
	GetRoomPlayerInRoom(ctx context.Context, code, roomPlayerID string) (*store.RoomPlayer, error)
}

// Viewer builds a player's private view; *games.Engine implements it.
type Viewer interface {
	View(ctx context.Context, gameID, playerID string) (*games.PlayerView, error)
}

// GameHandler handles game-related HTTP requests.
type GameHandler struct {
	games       GameStore
	players     PlayerLookup
	viewer      Viewer
	tokenSecret []byte
}

// NewGameHandler creates a GameHandler. tokenSecret verifies the session bearer tokens.
func NewGameHandler(gameStore GameStore, players PlayerLookup, viewer Viewer, tokenSecret []byte) *GameHandler {
	return &GameHandler{games: gameStore, players: players, viewer: viewer, tokenSecret: tokenSecret}
}

// CreateGame handles POST /api/rooms/{code}/games
//
// @Summary      Create game
// @Description  Open a new waiting game with every room player. Host only; the previous game must be over.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        code  path      string             true   "Room code (6 alphanumeric)"
// @Param        body  body      CreateGameRequest  false  "Default role configuration"
// @Success      201   {object}  store.Game
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse  "Only the host can open a game"
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "A game is in progress"
// @Security     BearerAuth
// @Router       /api/rooms/{code}/games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	code, ok := roomCode(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "validation", "room_code", "invalid room code format")
		return
	}
	claims, err := sessionClaims(r, h.tokenSecret)
	if err != nil {
		writeUnauthorized(w, r, err)
		return
	}
	var body CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "validation", "bad_body", "invalid request body")
		return
	}
	if _, err := games.DecodeRoleConfiguration(body.Config); err != nil {
		writeEngineError(w, r, err)
		return
	}

	player, err := h.players.GetRoomPlayerInRoom(r.Context(), code, claims.RoomPlayerID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrRoomNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "room_not_found", err.Error())
		return
	case errors.Is(err, store.ErrPlayerNotInRoom):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "not_in_room", err.Error())
		return
	default:
		writeInternal(w, r, "failed to verify player", err)
		return
	}
	if player.RoomID != claims.RoomID {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "not_in_room", "token belongs to another room")
		return
	}
	if !player.IsHost {
		writeError(w, r, http.StatusForbidden, string(games.KindForbidden), "not_host", "only the host can open a new game")
		return
	}

	game, err := h.games.CreateGame(r.Context(), store.CreateGameRequest{Code: code, Config: body.Config})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrRoomNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "room_not_found", err.Error())
		return
	case errors.Is(err, store.ErrGameInProgress):
		writeError(w, r, http.StatusConflict, "state", "game_in_progress", err.Error())
		return
	case errors.Is(err, store.ErrRoomEmpty):
		writeError(w, r, http.StatusBadRequest, "validation", "room_empty", err.Error())
		return
	default:
		writeInternal(w, r, "failed to create game", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, game)
}

// GetView handles GET /api/games/{game_id}/view
//
// @Summary      Private view
// @Description  The caller's role, alignment and what the role lets them see.
// @Tags         games
// @Produce      json
// @Param        game_id  path      string  true  "Game ID"
// @Success      200      {object}  games.PlayerView
// @Failure      401      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Game not started"
// @Security     BearerAuth
// @Router       /api/games/{game_id}/view [get]
func (h *GameHandler) GetView(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r, h.tokenSecret)
	if err != nil {
		writeUnauthorized(w, r, err)
		return
	}
	gameID := chi.URLParam(r, "game_id")
	game, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeEngineError(w, r, games.ErrGameNotFound)
			return
		}
		writeInternal(w, r, "failed to get game", err)
		return
	}
	if game.RoomID != claims.RoomID {
		writeEngineError(w, r, games.ErrNotInGame)
		return
	}
	view, err := h.viewer.View(r.Context(), gameID, claims.RoomPlayerID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
