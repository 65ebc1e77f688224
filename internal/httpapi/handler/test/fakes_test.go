package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/shadowquest/internal/auth"
	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/httpapi/handler"
	"github.com/vntrieu/shadowquest/internal/store"
)

var testSecret = []byte("handler-test-secret")

type fakeRooms struct {
	rooms   map[string]*store.Room // by code
	players map[string][]store.RoomPlayer
	joinErr error
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{rooms: map[string]*store.Room{}, players: map[string][]store.RoomPlayer{}}
}

func (f *fakeRooms) addRoom(code string, players ...store.RoomPlayer) *store.Room {
	room := &store.Room{ID: "room-" + code, Code: code}
	f.rooms[code] = room
	for _, p := range players {
		p.RoomID = room.ID
		f.players[code] = append(f.players[code], p)
	}
	return room
}

func (f *fakeRooms) CreateRoom(ctx context.Context, req store.CreateRoomRequest) (*store.CreateRoomResponse, error) {
	room := f.addRoom("NEW234", store.RoomPlayer{ID: "host-1", DisplayName: req.DisplayName, IsHost: true})
	host := f.players["NEW234"][0]
	return &store.CreateRoomResponse{Room: room, RoomPlayer: &host, Game: &store.Game{ID: "game-1", RoomID: room.ID, Status: store.GameStatusWaiting}}, nil
}

func (f *fakeRooms) JoinRoom(ctx context.Context, req store.JoinRoomRequest) (*store.JoinRoomResponse, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	room, ok := f.rooms[req.Code]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	p := store.RoomPlayer{ID: "joined-1", RoomID: room.ID, DisplayName: req.DisplayName}
	f.players[req.Code] = append(f.players[req.Code], p)
	return &store.JoinRoomResponse{Room: room, RoomPlayer: &p}, nil
}

func (f *fakeRooms) GetRoom(ctx context.Context, code string) (*store.Room, error) {
	room, ok := f.rooms[code]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeRooms) GetRoomPlayerInRoom(ctx context.Context, code, id string) (*store.RoomPlayer, error) {
	if _, ok := f.rooms[code]; !ok {
		return nil, store.ErrRoomNotFound
	}
	for _, p := range f.players[code] {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, store.ErrPlayerNotInRoom
}

func (f *fakeRooms) ListRoomPlayers(ctx context.Context, code string) ([]store.RoomPlayer, error) {
	return f.players[code], nil
}

type fakeGames struct {
	games     map[string]*store.Game // by id
	createErr error
	created   []store.CreateGameRequest
}

func (f *fakeGames) CreateGame(ctx context.Context, req store.CreateGameRequest) (*store.Game, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &store.Game{ID: "game-new", RoomID: "room-" + req.Code, Status: store.GameStatusWaiting, Config: req.Config}, nil
}

func (f *fakeGames) GetGame(ctx context.Context, id string) (*store.Game, error) {
	if g, ok := f.games[id]; ok {
		return g, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeGames) GetLatestGameForRoom(ctx context.Context, roomID string) (*store.Game, error) {
	for _, g := range f.games {
		if g.RoomID == roomID {
			return g, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeViewer struct {
	views map[string]*games.PlayerView
	err   error
}

func (f *fakeViewer) View(ctx context.Context, gameID, playerID string) (*games.PlayerView, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.views[playerID]
	if !ok {
		return nil, games.ErrNotInGame
	}
	return v, nil
}

func bearer(t *testing.T, roomID, playerID string) string {
	t.Helper()
	tok, _, err := auth.GenerateToken(roomID, playerID, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

// serve routes one request through a chi router so path parameters resolve.
func serve(pattern, method string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

var _ handler.RoomStore = (*fakeRooms)(nil)
var _ handler.GameStore = (*fakeGames)(nil)
