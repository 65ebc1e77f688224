package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vntrieu/shadowquest/internal/auth"
	"github.com/vntrieu/shadowquest/internal/httpapi/handler"
	"github.com/vntrieu/shadowquest/internal/store"
)

func newRoomHandler() (*handler.RoomHandler, *fakeRooms, *fakeGames) {
	rooms := newFakeRooms()
	gs := &fakeGames{games: map[string]*store.Game{}}
	return handler.NewRoomHandler(rooms, gs, testSecret, 0), rooms, gs
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var e handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestCreateRoom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, _, _ := newRoomHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", jsonBody(`{"display_name":"  Alice  "}`))
		w := httptest.NewRecorder()
		h.CreateRoom(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}
		var resp store.CreateRoomResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.RoomPlayer == nil || resp.RoomPlayer.DisplayName != "Alice" || !resp.RoomPlayer.IsHost {
			t.Errorf("unexpected host %+v", resp.RoomPlayer)
		}
		if resp.ExpiresAt == nil {
			t.Error("expected expires_at")
		}
		claims, err := auth.VerifyToken(resp.Token, testSecret)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if claims.RoomID != resp.Room.ID || claims.RoomPlayerID != resp.RoomPlayer.ID {
			t.Errorf("claims %+v do not match room %s player %s", claims, resp.Room.ID, resp.RoomPlayer.ID)
		}
	})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad json", `{`, "bad_body"},
		{"missing name", `{"display_name":"   "}`, "display_name"},
		{"long name", `{"display_name":"` + strings.Repeat("x", handler.DisplayNameMaxLen+1) + `"}`, "display_name"},
		{"long password", `{"display_name":"A","password":"` + strings.Repeat("p", handler.PasswordMaxLen+1) + `"}`, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newRoomHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/rooms", jsonBody(tt.body))
			w := httptest.NewRecorder()
			h.CreateRoom(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if e := decodeError(t, w); e.Code != tt.code || e.Kind != "validation" {
				t.Errorf("got %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestJoinRoom(t *testing.T) {
	const pattern = "/api/rooms/{code}/join"

	t.Run("success with lower case code", func(t *testing.T) {
		h, rooms, _ := newRoomHandler()
		room := rooms.addRoom("ABC234", store.RoomPlayer{ID: "host-1", DisplayName: "Host", IsHost: true})
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/abc234/join", jsonBody(`{"display_name":"Bob"}`))
		w := serve(pattern, http.MethodPost, h.JoinRoom, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp store.JoinRoomResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Room.ID != room.ID || resp.RoomPlayer.DisplayName != "Bob" || resp.RoomPlayer.IsHost {
			t.Errorf("unexpected response %+v", resp)
		}
		if _, err := auth.VerifyToken(resp.Token, testSecret); err != nil {
			t.Errorf("token: %v", err)
		}
	})

	t.Run("invalid code", func(t *testing.T) {
		h, _, _ := newRoomHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/AB/join", jsonBody(`{"display_name":"Bob"}`))
		if w := serve(pattern, http.MethodPost, h.JoinRoom, req); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		h, _, _ := newRoomHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/ZZZ999/join", jsonBody(`{"display_name":"Bob"}`))
		if w := serve(pattern, http.MethodPost, h.JoinRoom, req); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	storeErrors := []struct {
		err    error
		status int
		code   string
	}{
		{store.ErrPasswordRequired, http.StatusUnauthorized, "password_required"},
		{store.ErrInvalidPassword, http.StatusUnauthorized, "invalid_password"},
		{store.ErrDisplayNameTaken, http.StatusConflict, "display_name_taken"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range storeErrors {
		t.Run(tt.code, func(t *testing.T) {
			h, rooms, _ := newRoomHandler()
			rooms.addRoom("ABC234")
			rooms.joinErr = tt.err
			req := httptest.NewRequest(http.MethodPost, "/api/rooms/ABC234/join", jsonBody(`{"display_name":"Bob","password":"x"}`))
			w := serve(pattern, http.MethodPost, h.JoinRoom, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if e := decodeError(t, w); e.Code != tt.code {
				t.Errorf("code %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestGetRoom(t *testing.T) {
	const pattern = "/api/rooms/{code}"

	t.Run("with players and game", func(t *testing.T) {
		h, rooms, gs := newRoomHandler()
		room := rooms.addRoom("ABC234",
			store.RoomPlayer{ID: "p1", DisplayName: "Host", IsHost: true},
			store.RoomPlayer{ID: "p2", DisplayName: "Guest"},
		)
		gs.games["g1"] = &store.Game{ID: "g1", RoomID: room.ID, Status: store.GameStatusInProgress}

		req := httptest.NewRequest(http.MethodGet, "/api/rooms/ABC234", nil)
		w := serve(pattern, http.MethodGet, h.GetRoom, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp handler.GetRoomResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Players) != 2 || resp.LatestGame == nil || resp.LatestGame.ID != "g1" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("without game", func(t *testing.T) {
		h, rooms, _ := newRoomHandler()
		rooms.addRoom("ABC234")
		req := httptest.NewRequest(http.MethodGet, "/api/rooms/ABC234", nil)
		w := serve(pattern, http.MethodGet, h.GetRoom, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "latest_game") {
			t.Errorf("unexpected latest_game in %s", w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"players":[]`) {
			t.Errorf("expected empty players array in %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		h, _, _ := newRoomHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/rooms/ABC234", nil)
		if w := serve(pattern, http.MethodGet, h.GetRoom, req); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
