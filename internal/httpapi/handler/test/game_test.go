package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/httpapi/handler"
	"github.com/vntrieu/shadowquest/internal/rules"
	"github.com/vntrieu/shadowquest/internal/store"
)

func newGameHandler() (*handler.GameHandler, *fakeRooms, *fakeGames, *fakeViewer) {
	rooms := newFakeRooms()
	rooms.addRoom("ABC234",
		store.RoomPlayer{ID: "host-1", DisplayName: "Host", IsHost: true},
		store.RoomPlayer{ID: "guest-1", DisplayName: "Guest"},
	)
	gs := &fakeGames{games: map[string]*store.Game{
		"g1": {ID: "g1", RoomID: "room-ABC234", Status: store.GameStatusInProgress},
	}}
	viewer := &fakeViewer{views: map[string]*games.PlayerView{
		"host-1": {View: rules.View{PlayerID: "host-1", Role: rules.RoleSeer, Alignment: rules.Good}, Phase: rules.PhaseTeamBuilding},
	}}
	return handler.NewGameHandler(gs, rooms, viewer, testSecret), rooms, gs, viewer
}

func TestCreateGame(t *testing.T) {
	const pattern = "/api/rooms/{code}/games"

	t.Run("host opens game", func(t *testing.T) {
		h, _, gs, _ := newGameHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/ABC234/games", jsonBody(`{"config":{"protector":true,"quiz":true}}`))
		req.Header.Set("Authorization", bearer(t, "room-ABC234", "host-1"))
		w := serve(pattern, http.MethodPost, h.CreateGame, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if len(gs.created) != 1 || gs.created[0].Code != "ABC234" || gs.created[0].Config["protector"] != true {
			t.Errorf("unexpected create request %+v", gs.created)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		h, _, _, _ := newGameHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/ABC234/games", nil)
		req.Header.Set("Authorization", bearer(t, "room-ABC234", "host-1"))
		if w := serve(pattern, http.MethodPost, h.CreateGame, req); w.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	tests := []struct {
		name      string
		token     func(t *testing.T) string
		code      string
		body      string
		createErr error
		status    int
		errCode   string
	}{
		{"missing token", func(*testing.T) string { return "" }, "ABC234", `{}`, nil, http.StatusUnauthorized, "missing_token"},
		{"bad token", func(*testing.T) string { return "Bearer junk" }, "ABC234", `{}`, nil, http.StatusUnauthorized, "invalid_token"},
		{"not host", func(t *testing.T) string { return bearer(t, "room-ABC234", "guest-1") }, "ABC234", `{}`, nil, http.StatusForbidden, "not_host"},
		{"unknown room", func(t *testing.T) string { return bearer(t, "room-ZZZ999", "host-1") }, "ZZZ999", `{}`, nil, http.StatusNotFound, "room_not_found"},
		{"token for other room", func(t *testing.T) string { return bearer(t, "room-OTHER1", "host-1") }, "ABC234", `{}`, nil, http.StatusUnauthorized, "not_in_room"},
		{"stranger", func(t *testing.T) string { return bearer(t, "room-ABC234", "nobody") }, "ABC234", `{}`, nil, http.StatusUnauthorized, "not_in_room"},
		{"bad config", func(t *testing.T) string { return bearer(t, "room-ABC234", "host-1") }, "ABC234", `{"config":{"protector":"yes"}}`, nil, http.StatusBadRequest, "bad_payload"},
		{"in progress", func(t *testing.T) string { return bearer(t, "room-ABC234", "host-1") }, "ABC234", `{}`, store.ErrGameInProgress, http.StatusConflict, "game_in_progress"},
		{"empty room", func(t *testing.T) string { return bearer(t, "room-ABC234", "host-1") }, "ABC234", `{}`, store.ErrRoomEmpty, http.StatusBadRequest, "room_empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, gs, _ := newGameHandler()
			gs.createErr = tt.createErr
			req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+tt.code+"/games", jsonBody(tt.body))
			if tok := tt.token(t); tok != "" {
				req.Header.Set("Authorization", tok)
			}
			w := serve(pattern, http.MethodPost, h.CreateGame, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if e := decodeError(t, w); e.Code != tt.errCode {
				t.Errorf("code %q, want %q", e.Code, tt.errCode)
			}
		})
	}
}

func TestGetView(t *testing.T) {
	const pattern = "/api/games/{game_id}/view"

	t.Run("own view", func(t *testing.T) {
		h, _, _, _ := newGameHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/games/g1/view", nil)
		req.Header.Set("Authorization", bearer(t, "room-ABC234", "host-1"))
		w := serve(pattern, http.MethodGet, h.GetView, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var view games.PlayerView
		if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
			t.Fatal(err)
		}
		if view.Role != rules.RoleSeer || view.PlayerID != "host-1" {
			t.Errorf("unexpected view %+v", view)
		}
	})

	tests := []struct {
		name    string
		path    string
		roomID  string
		player  string
		viewErr error
		status  int
	}{
		{"unknown game", "/api/games/nope/view", "room-ABC234", "host-1", nil, http.StatusNotFound},
		{"other room", "/api/games/g1/view", "room-OTHER1", "host-1", nil, http.StatusForbidden},
		{"not in game", "/api/games/g1/view", "room-ABC234", "guest-1", nil, http.StatusForbidden},
		{"not started", "/api/games/g1/view", "room-ABC234", "host-1", rules.NewError(rules.KindState, "not_started", "game has not started"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _, viewer := newGameHandler()
			viewer.err = tt.viewErr
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", bearer(t, tt.roomID, tt.player))
			if w := serve(pattern, http.MethodGet, h.GetView, req); w.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}

	t.Run("no token", func(t *testing.T) {
		h, _, _, _ := newGameHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/games/g1/view", nil)
		if w := serve(pattern, http.MethodGet, h.GetView, req); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/config/validate", jsonBody(`{"player_count":5,"config":{"protector":true}}`))
		w := httptest.NewRecorder()
		handler.ValidateConfig(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp handler.ValidateConfigResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Valid || resp.Good != 3 || resp.Evil != 2 || len(resp.Quests) != rules.QuestsPerGame {
			t.Errorf("unexpected response %+v", resp)
		}
		if resp.Quests[0].TeamSize != 2 {
			t.Errorf("first quest size %d", resp.Quests[0].TeamSize)
		}
		if len(resp.Warnings) == 0 {
			t.Error("expected protector-without-deceiver warning")
		}
	})

	t.Run("unsupported player count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/config/validate", jsonBody(`{"player_count":4}`))
		w := httptest.NewRecorder()
		handler.ValidateConfig(w, req)
		var resp handler.ValidateConfigResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Valid || len(resp.Errors) != 1 || resp.Errors[0].Code != "player_count" || resp.Quests != nil {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/config/validate", jsonBody(`[]`))
		w := httptest.NewRecorder()
		handler.ValidateConfig(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestStatusForKind(t *testing.T) {
	tests := map[rules.Kind]int{
		rules.KindValidation:    http.StatusBadRequest,
		rules.KindState:         http.StatusConflict,
		games.KindConflict:      http.StatusConflict,
		rules.KindEligibility:   http.StatusForbidden,
		games.KindForbidden:     http.StatusForbidden,
		rules.KindConfiguration: http.StatusUnprocessableEntity,
		games.KindNotFound:      http.StatusNotFound,
		games.KindInternal:      http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := handler.StatusForKind(kind); got != want {
			t.Errorf("%s: got %d want %d", kind, got, want)
		}
	}
}
