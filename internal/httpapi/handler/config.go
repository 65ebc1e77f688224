package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/rules"
)

// ValidateConfigRequest is the body for POST /api/config/validate.
type ValidateConfigRequest struct {
	PlayerCount int            `json:"player_count"`
	Config      map[string]any `json:"config"`
}

// ValidateConfigResponse reports the verdict and, when valid, the quest schedule and team split.
type ValidateConfigResponse struct {
	rules.Validation
	Quests []rules.Quest `json:"quests,omitempty"`
	Good   int           `json:"good,omitempty"`
	Evil   int           `json:"evil,omitempty"`
}

// ValidateConfig handles POST /api/config/validate. An invalid configuration is still a 200: the
// errors and warnings are the answer.
//
// @Summary      Validate role configuration
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body      ValidateConfigRequest  true  "Configuration and player count"
// @Success      200   {object}  ValidateConfigResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /api/config/validate [post]
func ValidateConfig(w http.ResponseWriter, r *http.Request) {
	var req ValidateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation", "bad_body", "invalid request body")
		return
	}
	cfg, err := games.DecodeRoleConfiguration(req.Config)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	resp := ValidateConfigResponse{Validation: rules.ValidateConfiguration(cfg, req.PlayerCount)}
	if resp.Valid {
		capacity := rules.CapacityFor(req.PlayerCount)
		resp.Good, resp.Evil = capacity.Good, capacity.Evil
		quests, err := rules.Schedule(req.PlayerCount)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		resp.Quests = quests
	}
	writeJSON(w, r, http.StatusOK, resp)
}
