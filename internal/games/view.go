package games

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/rules"
)

// PlayerView is one player's private knowledge plus what the client needs to render it.
type PlayerView struct {
	rules.View
	Phase rules.Phase       `json:"phase"`
	Names map[string]string `json:"names,omitempty"`
	// Quiz is set while the player's quiz eligibility matters.
	Quiz *rules.Eligibility `json:"quiz,omitempty"`
}

// View computes what playerID privately knows in gameID. It is derived from the stored setup on every
// call and never persisted.
func (e *Engine) View(ctx context.Context, gameID, playerID string) (*PlayerView, error) {
	state, err := e.GetState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return e.view(ctx, state, playerID)
}

func (e *Engine) view(ctx context.Context, state *GameState, playerID string) (*PlayerView, error) {
	if len(state.Assignments) == 0 {
		return nil, rules.NewError(rules.KindState, "not_started", "the game has not started")
	}
	if !state.HasPlayer(playerID) {
		return nil, ErrNotInGame
	}
	v, err := rules.ResolveVisibility(playerID, state.Assignments, state.Config, state.Intel)
	if err != nil {
		return nil, fmt.Errorf("resolve visibility: %w", err)
	}
	pv := &PlayerView{View: v, Phase: state.Phase}
	if state.Config.Quiz && (state.Phase == rules.PhaseQuiz || state.Phase == rules.PhaseEndgame) {
		q := state.QuizEligibility(playerID)
		pv.Quiz = &q
	}
	if e.config.Names != nil {
		names, err := e.config.Names.DisplayNames(ctx, state.GameID)
		if err != nil {
			log.Warn().Str("game_id", state.GameID).Err(err).Msg("resolve display names failed")
		} else {
			pv.Names = names
		}
	}
	return pv, nil
}

// Views computes the private view of every seated player from one state, keyed by player id.
func (e *Engine) Views(ctx context.Context, state *GameState) map[string]*PlayerView {
	out := make(map[string]*PlayerView, len(state.PlayerIDs))
	if len(state.Assignments) == 0 {
		return out
	}
	for _, id := range state.PlayerIDs {
		pv, err := e.view(ctx, state, id)
		if err != nil {
			log.Warn().Str("game_id", state.GameID).Str("player_id", id).Err(err).Msg("resolve player view failed")
			continue
		}
		out[id] = pv
	}
	return out
}
