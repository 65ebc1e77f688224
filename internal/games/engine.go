package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/metrics"
	"github.com/vntrieu/shadowquest/internal/rules"
	"github.com/vntrieu/shadowquest/internal/store"
)

// Move types accepted by ApplyMove.
const (
	MoveVote   = "vote"
	MoveAction = "action"
)

// ApplyMoveResult is returned by ApplyMove: new state, events to broadcast, and optional error.
type ApplyMoveResult struct {
	State  *GameState
	Events []BroadcastEvent
	Error  error
}

// Changed reports whether the move produced something to broadcast.
func (r ApplyMoveResult) Changed() bool {
	return r.Error == nil && len(r.Events) > 0
}

// BroadcastEvent is a public event (type + payload).
type BroadcastEvent struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

// GameStore is the persistence the engine needs; *store.GameStore implements it.
type GameStore interface {
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
	GetSnapshot(ctx context.Context, gameID string) (*store.Snapshot, error)
	UpdateSnapshot(ctx context.Context, u store.SnapshotUpdate) (int32, error)
	GetGamePlayerIDsInOrder(ctx context.Context, gameID string) ([]string, error)
	ListGameIDsInPhases(ctx context.Context, phases ...string) ([]string, error)
}

// GameEventStore appends to the event log.
type GameEventStore interface {
	CreateGameEvent(ctx context.Context, req store.CreateGameEventRequest) (*store.GameEvent, error)
}

// NameResolver maps the players of a game to display names.
type NameResolver interface {
	DisplayNames(ctx context.Context, gameID string) (map[string]string, error)
}

// Engine applies moves through the rules package and persists each result with a conditional write.
type Engine struct {
	store  GameStore
	events GameEventStore
	config Config
}

// NewEngine creates an engine with the given stores and config.
func NewEngine(store GameStore, events GameEventStore, config Config) *Engine {
	return &Engine{store: store, events: events, config: config.withDefaults()}
}

// GetState loads the latest snapshot of the game.
func (e *Engine) GetState(ctx context.Context, gameID string) (*GameState, error) {
	snap, err := e.store.GetSnapshot(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return DecodeState(snap)
}

// move is one decoded player input.
type move struct {
	playerID string
	action   string
	payload  map[string]any
}

// ApplyMove validates the move against the current phase, applies it and persists the new snapshot.
// moveType is "vote" or "action"; an action names itself in payload["action"].
func (e *Engine) ApplyMove(ctx context.Context, gameID, roomPlayerID, moveType string, payload map[string]any) ApplyMoveResult {
	res := e.applyMove(ctx, gameID, roomPlayerID, moveType, payload)
	action := actionLabel(moveType, payload)
	if res.Error != nil {
		metrics.Moves.WithLabelValues(action, string(ErrorKind(res.Error))).Inc()
		log.Debug().Str("game_id", gameID).Str("player_id", roomPlayerID).Str("action", action).Err(res.Error).Msg("move rejected")
		return res
	}
	metrics.Moves.WithLabelValues(action, "ok").Inc()
	return res
}

func (e *Engine) applyMove(ctx context.Context, gameID, roomPlayerID, moveType string, payload map[string]any) ApplyMoveResult {
	state, err := e.GetState(ctx, gameID)
	if err != nil {
		return ApplyMoveResult{Error: err}
	}
	if state.Finished() {
		return ApplyMoveResult{Error: ErrGameFinished}
	}

	m := move{playerID: roomPlayerID, payload: payload}
	switch moveType {
	case MoveVote:
		m.action = rules.ActionVote
		if state.Phase == rules.PhaseQuest {
			// A quest card travels as a vote move carrying success; a team vote here is out of phase.
			if _, isCard := payload["success"]; !isCard {
				if _, isTeamVote := payload["approved"]; isTeamVote {
					return ApplyMoveResult{Error: rules.NewError(rules.KindState, rules.ErrInvalidTransition.Code, "team voting is closed while the quest runs")}
				}
			}
			m.action = rules.ActionQuestAction
		}
	case MoveAction:
		m.action = actionName(payload)
		if m.action == "" {
			return ApplyMoveResult{Error: fmt.Errorf("%w: payload must include action", ErrBadPayload)}
		}
	default:
		return ApplyMoveResult{Error: fmt.Errorf("%w %q", ErrUnknownMove, moveType)}
	}
	if err := rules.CheckAction(state.Phase, m.action); err != nil {
		return ApplyMoveResult{Error: err}
	}
	if m.action != rules.ActionStartGame && !state.HasPlayer(roomPlayerID) {
		return ApplyMoveResult{Error: ErrNotInGame}
	}

	next := state.Clone()
	var events []BroadcastEvent
	switch m.action {
	case rules.ActionStartGame:
		events, err = e.startGame(ctx, next, m)
	case rules.ActionProposeTeam:
		events, err = e.proposeTeam(next, m)
	case rules.ActionVote:
		events, err = e.vote(next, m)
	case rules.ActionQuestAction:
		events, err = e.questAction(next, m)
	case rules.ActionAssassinate:
		events, err = e.assassinate(next, m)
	case rules.ActionQuizVote:
		events, err = e.quizVote(next, m)
	default:
		err = fmt.Errorf("%w: action %q", ErrUnknownMove, m.action)
	}
	if err != nil {
		return ApplyMoveResult{Error: err}
	}

	if next.Finished() && next.QuizResult != nil {
		e.decorateQuizResult(ctx, next.GameID, next.QuizResult)
	}
	if err := e.persist(ctx, state, next); err != nil {
		return ApplyMoveResult{Error: err}
	}
	if next.Finished() {
		events = append(events, gameOverEvent(next))
	}
	e.appendEvent(ctx, next.GameID, &roomPlayerID, m.action, payload)
	return ApplyMoveResult{State: next, Events: events}
}

// persist writes next over prev with compare-and-swap on prev's version and phase.
func (e *Engine) persist(ctx context.Context, prev, next *GameState) error {
	data, err := next.Encode()
	if err != nil {
		return err
	}
	status := ""
	if next.Status != prev.Status {
		status = next.Status
	}
	version, err := e.store.UpdateSnapshot(ctx, store.SnapshotUpdate{
		GameID:          next.GameID,
		ExpectedVersion: prev.Version,
		ExpectedPhase:   string(prev.Phase),
		Phase:           string(next.Phase),
		State:           data,
		Status:          status,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			metrics.SnapshotConflicts.Inc()
			log.Info().Str("game_id", next.GameID).Int32("version", prev.Version).Msg("stale snapshot write rejected")
			return ErrStaleState
		}
		return fmt.Errorf("persist snapshot: %w", err)
	}
	next.Version = version
	if next.Phase != prev.Phase {
		metrics.PhaseTransitions.WithLabelValues(string(next.Phase)).Inc()
		log.Info().Str("game_id", next.GameID).Str("from", string(prev.Phase)).Str("to", string(next.Phase)).Int32("version", version).Msg("phase transition")
	}
	return nil
}

// appendEvent writes to the event log after the snapshot. The snapshot is the source of truth, so a
// failure here is logged and otherwise ignored.
func (e *Engine) appendEvent(ctx context.Context, gameID string, playerID *string, typ string, payload map[string]any) {
	if e.events == nil {
		return
	}
	_, err := e.events.CreateGameEvent(ctx, store.CreateGameEventRequest{
		GameID:       gameID,
		RoomPlayerID: playerID,
		Type:         typ,
		Payload:      payload,
	})
	if err != nil {
		log.Warn().Str("game_id", gameID).Str("type", typ).Err(err).Msg("append game event failed")
	}
}

// gameOverEvent reveals the roles, the guess and the quiz result.
func gameOverEvent(s *GameState) BroadcastEvent {
	if s.Outcome != nil {
		metrics.GamesFinished.WithLabelValues(string(s.Outcome.Winner), string(s.Outcome.Reason)).Inc()
	}
	payload := map[string]any{
		"roles": s.Assignments,
		"guess": s.Guess,
	}
	if s.Outcome != nil {
		payload["winner"] = s.Outcome.Winner
		payload["reason"] = s.Outcome.Reason
	}
	if s.QuizResult != nil {
		payload["quiz_result"] = s.QuizResult
	}
	return BroadcastEvent{Event: EventGameOver, Payload: payload}
}

func (e *Engine) decorateQuizResult(ctx context.Context, gameID string, r *rules.QuizResult) {
	if e.config.Names == nil {
		return
	}
	names, err := e.config.Names.DisplayNames(ctx, gameID)
	if err != nil {
		log.Warn().Str("game_id", gameID).Err(err).Msg("resolve display names failed")
		return
	}
	for i := range r.Candidates {
		r.Candidates[i].Name = names[r.Candidates[i].PlayerID]
	}
}

func actionName(payload map[string]any) string {
	action, _ := payload["action"].(string)
	if action == "" {
		action, _ = payload["type"].(string)
	}
	return action
}

// actionLabel bounds the metric label to known actions.
func actionLabel(moveType string, payload map[string]any) string {
	if moveType != MoveAction {
		if moveType == MoveVote {
			return moveType
		}
		return "unknown"
	}
	a := actionName(payload)
	for _, p := range rules.Phases {
		for _, allowed := range p.AllowedActions {
			if allowed == a {
				return a
			}
		}
	}
	return "unknown"
}
