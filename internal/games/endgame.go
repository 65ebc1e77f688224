package games

import (
	"context"
	"errors"
	"time"

	"github.com/vntrieu/shadowquest/internal/rules"
	"github.com/vntrieu/shadowquest/internal/store"
)

// enterFinalPhase handles arrival in quiz or game_over.
func (e *Engine) enterFinalPhase(s *GameState) []BroadcastEvent {
	switch s.Phase {
	case rules.PhaseQuiz:
		now := e.config.Now()
		s.QuizStarted = &now
		ev := BroadcastEvent{Event: EventQuizStarted, Payload: map[string]any{
			"phase":           s.Phase,
			"eligible":        e.eligiblePlayers(s, false),
			"timeout_seconds": int(e.config.QuizTimeout.Seconds()),
			"quiz_started_at": now,
		}}
		if s.Outcome != nil {
			ev.Payload["winner"] = s.Outcome.Winner
		}
		e.closeQuizIfDone(s)
		return []BroadcastEvent{ev}
	case rules.PhaseGameOver:
		e.finish(s)
	}
	return nil
}

// finish marks the game over and scores the quiz when it ran.
func (e *Engine) finish(s *GameState) {
	s.Phase = rules.PhaseGameOver
	s.Status = store.GameStatusFinished
	if !s.Config.Quiz || s.QuizStarted == nil {
		return
	}
	seerID, _ := rules.FindRole(s.Assignments, rules.RoleSeer)
	refs := make([]rules.PlayerRef, len(s.PlayerIDs))
	for i, id := range s.PlayerIDs {
		refs[i] = rules.PlayerRef{ID: id}
	}
	result := rules.ScoreQuiz(s.QuizVotes, refs, seerID)
	s.QuizResult = &result
}

// eligiblePlayers lists who may guess, optionally only those with a live connection.
func (e *Engine) eligiblePlayers(s *GameState, connectedOnly bool) []string {
	out := []string{}
	for _, id := range s.PlayerIDs {
		if !s.QuizEligibility(id).CanGuess {
			continue
		}
		if connectedOnly && e.config.Presence != nil && !e.config.Presence.Connected(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// quizDone reports whether every connected eligible player guessed or the quiz timed out.
func (e *Engine) quizDone(s *GameState) bool {
	var started time.Time
	if s.QuizStarted != nil {
		started = *s.QuizStarted
	}
	return rules.QuizComplete(e.eligiblePlayers(s, true), s.QuizVotes, started, e.config.Now(), e.config.QuizTimeout)
}

// closeQuizIfDone ends a sequential quiz once it is complete.
func (e *Engine) closeQuizIfDone(s *GameState) []BroadcastEvent {
	if s.Phase != rules.PhaseQuiz || !e.quizDone(s) {
		return nil
	}
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{Kind: rules.EventQuizComplete})
	if err != nil {
		return nil
	}
	s.Phase = phase
	e.finish(s)
	return nil
}

// progressEndgame ends the parallel endgame once the guess is in and the quiz, if any, is complete.
func (e *Engine) progressEndgame(s *GameState) ([]BroadcastEvent, error) {
	status := rules.EndgameStatus{
		OutcomeDecided: s.Outcome != nil && s.Outcome.GameOver,
		HasHunter:      s.HasHunter(),
		GuessSubmitted: s.Guess != nil,
		QuizNeeded:     s.Config.Quiz,
		QuizComplete:   s.Config.Quiz && e.quizDone(s),
	}
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{Kind: rules.EventEndgameProgress, Endgame: status})
	if errors.Is(err, rules.ErrEndgamePending) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Phase = phase
	e.finish(s)
	return nil, nil
}

// CheckQuizTimeout closes the quiz of gameID when it timed out or no eligible player is still
// connected. It is a no-op for games in any other situation.
func (e *Engine) CheckQuizTimeout(ctx context.Context, gameID string) ApplyMoveResult {
	state, err := e.GetState(ctx, gameID)
	if err != nil {
		return ApplyMoveResult{Error: err}
	}
	if state.Finished() || !state.Config.Quiz {
		return ApplyMoveResult{State: state}
	}
	next := state.Clone()
	switch next.Phase {
	case rules.PhaseQuiz:
		e.closeQuizIfDone(next)
	case rules.PhaseEndgame:
		if _, err := e.progressEndgame(next); err != nil {
			return ApplyMoveResult{Error: err}
		}
	default:
		return ApplyMoveResult{State: state}
	}
	if next.Phase == state.Phase {
		return ApplyMoveResult{State: state}
	}

	if next.QuizResult != nil {
		e.decorateQuizResult(ctx, next.GameID, next.QuizResult)
	}
	if err := e.persist(ctx, state, next); err != nil {
		return ApplyMoveResult{Error: err}
	}
	e.appendEvent(ctx, gameID, nil, "quiz_closed", map[string]any{"votes": len(next.QuizVotes)})
	return ApplyMoveResult{State: next, Events: []BroadcastEvent{gameOverEvent(next)}}
}
