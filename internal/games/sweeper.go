package games

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/rules"
)

// Notifier pushes the result of a state change to connected clients.
type Notifier interface {
	Notify(ctx context.Context, gameID string, res ApplyMoveResult)
}

// Sweeper closes quizzes whose timeout passed while nobody sent a move.
type Sweeper struct {
	engine   *Engine
	notifier Notifier
	interval time.Duration
}

// NewSweeper returns a sweeper that runs every interval. notifier may be nil.
func NewSweeper(engine *Engine, notifier Notifier, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Sweeper{engine: engine, notifier: notifier, interval: interval}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Info().Dur("interval", s.interval).Msg("quiz sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("quiz sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep checks every game waiting in the quiz or the parallel endgame once and returns how many closed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	ids, err := s.engine.store.ListGameIDsInPhases(ctx, string(rules.PhaseQuiz), string(rules.PhaseEndgame))
	if err != nil {
		log.Error().Err(err).Msg("list games awaiting quiz failed")
		return 0
	}
	closed := 0
	for _, id := range ids {
		res := s.engine.CheckQuizTimeout(ctx, id)
		if res.Error != nil {
			log.Warn().Str("game_id", id).Err(res.Error).Msg("quiz timeout check failed")
			continue
		}
		if !res.Changed() {
			continue
		}
		closed++
		if s.notifier != nil {
			s.notifier.Notify(ctx, id, res)
		}
	}
	return closed
}
