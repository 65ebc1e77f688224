package games

import (
	"errors"

	"github.com/vntrieu/shadowquest/internal/rules"
)

var (
	// ErrStaleState is returned when another move was persisted between load and write.
	ErrStaleState   = errors.New("game state changed, reload and retry")
	ErrGameNotFound = errors.New("game not found")
	ErrGameFinished = errors.New("game already finished")
	ErrNotInGame    = errors.New("player not in game")
	ErrBadPayload   = errors.New("invalid move payload")
	ErrUnknownMove  = errors.New("unknown move type")
)

// Error kinds beyond the rules kinds, for transport mapping.
const (
	KindConflict  rules.Kind = "conflict"
	KindNotFound  rules.Kind = "not_found"
	KindForbidden rules.Kind = "forbidden"
	KindInternal  rules.Kind = "internal"
)

// ErrorKind classifies err for HTTP status and websocket error envelopes.
func ErrorKind(err error) rules.Kind {
	if k := rules.KindOf(err); k != "" {
		return k
	}
	switch {
	case errors.Is(err, ErrStaleState):
		return KindConflict
	case errors.Is(err, ErrGameFinished):
		return rules.KindState
	case errors.Is(err, ErrGameNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotInGame):
		return KindForbidden
	case errors.Is(err, ErrBadPayload), errors.Is(err, ErrUnknownMove):
		return rules.KindValidation
	}
	return KindInternal
}

// ErrorCode returns the rules code of err, or a code derived from its kind.
func ErrorCode(err error) string {
	var e *rules.Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrStaleState):
		return "stale_state"
	case errors.Is(err, ErrGameFinished):
		return "game_finished"
	case errors.Is(err, ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, ErrNotInGame):
		return "not_in_game"
	case errors.Is(err, ErrBadPayload):
		return "bad_payload"
	case errors.Is(err, ErrUnknownMove):
		return "unknown_move"
	}
	return "internal"
}
