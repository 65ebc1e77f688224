package rules

import (
	"errors"
	"fmt"
)

// Kind classifies an expected domain error.
type Kind string

const (
	// KindConfiguration is an invalid role combination; it blocks game creation.
	KindConfiguration Kind = "configuration"
	// KindValidation is malformed input such as a wrong team size or a self-targeted guess.
	KindValidation Kind = "validation"
	// KindState is an operation attempted in the wrong phase.
	KindState Kind = "state"
	// KindEligibility is an action by a player whose role may not take it.
	KindEligibility Kind = "eligibility"
)

// Error is the typed rejection returned by every engine operation.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches by kind and code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewError builds a typed error for callers outside the engine, usually with a sentinel's Code.
func NewError(kind Kind, code, format string, args ...any) *Error {
	return newError(kind, code, format, args...)
}

func configurationError(code, format string, args ...any) *Error {
	return newError(KindConfiguration, code, format, args...)
}

func validationError(code, format string, args ...any) *Error {
	return newError(KindValidation, code, format, args...)
}

func stateError(code, format string, args ...any) *Error {
	return newError(KindState, code, format, args...)
}

func eligibilityError(code, format string, args ...any) *Error {
	return newError(KindEligibility, code, format, args...)
}

// Sentinels for errors.Is checks at the call boundary.
var (
	ErrInvalidTransition = &Error{Kind: KindState, Code: "invalid_transition"}
	ErrEndgamePending    = &Error{Kind: KindState, Code: "endgame_pending"}
	ErrWrongTeamSize     = &Error{Kind: KindValidation, Code: "wrong_team_size"}
	ErrDuplicateAction   = &Error{Kind: KindValidation, Code: "duplicate_action"}
	ErrSelfTarget        = &Error{Kind: KindValidation, Code: "self_target"}
	ErrAlreadyRecorded   = &Error{Kind: KindEligibility, Code: "already_recorded"}
	ErrNotEligible       = &Error{Kind: KindEligibility, Code: "not_eligible"}
)

// KindOf returns the kind of a wrapped engine error, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// invariant panics; it guards conditions a validated configuration can never reach.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rules invariant violated: "+format, args...))
	}
}
