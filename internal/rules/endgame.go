package rules

import "strings"

// EndgameStatus is the set of independent sub-decisions of the parallel endgame.
type EndgameStatus struct {
	OutcomeDecided bool `json:"outcome_decided"`
	HasHunter      bool `json:"has_hunter"`
	GuessSubmitted bool `json:"guess_submitted"`
	QuizNeeded     bool `json:"quiz_needed"`
	QuizComplete   bool `json:"quiz_complete"`
}

// Complete reports whether every pending sub-decision has resolved.
func (s EndgameStatus) Complete() bool {
	return len(s.pending()) == 0
}

// Pending names the unresolved sub-decisions, for error messages.
func (s EndgameStatus) Pending() string {
	return strings.Join(s.pending(), ", ")
}

func (s EndgameStatus) pending() []string {
	var out []string
	if !s.OutcomeDecided {
		out = append(out, "outcome")
	}
	if s.HasHunter && !s.GuessSubmitted {
		out = append(out, "hunter guess")
	}
	if s.QuizNeeded && !s.QuizComplete {
		out = append(out, "quiz")
	}
	return out
}
