package rules

// Phase is the single active stage of a game.
type Phase string

const (
	PhaseLobby         Phase = "lobby"
	PhaseTeamBuilding  Phase = "team_building"
	PhaseVoting        Phase = "voting"
	PhaseQuest         Phase = "quest"
	PhaseQuestResult   Phase = "quest_result"
	PhaseAssassination Phase = "assassination"
	// PhaseEndgame collects the hunter's guess and the quiz concurrently.
	PhaseEndgame  Phase = "endgame"
	PhaseQuiz     Phase = "quiz"
	PhaseGameOver Phase = "game_over"
)

// Player action names, gated per phase.
const (
	ActionStartGame   = "start_game"
	ActionProposeTeam = "propose_team"
	ActionVote        = "vote"
	ActionQuestAction = "quest_action"
	ActionAssassinate = "assassinate"
	ActionQuizVote    = "quiz_vote"
)

// PhaseDef names a phase and the player actions it accepts.
type PhaseDef struct {
	Name           Phase    `json:"name"`
	AllowedActions []string `json:"allowed_actions"`
}

// Phases is the full phase table in play order.
var Phases = []PhaseDef{
	{Name: PhaseLobby, AllowedActions: []string{ActionStartGame}},
	{Name: PhaseTeamBuilding, AllowedActions: []string{ActionProposeTeam}},
	{Name: PhaseVoting, AllowedActions: []string{ActionVote}},
	{Name: PhaseQuest, AllowedActions: []string{ActionQuestAction}},
	{Name: PhaseQuestResult, AllowedActions: []string{}}, // system only
	{Name: PhaseAssassination, AllowedActions: []string{ActionAssassinate}},
	{Name: PhaseEndgame, AllowedActions: []string{ActionAssassinate, ActionQuizVote}},
	{Name: PhaseQuiz, AllowedActions: []string{ActionQuizVote}},
	{Name: PhaseGameOver, AllowedActions: []string{}},
}

// AllowedActions returns the actions legal in phase.
func AllowedActions(phase Phase) []string {
	for _, p := range Phases {
		if p.Name == phase {
			return p.AllowedActions
		}
	}
	return nil
}

// CheckAction returns a StateError unless action is legal in phase.
func CheckAction(phase Phase, action string) error {
	for _, a := range AllowedActions(phase) {
		if a == action {
			return nil
		}
	}
	return stateError(ErrInvalidTransition.Code, "action %q not allowed in phase %s", action, phase)
}

// EventKind names an input to the phase machine.
type EventKind string

const (
	EventStartGame             EventKind = "start_game"
	EventProposeTeam           EventKind = "propose_team"
	EventVoteResolved          EventKind = "vote_resolved"
	EventQuestResolved         EventKind = "quest_resolved"
	EventOutcomeEvaluated      EventKind = "outcome_evaluated"
	EventAssassinationResolved EventKind = "assassination_resolved"
	EventEndgameProgress       EventKind = "endgame_progress"
	EventQuizComplete          EventKind = "quiz_complete"
)

// Event carries what the machine needs to choose the next phase. Only the fields of its Kind are read.
type Event struct {
	Kind EventKind

	// EventProposeTeam
	TeamSize     int
	RequiredSize int

	// EventVoteResolved
	Approved  bool
	VoteTrack int

	// EventOutcomeEvaluated
	Outcome         Outcome
	ParallelEndgame bool

	// EventVoteResolved, EventOutcomeEvaluated, EventAssassinationResolved
	Quiz bool

	// EventEndgameProgress
	Endgame EndgameStatus
}

// TransitionPhase returns the phase that follows current on ev. It is pure: the same snapshot and event
// always give the same answer.
func TransitionPhase(current Phase, ev Event) (Phase, error) {
	switch current {
	case PhaseLobby:
		if ev.Kind == EventStartGame {
			return PhaseTeamBuilding, nil
		}
	case PhaseTeamBuilding:
		if ev.Kind == EventProposeTeam {
			if ev.RequiredSize <= 0 || ev.TeamSize != ev.RequiredSize {
				return current, validationError(ErrWrongTeamSize.Code, "team must have exactly %d members, got %d", ev.RequiredSize, ev.TeamSize)
			}
			return PhaseVoting, nil
		}
	case PhaseVoting:
		if ev.Kind == EventVoteResolved {
			switch {
			case ev.Approved:
				return PhaseQuest, nil
			case ev.VoteTrack >= MaxRejections:
				return gameOverOrQuiz(ev.Quiz), nil
			default:
				return PhaseTeamBuilding, nil
			}
		}
	case PhaseQuest:
		if ev.Kind == EventQuestResolved {
			return PhaseQuestResult, nil
		}
	case PhaseQuestResult:
		if ev.Kind == EventOutcomeEvaluated {
			switch {
			case ev.Outcome.GameOver:
				return gameOverOrQuiz(ev.Quiz), nil
			case ev.Outcome.AssassinPhase && ev.ParallelEndgame:
				return PhaseEndgame, nil
			case ev.Outcome.AssassinPhase:
				return PhaseAssassination, nil
			default:
				return PhaseTeamBuilding, nil
			}
		}
	case PhaseAssassination:
		if ev.Kind == EventAssassinationResolved {
			return gameOverOrQuiz(ev.Quiz), nil
		}
	case PhaseEndgame:
		if ev.Kind == EventEndgameProgress {
			if !ev.Endgame.Complete() {
				return current, stateError(ErrEndgamePending.Code, "endgame still waiting for %s", ev.Endgame.Pending())
			}
			return PhaseGameOver, nil
		}
	case PhaseQuiz:
		if ev.Kind == EventQuizComplete {
			return PhaseGameOver, nil
		}
	}
	return current, stateError(ErrInvalidTransition.Code, "event %s not allowed in phase %s", ev.Kind, current)
}

func gameOverOrQuiz(quiz bool) Phase {
	if quiz {
		return PhaseQuiz
	}
	return PhaseGameOver
}

// Terminal reports whether no further transition exists.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver
}
