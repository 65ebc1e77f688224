package rules

import (
	"errors"
	"testing"
)

func TestTransitionPhase(t *testing.T) {
	tests := []struct {
		name    string
		current Phase
		ev      Event
		want    Phase
	}{
		{"start", PhaseLobby, Event{Kind: EventStartGame}, PhaseTeamBuilding},
		{"propose", PhaseTeamBuilding, Event{Kind: EventProposeTeam, TeamSize: 3, RequiredSize: 3}, PhaseVoting},
		{"approved", PhaseVoting, Event{Kind: EventVoteResolved, Approved: true}, PhaseQuest},
		{"rejected", PhaseVoting, Event{Kind: EventVoteResolved, VoteTrack: 2}, PhaseTeamBuilding},
		{"fifth rejection", PhaseVoting, Event{Kind: EventVoteResolved, VoteTrack: 5}, PhaseGameOver},
		{"fifth rejection with quiz", PhaseVoting, Event{Kind: EventVoteResolved, VoteTrack: 5, Quiz: true}, PhaseQuiz},
		{"quest resolved", PhaseQuest, Event{Kind: EventQuestResolved}, PhaseQuestResult},
		{"next round", PhaseQuestResult, Event{Kind: EventOutcomeEvaluated}, PhaseTeamBuilding},
		{"evil wins quests", PhaseQuestResult, Event{Kind: EventOutcomeEvaluated, Outcome: Outcome{GameOver: true, Winner: Evil}}, PhaseGameOver},
		{"evil wins quests with quiz", PhaseQuestResult, Event{Kind: EventOutcomeEvaluated, Outcome: Outcome{GameOver: true, Winner: Evil}, Quiz: true}, PhaseQuiz},
		{"assassination", PhaseQuestResult, Event{Kind: EventOutcomeEvaluated, Outcome: Outcome{AssassinPhase: true}}, PhaseAssassination},
		{"parallel endgame", PhaseQuestResult, Event{Kind: EventOutcomeEvaluated, Outcome: Outcome{AssassinPhase: true}, ParallelEndgame: true}, PhaseEndgame},
		{"guess made", PhaseAssassination, Event{Kind: EventAssassinationResolved}, PhaseGameOver},
		{"guess made with quiz", PhaseAssassination, Event{Kind: EventAssassinationResolved, Quiz: true}, PhaseQuiz},
		{"endgame done", PhaseEndgame, Event{Kind: EventEndgameProgress, Endgame: EndgameStatus{OutcomeDecided: true, HasHunter: true, GuessSubmitted: true, QuizNeeded: true, QuizComplete: true}}, PhaseGameOver},
		{"quiz done", PhaseQuiz, Event{Kind: EventQuizComplete}, PhaseGameOver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransitionPhase(tt.current, tt.ev)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %s want %s", got, tt.want)
			}
			again, err := TransitionPhase(tt.current, tt.ev)
			if err != nil || again != got {
				t.Errorf("second call: got %s, %v", again, err)
			}
		})
	}
}

func TestTransitionPhase_Invalid(t *testing.T) {
	tests := []struct {
		current Phase
		ev      Event
	}{
		{PhaseLobby, Event{Kind: EventProposeTeam, TeamSize: 2, RequiredSize: 2}},
		{PhaseVoting, Event{Kind: EventStartGame}},
		{PhaseGameOver, Event{Kind: EventStartGame}},
		{PhaseGameOver, Event{Kind: EventQuizComplete}},
		{PhaseQuiz, Event{Kind: EventAssassinationResolved}},
		{PhaseAssassination, Event{Kind: EventQuizComplete}},
	}
	for _, tt := range tests {
		got, err := TransitionPhase(tt.current, tt.ev)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s on %s: got %v", tt.ev.Kind, tt.current, err)
		}
		if got != tt.current {
			t.Errorf("%s on %s: phase moved to %s", tt.ev.Kind, tt.current, got)
		}
		if KindOf(err) != KindState {
			t.Errorf("kind: got %s want state", KindOf(err))
		}
	}
}

func TestTransitionPhase_WrongTeamSize(t *testing.T) {
	_, err := TransitionPhase(PhaseTeamBuilding, Event{Kind: EventProposeTeam, TeamSize: 2, RequiredSize: 3})
	if !errors.Is(err, ErrWrongTeamSize) {
		t.Errorf("got %v", err)
	}
}

func TestTransitionPhase_EndgamePending(t *testing.T) {
	pending := EndgameStatus{OutcomeDecided: true, HasHunter: true, GuessSubmitted: true, QuizNeeded: true}
	got, err := TransitionPhase(PhaseEndgame, Event{Kind: EventEndgameProgress, Endgame: pending})
	if !errors.Is(err, ErrEndgamePending) {
		t.Errorf("got %v", err)
	}
	if got != PhaseEndgame {
		t.Errorf("phase: got %s", got)
	}
}

func TestCheckAction(t *testing.T) {
	if err := CheckAction(PhaseVoting, ActionVote); err != nil {
		t.Errorf("vote in voting: %v", err)
	}
	if err := CheckAction(PhaseEndgame, ActionQuizVote); err != nil {
		t.Errorf("quiz vote in endgame: %v", err)
	}
	if err := CheckAction(PhaseEndgame, ActionAssassinate); err != nil {
		t.Errorf("assassinate in endgame: %v", err)
	}
	if err := CheckAction(PhaseQuestResult, ActionVote); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("vote in quest_result: got %v", err)
	}
	if !PhaseGameOver.Terminal() || PhaseQuiz.Terminal() {
		t.Error("only game_over is terminal")
	}
}
