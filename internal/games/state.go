package games

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vntrieu/shadowquest/internal/rules"
	"github.com/vntrieu/shadowquest/internal/store"
)

// GameState is the full engine state, serialized to JSON for snapshots. It holds secrets (roles, intel,
// individual votes) and is never sent to clients as is; see Public.
type GameState struct {
	GameID      string                  `json:"game_id"`
	Phase       rules.Phase             `json:"phase"`
	Status      string                  `json:"status"`
	Config      rules.RoleConfiguration `json:"config"`
	PlayerIDs   []string                `json:"player_ids,omitempty"`
	Assignments []rules.Assignment      `json:"assignments,omitempty"`
	Intel       rules.Intel             `json:"intel"`
	Seating     rules.Seating           `json:"seating"`
	QuestNumber int                     `json:"quest_number,omitempty"`
	VoteTrack   int                     `json:"vote_track"`
	Proposal    *rules.Proposal         `json:"proposal,omitempty"`
	TeamVotes   map[string]bool         `json:"team_votes,omitempty"`
	// LastVote and LastVotes describe the most recent resolved team vote; they become public on resolution.
	LastVote     *rules.VoteResult         `json:"last_vote,omitempty"`
	LastVotes    map[string]bool           `json:"last_votes,omitempty"`
	QuestActions []rules.QuestAction       `json:"quest_actions,omitempty"`
	Results      []rules.QuestResult       `json:"results,omitempty"`
	Outcome      *rules.Outcome            `json:"outcome,omitempty"`
	Guess        *rules.AssassinationGuess `json:"guess,omitempty"`
	QuizVotes    []rules.QuizVote          `json:"quiz_votes,omitempty"`
	QuizStarted  *time.Time                `json:"quiz_started_at,omitempty"`
	QuizResult   *rules.QuizResult         `json:"quiz_result,omitempty"`
	// Version is the snapshot row version; it is not part of the stored document.
	Version int32 `json:"-"`
}

// DecodeState rebuilds the state stored in snap.
func DecodeState(snap *store.Snapshot) (*GameState, error) {
	s := &GameState{}
	if len(snap.State) > 0 {
		if err := json.Unmarshal(snap.State, s); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	s.GameID = snap.GameID
	s.Version = snap.Version
	if s.Phase == "" {
		s.Phase = rules.Phase(snap.Phase)
	}
	return s, nil
}

// Encode serializes the state for a snapshot write.
func (s *GameState) Encode() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

// Clone returns a deep copy. The engine only mutates clones.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.PlayerIDs = cloneSlice(s.PlayerIDs)
	out.Assignments = cloneSlice(s.Assignments)
	out.Intel.CertainEvil = cloneSlice(s.Intel.CertainEvil)
	out.Intel.Mixed = cloneSlice(s.Intel.Mixed)
	out.Intel.Ring = cloneMap(s.Intel.Ring)
	out.Seating.Order = cloneSlice(s.Seating.Order)
	if s.Proposal != nil {
		p := *s.Proposal
		p.TeamIDs = cloneSlice(p.TeamIDs)
		out.Proposal = &p
	}
	out.TeamVotes = cloneMap(s.TeamVotes)
	if s.LastVote != nil {
		v := *s.LastVote
		out.LastVote = &v
	}
	out.LastVotes = cloneMap(s.LastVotes)
	out.QuestActions = cloneSlice(s.QuestActions)
	out.Results = cloneSlice(s.Results)
	if s.Outcome != nil {
		o := *s.Outcome
		out.Outcome = &o
	}
	if s.Guess != nil {
		g := *s.Guess
		out.Guess = &g
	}
	out.QuizVotes = cloneSlice(s.QuizVotes)
	if s.QuizStarted != nil {
		t := *s.QuizStarted
		out.QuizStarted = &t
	}
	if s.QuizResult != nil {
		r := *s.QuizResult
		out.QuizResult = &r
	}
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// LeaderID returns the current leader, or "" before the game starts.
func (s *GameState) LeaderID() string {
	return s.Seating.LeaderID()
}

// HasPlayer reports whether id is seated in the game.
func (s *GameState) HasPlayer(id string) bool {
	for _, p := range s.PlayerIDs {
		if p == id {
			return true
		}
	}
	return false
}

// HasHunter reports whether the assassination guess is part of this game.
func (s *GameState) HasHunter() bool {
	return rules.HasRole(s.Assignments, rules.RoleHunter)
}

// Finished reports whether the game reached game over.
func (s *GameState) Finished() bool {
	return s.Status == store.GameStatusFinished || s.Phase.Terminal()
}

// quizWinner is the outcome the quiz eligibility is judged against. The parallel endgame is judged
// as a good quest win for its whole duration, so the hunter's guess cannot change who may vote.
func (s *GameState) quizWinner() rules.Alignment {
	if s.Outcome == nil {
		return ""
	}
	if s.Phase == rules.PhaseEndgame {
		return rules.Good
	}
	if s.Outcome.GameOver {
		return s.Outcome.Winner
	}
	if s.Outcome.AssassinPhase {
		return rules.Good
	}
	return ""
}

// QuizEligibility returns whether playerID may guess in the quiz.
func (s *GameState) QuizEligibility(playerID string) rules.Eligibility {
	a, ok := rules.AssignmentFor(s.Assignments, playerID)
	if !ok {
		return rules.Eligibility{Reason: "not in the game"}
	}
	return rules.ComputeQuizEligibility(s.quizWinner(), a.Role, rules.HasDeceiver(s.Assignments), s.HasHunter())
}

// PublicState is the part of the state every player may see.
type PublicState struct {
	GameID      string                  `json:"game_id"`
	Phase       rules.Phase             `json:"phase"`
	Status      string                  `json:"status"`
	Version     int32                   `json:"version"`
	Config      rules.RoleConfiguration `json:"config"`
	PlayerIDs   []string                `json:"player_ids"`
	Seating     []string                `json:"seating,omitempty"`
	LeaderID    string                  `json:"leader_id,omitempty"`
	QuestNumber int                     `json:"quest_number,omitempty"`
	VoteTrack   int                     `json:"vote_track"`
	Schedule    []rules.Quest           `json:"schedule,omitempty"`
	Proposal    *rules.Proposal         `json:"proposal,omitempty"`
	// Voted lists who has voted on the current proposal, without their choice.
	Voted          []string                  `json:"voted,omitempty"`
	LastVote       *rules.VoteResult         `json:"last_vote,omitempty"`
	LastVotes      map[string]bool           `json:"last_votes,omitempty"`
	QuestSubmitted int                       `json:"quest_actions_submitted"`
	Results        []rules.QuestResult       `json:"results"`
	Outcome        *rules.Outcome            `json:"outcome,omitempty"`
	GuessSubmitted bool                      `json:"guess_submitted"`
	Guess          *rules.AssassinationGuess `json:"guess,omitempty"`
	QuizVoted      []string                  `json:"quiz_voted,omitempty"`
	QuizStartedAt  *time.Time                `json:"quiz_started_at,omitempty"`
	QuizResult     *rules.QuizResult         `json:"quiz_result,omitempty"`
	Roles          []rules.Assignment        `json:"roles,omitempty"`
	AllowedActions []string                  `json:"allowed_actions"`
}

// Public redacts the state. Roles, the guess and the quiz result are revealed at game over only;
// quest cards are only ever counted.
func (s *GameState) Public() PublicState {
	p := PublicState{
		GameID:         s.GameID,
		Phase:          s.Phase,
		Status:         s.Status,
		Version:        s.Version,
		Config:         s.Config,
		PlayerIDs:      cloneSlice(s.PlayerIDs),
		Seating:        cloneSlice(s.Seating.Order),
		LeaderID:       s.LeaderID(),
		QuestNumber:    s.QuestNumber,
		VoteTrack:      s.VoteTrack,
		LastVote:       s.LastVote,
		LastVotes:      cloneMap(s.LastVotes),
		QuestSubmitted: len(s.QuestActions),
		Results:        cloneSlice(s.Results),
		GuessSubmitted: s.Guess != nil,
		QuizStartedAt:  s.QuizStarted,
		AllowedActions: rules.AllowedActions(s.Phase),
	}
	if p.Results == nil {
		p.Results = []rules.QuestResult{}
	}
	if p.PlayerIDs == nil {
		p.PlayerIDs = []string{}
	}
	if len(s.PlayerIDs) > 0 {
		if schedule, err := rules.Schedule(len(s.PlayerIDs)); err == nil {
			p.Schedule = schedule
		}
	}
	if s.Proposal != nil {
		prop := *s.Proposal
		prop.TeamIDs = cloneSlice(prop.TeamIDs)
		p.Proposal = &prop
	}
	for _, id := range s.PlayerIDs {
		if _, ok := s.TeamVotes[id]; ok {
			p.Voted = append(p.Voted, id)
		}
	}
	for _, v := range s.QuizVotes {
		p.QuizVoted = append(p.QuizVoted, v.VoterID)
	}
	switch {
	case s.Phase == rules.PhaseEndgame:
		// The guess verdict stays hidden while quiz voters could still learn from it.
		p.Outcome = &rules.Outcome{AssassinPhase: true}
	case s.Outcome != nil:
		o := *s.Outcome
		p.Outcome = &o
	}
	if s.Finished() {
		p.Guess = s.Guess
		p.QuizResult = s.QuizResult
		p.Roles = cloneSlice(s.Assignments)
	}
	return p
}
