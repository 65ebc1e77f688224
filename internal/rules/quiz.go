package rules

import "time"

// DefaultQuizTimeout bounds how long the quiz waits for connected eligible players.
const DefaultQuizTimeout = 60 * time.Second

// Eligibility says whether a player may guess in the quiz.
type Eligibility struct {
	CanGuess bool   `json:"can_guess"`
	Reason   string `json:"reason"`
}

// ComputeQuizEligibility applies the role and outcome rules of the quiz.
func ComputeQuizEligibility(winner Alignment, role Role, hasDeceiver, hasHunter bool) Eligibility {
	switch winner {
	case Good:
		if hasHunter && role == RoleHunter {
			return Eligibility{Reason: "the hunter makes the assassination guess instead"}
		}
		return Eligibility{CanGuess: true, Reason: "good won the quests"}
	case Evil:
		if role == RoleSeer {
			return Eligibility{Reason: "the seer already knows the answer"}
		}
		if role == RoleProtector && !hasDeceiver {
			return Eligibility{Reason: "the protector saw the seer without a deceiver"}
		}
		return Eligibility{CanGuess: true, Reason: "evil won"}
	}
	return Eligibility{Reason: "the outcome is not decided"}
}

// QuizVote is a guess at the seer. A nil TargetID is a skip.
type QuizVote struct {
	VoterID  string  `json:"voter_id"`
	TargetID *string `json:"target_id"`
}

// RecordQuizVote appends vote. A repeated voter gets ErrAlreadyRecorded and the unchanged slice.
func RecordQuizVote(votes []QuizVote, vote QuizVote, eligibility Eligibility, playerIDs []string) ([]QuizVote, error) {
	if !eligibility.CanGuess {
		return votes, eligibilityError(ErrNotEligible.Code, "not eligible to guess: %s", eligibility.Reason)
	}
	for _, v := range votes {
		if v.VoterID == vote.VoterID {
			return votes, eligibilityError(ErrAlreadyRecorded.Code, "vote already recorded")
		}
	}
	if vote.TargetID != nil {
		target := *vote.TargetID
		if target == vote.VoterID {
			return votes, validationError(ErrSelfTarget.Code, "cannot guess yourself")
		}
		known := false
		for _, id := range playerIDs {
			if id == target {
				known = true
				break
			}
		}
		if !known {
			return votes, validationError("unknown_player", "target %s is not in the game", target)
		}
	}
	out := make([]QuizVote, len(votes), len(votes)+1)
	copy(out, votes)
	return append(out, vote), nil
}

// QuizComplete reports whether every connected eligible player voted or the timeout elapsed.
// No connected eligible players is vacuously complete.
func QuizComplete(eligibleConnected []string, votes []QuizVote, startedAt, now time.Time, timeout time.Duration) bool {
	if len(eligibleConnected) == 0 {
		return true
	}
	if timeout > 0 && !startedAt.IsZero() && !now.Before(startedAt.Add(timeout)) {
		return true
	}
	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.VoterID] = true
	}
	for _, id := range eligibleConnected {
		if !voted[id] {
			return false
		}
	}
	return true
}

// PlayerRef identifies a quiz candidate for display.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// QuizCandidate is one player's line in the quiz result.
type QuizCandidate struct {
	PlayerID     string   `json:"player_id"`
	Name         string   `json:"name,omitempty"`
	VoteCount    int      `json:"vote_count"`
	VoterIDs     []string `json:"voter_ids,omitempty"`
	MostVoted    bool     `json:"most_voted"`
	IsActualSeer bool     `json:"is_actual_seer"`
}

// QuizResult aggregates the quiz. MostVoted marks every tied top candidate.
type QuizResult struct {
	Candidates    []QuizCandidate `json:"candidates"`
	TotalVotes    int             `json:"total_votes"`
	SkipVotes     int             `json:"skip_votes"`
	CorrectVoters []string        `json:"correct_voters,omitempty"`
	ActualSeerID  string          `json:"actual_seer_id"`
}

// ScoreQuiz counts votes per player and reveals the seer.
func ScoreQuiz(votes []QuizVote, players []PlayerRef, actualSeerID string) QuizResult {
	res := QuizResult{Candidates: make([]QuizCandidate, len(players)), ActualSeerID: actualSeerID}
	index := make(map[string]int, len(players))
	for i, p := range players {
		index[p.ID] = i
		res.Candidates[i] = QuizCandidate{PlayerID: p.ID, Name: p.Name, IsActualSeer: p.ID == actualSeerID}
	}
	for _, v := range votes {
		if v.TargetID == nil {
			res.SkipVotes++
			continue
		}
		i, ok := index[*v.TargetID]
		if !ok {
			continue
		}
		res.TotalVotes++
		res.Candidates[i].VoteCount++
		res.Candidates[i].VoterIDs = append(res.Candidates[i].VoterIDs, v.VoterID)
		if *v.TargetID == actualSeerID {
			res.CorrectVoters = append(res.CorrectVoters, v.VoterID)
		}
	}
	top := 0
	for _, c := range res.Candidates {
		if c.VoteCount > top {
			top = c.VoteCount
		}
	}
	if top > 0 {
		for i := range res.Candidates {
			res.Candidates[i].MostVoted = res.Candidates[i].VoteCount == top
		}
	}
	return res
}
