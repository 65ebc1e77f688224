package rules

// MaxRejections is the vote-track position at which evil wins outright.
const MaxRejections = 5

// Proposal is a leader's team for a quest.
type Proposal struct {
	QuestNumber       int      `json:"quest_number"`
	LeaderID          string   `json:"leader_id"`
	TeamIDs           []string `json:"team_ids"`
	VoteTrackPosition int      `json:"vote_track_position"`
}

// VoteResult is the tally of a team vote.
type VoteResult struct {
	Approved     bool `json:"approved"`
	ApproveCount int  `json:"approve_count"`
	RejectCount  int  `json:"reject_count"`
}

// VoteTrack is the consecutive-rejection counter after a vote.
type VoteTrack struct {
	Position int  `json:"position"`
	EvilWins bool `json:"evil_wins"`
}

// ValidateProposal checks a leader's team against the quest table and the seating.
func ValidateProposal(p Proposal, seating Seating) error {
	if p.LeaderID != seating.LeaderID() {
		return eligibilityError("not_leader", "only the leader can propose a team")
	}
	q, err := QuestSpec(len(seating.Order), p.QuestNumber)
	if err != nil {
		return err
	}
	if len(p.TeamIDs) != q.TeamSize {
		return validationError(ErrWrongTeamSize.Code, "team must have exactly %d members for this quest", q.TeamSize)
	}
	seen := make(map[string]bool, len(p.TeamIDs))
	for _, id := range p.TeamIDs {
		if !seating.Contains(id) {
			return validationError("unknown_player", "team includes non-player %s", id)
		}
		if seen[id] {
			return validationError("duplicate_member", "team lists %s twice", id)
		}
		seen[id] = true
	}
	return nil
}

// ResolveVote tallies a complete team vote. Approval needs a strict majority of all players.
func ResolveVote(votes map[string]bool, totalPlayers int) (VoteResult, error) {
	if totalPlayers <= 0 {
		return VoteResult{}, validationError("player_count", "total players must be positive")
	}
	if len(votes) != totalPlayers {
		return VoteResult{}, validationError("incomplete_vote", "%d of %d votes cast", len(votes), totalPlayers)
	}
	var r VoteResult
	for _, approve := range votes {
		if approve {
			r.ApproveCount++
		} else {
			r.RejectCount++
		}
	}
	r.Approved = r.ApproveCount > totalPlayers/2
	return r, nil
}

// AdvanceVoteTrack moves the track after a vote. Callers check EvilWins before rotating the leader.
func AdvanceVoteTrack(position int, approved bool) VoteTrack {
	if approved {
		return VoteTrack{}
	}
	next := position + 1
	return VoteTrack{Position: next, EvilWins: next >= MaxRejections}
}
