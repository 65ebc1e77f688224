package rules

// Reason names why a game ended.
type Reason string

const (
	ReasonVoteTrack           Reason = "vote_track"
	ReasonQuestsFailed        Reason = "quests_failed"
	ReasonQuestsSucceeded     Reason = "quests_succeeded"
	ReasonSeerAssassinated    Reason = "seer_assassinated"
	ReasonAssassinationMissed Reason = "assassination_missed"
)

// AssassinationGuess is the hunter's single guess at the seer.
type AssassinationGuess struct {
	HunterID string `json:"hunter_id"`
	TargetID string `json:"target_id"`
	Correct  bool   `json:"correct"`
}

// Outcome is the verdict of EvaluateWin.
type Outcome struct {
	GameOver      bool      `json:"game_over"`
	Winner        Alignment `json:"winner,omitempty"`
	AssassinPhase bool      `json:"assassin_phase"`
	Reason        Reason    `json:"reason,omitempty"`
}

// ResolveAssassination validates the hunter's guess and scores it.
func ResolveAssassination(hunterID, targetID string, assignments []Assignment) (AssassinationGuess, error) {
	hunter, ok := AssignmentFor(assignments, hunterID)
	if !ok || hunter.Role != RoleHunter {
		return AssassinationGuess{}, eligibilityError(ErrNotEligible.Code, "only the hunter can guess the seer")
	}
	if targetID == hunterID {
		return AssassinationGuess{}, validationError(ErrSelfTarget.Code, "the hunter cannot target themself")
	}
	target, ok := AssignmentFor(assignments, targetID)
	if !ok {
		return AssassinationGuess{}, validationError("unknown_player", "target %s is not in the game", targetID)
	}
	if target.Alignment == Evil {
		return AssassinationGuess{}, validationError("evil_target", "the hunter must target a good player")
	}
	return AssassinationGuess{HunterID: hunterID, TargetID: targetID, Correct: target.Role == RoleSeer}, nil
}

// EvaluateWin decides whether the game is over and for whom.
func EvaluateWin(results []QuestResult, voteTrack int, guess *AssassinationGuess, hasHunter bool) Outcome {
	if voteTrack >= MaxRejections {
		return Outcome{GameOver: true, Winner: Evil, Reason: ReasonVoteTrack}
	}
	successes, fails := Tally(results)
	if fails >= QuestsToWin {
		return Outcome{GameOver: true, Winner: Evil, Reason: ReasonQuestsFailed}
	}
	if successes < QuestsToWin {
		return Outcome{}
	}
	if !hasHunter {
		return Outcome{GameOver: true, Winner: Good, Reason: ReasonQuestsSucceeded}
	}
	if guess == nil {
		return Outcome{AssassinPhase: true}
	}
	if guess.Correct {
		return Outcome{GameOver: true, Winner: Evil, Reason: ReasonSeerAssassinated}
	}
	return Outcome{GameOver: true, Winner: Good, Reason: ReasonAssassinationMissed}
}

// Tally counts quest successes and fails.
func Tally(results []QuestResult) (successes, fails int) {
	for _, r := range results {
		if r.Outcome == QuestFail {
			fails++
		} else {
			successes++
		}
	}
	return successes, fails
}
