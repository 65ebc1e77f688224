package rules

// QuestOutcome is the result of a single quest.
type QuestOutcome string

const (
	QuestSuccess QuestOutcome = "success"
	QuestFail    QuestOutcome = "fail"
)

// QuestAction is one team member's secret card.
type QuestAction struct {
	PlayerID string `json:"player_id"`
	Success  bool   `json:"success"`
}

// QuestResult is appended once per resolved quest and never changed.
type QuestResult struct {
	QuestNumber  int          `json:"quest_number"`
	Outcome      QuestOutcome `json:"outcome"`
	SuccessCount int          `json:"success_count"`
	FailCount    int          `json:"fail_count"`
}

// ValidateQuestAction rejects a fail card from a good player.
func ValidateQuestAction(a Assignment, action QuestAction) error {
	if a.PlayerID != action.PlayerID {
		return validationError("action_owner", "action for %s checked against %s", action.PlayerID, a.PlayerID)
	}
	if a.Alignment == Good && !action.Success {
		return validationError("good_must_succeed", "good players can only submit success")
	}
	return nil
}

// ResolveQuest tallies the actions of a full team.
func ResolveQuest(actions []QuestAction, playerCount, questNumber int) (QuestResult, error) {
	q, err := QuestSpec(playerCount, questNumber)
	if err != nil {
		return QuestResult{}, err
	}
	if len(actions) != q.TeamSize {
		return QuestResult{}, validationError(ErrWrongTeamSize.Code, "quest %d needs %d actions, got %d", questNumber, q.TeamSize, len(actions))
	}
	seen := make(map[string]bool, len(actions))
	r := QuestResult{QuestNumber: questNumber}
	for _, a := range actions {
		if seen[a.PlayerID] {
			return QuestResult{}, validationError(ErrDuplicateAction.Code, "player %s submitted twice", a.PlayerID)
		}
		seen[a.PlayerID] = true
		if a.Success {
			r.SuccessCount++
		} else {
			r.FailCount++
		}
	}
	r.Outcome = QuestSuccess
	if r.FailCount >= q.FailsRequired {
		r.Outcome = QuestFail
	}
	return r, nil
}

// RecordQuestAction appends action to the pending actions, rejecting duplicates and non-members.
func RecordQuestAction(pending []QuestAction, action QuestAction, team []string) ([]QuestAction, error) {
	member := false
	for _, id := range team {
		if id == action.PlayerID {
			member = true
			break
		}
	}
	if !member {
		return pending, eligibilityError("not_on_team", "only team members can submit a quest action")
	}
	for _, a := range pending {
		if a.PlayerID == action.PlayerID {
			return pending, validationError(ErrDuplicateAction.Code, "player %s already submitted", action.PlayerID)
		}
	}
	out := make([]QuestAction, len(pending), len(pending)+1)
	copy(out, pending)
	return append(out, action), nil
}
