package rules

// QuestsPerGame is the length of the quest schedule.
const QuestsPerGame = 5

// QuestsToWin is the number of successes (or fails) that decides the quest track.
const QuestsToWin = 3

// Quest is the static configuration of one quest.
type Quest struct {
	TeamSize      int `json:"team_size"`
	FailsRequired int `json:"fails_required"`
}

var teamSizes = map[int][QuestsPerGame]int{
	5:  {2, 3, 2, 3, 3},
	6:  {2, 3, 4, 3, 4},
	7:  {2, 3, 3, 4, 4},
	8:  {3, 4, 4, 5, 5},
	9:  {3, 4, 4, 5, 5},
	10: {3, 4, 4, 5, 5},
}

// twoFailQuest is the 1-based quest that needs two fails from 7 players up.
const twoFailQuest = 4

// QuestSpec returns team size and fail threshold for a 1-based quest number.
func QuestSpec(playerCount, questNumber int) (Quest, error) {
	sizes, ok := teamSizes[playerCount]
	if !ok {
		return Quest{}, validationError("player_count", "no quest table for %d players", playerCount)
	}
	if questNumber < 1 || questNumber > QuestsPerGame {
		return Quest{}, validationError("quest_number", "quest number %d not in range [1,%d]", questNumber, QuestsPerGame)
	}
	q := Quest{TeamSize: sizes[questNumber-1], FailsRequired: 1}
	if playerCount >= 7 && questNumber == twoFailQuest {
		q.FailsRequired = 2
	}
	return q, nil
}

// Schedule returns all five quests for playerCount.
func Schedule(playerCount int) ([]Quest, error) {
	out := make([]Quest, 0, QuestsPerGame)
	for i := 1; i <= QuestsPerGame; i++ {
		q, err := QuestSpec(playerCount, i)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
