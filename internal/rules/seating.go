package rules

// Seating is the shuffled turn order. Only LeaderIndex changes after creation.
type Seating struct {
	Order       []string `json:"order"`
	LeaderIndex int      `json:"leader_index"`
}

// InitializeSeating shuffles playerIDs and picks a random first leader.
func InitializeSeating(playerIDs []string, rng Rand) (Seating, error) {
	if len(playerIDs) == 0 {
		return Seating{}, validationError("no_players", "cannot seat zero players")
	}
	order := shuffled(rng, playerIDs)
	return Seating{Order: order, LeaderIndex: rng.Intn(len(order))}, nil
}

// LeaderID returns the current leader, or "" for an empty seating.
func (s Seating) LeaderID() string {
	if s.LeaderIndex < 0 || s.LeaderIndex >= len(s.Order) {
		return ""
	}
	return s.Order[s.LeaderIndex]
}

// Rotate returns the seating with leadership passed to the next seat.
func (s Seating) Rotate() Seating {
	s.LeaderIndex = AdvanceLeader(s.LeaderIndex, len(s.Order))
	return s
}

// Contains reports whether id is seated.
func (s Seating) Contains(id string) bool {
	for _, p := range s.Order {
		if p == id {
			return true
		}
	}
	return false
}

// AdvanceLeader returns (index+1) mod n.
func AdvanceLeader(index, n int) int {
	invariant(n > 0, "advance leader with %d seats", n)
	return (index + 1) % n
}
