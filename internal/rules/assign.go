package rules

// Assignment binds a role to a player. It is immutable once created.
type Assignment struct {
	PlayerID  string    `json:"player_id"`
	Alignment Alignment `json:"alignment"`
	Role      Role      `json:"role"`
}

// AssignRoles randomly binds roleSet to playerIDs. The result follows playerIDs order.
func AssignRoles(roleSet []Role, playerIDs []string, rng Rand) ([]Assignment, error) {
	n := len(playerIDs)
	if !SupportedPlayerCount(n) {
		return nil, validationError("player_count", "player count %d not in range [%d,%d]", n, MinPlayers, MaxPlayers)
	}
	if len(roleSet) != n {
		return nil, validationError("role_count", "%d roles for %d players", len(roleSet), n)
	}
	seen := make(map[string]bool, n)
	for _, id := range playerIDs {
		if id == "" {
			return nil, validationError("empty_player_id", "empty player id")
		}
		if seen[id] {
			return nil, validationError("duplicate_player_id", "duplicate player id %s", id)
		}
		seen[id] = true
	}

	capacity := CapacityFor(n)
	var seers, hunters, good, evil int
	for _, r := range roleSet {
		if !r.Valid() {
			return nil, validationError("unknown_role", "unknown role %q", r)
		}
		switch r {
		case RoleSeer:
			seers++
		case RoleHunter:
			hunters++
		}
		if r.Alignment() == Good {
			good++
		} else {
			evil++
		}
	}
	if seers != 1 || hunters != 1 {
		return nil, validationError("required_roles", "role set needs exactly one seer and one hunter, has %d and %d", seers, hunters)
	}
	if good != capacity.Good || evil != capacity.Evil {
		return nil, validationError("alignment_split", "role set is %d good/%d evil, %d players need %d/%d", good, evil, n, capacity.Good, capacity.Evil)
	}

	roles := make([]Role, n)
	copy(roles, roleSet)
	rng.Shuffle(n, func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	out := make([]Assignment, n)
	for i, id := range playerIDs {
		out[i] = Assignment{PlayerID: id, Alignment: roles[i].Alignment(), Role: roles[i]}
	}
	return out, nil
}

// AssignmentFor returns the assignment of playerID.
func AssignmentFor(assignments []Assignment, playerID string) (Assignment, bool) {
	for _, a := range assignments {
		if a.PlayerID == playerID {
			return a, true
		}
	}
	return Assignment{}, false
}

// FindRole returns the player holding role, if any.
func FindRole(assignments []Assignment, role Role) (string, bool) {
	for _, a := range assignments {
		if a.Role == role {
			return a.PlayerID, true
		}
	}
	return "", false
}

// HasRole reports whether any player holds role.
func HasRole(assignments []Assignment, role Role) bool {
	_, ok := FindRole(assignments, role)
	return ok
}

// HasDeceiver reports whether the deceiver is in play, the protector's source of uncertainty.
func HasDeceiver(assignments []Assignment) bool {
	return HasRole(assignments, RoleDeceiver)
}

func playersWhere(assignments []Assignment, keep func(Assignment) bool) []string {
	var out []string
	for _, a := range assignments {
		if keep(a) {
			out = append(out, a.PlayerID)
		}
	}
	return out
}
