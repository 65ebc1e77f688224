package rules

// MinRingSize is the smallest evil ring that still hides something.
const MinRingSize = 3

// Intel holds the random draws behind the alternate visibility modes. It is drawn once at game start,
// stored next to the assignments and never mutated, so views can be recomputed on demand.
type Intel struct {
	// DecoyID is the good player shown to the seer as evil (decoy mode).
	DecoyID string `json:"decoy_id,omitempty"`
	// CertainEvil is shown to the seer as certainly evil (split modes).
	CertainEvil []string `json:"certain_evil,omitempty"`
	// Mixed holds exactly one evil and one good player, in random order (split modes).
	Mixed []string `json:"mixed,omitempty"`
	// Ring maps each ring member to the one teammate they know.
	Ring map[string]string `json:"ring,omitempty"`
}

// DrawIntel makes every random selection the configured modes need.
func DrawIntel(assignments []Assignment, cfg RoleConfiguration, rng Rand) (Intel, error) {
	var intel Intel
	seerID, ok := FindRole(assignments, RoleSeer)
	if !ok {
		return intel, validationError("no_seer", "assignments have no seer")
	}
	otherGood := playersWhere(assignments, func(a Assignment) bool {
		return a.Alignment == Good && a.PlayerID != seerID
	})
	visible := seerVisibleEvil(assignments)

	switch cfg.IntelMode {
	case IntelDecoy:
		if len(otherGood) == 0 {
			return intel, configurationError("decoy_no_good", "decoy needs a good player besides the seer")
		}
		intel.DecoyID = pick(rng, otherGood)
	case IntelSplit:
		if len(visible) > 0 && len(otherGood) > 0 {
			order := shuffled(rng, visible)
			certain := certainGroupSize(len(visible))
			intel.CertainEvil = order[1 : 1+certain]
			intel.Mixed = mixedPair(rng, order[0], pick(rng, otherGood))
		}
	case IntelVariantSplit:
		wolfID, ok := FindRole(assignments, RoleLoneWolf)
		if !ok {
			return intel, configurationError("variant_split_prerequisite", "variant split intel requires the standard lone wolf")
		}
		if len(otherGood) == 0 {
			return intel, configurationError("split_no_good", "split intel needs a good player besides the seer")
		}
		var rest []string
		for _, id := range visible {
			if id != wolfID {
				rest = append(rest, id)
			}
		}
		order := shuffled(rng, rest)
		intel.CertainEvil = order[:certainGroupSize(len(visible))]
		intel.Mixed = mixedPair(rng, wolfID, pick(rng, otherGood))
	}
	if len(intel.CertainEvil) == 0 {
		intel.CertainEvil = nil
	}

	if cfg.EvilRing {
		members := playersWhere(assignments, func(a Assignment) bool {
			return a.Alignment == Evil && !a.Role.IsLoneWolf()
		})
		if len(members) < MinRingSize {
			return intel, configurationError("ring_too_small", "ring visibility needs %d evil players outside the lone wolf, have %d", MinRingSize, len(members))
		}
		ring := shuffled(rng, members)
		intel.Ring = make(map[string]string, len(ring))
		for i, id := range ring {
			intel.Ring[id] = ring[(i+1)%len(ring)]
		}
	}
	return intel, nil
}

// certainGroupSize is the number of visible evil shown as certain: >=3 -> 2, 2 -> 1, 1 -> 0.
func certainGroupSize(visible int) int {
	switch {
	case visible >= 3:
		return 2
	case visible == 2:
		return 1
	default:
		return 0
	}
}

func mixedPair(rng Rand, evilID, goodID string) []string {
	if rng.Intn(2) == 0 {
		return []string{evilID, goodID}
	}
	return []string{goodID, evilID}
}

// seerVisibleEvil lists evil players the seer can see, in assignment order.
func seerVisibleEvil(assignments []Assignment) []string {
	return playersWhere(assignments, func(a Assignment) bool {
		return a.Alignment == Evil && !a.Role.HiddenFromSeer()
	})
}
