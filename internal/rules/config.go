package rules

import "fmt"

// LoneWolfVariant selects which lone wolf, if any, is in play.
type LoneWolfVariant string

const (
	LoneWolfNone     LoneWolfVariant = ""
	LoneWolfStandard LoneWolfVariant = "standard"
	LoneWolfChaos    LoneWolfVariant = "chaos"
)

// IntelMode is the single active augmentation of the seer's view.
type IntelMode string

const (
	IntelNone         IntelMode = ""
	IntelDecoy        IntelMode = "decoy"
	IntelSplit        IntelMode = "split_intel"
	IntelVariantSplit IntelMode = "variant_split_intel"
)

// RoleConfiguration is the optional-role selection for a game. It is created once and never mutated.
type RoleConfiguration struct {
	Protector bool            `json:"protector,omitempty"`
	Deceiver  bool            `json:"deceiver,omitempty"`
	Usurper   bool            `json:"usurper,omitempty"`
	LoneWolf  LoneWolfVariant `json:"lone_wolf,omitempty"`
	IntelMode IntelMode       `json:"intel_mode,omitempty"`
	// EvilRing replaces full evil-team knowledge with one known teammate per evil player.
	EvilRing bool `json:"evil_ring,omitempty"`
	// ParallelEndgame collects the hunter's guess and the quiz at the same time.
	ParallelEndgame bool `json:"parallel_endgame,omitempty"`
	// Quiz enables the "who was the seer" round after the outcome is known.
	Quiz bool `json:"quiz,omitempty"`
}

// LoneWolfRole returns the role for the configured variant and whether one is enabled.
func (c RoleConfiguration) LoneWolfRole() (Role, bool) {
	switch c.LoneWolf {
	case LoneWolfStandard:
		return RoleLoneWolf, true
	case LoneWolfChaos:
		return RoleLoneWolfChaos, true
	}
	return "", false
}

func (c RoleConfiguration) goodSpecials() []Role {
	out := []Role{RoleSeer}
	if c.Protector {
		out = append(out, RoleProtector)
	}
	return out
}

func (c RoleConfiguration) evilSpecials() []Role {
	out := []Role{RoleHunter}
	if c.Deceiver {
		out = append(out, RoleDeceiver)
	}
	if c.Usurper {
		out = append(out, RoleUsurper)
	}
	if r, ok := c.LoneWolfRole(); ok {
		out = append(out, r)
	}
	return out
}

// Validation is the outcome of ValidateConfiguration. Errors block game start; warnings do not.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []*Error `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateConfiguration checks cfg against the capacity table for playerCount.
func ValidateConfiguration(cfg RoleConfiguration, playerCount int) Validation {
	var v Validation
	fail := func(code, format string, args ...any) {
		v.Errors = append(v.Errors, configurationError(code, format, args...))
	}
	warn := func(format string, args ...any) {
		v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
	}

	if !SupportedPlayerCount(playerCount) {
		fail("player_count", "player count %d not in range [%d,%d]", playerCount, MinPlayers, MaxPlayers)
		return v
	}
	switch cfg.LoneWolf {
	case LoneWolfNone, LoneWolfStandard, LoneWolfChaos:
	default:
		fail("unknown_lone_wolf", "unknown lone wolf variant %q", cfg.LoneWolf)
	}
	switch cfg.IntelMode {
	case IntelNone, IntelDecoy, IntelSplit, IntelVariantSplit:
	default:
		fail("unknown_intel_mode", "unknown intel mode %q", cfg.IntelMode)
	}
	if cfg.IntelMode == IntelVariantSplit && cfg.LoneWolf != LoneWolfStandard {
		fail("variant_split_prerequisite", "variant split intel requires the standard lone wolf")
	}
	if len(v.Errors) > 0 {
		return v
	}

	capacity := CapacityFor(playerCount)
	good, evil := cfg.goodSpecials(), cfg.evilSpecials()
	if len(good) > capacity.Good {
		fail("good_capacity", "%d good special roles exceed %d good slots for %d players", len(good), capacity.Good, playerCount)
	}
	if len(evil) > capacity.Evil {
		fail("evil_capacity", "%d evil special roles exceed %d evil slots for %d players", len(evil), capacity.Evil, playerCount)
	}
	if len(v.Errors) > 0 {
		return v
	}

	visibleEvil := capacity.Evil
	for _, r := range evil {
		if r.HiddenFromSeer() {
			visibleEvil--
		}
	}
	switch cfg.IntelMode {
	case IntelSplit, IntelVariantSplit:
		if visibleEvil == 0 {
			fail("split_no_visible_evil", "split intel needs at least one evil visible to the seer")
		} else if visibleEvil == 1 {
			warn("split intel with a single visible evil only shows the mixed pair")
		}
		if capacity.Good-1 == 0 {
			fail("split_no_good", "split intel needs a good player besides the seer")
		}
	case IntelDecoy:
		if capacity.Good-1 == 0 {
			fail("decoy_no_good", "decoy needs a good player besides the seer")
		}
	}
	if cfg.EvilRing {
		eligible := capacity.Evil
		if _, ok := cfg.LoneWolfRole(); ok {
			eligible--
		}
		if eligible < MinRingSize {
			fail("ring_too_small", "ring visibility needs %d evil players outside the lone wolf, have %d", MinRingSize, eligible)
		}
	}

	if cfg.Protector && !cfg.Deceiver {
		warn("protector without deceiver sees the seer directly")
	}
	if cfg.Deceiver && !cfg.Protector {
		warn("deceiver has no effect without a protector")
	}
	if cfg.Usurper && playerCount <= 6 {
		warn("usurper in a %d player game strongly favours evil", playerCount)
	}
	if len(evil) == capacity.Evil && capacity.Evil > 2 {
		warn("every evil slot is a special role")
	}
	v.Valid = len(v.Errors) == 0
	return v
}

// BuildRoleSet returns the exact role multiset for a valid configuration.
func BuildRoleSet(cfg RoleConfiguration, playerCount int) ([]Role, error) {
	v := ValidateConfiguration(cfg, playerCount)
	if !v.Valid {
		return nil, v.Errors[0]
	}
	capacity := CapacityFor(playerCount)
	roles := make([]Role, 0, playerCount)
	good := cfg.goodSpecials()
	roles = append(roles, good...)
	for i := len(good); i < capacity.Good; i++ {
		roles = append(roles, RoleLoyal)
	}
	evil := cfg.evilSpecials()
	roles = append(roles, evil...)
	for i := len(evil); i < capacity.Evil; i++ {
		roles = append(roles, RoleMinion)
	}
	invariant(len(roles) == playerCount, "role set size %d for %d players", len(roles), playerCount)
	return roles, nil
}
