// Package rules is the pure rules engine of the hidden-role quest game.
//
// Every exported function computes a result from an explicit input snapshot. Nothing here performs I/O,
// keeps state between calls or reads a global random generator: randomness arrives through Rand.
package rules

import "math/rand"

// Alignment is the team a role plays for.
type Alignment string

const (
	Good Alignment = "good"
	Evil Alignment = "evil"
)

// Role is a special (or filler) role bound to one player.
type Role string

const (
	RoleSeer          Role = "seer"
	RoleProtector     Role = "protector"
	RoleLoyal         Role = "loyal"
	RoleHunter        Role = "hunter"
	RoleDeceiver      Role = "deceiver"
	RoleUsurper       Role = "usurper"
	RoleLoneWolf      Role = "lone_wolf"
	RoleLoneWolfChaos Role = "lone_wolf_chaos"
	RoleMinion        Role = "minion"
)

var roleAlignment = map[Role]Alignment{
	RoleSeer:          Good,
	RoleProtector:     Good,
	RoleLoyal:         Good,
	RoleHunter:        Evil,
	RoleDeceiver:      Evil,
	RoleUsurper:       Evil,
	RoleLoneWolf:      Evil,
	RoleLoneWolfChaos: Evil,
	RoleMinion:        Evil,
}

// Alignment returns the role's team. Unknown roles are an invariant violation.
func (r Role) Alignment() Alignment {
	a, ok := roleAlignment[r]
	invariant(ok, "unknown role %q", r)
	return a
}

// Valid reports whether r is in the catalogue.
func (r Role) Valid() bool {
	_, ok := roleAlignment[r]
	return ok
}

// IsLoneWolf reports whether r is either lone-wolf variant.
func (r Role) IsLoneWolf() bool {
	return r == RoleLoneWolf || r == RoleLoneWolfChaos
}

// HiddenFromSeer reports whether the seer never sees r.
func (r Role) HiddenFromSeer() bool {
	return r == RoleUsurper || r == RoleLoneWolfChaos
}

// Player counts supported by the capacity table.
const (
	MinPlayers = 5
	MaxPlayers = 10
)

// Capacity is the good/evil split for a player count.
type Capacity struct {
	Good int
	Evil int
}

var capacityTable = map[int]Capacity{
	5:  {Good: 3, Evil: 2},
	6:  {Good: 4, Evil: 2},
	7:  {Good: 4, Evil: 3},
	8:  {Good: 5, Evil: 3},
	9:  {Good: 6, Evil: 3},
	10: {Good: 6, Evil: 4},
}

// SupportedPlayerCount reports whether n has a capacity table entry.
func SupportedPlayerCount(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// CapacityFor returns the split for n players. Callers must validate n first; a missing entry panics.
func CapacityFor(n int) Capacity {
	c, ok := capacityTable[n]
	invariant(ok, "no capacity entry for %d players", n)
	return c
}

// Rand is the injectable random source. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source; equal seeds reproduce equal games.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// pick returns a uniformly chosen element of ids.
func pick(rng Rand, ids []string) string {
	invariant(len(ids) > 0, "pick from empty set")
	return ids[rng.Intn(len(ids))]
}

// shuffled returns a shuffled copy of ids.
func shuffled(rng Rand, ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
