package games

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vntrieu/shadowquest/internal/rules"
)

// Presence reports whether a player currently has a live connection.
type Presence interface {
	Connected(roomPlayerID string) bool
}

// Config holds the engine's collaborators and timing. Zero fields take defaults in NewEngine.
type Config struct {
	// QuizTimeout bounds how long the quiz waits for connected eligible players.
	QuizTimeout time.Duration
	// Presence limits quiz completion to connected players; nil treats everyone as connected.
	Presence Presence
	// Names decorates quiz results and player views with display names; optional.
	Names NameResolver
	Now   func() time.Time
	// NewRand returns the random source for one game setup.
	NewRand func() (rules.Rand, error)
}

// DefaultConfig returns production settings: crypto-seeded randomness and the wall clock.
func DefaultConfig() Config {
	return Config{
		QuizTimeout: rules.DefaultQuizTimeout,
		Now:         time.Now,
		NewRand:     cryptoSeededRand,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.QuizTimeout <= 0 {
		c.QuizTimeout = d.QuizTimeout
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	if c.NewRand == nil {
		c.NewRand = d.NewRand
	}
	return c
}

// cryptoSeededRand seeds a math/rand source from crypto/rand so each game gets an unpredictable setup
// that can still be replayed from its seed.
func cryptoSeededRand() (rules.Rand, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return rules.NewRand(int64(binary.LittleEndian.Uint64(buf[:]))), nil
}

// SeededRand returns a NewRand func that always uses seed. Tests use it for reproducible games.
func SeededRand(seed int64) func() (rules.Rand, error) {
	return func() (rules.Rand, error) {
		return rules.NewRand(seed), nil
	}
}

// DecodeRoleConfiguration converts a loosely typed config map (a move payload or the stored game
// config) into a RoleConfiguration. Unknown keys are ignored.
func DecodeRoleConfiguration(m map[string]any) (rules.RoleConfiguration, error) {
	var cfg rules.RoleConfiguration
	if len(m) == 0 {
		return cfg, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return cfg, fmt.Errorf("%w: config: %v", ErrBadPayload, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: config: %v", ErrBadPayload, err)
	}
	return cfg, nil
}
