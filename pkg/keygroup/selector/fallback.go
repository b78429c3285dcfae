package selector

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

// Fallback fills the topic list when too few non-redundant candidates remain.
// Pick returns up to n words drawn from pool; every returned word must be a
// member of pool.
type Fallback interface {
	Pick(pool []string, n int) []string
	Name() string
}

// NoFallback keeps the short list. Selection is fully deterministic.
type NoFallback struct{}

func (NoFallback) Pick([]string, int) []string { return nil }

func (NoFallback) Name() string { return "none" }

// RandomFallback samples uniformly without replacement from the pool.
// A fixed seed makes runs reproducible.
type RandomFallback struct {
	rng *rand.Rand
}

// NewRandomFallback creates a sampler seeded with seed.
func NewRandomFallback(seed uint64) *RandomFallback {
	return &RandomFallback{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick samples min(n, len(pool)) words.
func (f *RandomFallback) Pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	perm := f.rng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, pool[i])
	}
	return out
}

func (f *RandomFallback) Name() string { return "random" }

// ParseFallback maps a config value to a strategy.
func ParseFallback(name string, seed uint64) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "random":
		return NewRandomFallback(seed), nil
	case "none":
		return NoFallback{}, nil
	}
	return nil, fmt.Errorf("selector fallback %q: %w", name, internalerr.ErrInvalidConfig)
}
