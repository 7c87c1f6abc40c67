package buffalos

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
)

const (
	minID = 1000000000
	maxID = 9999999999

	maxIDAttempts = 1000
)

// ErrIDSpaceExhausted is returned when no free id was drawn after many tries.
var ErrIDSpaceExhausted = errors.New("could not draw an unused buffalo id")

// IDGenerator draws random 10-digit ids, resampling on collision with the
// supplied used set. The check happens against a snapshot taken by the
// caller, so two concurrent creations can still pick the same id.
type IDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewIDGenerator uses src for randomness; nil means a randomly seeded PCG.
func NewIDGenerator(src rand.Source) *IDGenerator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &IDGenerator{rnd: rand.New(src)}
}

// Generate returns a 10-digit id not present in used.
func (g *IDGenerator) Generate(used []string) (string, error) {
	taken := make(map[string]struct{}, len(used))
	for _, id := range used {
		taken[id] = struct{}{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for range maxIDAttempts {
		id := strconv.FormatInt(minID+g.rnd.Int64N(maxID-minID+1), 10)
		if _, dup := taken[id]; !dup {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}
