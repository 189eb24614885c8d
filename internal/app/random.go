package app

import (
	"math/rand"
	"sync"

	"showtime/internal/domain"
)

// lockedRandom makes a *rand.Rand safe to share between rooms
type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a goroutine-safe random source seeded with seed
func NewRandom(seed int64) domain.Random {
	return &lockedRandom{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
