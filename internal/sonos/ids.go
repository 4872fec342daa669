package sonos

import (
	"math/rand"
	"sync"
	"time"
)

// IDSource yields pseudo-random numbers for generated item identifiers.
type IDSource interface {
	// Intn returns a number in [0, n).
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomIDSource returns a concurrency-safe IDSource seeded from seed.
func NewRandomIDSource(seed int64) IDSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func defaultIDSource() IDSource {
	return NewRandomIDSource(time.Now().UnixNano())
}
