// Package random supplies the seedable generator behind every simulated
// draw: telemetry jitter, motion, alert triggering and catalog selection.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the subset of *rand.Rand the simulation uses.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Locked wraps a PCG generator with a mutex. Timer callbacks and the tick
// loop run on different goroutines.
type Locked struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a deterministic source for seed. A zero seed is replaced by
// the current time.
func New(seed uint64) *Locked {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Locked{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // simulation only
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}
