// Package randomtest provides scripted random sources for forcing branches
// in tests.
package randomtest

import "sync"

// Sequence replays fixed values. Float64 and IntN cycle through their own
// slices independently.
type Sequence struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

// NewSequence builds a Sequence. Empty slices yield zero values.
func NewSequence(floats []float64, ints []int) *Sequence {
	return &Sequence{floats: floats, ints: ints}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *Sequence) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}
