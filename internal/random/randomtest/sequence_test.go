package randomtest

import (
	"testing"

	"ZeroTrustDashboard/internal/random"

	"github.com/stretchr/testify/assert"
)

var _ random.Source = (*Sequence)(nil)

func TestSequence_Cycles(t *testing.T) {
	s := NewSequence([]float64{0.1, 0.9}, []int{3, 11})

	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64())

	assert.Equal(t, 3, s.IntN(10))
	assert.Equal(t, 1, s.IntN(10), "values wrap modulo n")
}

func TestSequence_EmptyYieldsZero(t *testing.T) {
	s := NewSequence(nil, nil)
	assert.Equal(t, 0.0, s.Float64())
	assert.Equal(t, 0, s.IntN(5))
}
