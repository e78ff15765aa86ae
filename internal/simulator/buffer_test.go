package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingBuffer_EvictsOldestFirst(t *testing.T) {
	b := NewRollingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
		assert.LessOrEqual(t, b.Len(), 3)
	}

	assert.Equal(t, []int{3, 4, 5}, b.Values())
	assert.Equal(t, 3, b.Cap())
}

func TestRollingBuffer_ValuesIsACopy(t *testing.T) {
	b := NewRollingBuffer[string](2)
	b.Push("a")

	v := b.Values()
	v[0] = "mutated"

	assert.Equal(t, []string{"a"}, b.Values())
}

func TestRollingBuffer_Reset(t *testing.T) {
	b := NewRollingBuffer[float64](4)
	b.Push(1)
	b.Push(2)
	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Values())

	b.Push(3)
	assert.Equal(t, []float64{3}, b.Values())
}

func TestRollingBuffer_MinimumCapacity(t *testing.T) {
	b := NewRollingBuffer[int](0)
	b.Push(1)
	b.Push(2)

	assert.Equal(t, 1, b.Cap())
	assert.Equal(t, []int{2}, b.Values())
}
