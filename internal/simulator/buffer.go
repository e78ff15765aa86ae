package simulator

// RollingBuffer keeps the most recent samples up to a fixed capacity,
// evicting the oldest first.
type RollingBuffer[T any] struct {
	values   []T
	capacity int
}

func NewRollingBuffer[T any](capacity int) *RollingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RollingBuffer[T]{
		values:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push appends v, dropping the oldest sample when the buffer is full.
func (b *RollingBuffer[T]) Push(v T) {
	if len(b.values) >= b.capacity {
		// shift in place so the backing array never grows past capacity
		copy(b.values, b.values[1:])
		b.values = b.values[:len(b.values)-1]
	}
	b.values = append(b.values, v)
}

// Values returns a copy, oldest first.
func (b *RollingBuffer[T]) Values() []T {
	out := make([]T, len(b.values))
	copy(out, b.values)
	return out
}

func (b *RollingBuffer[T]) Len() int {
	return len(b.values)
}

func (b *RollingBuffer[T]) Cap() int {
	return b.capacity
}

func (b *RollingBuffer[T]) Reset() {
	b.values = b.values[:0]
}
