package ringbuffer

// RingBuffer is a fixed-capacity, insertion-ordered buffer.
// Once full, every Append evicts exactly one element: the oldest.
// It is not safe for concurrent use; the owner serializes access.
type RingBuffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

// New creates a ring buffer holding at most capacity elements.
// A capacity below one is raised to one.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer[T]{
		items: make([]T, capacity),
	}
}

// Append inserts v at the tail. When the buffer was already full the evicted
// head element is returned with ok set to true.
func (rb *RingBuffer[T]) Append(v T) (evicted T, ok bool) {
	capacity := len(rb.items)

	if rb.size < capacity {
		rb.items[(rb.head+rb.size)%capacity] = v
		rb.size++
		return evicted, false
	}

	evicted = rb.items[rb.head]
	rb.items[rb.head] = v
	rb.head = (rb.head + 1) % capacity

	return evicted, true
}

// Len returns the number of buffered elements.
func (rb *RingBuffer[T]) Len() int {
	return rb.size
}

// Cap returns the fixed capacity.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.items)
}

// Range calls fn for each element, oldest first, until fn returns false.
func (rb *RingBuffer[T]) Range(fn func(v T) bool) {
	capacity := len(rb.items)
	for i := 0; i < rb.size; i++ {
		if !fn(rb.items[(rb.head+i)%capacity]) {
			return
		}
	}
}

// Clear removes every element.
func (rb *RingBuffer[T]) Clear() {
	var zero T
	for i := range rb.items {
		rb.items[i] = zero
	}
	rb.head = 0
	rb.size = 0
}
