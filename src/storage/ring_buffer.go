package storage

import (
	"price-relay/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of price ticks.
// Not safe for concurrent use; MemoryStore guards it.
// -----------------------------------------------------------------------------

type RingBuffer struct {
	data     []models.MPriceTick
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 500
	}

	return &RingBuffer{
		data:     make([]models.MPriceTick, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append adds a tick, overwriting the oldest once full
func (rb *RingBuffer) Append(tick models.MPriceTick) {
	rb.data[rb.index] = tick
	rb.index = (rb.index + 1) % rb.capacity

	// Update size (never exceeds capacity)
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// GetLatest returns the n latest ticks, oldest first
func (rb *RingBuffer) GetLatest(n int) []models.MPriceTick {
	if rb.size == 0 || n <= 0 {
		return []models.MPriceTick{}
	}

	count := n
	if n > rb.size {
		count = rb.size
	}

	result := make([]models.MPriceTick, count)

	// Latest data is at index-1
	startIdx := (rb.index - count + rb.capacity) % rb.capacity
	for i := 0; i < count; i++ {
		result[i] = rb.data[(startIdx+i)%rb.capacity]
	}

	return result
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether buffer is full
func (rb *RingBuffer) IsFull() bool {
	return rb.size == rb.capacity
}
