package storage

import (
	"sync"

	"price-relay/src/models"
)

// -----------------------------------------------------------------------------

// MemoryStore keeps the most recent ticks per symbol in ring buffers.
// Contents are lost on restart.
type MemoryStore struct {
	capacity int

	mu      sync.RWMutex
	buffers map[string]*RingBuffer
}

// -----------------------------------------------------------------------------

func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		buffers:  make(map[string]*RingBuffer),
	}
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Initialize() error {
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) SavePrice(tick models.MPriceTick) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rb, ok := m.buffers[tick.Symbol]
	if !ok {
		rb = NewRingBuffer(m.capacity)
		m.buffers[tick.Symbol] = rb
	}
	rb.Append(tick)
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) RecentPrices(symbol string, limit int) ([]models.MPriceTick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rb, ok := m.buffers[symbol]
	if !ok {
		return []models.MPriceTick{}, nil
	}
	return rb.GetLatest(limit), nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Close() error {
	return nil
}
