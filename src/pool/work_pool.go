package pool

import (
	"sync"

	"price-relay/src/logger"
	"price-relay/src/metrics"
)

// -----------------------------------------------------------------------------
// WorkPool
// -----------------------------------------------------------------------------

// WorkPool holds the ordered set of assignable symbols. Every operation runs
// under one mutex, so concurrent Take calls never return the same item.
type WorkPool struct {
	Logger *logger.Logger

	mu        sync.Mutex
	available []string
	assigned  map[string]struct{}
}

// -----------------------------------------------------------------------------

// NewWorkPool seeds the pool with items in order. Duplicates are ignored.
func NewWorkPool(items []string, log *logger.Logger) *WorkPool {
	p := &WorkPool{
		Logger:   log,
		assigned: make(map[string]struct{}),
	}
	p.Replenish(items...)
	return p
}

// -----------------------------------------------------------------------------

func (p *WorkPool) Take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) == 0 {
		return "", false
	}

	item := p.available[0]
	p.available[0] = ""
	p.available = p.available[1:]
	p.assigned[item] = struct{}{}
	metrics.PoolRemaining.Set(float64(len(p.available)))

	p.Logger.Debug("Assigned %s (%d left)", item, len(p.available))
	return item, true
}

// -----------------------------------------------------------------------------

func (p *WorkPool) Release(item string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.assigned[item]; !ok {
		return false
	}

	delete(p.assigned, item)
	p.available = append(p.available, item)
	metrics.PoolRemaining.Set(float64(len(p.available)))

	p.Logger.Debug("Released %s back to pool", item)
	return true
}

// -----------------------------------------------------------------------------

func (p *WorkPool) Replenish(items ...string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := 0
	for _, item := range items {
		if item == "" || p.knownLocked(item) {
			continue
		}
		p.available = append(p.available, item)
		added++
	}
	metrics.PoolRemaining.Set(float64(len(p.available)))
	return added
}

// -----------------------------------------------------------------------------

func (p *WorkPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}

// -----------------------------------------------------------------------------

func (p *WorkPool) Available() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.available...)
}

// -----------------------------------------------------------------------------

// Assigned returns the number of items currently held by workers.
func (p *WorkPool) Assigned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assigned)
}

// -----------------------------------------------------------------------------

func (p *WorkPool) knownLocked(item string) bool {
	if _, ok := p.assigned[item]; ok {
		return true
	}
	for _, a := range p.available {
		if a == item {
			return true
		}
	}
	return false
}
