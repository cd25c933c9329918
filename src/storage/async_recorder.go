package storage

import (
	"sync"

	"price-relay/src/helpers"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
)

// -----------------------------------------------------------------------------

// AsyncRecorder decouples connection tasks from database latency. SavePrice
// only enqueues; one background goroutine writes to the wrapped store.
// When the queue is full the tick is dropped.
type AsyncRecorder struct {
	Store  interfaces.IPriceStore
	Logger *logger.Logger

	queue     chan models.MPriceTick
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	started   bool
	closed    bool
}

// -----------------------------------------------------------------------------

func NewAsyncRecorder(store interfaces.IPriceStore, queueSize int, log *logger.Logger) *AsyncRecorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &AsyncRecorder{
		Store:  store,
		Logger: log,
		queue:  make(chan models.MPriceTick, queueSize),
		done:   make(chan struct{}),
	}
}

// -----------------------------------------------------------------------------

func (a *AsyncRecorder) Initialize() error {
	if err := a.Store.Initialize(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		a.started = true
		go a.run()
	}
	return nil
}

// -----------------------------------------------------------------------------

func (a *AsyncRecorder) run() {
	defer close(a.done)
	for tick := range a.queue {
		if err := a.Store.SavePrice(tick); err != nil {
			a.Logger.Error("Failed to persist tick: %v", err)
		}
	}
}

// -----------------------------------------------------------------------------

func (a *AsyncRecorder) SavePrice(tick models.MPriceTick) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return helpers.NewDatabaseError("recorder closed", nil)
	}

	select {
	case a.queue <- tick:
		return nil
	default:
		return helpers.NewDatabaseError("recorder queue full, tick dropped", nil)
	}
}

// -----------------------------------------------------------------------------

func (a *AsyncRecorder) RecentPrices(symbol string, limit int) ([]models.MPriceTick, error) {
	return a.Store.RecentPrices(symbol, limit)
}

// -----------------------------------------------------------------------------

// Close drains queued ticks, then closes the wrapped store.
func (a *AsyncRecorder) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		started := a.started
		a.mu.Unlock()
		if started {
			<-a.done
		}
	})
	return a.Store.Close()
}
