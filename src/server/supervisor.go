package server

import (
	"context"
	"sync"
	"sync/atomic"
)

// -----------------------------------------------------------------------------

// TaskGroup tracks the goroutines spawned per connection so shutdown and
// tests can wait for them instead of leaking them.
type TaskGroup struct {
	wg     sync.WaitGroup
	active atomic.Int64
}

// Go runs fn in a tracked goroutine.
func (g *TaskGroup) Go(fn func()) {
	g.wg.Add(1)
	g.active.Add(1)
	go func() {
		defer func() {
			g.active.Add(-1)
			g.wg.Done()
		}()
		fn()
	}()
}

// Active returns the number of running tasks.
func (g *TaskGroup) Active() int {
	return int(g.active.Load())
}

// Wait blocks until every task has returned or ctx is done.
func (g *TaskGroup) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
