package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"price-relay/src/helpers"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
)

// MultiSourceManager serves quotes from an ordered list of IPriceSource
// instances. The source that answered last is asked first; on failure the
// next one in order is tried.
type MultiSourceManager struct {
	Sources []interfaces.IPriceSource
	Logger  *logger.Logger
	mu      sync.RWMutex
	active  int
}

// -----------------------------------------------------------------------------

func NewMultiSourceManager(sources []interfaces.IPriceSource, log *logger.Logger) *MultiSourceManager {
	m := &MultiSourceManager{Logger: log}
	for _, s := range sources {
		if err := m.AddSource(s); err != nil {
			log.Warning("%v", err)
		}
	}
	return m
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) Name() string {
	return "multi"
}

// -----------------------------------------------------------------------------

// AddSource appends a source at the lowest priority
func (m *MultiSourceManager) AddSource(source interfaces.IPriceSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	for _, s := range m.Sources {
		if s.Name() == name {
			return fmt.Errorf("source %s already exists", name)
		}
	}

	m.Sources = append(m.Sources, source)
	m.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// RemoveSource removes a source
func (m *MultiSourceManager) RemoveSource(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.Sources {
		if s.Name() != name {
			continue
		}
		m.Sources = append(m.Sources[:i], m.Sources[i+1:]...)
		if m.active >= len(m.Sources) {
			m.active = 0
		}
		m.Logger.Info("Removed source: %s", name)
		return nil
	}
	return fmt.Errorf("source %s not found", name)
}

// -----------------------------------------------------------------------------

// GetSource retrieves a source by name
func (m *MultiSourceManager) GetSource(name string) (interfaces.IPriceSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.Sources {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("source %s not found", name)
}

// -----------------------------------------------------------------------------

// GetAllSources returns the sources in priority order
func (m *MultiSourceManager) GetAllSources() []interfaces.IPriceSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]interfaces.IPriceSource(nil), m.Sources...)
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) FetchPrice(ctx context.Context, symbol string) (models.MPriceUpdate, error) {
	m.mu.RLock()
	sources := append([]interfaces.IPriceSource(nil), m.Sources...)
	start := m.active
	m.mu.RUnlock()

	if len(sources) == 0 {
		return models.MPriceUpdate{}, helpers.NewUpstreamError("no price sources configured", nil)
	}

	var errs []error
	for i := 0; i < len(sources); i++ {
		idx := (start + i) % len(sources)
		src := sources[idx]

		update, err := src.FetchPrice(ctx, symbol)
		if err == nil {
			if idx != start {
				m.Logger.Info("Switched to source %s", src.Name())
				m.mu.Lock()
				m.active = idx
				m.mu.Unlock()
			}
			return update, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}

	return models.MPriceUpdate{}, helpers.NewUpstreamError(fmt.Sprintf("all sources failed for %s", symbol), errors.Join(errs...))
}
