package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/metrics"
)

// -----------------------------------------------------------------------------
// SubscriberRegistry
// -----------------------------------------------------------------------------

// SubscriberRegistry keeps dashboard sessions in registration order. It holds
// sessions without owning them: a failed send makes it forget the session,
// closing the connection stays with the handler that created it.
type SubscriberRegistry struct {
	Logger *logger.Logger

	mu       sync.Mutex
	sessions []interfaces.ISession
}

// -----------------------------------------------------------------------------

func NewSubscriberRegistry(log *logger.Logger) *SubscriberRegistry {
	return &SubscriberRegistry{Logger: log}
}

// -----------------------------------------------------------------------------

func (r *SubscriberRegistry) Add(session interfaces.ISession) {
	r.mu.Lock()
	r.sessions = append(r.sessions, session)
	count := len(r.sessions)
	r.mu.Unlock()

	metrics.SubscribersCurrent.Set(float64(count))
	r.Logger.Debug("Registered subscriber %s (%d total)", session.ID(), count)
}

// -----------------------------------------------------------------------------

// Broadcast accepts raw bytes (sent verbatim) or any JSON-serializable value.
func (r *SubscriberRegistry) Broadcast(payload interface{}) (int, error) {
	data, err := encode(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize broadcast payload: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	live := r.sessions[:0]
	for _, s := range r.sessions {
		if err := s.SendText(data); err != nil {
			r.Logger.Info("Dropping subscriber %s: %v", s.ID(), err)
			metrics.SubscribersDropped.Inc()
			continue
		}
		delivered++
		live = append(live, s)
	}
	// Clear the tail so dropped sessions can be collected.
	for i := len(live); i < len(r.sessions); i++ {
		r.sessions[i] = nil
	}
	r.sessions = live

	metrics.BroadcastsTotal.Inc()
	metrics.SubscribersCurrent.Set(float64(len(r.sessions)))
	return delivered, nil
}

// -----------------------------------------------------------------------------

func (r *SubscriberRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// -----------------------------------------------------------------------------

// Contains reports whether a session with the given identity is registered.
func (r *SubscriberRegistry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID() == id {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

func encode(payload interface{}) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
