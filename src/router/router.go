package router

import (
	"encoding/json"
	"fmt"
	"time"

	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/metrics"
	"price-relay/src/models"
)

// -----------------------------------------------------------------------------
// BroadcastRouter
// -----------------------------------------------------------------------------

// Options switch the behaviour left open by the base protocol.
type Options struct {
	// DashboardSkipDraw keeps dashboard logins from consuming a pool item.
	DashboardSkipDraw bool
}

// LoginResult is what a login produced for the connection that sent it.
type LoginResult struct {
	Role Role
	// Reply is nil when no success frame must be sent.
	Reply *models.MLoginResponse
	// Assigned is the pool item now held by the connection, if any.
	Assigned string
}

// BroadcastRouter routes classified frames to the work pool and the
// subscriber registry. It keeps no per-connection state.
type BroadcastRouter struct {
	Pool     interfaces.IWorkPool
	Registry interfaces.ISubscriberRegistry
	Store    interfaces.IPriceStore
	Logger   *logger.Logger
	Options  Options
}

// -----------------------------------------------------------------------------

func NewBroadcastRouter(pool interfaces.IWorkPool, reg interfaces.ISubscriberRegistry, store interfaces.IPriceStore, log *logger.Logger, opts Options) *BroadcastRouter {
	return &BroadcastRouter{
		Pool:     pool,
		Registry: reg,
		Store:    store,
		Logger:   log,
		Options:  opts,
	}
}

// -----------------------------------------------------------------------------

// HandleLogin resolves a login for session. Workers get an item or, when the
// pool is exhausted, nothing at all. Dashboards are always registered and
// answered; their cmd is a placeholder drawn from the pool (empty when the
// pool is exhausted or drawing is disabled).
func (r *BroadcastRouter) HandleLogin(session interfaces.ISession, role Role) LoginResult {
	switch role {
	case RoleWorker:
		item, ok := r.Pool.Take()
		if !ok {
			r.Logger.Warning("Worker %s logged in but the pool is exhausted", session.ID())
			metrics.LoginsTotal.WithLabelValues(role.String(), "exhausted").Inc()
			return LoginResult{Role: role}
		}
		r.Logger.Info("Worker %s assigned %s", session.ID(), item)
		metrics.LoginsTotal.WithLabelValues(role.String(), "assigned").Inc()
		return LoginResult{
			Role:     role,
			Reply:    &models.MLoginResponse{Status: models.LoginStatusSuccess, Cmd: item},
			Assigned: item,
		}

	case RoleDashboard:
		var placeholder string
		if !r.Options.DashboardSkipDraw {
			placeholder, _ = r.Pool.Take()
		}
		r.Registry.Add(session)
		r.Logger.Info("Dashboard %s subscribed", session.ID())
		metrics.LoginsTotal.WithLabelValues(role.String(), "subscribed").Inc()
		return LoginResult{
			Role:     role,
			Reply:    &models.MLoginResponse{Status: models.LoginStatusSuccess, Cmd: placeholder},
			Assigned: placeholder,
		}

	default:
		r.Logger.Info("Rejected login from %s", session.ID())
		metrics.LoginsTotal.WithLabelValues(role.String(), "rejected").Inc()
		return LoginResult{Role: role}
	}
}

// -----------------------------------------------------------------------------

// HandleCommand treats payload as a price update and fans it out. A payload
// that does not parse is reported as a protocol error and nothing is sent.
func (r *BroadcastRouter) HandleCommand(payload []byte) (int, error) {
	update, err := ParsePriceUpdate(payload)
	if err != nil {
		metrics.FramesDiscarded.Inc()
		return 0, err
	}

	// Re-serialize so subscribers only ever see the canonical shape.
	data, err := json.Marshal(update)
	if err != nil {
		return 0, fmt.Errorf("failed to encode price update: %w", err)
	}

	delivered, err := r.Registry.Broadcast(data)
	if err != nil {
		return 0, err
	}

	if r.Store != nil {
		tick := models.MPriceTick{Symbol: update.Symbol, Price: update.Price, ReceivedAt: time.Now().UTC()}
		if err := r.Store.SavePrice(tick); err != nil {
			r.Logger.Warning("Failed to record %s tick: %v", update.Symbol, err)
		}
	}

	return delivered, nil
}
