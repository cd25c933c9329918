package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"price-relay/src/helpers"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/metrics"
	"price-relay/src/models"
	"price-relay/src/router"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait        = 2 * time.Second
	handshakeTimeout = 10 * time.Second
)

// -----------------------------------------------------------------------------
// PollingClient
// -----------------------------------------------------------------------------

// PollingClient logs in to the hub as a worker, receives one symbol and
// forwards a fresh quote for it on every tick. It reconnects after any
// connection error until its context is cancelled or the hub sends the
// shutdown sentinel.
type PollingClient struct {
	Config models.MPollerConfig
	Source interfaces.IPriceSource
	Logger *logger.Logger
	Dialer *websocket.Dialer

	state atomic.Int32

	mu       sync.RWMutex
	assigned string

	// writeMu serializes writers on the current connection.
	writeMu sync.Mutex
}

// -----------------------------------------------------------------------------

func NewPollingClient(cfg models.MPollerConfig, source interfaces.IPriceSource, log *logger.Logger) *PollingClient {
	return &PollingClient{
		Config: cfg,
		Source: source,
		Logger: log,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// -----------------------------------------------------------------------------

func (c *PollingClient) State() State {
	return State(c.state.Load())
}

func (c *PollingClient) setState(s State) {
	if prev := State(c.state.Swap(int32(s))); prev != s {
		c.Logger.Debug("state %s -> %s", prev, s)
	}
}

// Assigned returns the symbol received at the last successful login.
func (c *PollingClient) Assigned() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assigned
}

// -----------------------------------------------------------------------------
// Reconnect loop
// -----------------------------------------------------------------------------

// Run drives the client until ctx is cancelled or the hub asks it to stop.
// It returns nil after a remote shutdown and ctx.Err() on cancellation.
func (c *PollingClient) Run(ctx context.Context) error {
	backoff := time.Duration(c.Config.BackoffMs) * time.Millisecond
	defer c.setState(StateDisconnected)

	for {
		err := c.runSession(ctx)
		c.setState(StateDisconnected)

		if errors.Is(err, helpers.ErrRemoteShutdown) {
			c.Logger.Info("Received shutdown command, stopping")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.Logger.Warning("Connection lost: %v (retrying in %s)", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		metrics.ReconnectsTotal.Inc()
	}
}

// -----------------------------------------------------------------------------
// One connection
// -----------------------------------------------------------------------------

func (c *PollingClient) runSession(ctx context.Context) error {
	c.setState(StateConnecting)
	c.Logger.Info("Connecting to: %s", c.Config.HubURL)

	conn, resp, err := c.Dialer.DialContext(ctx, c.Config.HubURL, nil)
	if err != nil {
		return helpers.NewTransportError("dial failed", err)
	}
	defer conn.Close()

	if resp != nil {
		for name, values := range resp.Header {
			c.Logger.Debug("* %s: %v", name, values)
		}
	}

	c.setState(StateLoggingIn)
	login, err := json.Marshal(models.MLoginRequest{Username: models.UsernameWorker})
	if err != nil {
		return err
	}
	if err := c.writeText(conn, login); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// Unblocks the read loop once anything else in the group has ended.
	g.Go(func() error {
		<-gctx.Done()
		conn.Close()
		return gctx.Err()
	})

	g.Go(func() error {
		return c.readLoop(gctx, g, conn)
	})

	return g.Wait()
}

// -----------------------------------------------------------------------------

// readLoop always returns a non-nil error so the group context gets cancelled.
func (c *PollingClient) readLoop(ctx context.Context, g *errgroup.Group, conn *websocket.Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return helpers.NewTransportError("read failed", err)
		}

		if messageType != websocket.TextMessage {
			c.Logger.Debug("Ignoring non-text frame (%d bytes)", len(data))
			continue
		}

		if string(data) == models.ShutdownSentinel {
			c.closeNormally(conn)
			return helpers.ErrRemoteShutdown
		}

		if c.State() == StateActive {
			c.Logger.Debug("recv: %s", data)
			continue
		}

		resp, err := router.ParseLoginResponse(data)
		if err != nil {
			c.Logger.Warning("Failed to parse login response: %s", data)
			continue
		}
		if resp.Status != models.LoginStatusSuccess {
			c.Logger.Warning("Login not accepted: status=%q", resp.Status)
			continue
		}

		c.mu.Lock()
		c.assigned = resp.Cmd
		c.mu.Unlock()

		c.setState(StateActive)
		c.Logger.Info("Login successful, assigned %q", resp.Cmd)

		symbol := resp.Cmd
		g.Go(func() error {
			return c.pollLoop(ctx, conn, symbol)
		})
	}
}

// -----------------------------------------------------------------------------

// pollLoop fetches and forwards one quote per interval. Fetch errors skip the
// tick; a send error ends the loop and with it the connection.
func (c *PollingClient) pollLoop(ctx context.Context, conn *websocket.Conn, symbol string) error {
	ticker := time.NewTicker(time.Duration(c.Config.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := c.forward(ctx, conn, symbol); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *PollingClient) forward(ctx context.Context, conn *websocket.Conn, symbol string) error {
	update, err := c.Source.FetchPrice(ctx, symbol)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.UpstreamFetchesTotal.WithLabelValues("error").Inc()
		c.Logger.Warning("cannot get data for %s: %v", symbol, err)
		return nil
	}
	metrics.UpstreamFetchesTotal.WithLabelValues("ok").Inc()

	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	if err := c.writeText(conn, payload); err != nil {
		return err
	}
	c.Logger.Debug("sent %s", payload)
	return nil
}

// -----------------------------------------------------------------------------

func (c *PollingClient) writeText(conn *websocket.Conn, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return helpers.NewTransportError("send failed", err)
	}
	return nil
}

func (c *PollingClient) closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
