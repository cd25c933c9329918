package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"price-relay/src/helpers"
	"price-relay/src/logger"
	"price-relay/src/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ------------------------------------------------------------------

type fakeSource struct {
	mu    sync.Mutex
	calls int
	fail  int // first N calls fail
	price string
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchPrice(ctx context.Context, symbol string) (models.MPriceUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.fail {
		return models.MPriceUpdate{}, helpers.NewUpstreamError("upstream down", errors.New("503"))
	}
	return models.MPriceUpdate{Symbol: symbol, Price: s.price}, nil
}

// fakeHub runs handler once per accepted connection.
func fakeHub(t *testing.T, handler func(n int, conn *websocket.Conn)) (string, *atomic.Int32) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(int(conns.Add(1)), conn)
	}))
	t.Cleanup(ts.Close)

	return "ws" + strings.TrimPrefix(ts.URL, "http"), &conns
}

func newClient(url string, source *fakeSource) *PollingClient {
	return NewPollingClient(models.MPollerConfig{
		HubURL:     url,
		IntervalMs: 20,
		BackoffMs:  20,
	}, source, logger.Discard())
}

// hubRead runs on the server goroutine, so it reports failures as "".
func hubRead(conn *websocket.Conn) string {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return ""
	}
	return string(data)
}

func runClient(ctx context.Context, c *PollingClient) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("client did not stop")
		return nil
	}
}

// --- tests ------------------------------------------------------------------

func TestPollingClient_LoginAndForward(t *testing.T) {
	received := make(chan string, 8)
	url, _ := fakeHub(t, func(n int, conn *websocket.Conn) {
		received <- hubRead(conn)
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"success","cmd":"BTCUSDT"}`))
		received <- hubRead(conn)
		received <- hubRead(conn)
		conn.WriteMessage(websocket.TextMessage, []byte(models.ShutdownSentinel))
		conn.ReadMessage()
	})

	client := newClient(url, &fakeSource{price: "50000.00"})
	done := runClient(context.Background(), client)

	assert.JSONEq(t, `{"username":"bot"}`, <-received)
	assert.JSONEq(t, `{"symbol":"BTCUSDT","price":"50000.00"}`, <-received)
	assert.JSONEq(t, `{"symbol":"BTCUSDT","price":"50000.00"}`, <-received)

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, "BTCUSDT", client.Assigned())
	assert.Equal(t, StateDisconnected, client.State())
}

func TestPollingClient_FetchErrorsSkipTick(t *testing.T) {
	received := make(chan string, 4)
	url, conns := fakeHub(t, func(n int, conn *websocket.Conn) {
		hubRead(conn)
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"success","cmd":"ETHUSDT"}`))
		received <- hubRead(conn)
		conn.WriteMessage(websocket.TextMessage, []byte(models.ShutdownSentinel))
		conn.ReadMessage()
	})

	source := &fakeSource{fail: 3, price: "3000.5"}
	done := runClient(context.Background(), newClient(url, source))

	assert.JSONEq(t, `{"symbol":"ETHUSDT","price":"3000.5"}`, <-received)
	require.NoError(t, waitDone(t, done))

	source.mu.Lock()
	assert.GreaterOrEqual(t, source.calls, 4)
	source.mu.Unlock()
	assert.Equal(t, int32(1), conns.Load(), "fetch errors must not reconnect")
}

func TestPollingClient_ReconnectsAfterDrop(t *testing.T) {
	url, conns := fakeHub(t, func(n int, conn *websocket.Conn) {
		hubRead(conn)
		if n < 3 {
			return // drop the connection
		}
		conn.WriteMessage(websocket.TextMessage, []byte(models.ShutdownSentinel))
		conn.ReadMessage()
	})

	done := runClient(context.Background(), newClient(url, &fakeSource{price: "1"}))
	require.NoError(t, waitDone(t, done))
	assert.Equal(t, int32(3), conns.Load())
}

func TestPollingClient_RejectedLoginStaysLoggingIn(t *testing.T) {
	url, _ := fakeHub(t, func(n int, conn *websocket.Conn) {
		hubRead(conn)
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"denied","cmd":""}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	client := newClient(url, &fakeSource{price: "1"})
	done := runClient(ctx, client)

	require.Eventually(t, func() bool { return client.State() == StateLoggingIn }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateLoggingIn, client.State())
	assert.Empty(t, client.Assigned())

	cancel()
	assert.ErrorIs(t, waitDone(t, done), context.Canceled)
}

func TestPollingClient_DialFailureRetriesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	client := newClient("ws://127.0.0.1:1/ws", &fakeSource{})
	err := waitDone(t, runClient(ctx, client))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateDisconnected, client.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "logging_in", StateLoggingIn.String())
	assert.Equal(t, "active", StateActive.String())
}
