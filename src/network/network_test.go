package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"price-relay/src/config"
	"price-relay/src/helpers"
	"price-relay/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(retries int) *AsyncNetworkManager {
	cfg := config.Default()
	cfg.Network.MaxRetries = retries
	cfg.Network.UserAgent = "relay-test"
	return NewAsyncNetworkManager(cfg.MConfig, logger.Discard())
}

func TestGet_SendsQueryAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "relay-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"1"}`))
	}))
	defer ts.Close()

	body, err := newManager(0).Get(context.Background(), ts.URL+"/api/v3/ticker/price", map[string]string{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"BTCUSDT","price":"1"}`, string(body))
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer ts.Close()

	body, err := newManager(2).Get(context.Background(), ts.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := newManager(3).Get(context.Background(), ts.URL, nil)
	require.Error(t, err)
	assert.True(t, helpers.IsUpstream(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newManager(5).Get(ctx, ts.URL, nil)
	require.Error(t, err)
	assert.True(t, helpers.IsUpstream(err))
}
