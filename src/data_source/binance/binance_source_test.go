package binance

import (
	"context"
	"errors"
	"testing"

	"price-relay/src/helpers"
	"price-relay/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNetwork struct {
	body   []byte
	err    error
	url    string
	params map[string]string
}

func (n *stubNetwork) Get(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	n.url = url
	n.params = params
	return n.body, n.err
}

func TestFetchPrice(t *testing.T) {
	net := &stubNetwork{body: []byte(`{"symbol":"BTCUSDT","price":"67321.10000000"}`)}
	src := NewBinanceSource("https://api.binance.com/api/v3/ticker/price", net, logger.Discard())

	update, err := src.FetchPrice(context.Background(), "btcusdt")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", update.Symbol)
	assert.Equal(t, "67321.10000000", update.Price)
	assert.Equal(t, "https://api.binance.com/api/v3/ticker/price", net.url)
	assert.Equal(t, map[string]string{"symbol": "BTCUSDT"}, net.params)
	assert.Equal(t, "binance@api.binance.com", src.Name())
}

func TestFetchPrice_Errors(t *testing.T) {
	cases := map[string]*stubNetwork{
		"transport":  {err: helpers.NewUpstreamError("GET failed", errors.New("refused"))},
		"error body": {body: []byte(`{"code":-1121,"msg":"Invalid symbol."}`)},
		"not json":   {body: []byte(`<html>`)},
		"mismatch":   {body: []byte(`{"symbol":"ETHUSDT","price":"1"}`)},
	}

	for name, net := range cases {
		t.Run(name, func(t *testing.T) {
			src := NewBinanceSource("http://upstream", net, logger.Discard())
			_, err := src.FetchPrice(context.Background(), "BTCUSDT")
			require.Error(t, err)
			assert.True(t, helpers.IsUpstream(err))
		})
	}
}

func TestFetchPrice_EmptySymbol(t *testing.T) {
	src := NewBinanceSource("http://upstream", &stubNetwork{}, logger.Discard())
	_, err := src.FetchPrice(context.Background(), "  ")
	assert.True(t, helpers.IsUpstream(err))
}
