package binance

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"price-relay/src/helpers"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
	"price-relay/src/router"
)

// BinanceSource reads spot prices from the public ticker endpoint
// (GET <url>?symbol=BTCUSDT -> {"symbol":"BTCUSDT","price":"..."}).
type BinanceSource struct {
	name    string
	URL     string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewBinanceSource(endpoint string, netMgr interfaces.INetworkManager, log *logger.Logger) *BinanceSource {
	name := "binance"
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		name += "@" + u.Host
	}
	return &BinanceSource{
		name:    name,
		URL:     endpoint,
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// Name is unique per endpoint host so mirrors can sit side by side.
func (s *BinanceSource) Name() string {
	return s.name
}

// -----------------------------------------------------------------------------

func (s *BinanceSource) FetchPrice(ctx context.Context, symbol string) (models.MPriceUpdate, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.MPriceUpdate{}, helpers.NewUpstreamError("empty symbol", nil)
	}

	body, err := s.Network.Get(ctx, s.URL, map[string]string{"symbol": symbol})
	if err != nil {
		return models.MPriceUpdate{}, err
	}

	update, err := router.ParsePriceUpdate(body)
	if err != nil {
		return models.MPriceUpdate{}, helpers.NewUpstreamError(fmt.Sprintf("unexpected ticker payload for %s", symbol), err)
	}
	if update.Symbol != symbol {
		return models.MPriceUpdate{}, helpers.NewUpstreamError(fmt.Sprintf("ticker returned %s for %s", update.Symbol, symbol), nil)
	}

	s.Logger.Debug("%s %s", update.Symbol, update.Price)
	return update, nil
}
