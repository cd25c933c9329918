package interfaces

import (
	"context"

	"price-relay/src/models"
)

// -----------------------------------------------------------------------------
// IPriceSource fetches the current quote for one symbol from an upstream API.
// -----------------------------------------------------------------------------

type IPriceSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchPrice performs one upstream request for symbol.
	FetchPrice(ctx context.Context, symbol string) (models.MPriceUpdate, error)
}
