package interfaces

import "price-relay/src/models"

// -----------------------------------------------------------------------------
// IPriceStore defines the contract for keeping relayed price history.
// -----------------------------------------------------------------------------

type IPriceStore interface {

	// Initialize sets up the schema or buffers.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SavePrice records one relayed tick.
	SavePrice(tick models.MPriceTick) error

	// -----------------------------------------------------------------------------

	// RecentPrices returns up to limit ticks for symbol, oldest first.
	RecentPrices(symbol string, limit int) ([]models.MPriceTick, error)

	// -----------------------------------------------------------------------------

	// Close the underlying connection
	Close() error
}
