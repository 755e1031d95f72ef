package girohist

import "context"

// PriceProvider fetches raw, sparse end-of-day series from an external source.
// Both methods return observations only for the instrument's trading days;
// reindexing onto the full calendar is the Resolver's job, not the provider's.
type PriceProvider interface {
	// FetchPrices returns the sparse daily close series for a provider symbol.
	FetchPrices(ctx context.Context, symbol string, span Range) (History[float64], error)
	// FetchFX returns the sparse daily rate series for one unit of 'base'
	// expressed in 'quote'.
	FetchFX(ctx context.Context, base, quote string, span Range) (History[float64], error)
}

// Listing is one tradable listing of an asset.
type Listing struct {
	Ticker   string // provider symbol
	Currency string // trading currency of the listing
	Exchange string // exchange code, informational
}

// TickerResolver maps an ISIN to its candidate listings, ordered by the
// source's preference. The same ISIN may trade on several exchanges; picking
// one candidate is the caller's decision, never this engine's.
type TickerResolver interface {
	Resolve(ctx context.Context, isin string) ([]Listing, error)
}
