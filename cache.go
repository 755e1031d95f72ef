package girohist

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type seriesKind string

const (
	priceSeries seriesKind = "price"
	fxSeries    seriesKind = "fx"
)

type seriesKey struct {
	kind   seriesKind
	symbol string
	span   Range
}

func (k seriesKey) String() string {
	return string(k.kind) + " " + k.symbol + " " + k.span.String()
}

// MarketCache memoizes provider lookups by (series kind, symbol, date range).
//
// Entries are written at most once per key and never invalidated: the
// reporting window is fixed for the lifetime of a reconstruction run, so a
// fetched series stays valid. The cache is the only state shared across
// lookups and exists to bound external calls to O(distinct assets +
// currencies), not O(transactions).
//
// A cache is scoped to one run and injected explicitly; nothing here is
// process-global, which keeps runs reproducible and testable in isolation.
type MarketCache struct {
	mu      sync.Mutex
	entries map[seriesKey]History[float64]
	group   singleflight.Group
}

// NewMarketCache returns an empty cache.
func NewMarketCache() *MarketCache {
	return &MarketCache{entries: make(map[seriesKey]History[float64])}
}

// Prices returns the memoized price series for a symbol, fetching it from the
// provider on first use. Concurrent first uses of the same key are coalesced:
// the second caller waits for the first fetch instead of duplicating it.
func (c *MarketCache) Prices(ctx context.Context, p PriceProvider, symbol string, span Range) (History[float64], error) {
	key := seriesKey{kind: priceSeries, symbol: symbol, span: span}
	return c.fetch(key, func() (History[float64], error) {
		return p.FetchPrices(ctx, symbol, span)
	})
}

// FX returns the memoized rate series for a currency pair, fetching it from
// the provider on first use.
func (c *MarketCache) FX(ctx context.Context, p PriceProvider, base, quote string, span Range) (History[float64], error) {
	key := seriesKey{kind: fxSeries, symbol: base + quote, span: span}
	return c.fetch(key, func() (History[float64], error) {
		return p.FetchFX(ctx, base, quote, span)
	})
}

// Len returns the number of stored series.
func (c *MarketCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MarketCache) fetch(key seriesKey, fn func() (History[float64], error)) (History[float64], error) {
	c.mu.Lock()
	if h, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		h, err := fn()
		if err != nil {
			return History[float64]{}, err
		}
		c.mu.Lock()
		// First writer wins; a racing duplicate returns the stored entry.
		if stored, ok := c.entries[key]; ok {
			h = stored
		} else {
			c.entries[key] = h
		}
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return History[float64]{}, err
	}
	return v.(History[float64]), nil
}
