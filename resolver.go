package girohist

import (
	"context"
	"fmt"
	"iter"
)

// PricePoint is one day of an asset's aligned (close, fx) series.
type PricePoint struct {
	Date     Date
	Native   float64 // close in the listing's trading currency, forward-filled
	Rate     float64 // fx rate into the reporting currency, forward-filled
	Close    Money   // Native × Rate, in the reporting currency
	Unpriced bool    // date precedes the first observation of either series
}

// AssetSeries is the dense daily (close, fx) series of one asset over a
// calendar range: every date in the range has exactly one point.
//
// Gaps inside the series (weekends, holidays, provider gaps) are forward-
// filled from the last known observation. Dates strictly before the first
// observation of either underlying series are marked Unpriced instead of
// back-filled: back-filling would fabricate data before the asset existed.
type AssetSeries struct {
	Asset    string // ISIN
	Currency string // reporting currency of Close
	span     Range
	points   []PricePoint
	lastObs  Date // date of the last raw close observation
}

// Span returns the calendar range the series covers.
func (s *AssetSeries) Span() Range { return s.span }

// LastObserved returns the date of the last raw price observation.
func (s *AssetSeries) LastObserved() Date { return s.lastObs }

// At returns the point for a date inside the span.
func (s *AssetSeries) At(on Date) (PricePoint, bool) {
	if !s.span.Contains(on) {
		return PricePoint{}, false
	}
	return s.points[on.Sub(s.span.From)], true
}

// Points returns an iterator over the series, one point per calendar date.
func (s *AssetSeries) Points() iter.Seq[PricePoint] {
	return func(yield func(PricePoint) bool) {
		for _, p := range s.points {
			if !yield(p) {
				return
			}
		}
	}
}

// FXSeries is the dense daily rate series of one currency into the reporting
// currency, forward-filled like an AssetSeries.
type FXSeries struct {
	Base, Quote string
	span        Range
	rates       []float64
	known       []bool
}

// At returns the rate for a date, ok=false before the first observation.
func (s *FXSeries) At(on Date) (float64, bool) {
	if !s.span.Contains(on) {
		return 0, false
	}
	i := on.Sub(s.span.From)
	return s.rates[i], s.known[i]
}

// Resolver aligns raw provider series onto the full calendar axis.
// All lookups go through a MarketCache so that a run performs at most one
// external call per distinct symbol or currency pair.
type Resolver struct {
	provider PriceProvider
	cache    *MarketCache
}

// NewResolver creates a resolver over a provider and a run-scoped cache.
// A nil cache gets a fresh one.
func NewResolver(provider PriceProvider, cache *MarketCache) *Resolver {
	if cache == nil {
		cache = NewMarketCache()
	}
	return &Resolver{provider: provider, cache: cache}
}

// Resolve produces the aligned daily (close, fx) series for one asset over
// the span, in the reporting currency.
//
// It fails with NoPriceDataError when the listing has zero observations in
// the whole range, and NoFXDataError when its currency pair has none; callers
// decide whether to exclude the asset or abort.
func (r *Resolver) Resolve(ctx context.Context, asset string, listing Listing, reportingCurrency string, span Range) (*AssetSeries, error) {
	prices, err := r.cache.Prices(ctx, r.provider, listing.Ticker, span)
	if err != nil {
		return nil, fmt.Errorf("fetching prices for %s: %w", asset, err)
	}
	if prices.Len() == 0 {
		return nil, &NoPriceDataError{Asset: asset, Symbol: listing.Ticker, Span: span}
	}

	fx, err := r.ResolveFX(ctx, listing.Currency, reportingCurrency, span)
	if err != nil {
		return nil, err
	}

	lastObs, _, _ := prices.Latest()
	series := &AssetSeries{
		Asset:    asset,
		Currency: reportingCurrency,
		span:     span,
		points:   make([]PricePoint, 0, span.Len()),
		lastObs:  lastObs,
	}
	for on := range span.Days() {
		native, okPrice := prices.ValueAsOf(on)
		rate, okRate := fx.At(on)
		point := PricePoint{Date: on, Unpriced: !okPrice || !okRate}
		if !point.Unpriced {
			point.Native = native
			point.Rate = rate
			point.Close = M(native*rate, reportingCurrency)
		}
		series.points = append(series.points, point)
	}
	return series, nil
}

// ResolveFX produces the dense daily rate series of one unit of 'base' in
// 'quote' over the span. The identity pair resolves without an external call.
func (r *Resolver) ResolveFX(ctx context.Context, base, quote string, span Range) (*FXSeries, error) {
	series := &FXSeries{
		Base:  base,
		Quote: quote,
		span:  span,
		rates: make([]float64, 0, span.Len()),
		known: make([]bool, 0, span.Len()),
	}
	if base == quote {
		for range span.Days() {
			series.rates = append(series.rates, 1)
			series.known = append(series.known, true)
		}
		return series, nil
	}

	raw, err := r.cache.FX(ctx, r.provider, base, quote, span)
	if err != nil {
		return nil, fmt.Errorf("fetching fx %s%s: %w", base, quote, err)
	}
	if raw.Len() == 0 {
		return nil, &NoFXDataError{Base: base, Quote: quote, Span: span}
	}
	for on := range span.Days() {
		rate, ok := raw.ValueAsOf(on)
		series.rates = append(series.rates, rate)
		series.known = append(series.known, ok)
	}
	return series, nil
}
