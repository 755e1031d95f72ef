package girohist

import "fmt"

// ValidationError reports a malformed ledger entry. It is fatal: the ledger
// refuses construction before any computation happens.
type ValidationError struct {
	Index int    // position of the record in the input sequence
	Cause string // human readable description of the violated invariant
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction #%d: %s", e.Index, e.Cause)
}

// NoPriceDataError reports an asset with zero price observations in the
// queried range. Recoverable: callers may exclude the asset from the run,
// but the exclusion must be reported, never silent.
type NoPriceDataError struct {
	Asset  string // ISIN
	Symbol string // resolved provider symbol, when known
	Span   Range
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no price data for %s (%s) in %s", e.Asset, e.Symbol, e.Span)
}

// NoFXDataError reports a currency pair with zero rate observations in the
// queried range.
type NoFXDataError struct {
	Base, Quote string
	Span        Range
}

func (e *NoFXDataError) Error() string {
	return fmt.Sprintf("no fx data for %s%s in %s", e.Base, e.Quote, e.Span)
}

// PriceGapError reports a trade on a date with no available price: the price
// series starts after the trade, so the position cannot be valued. Fatal for
// that asset's reconstruction.
type PriceGapError struct {
	Asset string
	On    Date
}

func (e *PriceGapError) Error() string {
	return fmt.Sprintf("trade of %s on %s has no available price", e.Asset, e.On)
}

// UnpricedError reports an attempt to compute returns over a snapshot
// sequence that still contains an unresolved unpriced holding: an ambiguous
// valuation must not silently become a return of zero.
type UnpricedError struct {
	Asset string
	On    Date
}

func (e *UnpricedError) Error() string {
	return fmt.Sprintf("holding of %s is unpriced on %s", e.Asset, e.On)
}
