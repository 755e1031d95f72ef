package girohist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CashAsset is the reserved asset id of the cash balance row.
const CashAsset = "CASH"

// DailySnapshot is the state of one position on one date, in the reporting
// currency. For the CASH row, Holding is the cash balance and Close is 1.
type DailySnapshot struct {
	Asset      string
	Holding    Quantity
	Investment Money // cumulative net cash invested into the position
	Close      Money
	Value      Money
	Unpriced   bool // the position is held but the date precedes all observations
}

// PortfolioSnapshot is the full set of position rows for one date, including
// an explicit zero row for every asset ever held.
type PortfolioSnapshot struct {
	Date         Date
	Rows         []DailySnapshot
	ExternalFlow Money // net deposits and withdrawals dated this day
}

// Value returns the day's total portfolio value.
func (s PortfolioSnapshot) Value() Money {
	var total Money
	for _, row := range s.Rows {
		total = total.Add(row.Value)
	}
	return total
}

// Row returns the row for one asset id.
func (s PortfolioSnapshot) Row(asset string) (DailySnapshot, bool) {
	for _, row := range s.Rows {
		if row.Asset == asset {
			return row, true
		}
	}
	return DailySnapshot{}, false
}

// Unpriced reports whether any held position lacks a valuation on this date.
func (s PortfolioSnapshot) Unpriced() bool {
	for _, row := range s.Rows {
		if row.Unpriced {
			return true
		}
	}
	return false
}

// Result is one full reconstruction: a dense snapshot per calendar day over
// Span, plus the assets that had to be excluded and why.
type Result struct {
	Currency  string
	Span      Range
	Snapshots []PortfolioSnapshot
	Excluded  map[string]error
}

// Err joins the per-asset exclusion reasons, nil when nothing was excluded.
func (r *Result) Err() error {
	if len(r.Excluded) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Excluded))
	for _, asset := range slices.Sorted(maps.Keys(r.Excluded)) {
		errs = append(errs, r.Excluded[asset])
	}
	return errors.Join(errs...)
}

// Last returns the final snapshot.
func (r *Result) Last() PortfolioSnapshot {
	return r.Snapshots[len(r.Snapshots)-1]
}

// Builder reconstructs the daily portfolio history of a ledger in one
// reporting currency. Each Build call is an independent run over immutable
// inputs; the only shared state is the resolver's cache.
type Builder struct {
	ledger   *Ledger
	resolver *Resolver
	mapping  map[string]Listing // asset id to its selected listing
	currency string
	until    Date
}

// NewBuilder prepares a reconstruction run. The mapping assigns each non-cash
// asset of the ledger its resolved (ticker, currency) listing; picking one
// listing among ambiguous candidates is the caller's decision.
func NewBuilder(ledger *Ledger, resolver *Resolver, mapping map[string]Listing, reportingCurrency string) *Builder {
	return &Builder{
		ledger:   ledger,
		resolver: resolver,
		mapping:  mapping,
		currency: reportingCurrency,
		until:    Today(),
	}
}

// Until caps the fetch horizon, mainly for reproducible runs and tests.
func (b *Builder) Until(on Date) *Builder {
	b.until = on
	return b
}

// Build resolves every market series and folds the ledger over the full
// calendar axis: one snapshot per day from the first transaction date to the
// last date with a price observation, no gaps.
//
// Assets with no usable market data are excluded from the run and reported in
// Result.Excluded; their transactions, cash legs included, are ignored so the
// remaining portfolio stays consistent. Every other failure aborts.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	first, last, ok := b.ledger.Bounds()
	if !ok {
		return nil, errors.New("empty ledger")
	}
	until := b.until
	if until.Before(last) {
		until = last
	}
	fetchSpan := NewRange(first, until)

	series, excluded, err := b.resolveAll(ctx, fetchSpan)
	if err != nil {
		return nil, err
	}

	// One rate series per transaction currency, for converting cash legs.
	fxByCur := make(map[string]*FXSeries)
	for _, c := range b.ledger.Currencies() {
		fx, err := b.resolver.ResolveFX(ctx, c, b.currency, fetchSpan)
		if err != nil {
			return nil, err
		}
		fxByCur[c] = fx
	}

	// The snapshot axis ends at the freshest raw observation, never before
	// the last transaction.
	end := last
	for _, s := range series {
		if s.LastObserved().After(end) {
			end = s.LastObserved()
		}
	}
	span := NewRange(first, end)

	assetRows := make(map[string][]DailySnapshot)
	for asset, s := range series {
		rows, err := b.foldAsset(asset, s, span, fxByCur)
		if err != nil {
			var gap *PriceGapError
			if errors.As(err, &gap) {
				log.Printf("excluding %s: %v", asset, err)
				excluded[asset] = err
				continue
			}
			return nil, err
		}
		assetRows[asset] = rows
	}
	for asset := range excluded {
		delete(assetRows, asset)
	}

	cashRows, flows, err := b.foldCash(span, fxByCur, excluded)
	if err != nil {
		return nil, err
	}

	assets := slices.Sorted(maps.Keys(assetRows))
	result := &Result{
		Currency:  b.currency,
		Span:      span,
		Snapshots: make([]PortfolioSnapshot, 0, span.Len()),
		Excluded:  excluded,
	}
	i := 0
	for on := range span.Days() {
		snap := PortfolioSnapshot{
			Date:         on,
			Rows:         make([]DailySnapshot, 0, len(assets)+1),
			ExternalFlow: flows[i],
		}
		for _, asset := range assets {
			snap.Rows = append(snap.Rows, assetRows[asset][i])
		}
		snap.Rows = append(snap.Rows, cashRows[i])
		result.Snapshots = append(result.Snapshots, snap)
		i++
	}
	return result, nil
}

// resolveAll fetches the aligned series of every mapped asset, in parallel.
// Distinct symbols and currency pairs fetch concurrently; the cache coalesces
// duplicates. Missing data excludes the asset, anything else aborts the group.
func (b *Builder) resolveAll(ctx context.Context, span Range) (map[string]*AssetSeries, map[string]error, error) {
	series := make(map[string]*AssetSeries)
	excluded := make(map[string]error)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, asset := range b.ledger.Assets() {
		listing, ok := b.mapping[asset]
		if !ok {
			return nil, nil, fmt.Errorf("no listing mapped for asset %s", asset)
		}
		g.Go(func() error {
			s, err := b.resolver.Resolve(ctx, asset, listing, b.currency, span)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var noPrice *NoPriceDataError
				var noFX *NoFXDataError
				if errors.As(err, &noPrice) || errors.As(err, &noFX) {
					log.Printf("excluding %s: %v", asset, err)
					excluded[asset] = err
					return nil
				}
				return err
			}
			series[asset] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return series, excluded, nil
}

// foldAsset walks one asset's trades over the calendar axis. A trade dated
// before the first price or rate observation cannot be valued and fails the
// whole asset with a PriceGapError.
func (b *Builder) foldAsset(asset string, series *AssetSeries, span Range, fxByCur map[string]*FXSeries) ([]DailySnapshot, error) {
	var trades []Transaction
	for t := range b.ledger.Trades(asset) {
		trades = append(trades, t)
	}

	holding := Q(0)
	investment := M(0, b.currency)
	rows := make([]DailySnapshot, 0, span.Len())
	i := 0
	for on := range span.Days() {
		point, _ := series.At(on)
		for i < len(trades) && trades[i].Date() == on {
			if point.Unpriced {
				return nil, &PriceGapError{Asset: asset, On: on}
			}
			holding = holding.Add(trades[i].Shares)
			leg, err := b.convert(trades[i].Amount, on, fxByCur)
			if err != nil {
				return nil, err
			}
			// The buy leg is negative cash, so subtracting it grows the
			// invested total; sell proceeds shrink it.
			investment = investment.Sub(leg)
			i++
		}
		row := DailySnapshot{
			Asset:      asset,
			Holding:    holding,
			Investment: investment,
			Close:      M(0, b.currency),
			Value:      M(0, b.currency),
			Unpriced:   point.Unpriced && !holding.IsZero(),
		}
		if !point.Unpriced {
			row.Close = point.Close
			row.Value = point.Close.Mul(holding)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// foldCash accumulates every cash leg of the ledger, converted into the
// reporting currency at its own date, and tracks the day's net external flow.
// Legs of excluded assets are skipped so cash stays consistent with the rows.
func (b *Builder) foldCash(span Range, fxByCur map[string]*FXSeries, excluded map[string]error) ([]DailySnapshot, []Money, error) {
	var all []Transaction
	for t := range b.ledger.Transactions() {
		all = append(all, t)
	}

	balance := M(0, b.currency)
	invested := M(0, b.currency) // cumulative net external flow
	rows := make([]DailySnapshot, 0, span.Len())
	flows := make([]Money, 0, span.Len())
	j := 0
	for on := range span.Days() {
		flow := M(0, b.currency)
		for j < len(all) && all[j].Date() == on {
			t := all[j]
			j++
			if t.Asset != "" {
				if _, skip := excluded[t.Asset]; skip {
					continue
				}
			}
			leg, err := b.convert(t.Amount, on, fxByCur)
			if err != nil {
				return nil, nil, err
			}
			balance = balance.Add(leg)
			if t.IsExternalFlow() {
				flow = flow.Add(leg)
				invested = invested.Add(leg)
			}
		}
		rows = append(rows, DailySnapshot{
			Asset:      CashAsset,
			Holding:    Q(balance.Decimal()),
			Investment: invested,
			Close:      M(1, b.currency),
			Value:      balance,
		})
		flows = append(flows, flow)
	}
	return rows, flows, nil
}

// convert expresses a native-currency amount in the reporting currency at the
// date's forward-filled rate. Rates are mandatory for cash legs; a leg dated
// before the pair's first observation cannot be booked.
func (b *Builder) convert(amount Money, on Date, fxByCur map[string]*FXSeries) (Money, error) {
	fx, ok := fxByCur[amount.Currency()]
	if !ok {
		return Money{}, fmt.Errorf("no rate series for currency %s", amount.Currency())
	}
	rate, ok := fx.At(on)
	if !ok {
		return Money{}, fmt.Errorf("converting %s on %s: %w", amount, on,
			&NoFXDataError{Base: fx.Base, Quote: fx.Quote, Span: NewRange(on, on)})
	}
	return M(amount.Decimal().Mul(newDecimal(rate)), b.currency), nil
}
