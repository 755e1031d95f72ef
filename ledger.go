package girohist

import (
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger is the validated, authoritative sequence of transactions.
//
// In a Ledger transactions are always in chronological order: the sort is
// stable, so entries sharing a timestamp keep their original statement order.
// A Ledger is immutable once constructed and owns no derived state.
type Ledger struct {
	transactions []Transaction
}

// NewLedger validates and orders a sequence of transactions.
// The first invariant violation aborts construction with a ValidationError.
func NewLedger(txs []Transaction) (*Ledger, error) {
	for i, tx := range txs {
		if err := tx.validate(); err != nil {
			return nil, &ValidationError{Index: i, Cause: err.Error()}
		}
	}
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &Ledger{transactions: sorted}, nil
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over all transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Trades returns an iterator over the buy/sell entries of one asset,
// in chronological order with statement-order ties.
func (l *Ledger) Trades(asset string) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if tx.IsTrade() && tx.Asset == asset {
				if !yield(tx) {
					return
				}
			}
		}
	}
}

// Assets returns the distinct asset ids referenced by trades and dividends,
// sorted for determinism.
func (l *Ledger) Assets() []string {
	seen := make(map[string]struct{})
	for _, tx := range l.transactions {
		if tx.Asset != "" {
			seen[tx.Asset] = struct{}{}
		}
	}
	assets := slices.Collect(maps.Keys(seen))
	slices.Sort(assets)
	return assets
}

// Currencies returns the distinct native currencies appearing in the ledger,
// sorted for determinism.
func (l *Ledger) Currencies() []string {
	seen := make(map[string]struct{})
	for _, tx := range l.transactions {
		seen[tx.Amount.Currency()] = struct{}{}
	}
	currencies := slices.Collect(maps.Keys(seen))
	slices.Sort(currencies)
	return currencies
}

// Bounds returns the dates of the earliest and latest transactions.
// ok is false when the ledger is empty.
func (l *Ledger) Bounds() (first, last Date, ok bool) {
	if len(l.transactions) == 0 {
		return Date{}, Date{}, false
	}
	return l.transactions[0].Date(), l.transactions[len(l.transactions)-1].Date(), true
}
