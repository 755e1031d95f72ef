package girohist

import (
	"context"
	"sync"
	"time"
)

// Two real funds and a stock, so the ISIN validation stays honest.
const (
	IWDA = "IE00B4L5Y983"
	AAPL = "US0378331005"
	VWRL = "IE00B3RBWM25"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// at builds a timestamp on a day at 10:00 UTC.
func at(day string) time.Time {
	return time.Date(MustDate(day).Year(), MustDate(day).Month(), MustDate(day).Day(), 10, 0, 0, 0, time.UTC)
}

func deposit(day string, amount Money) Transaction {
	return Transaction{Timestamp: at(day), Kind: Deposit, Amount: amount}
}

func withdraw(day string, amount Money) Transaction {
	return Transaction{Timestamp: at(day), Kind: Withdrawal, Amount: amount}
}

func buy(day, asset string, shares float64, amount Money) Transaction {
	return Transaction{Timestamp: at(day), Kind: Buy, Asset: asset, Shares: Q(shares), Amount: amount}
}

func sell(day, asset string, shares float64, amount Money) Transaction {
	return Transaction{Timestamp: at(day), Kind: Sell, Asset: asset, Shares: Q(shares), Amount: amount}
}

func dividend(day, asset string, amount Money) Transaction {
	return Transaction{Timestamp: at(day), Kind: Dividend, Asset: asset, Amount: amount}
}

func mustLedger(txs ...Transaction) *Ledger {
	ledger, err := NewLedger(txs)
	if err != nil {
		panic(err)
	}
	return ledger
}

// flat builds a daily history with a constant value over a span.
func flat(from, to string, v float64) History[float64] {
	var h History[float64]
	for on := range NewRange(MustDate(from), MustDate(to)).Days() {
		h.Append(on, v)
	}
	return h
}

// obs builds a sparse history from (day, value) pairs.
func obs(pairs ...any) History[float64] {
	var h History[float64]
	for i := 0; i < len(pairs); i += 2 {
		h.Append(MustDate(pairs[i].(string)), pairs[i+1].(float64))
	}
	return h
}

// fakeProvider serves canned series and counts fetches per key.
type fakeProvider struct {
	mu     sync.Mutex
	prices map[string]History[float64]
	fx     map[string]History[float64]
	calls  map[string]int
	gate   chan struct{} // when set, fetches block until it closes
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		prices: make(map[string]History[float64]),
		fx:     make(map[string]History[float64]),
		calls:  make(map[string]int),
	}
}

func (p *fakeProvider) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[key]
}

func (p *fakeProvider) FetchPrices(ctx context.Context, symbol string, span Range) (History[float64], error) {
	p.mu.Lock()
	p.calls[symbol]++
	gate := p.gate
	h := p.prices[symbol]
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return h, nil
}

func (p *fakeProvider) FetchFX(ctx context.Context, base, quote string, span Range) (History[float64], error) {
	p.mu.Lock()
	p.calls[base+quote]++
	h := p.fx[base+quote]
	p.mu.Unlock()
	return h, nil
}
