package girohist

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMarketCacheMemoizes(t *testing.T) {
	provider := newFakeProvider()
	provider.prices["IWDA.AS"] = flat("2024-01-02", "2024-01-05", 100)
	provider.fx["USDEUR"] = flat("2024-01-02", "2024-01-05", 0.9)

	cache := NewMarketCache()
	ctx := context.Background()
	span := NewRange(MustDate("2024-01-02"), MustDate("2024-01-05"))

	for i := 0; i < 3; i++ {
		h, err := cache.Prices(ctx, provider, "IWDA.AS", span)
		if err != nil {
			t.Fatal(err)
		}
		if h.Len() != 4 {
			t.Fatalf("Len = %d, want 4", h.Len())
		}
		if _, err := cache.FX(ctx, provider, "USD", "EUR", span); err != nil {
			t.Fatal(err)
		}
	}

	if got := provider.count("IWDA.AS"); got != 1 {
		t.Errorf("price fetches = %d, want 1", got)
	}
	if got := provider.count("USDEUR"); got != 1 {
		t.Errorf("fx fetches = %d, want 1", got)
	}
	if cache.Len() != 2 {
		t.Errorf("cache Len = %d, want 2", cache.Len())
	}
}

func TestMarketCacheDistinctKeys(t *testing.T) {
	provider := newFakeProvider()
	provider.prices["A"] = flat("2024-01-02", "2024-01-03", 1)

	cache := NewMarketCache()
	ctx := context.Background()
	short := NewRange(MustDate("2024-01-02"), MustDate("2024-01-03"))
	long := NewRange(MustDate("2024-01-02"), MustDate("2024-01-09"))

	cache.Prices(ctx, provider, "A", short)
	cache.Prices(ctx, provider, "A", long)

	// A different range is a different key: entries are immutable per run,
	// never widened in place.
	if got := provider.count("A"); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
}

func TestMarketCacheCoalescesInflight(t *testing.T) {
	provider := newFakeProvider()
	provider.prices["A"] = flat("2024-01-02", "2024-01-03", 1)
	provider.gate = make(chan struct{})

	cache := NewMarketCache()
	ctx := context.Background()
	span := NewRange(MustDate("2024-01-02"), MustDate("2024-01-03"))

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			started.Done()
			defer done.Done()
			if _, err := cache.Prices(ctx, provider, "A", span); err != nil {
				t.Error(err)
			}
		}()
	}
	started.Wait()
	// Give every caller time to reach the cache before releasing the fetch.
	time.Sleep(50 * time.Millisecond)
	close(provider.gate)
	done.Wait()

	// All callers share the single in-flight fetch.
	if got := provider.count("A"); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
}
