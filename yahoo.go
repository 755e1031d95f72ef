package girohist

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/cenkalti/backoff/v5"
)

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes today, so the local cache expires every day.
	key := fmt.Sprintf("%s %s %s", Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("girohist-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(os.TempDir(), key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// dailyClient returns a client caching responses on disk with daily expiry.
func dailyClient() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// statusError is an HTTP failure status, kept typed to decide retryability.
type statusError int

func (e statusError) Error() string { return fmt.Sprintf("http status %d", int(e)) }

func (e statusError) retryable() bool {
	return e == http.StatusTooManyRequests || int(e) >= 500
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// yahoo rejects the default Go agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; girohist)")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// YahooProvider fetches daily close series from the Yahoo chart endpoint.
// Responses are cached on disk for a day; transient failures are retried
// with exponential backoff.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tries   uint
}

// NewYahooProvider builds a provider over the public chart endpoint.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		client:  dailyClient(),
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart/",
		tries:   4,
	}
}

// FetchPrices returns the sparse daily close series of a ticker.
func (y *YahooProvider) FetchPrices(ctx context.Context, symbol string, span Range) (History[float64], error) {
	return y.chart(ctx, symbol, span)
}

// FetchFX returns the sparse daily rate series of a currency pair, using
// yahoo's "EURUSD=X" pair symbols.
func (y *YahooProvider) FetchFX(ctx context.Context, base, quote string, span Range) (History[float64], error) {
	return y.chart(ctx, base+quote+"=X", span)
}

func (y *YahooProvider) chart(ctx context.Context, symbol string, span Range) (prices History[float64], err error) {
	// period2 is exclusive, push it past the last requested day.
	addr := fmt.Sprintf("%s%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplits",
		y.baseURL, url.PathEscape(symbol), span.From.Unix(), span.To.Add(1).Unix())

	operation := func() (any, error) {
		var jobj any
		err := jwget(ctx, y.client, addr, &jobj)
		var status statusError
		if errors.As(err, &status) && !status.retryable() {
			return nil, backoff.Permanent(err)
		}
		return jobj, err
	}
	jobj, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(y.tries))
	if err != nil {
		return prices, fmt.Errorf("chart %s: %w", symbol, err)
	}

	timestamps, err := jsonlist(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		// a known symbol with no bars in range comes back without the
		// series at all, which is a plain empty history.
		return prices, nil
	}
	closes, err := jsonlist(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return prices, fmt.Errorf("chart %s: %w", symbol, err)
	}
	for i, jts := range timestamps {
		if i >= len(closes) {
			break
		}
		ts, ok := jts.(float64)
		if !ok {
			continue
		}
		// a market holiday serializes its close as null.
		close, ok := closes[i].(float64)
		if !ok {
			continue
		}
		on := DateOf(time.Unix(int64(ts), 0).UTC())
		if span.Contains(on) {
			prices.Append(on, close)
		}
	}
	return prices, nil
}

// jsonlist picks a JSON array out of a decoded payload.
func jsonlist(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("parsing %q: not a list: %v", path, jval)
	}
	return jlist, nil
}
