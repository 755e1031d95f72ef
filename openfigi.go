package girohist

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

const openfigiAPIKeyEnv = "OPENFIGI_API_KEY"

var openfigiAPIFlag = flag.String("openfigi-api-key", "", "OpenFIGI API key for ISIN resolution.\n If missing it will read the environment variable \""+openfigiAPIKeyEnv+"\". Anonymous access works with a lower rate limit.")

func openfigiAPIKey() string {
	if *openfigiAPIFlag == "" {
		*openfigiAPIFlag = os.Getenv(openfigiAPIKeyEnv)
	}
	return *openfigiAPIFlag
}

// OpenFIGIResolver looks up the tradable listings of an ISIN through the
// OpenFIGI mapping API. The same ISIN usually maps to several listings
// across exchanges; candidates come back ordered by first occurrence and
// the caller picks one.
type OpenFIGIResolver struct {
	client  *http.Client
	baseURL string
}

// NewOpenFIGIResolver builds a resolver over the public mapping endpoint.
func NewOpenFIGIResolver() *OpenFIGIResolver {
	return &OpenFIGIResolver{
		client:  dailyClient(),
		baseURL: "https://api.openfigi.com/v3/mapping",
	}
}

// Resolve returns the candidate listings of an ISIN, deduplicated by ticker.
func (r *OpenFIGIResolver) Resolve(ctx context.Context, isin string) ([]Listing, error) {
	if err := ValidateISIN(isin); err != nil {
		return nil, err
	}
	payload, err := json.Marshal([]map[string]string{{"idType": "ID_ISIN", "idValue": isin}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := openfigiAPIKey(); key != "" {
		req.Header.Set("X-OPENFIGI-APIKEY", key)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", isin, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapping %s: %w", isin, statusError(resp.StatusCode))
	}

	var content []struct {
		Data []struct {
			Ticker   string `json:"ticker"`
			ExchCode string `json:"exchCode"`
		} `json:"data"`
		Error string `json:"error"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", isin, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("mapping %s: empty response", isin)
	}
	if content[0].Error != "" {
		return nil, fmt.Errorf("mapping %s: %s", isin, content[0].Error)
	}

	seen := make(map[string]bool)
	var listings []Listing
	for _, obs := range content[0].Data {
		if obs.Ticker == "" || seen[obs.Ticker] {
			continue
		}
		seen[obs.Ticker] = true
		// openfigi does not carry the trading currency; the caller
		// completes the listing when selecting a candidate.
		listings = append(listings, Listing{Ticker: obs.Ticker, Exchange: obs.ExchCode})
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no listing found for %s", isin)
	}
	return listings, nil
}
