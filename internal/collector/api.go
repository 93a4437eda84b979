package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"OptionSentinel/internal/model"
)

// APIFetcher implements Fetcher against a self-hosted chain-mirror REST API.
// Used when a base URL is configured, e.g. to poll a caching proxy instead
// of hitting NSE directly.
type APIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAPIFetcher creates a new fetcher with optional proxy support.
func NewAPIFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *APIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &APIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *APIFetcher) Name() string { return "api" }

// apiRow is the expected JSON shape of one flat chain row from the mirror.
type apiRow struct {
	Strike          any    `json:"strike"`
	Expiry          string `json:"expiry"`
	CallOI          any    `json:"call_oi"`
	CallOIChange    any    `json:"call_oi_change"`
	CallLastPrice   any    `json:"call_ltp"`
	CallPriceChange any    `json:"call_ltp_change"`
	PutOI           any    `json:"put_oi"`
	PutOIChange     any    `json:"put_oi_change"`
	PutLastPrice    any    `json:"put_ltp"`
	PutPriceChange  any    `json:"put_ltp_change"`
}

func (f *APIFetcher) get(endpoint string, out any) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("api fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api decode: %w", err)
	}
	return nil
}

func (f *APIFetcher) FetchOptionChain(symbol string) ([]model.RawRow, error) {
	endpoint := fmt.Sprintf("%s/api/v1/option-chain?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var apiRows []apiRow
	if err := f.get(endpoint, &apiRows); err != nil {
		return nil, err
	}
	rows := make([]model.RawRow, len(apiRows))
	for i, a := range apiRows {
		rows[i] = model.RawRow{
			Strike:          a.Strike,
			Expiry:          a.Expiry,
			CallOI:          a.CallOI,
			CallOIChange:    a.CallOIChange,
			CallLastPrice:   a.CallLastPrice,
			CallPriceChange: a.CallPriceChange,
			PutOI:           a.PutOI,
			PutOIChange:     a.PutOIChange,
			PutLastPrice:    a.PutLastPrice,
			PutPriceChange:  a.PutPriceChange,
		}
	}
	return rows, nil
}

func (f *APIFetcher) FetchSpot(symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/spot?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var result struct {
		Price float64 `json:"price"`
	}
	if err := f.get(endpoint, &result); err != nil {
		return 0, err
	}
	return result.Price, nil
}
