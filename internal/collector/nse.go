package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"OptionSentinel/internal/model"
)

// NSEFetcher implements Fetcher against the NSE public option-chain API.
type NSEFetcher struct {
	BaseURL string
	Client  *http.Client

	warmMu sync.Mutex
	warmed bool
}

// NewNSEFetcher creates a fetcher for the NSE endpoint with optional proxy
// support. The timeout bounds each request end to end.
func NewNSEFetcher(proxyURL string, timeout time.Duration) *NSEFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	// NSE rejects cookie-less API calls, so keep a jar and warm it up
	// against the site root before the first API request.
	jar, _ := cookiejar.New(nil)
	return &NSEFetcher{
		BaseURL: "https://www.nseindia.com",
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

// nseLeg is one side (CE or PE) of an NSE option-chain entry. Fields stay
// loosely typed until normalization.
type nseLeg struct {
	OpenInterest         any `json:"openInterest"`
	ChangeInOpenInterest any `json:"changeinOpenInterest"`
	LastPrice            any `json:"lastPrice"`
	Change               any `json:"change"`
}

// nseChain is the response shape of /api/option-chain-indices.
type nseChain struct {
	Records struct {
		ExpiryDates     []string `json:"expiryDates"`
		UnderlyingValue float64  `json:"underlyingValue"`
		Data            []struct {
			StrikePrice any     `json:"strikePrice"`
			ExpiryDate  string  `json:"expiryDate"`
			CE          *nseLeg `json:"CE"`
			PE          *nseLeg `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

func (f *NSEFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nse fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nse read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nse: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// warmup fetches the site root to obtain session cookies. Only a successful
// warmup is remembered; a transport failure is retried on the next fetch, so
// the poll interval stays the effective retry mechanism.
func (f *NSEFetcher) warmup() error {
	f.warmMu.Lock()
	defer f.warmMu.Unlock()
	if f.warmed {
		return nil
	}
	req, err := http.NewRequest("GET", f.BaseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("nse warmup: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	f.warmed = true
	return nil
}

func (f *NSEFetcher) fetchChain(symbol string) (*nseChain, error) {
	if err := f.warmup(); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/option-chain-indices?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	body, err := f.get(u)
	if err != nil {
		return nil, err
	}
	var chain nseChain
	if err := json.Unmarshal(body, &chain); err != nil {
		return nil, fmt.Errorf("nse decode: %w", err)
	}
	return &chain, nil
}

func (f *NSEFetcher) FetchOptionChain(symbol string) ([]model.RawRow, error) {
	chain, err := f.fetchChain(symbol)
	if err != nil {
		return nil, err
	}
	rows := make([]model.RawRow, 0, len(chain.Records.Data))
	for _, d := range chain.Records.Data {
		row := model.RawRow{
			Strike: d.StrikePrice,
			Expiry: d.ExpiryDate,
		}
		if d.CE != nil {
			row.CallOI = d.CE.OpenInterest
			row.CallOIChange = d.CE.ChangeInOpenInterest
			row.CallLastPrice = d.CE.LastPrice
			row.CallPriceChange = d.CE.Change
		}
		if d.PE != nil {
			row.PutOI = d.PE.OpenInterest
			row.PutOIChange = d.PE.ChangeInOpenInterest
			row.PutLastPrice = d.PE.LastPrice
			row.PutPriceChange = d.PE.Change
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *NSEFetcher) FetchSpot(symbol string) (float64, error) {
	chain, err := f.fetchChain(symbol)
	if err != nil {
		return 0, err
	}
	if chain.Records.UnderlyingValue <= 0 {
		return 0, fmt.Errorf("nse: no underlying value for %s", symbol)
	}
	return chain.Records.UnderlyingValue, nil
}
