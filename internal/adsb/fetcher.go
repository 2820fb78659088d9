package adsb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultStatesURL is the OpenSky Network state vector endpoint.
	DefaultStatesURL = "https://opensky-network.org/api/states/all"

	// DefaultTimeout bounds each request; a stalled fetch holds up the
	// sweep for at most this long.
	DefaultTimeout = 10 * time.Second
)

// BoundingBox is the lat/lon query area sent to the API.
type BoundingBox struct {
	LatMin float64
	LonMin float64
	LatMax float64
	LonMax float64
}

// Fetcher pulls aircraft state vectors over HTTP.
type Fetcher struct {
	client  *http.Client
	baseURL string
	box     BoundingBox
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithURL sets a custom endpoint.
func WithURL(u string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a fetcher querying the given area.
func NewFetcher(box BoundingBox, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultStatesURL,
		box:     box,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch retrieves and parses the current state vectors for the configured
// area.
func (f *Fetcher) Fetch(ctx context.Context) ([]Aircraft, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.queryURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-scope/1.0 (terminal radar scope)")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	aircraft, err := ParseStates(body)
	if err != nil {
		return nil, fmt.Errorf("parse states: %w", err)
	}
	return aircraft, nil
}

// URL returns the full query URL.
func (f *Fetcher) URL() string {
	return f.queryURL()
}

func (f *Fetcher) queryURL() string {
	q := url.Values{}
	q.Set("lamin", fmt.Sprintf("%.4f", f.box.LatMin))
	q.Set("lomin", fmt.Sprintf("%.4f", f.box.LonMin))
	q.Set("lamax", fmt.Sprintf("%.4f", f.box.LatMax))
	q.Set("lomax", fmt.Sprintf("%.4f", f.box.LonMax))
	return f.baseURL + "?" + q.Encode()
}
