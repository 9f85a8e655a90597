package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Quote carries the latest troy-ounce rates relative to USD, as
// returned by the live endpoint: goldUSD = 1/XAU, silverUSD = 1/XAG.
type Quote struct {
	XAU float64
	XAG float64
}

// QuoteSource delivers the latest metal quote. It is a best-effort
// top-up input only, never the primary series source.
type QuoteSource interface {
	Latest(ctx context.Context) (*Quote, error)

	// Name returns the source identifier for logging.
	Name() string
}

// HTTPQuoteSource fetches the latest quote from a JSON endpoint of the
// shape {"rates": {"XAU": ..., "XAG": ...}}.
type HTTPQuoteSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPQuoteSource creates an HTTP quote source.
func NewHTTPQuoteSource(url string) *HTTPQuoteSource {
	return &HTTPQuoteSource{
		URL:    url,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPQuoteSource) Name() string { return "http:" + s.URL }

// quoteResponse is the live endpoint's wire shape.
type quoteResponse struct {
	Rates struct {
		XAU float64 `json:"XAU"`
		XAG float64 `json:"XAG"`
	} `json:"rates"`
}

// Latest fetches and validates the current quote. Both rates must be
// strictly positive.
func (s *HTTPQuoteSource) Latest(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source: status %d", resp.StatusCode)
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if parsed.Rates.XAU <= 0 || parsed.Rates.XAG <= 0 {
		return nil, fmt.Errorf("quote source: non-positive rates XAU=%v XAG=%v", parsed.Rates.XAU, parsed.Rates.XAG)
	}

	return &Quote{XAU: parsed.Rates.XAU, XAG: parsed.Rates.XAG}, nil
}
