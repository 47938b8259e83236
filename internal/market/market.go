// Package market implements the market-data aggregation layer: provider
// adapters for upstream quote APIs, a TTL cache, the symbol universe
// loader, and the orchestrator that assembles market payloads with
// fallback to synthesized data.
package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rupeewise/rupeewise/pkg/models"
)

// QuoteProvider fetches normalized quotes for a batch of symbols.
// Implementations must never leak provider-specific field names past
// their boundary and must report configuration absence via Configured
// rather than by erroring.
type QuoteProvider interface {
	Name() string
	Configured() bool
	FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// SearchProvider resolves free-text queries into symbol matches.
type SearchProvider interface {
	SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error)
}

// ErrNotFound is returned when a symbol cannot be resolved upstream.
var ErrNotFound = fmt.Errorf("symbol not found")

// ErrHTTP wraps a non-2xx upstream response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// defaultUserAgent is sent on all upstream requests.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// newHTTPClient builds the shared outbound client with a bounded timeout
// so a hung provider cannot stall a request indefinitely.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// httpGet performs a GET with default headers and returns the body.
// Non-2xx responses become an *ErrHTTP with a truncated body.
func httpGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return io.ReadAll(resp.Body)
}
