package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/pkg/models"
	"github.com/rupeewise/rupeewise/pkg/utils"
)

// AlphaVantage is the single-symbol quote and symbol-search provider.
// It is accurate per symbol but tightly rate-limited, so callers keep it
// to watchlist-sized batches and search queries, never the whole
// trending universe.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *RateLimiter
}

// NewAlphaVantage creates the adapter. An empty API key leaves the
// provider unconfigured: every fetch then reports "no data" rather than
// an error, and callers fall through to the next provider.
func NewAlphaVantage(cfg config.MarketConfig) *AlphaVantage {
	base := strings.TrimRight(cfg.AlphaVantageBaseURL, "/")
	if base == "" {
		base = "https://www.alphavantage.co"
	}
	return &AlphaVantage{
		apiKey:  cfg.AlphaVantageKey,
		baseURL: base,
		client:  newHTTPClient(cfg.Timeout()),
		// Free tier allows 5 req/min: a burst of 5, then one token back
		// every 12s.
		limiter: NewRateLimiter(5, 12*time.Second),
	}
}

// Name returns the provider name.
func (a *AlphaVantage) Name() string { return "Alpha Vantage" }

// Configured reports whether an API key is present.
func (a *AlphaVantage) Configured() bool { return a.apiKey != "" }

// --- Alpha Vantage response types ---

type avGlobalQuoteResponse struct {
	GlobalQuote avGlobalQuote `json:"Global Quote"`
}

type avGlobalQuote struct {
	Symbol        string `json:"01. symbol"`
	Open          string `json:"02. open"`
	High          string `json:"03. high"`
	Low           string `json:"04. low"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	PrevClose     string `json:"08. previous close"`
	ChangePercent string `json:"10. change percent"`
}

type avSearchResponse struct {
	BestMatches []avSearchMatch `json:"bestMatches"`
}

type avSearchMatch struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
	Region string `json:"4. region"`
}

// FetchQuote fetches one symbol. For a bare symbol it tries the
// exchange-suffix candidates in order (.NS, then .BSE, then bare) and
// returns the first non-empty response. A nil quote with nil error means
// "this provider has nothing": unconfigured key, exhausted candidates,
// drained rate budget, or upstream failure. It never blocks on the rate
// limiter, so callers fall through to the next strategy immediately.
func (a *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if !a.Configured() {
		return nil, nil
	}
	for _, candidate := range utils.SuffixCandidates(symbol) {
		if !a.limiter.Allow() {
			return nil, nil
		}
		q, err := a.fetchGlobalQuote(ctx, candidate)
		if err != nil {
			log.Printf("alphavantage: %s: %v", candidate, err)
			continue
		}
		if q != nil {
			q.Symbol = utils.BareSymbol(utils.NormalizeSymbol(symbol))
			if q.Name == "" {
				q.Name = utils.LookupName(q.Symbol)
			}
			q.Sector = utils.LookupSector(q.Symbol)
			return q, nil
		}
	}
	return nil, nil
}

// FetchQuotes fetches a small batch one symbol at a time, skipping
// symbols that yield nothing. Partial results are valid. A drained rate
// budget ends the batch with whatever was collected so far.
func (a *AlphaVantage) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if !a.Configured() {
		return nil, nil
	}
	quotes := make([]models.Quote, 0, len(symbols))
	for _, s := range symbols {
		if ctx.Err() != nil {
			return quotes, ctx.Err()
		}
		q, err := a.FetchQuote(ctx, s)
		if err != nil {
			return quotes, err
		}
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// SearchSymbols resolves a free-text query via SYMBOL_SEARCH.
func (a *AlphaVantage) SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error) {
	if !a.Configured() {
		return nil, nil
	}
	if !a.limiter.Allow() {
		return nil, nil
	}

	u := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s",
		a.baseURL, url.QueryEscape(query), url.QueryEscape(a.apiKey))
	data, err := httpGet(ctx, a.client, u)
	if err != nil {
		return nil, err
	}

	var resp avSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		bare := utils.BareSymbol(m.Symbol)
		results = append(results, models.SearchResult{
			Symbol:   bare,
			Name:     firstString(m.Name, bare),
			Sector:   utils.LookupSector(bare),
			Exchange: exchangeFor(m.Symbol, m.Region),
		})
	}
	return results, nil
}

func (a *AlphaVantage) fetchGlobalQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	u := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), url.QueryEscape(a.apiKey))
	data, err := httpGet(ctx, a.client, u)
	if err != nil {
		return nil, err
	}

	var resp avGlobalQuoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}

	g := resp.GlobalQuote
	if g.Symbol == "" && g.Price == "" {
		return nil, nil // empty response: try the next candidate
	}

	return &models.Quote{
		Symbol:    g.Symbol,
		Price:     parseOptionalFloat(g.Price),
		Change:    parseOptionalFloat(g.ChangePercent),
		Open:      parseOptionalFloat(g.Open),
		High:      parseOptionalFloat(g.High),
		Low:       parseOptionalFloat(g.Low),
		PrevClose: parseOptionalFloat(g.PrevClose),
		Volume:    parseOptionalFloat(g.Volume),
	}, nil
}

// parseOptionalFloat parses a provider-native numeric string, tolerating
// a trailing "%" sign. Anything that does not parse to a finite number
// is omitted (nil) rather than propagated as NaN or a fake zero.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func exchangeFor(symbol, region string) string {
	switch {
	case strings.HasSuffix(symbol, ".NS"):
		return "NSE"
	case strings.HasSuffix(symbol, ".BSE"), strings.HasSuffix(symbol, ".BO"):
		return "BSE"
	case region != "":
		return region
	default:
		return "NSE"
	}
}
