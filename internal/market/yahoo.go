package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/pkg/models"
	"github.com/rupeewise/rupeewise/pkg/utils"
)

// Yahoo is the bulk quote provider: one request covers up to chunkSize
// symbols, so it is the cheap first choice for the whole trending
// universe.
type Yahoo struct {
	baseURL   string
	chunkSize int
	client    *http.Client
}

// NewYahoo creates the bulk adapter from config. The base URL override
// exists for tests and self-hosted proxies.
func NewYahoo(cfg config.MarketConfig) *Yahoo {
	base := strings.TrimRight(cfg.YahooBaseURL, "/")
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = 50
	}
	return &Yahoo{
		baseURL:   base,
		chunkSize: chunk,
		client:    newHTTPClient(cfg.Timeout()),
	}
}

// Name returns the provider name.
func (y *Yahoo) Name() string { return "Yahoo Finance" }

// Configured reports true: the bulk endpoint needs no credentials.
func (y *Yahoo) Configured() bool { return true }

// --- Yahoo Finance v7 response types ---

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteRecord `json:"result"`
		Error  *yahooError        `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteRecord carries every field alias observed across provider
// variants. Pointer fields keep "absent" distinct from zero.
type yahooQuoteRecord struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`

	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	Price              *float64 `json:"price"`

	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	ChangePercent              *float64 `json:"changePercent"`

	RegularMarketOpen *float64 `json:"regularMarketOpen"`
	Open              *float64 `json:"open"`

	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	DayHigh              *float64 `json:"dayHigh"`

	RegularMarketDayLow *float64 `json:"regularMarketDayLow"`
	DayLow              *float64 `json:"dayLow"`

	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	PreviousClose              *float64 `json:"previousClose"`

	RegularMarketVolume *float64 `json:"regularMarketVolume"`
	Volume              *float64 `json:"volume"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchQuotes fetches quotes for symbols in chunks. A failed chunk is
// logged and skipped; partial results from the remaining chunks are
// still returned. The result is empty, never an error, when every chunk
// fails.
func (y *Yahoo) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	var quotes []models.Quote
	for start := 0; start < len(symbols); start += y.chunkSize {
		end := start + y.chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}
		chunk, err := y.fetchChunk(ctx, symbols[start:end])
		if err != nil {
			log.Printf("yahoo: chunk %d-%d failed: %v", start, end, err)
			continue
		}
		quotes = append(quotes, chunk...)
	}
	return quotes, nil
}

func (y *Yahoo) fetchChunk(ctx context.Context, symbols []string) ([]models.Quote, error) {
	qualified := make([]string, len(symbols))
	for i, s := range symbols {
		qualified[i] = utils.ToYahooSymbol(s)
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		y.baseURL, url.QueryEscape(strings.Join(qualified, ",")))
	data, err := httpGet(ctx, y.client, u)
	if err != nil {
		return nil, err
	}

	var resp yahooQuoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("provider error: %s", resp.QuoteResponse.Error.Description)
	}

	quotes := make([]models.Quote, 0, len(resp.QuoteResponse.Result))
	for _, r := range resp.QuoteResponse.Result {
		quotes = append(quotes, normalizeYahooRecord(r))
	}
	return quotes, nil
}

// normalizeYahooRecord maps a raw record into the canonical Quote,
// trying each field alias in priority order.
func normalizeYahooRecord(r yahooQuoteRecord) models.Quote {
	symbol := utils.BareSymbol(r.Symbol)
	name := firstString(r.LongName, r.ShortName)
	if name == "" {
		name = utils.LookupName(symbol)
	}
	return models.Quote{
		Symbol:    symbol,
		Name:      name,
		Price:     firstFloat(r.RegularMarketPrice, r.Price),
		Change:    firstFloat(r.RegularMarketChangePercent, r.ChangePercent),
		Open:      firstFloat(r.RegularMarketOpen, r.Open),
		High:      firstFloat(r.RegularMarketDayHigh, r.DayHigh),
		Low:       firstFloat(r.RegularMarketDayLow, r.DayLow),
		PrevClose: firstFloat(r.RegularMarketPreviousClose, r.PreviousClose),
		Volume:    firstFloat(r.RegularMarketVolume, r.Volume),
		Sector:    utils.LookupSector(symbol),
	}
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
