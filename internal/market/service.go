package market

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/pkg/models"
	"github.com/rupeewise/rupeewise/pkg/utils"
)

// indexSymbols are the headline benchmarks fetched alongside the
// trending universe. They are fixed and independent of it.
var indexSymbols = []string{"^NSEI", "^BSESN", "^NSEBANK"}

var indexNames = map[string]string{
	"^NSEI":    "NIFTY 50",
	"^BSESN":   "SENSEX",
	"^NSEBANK": "NIFTY BANK",
}

// Service orchestrates the provider chain, the cache, and mock
// synthesis. Provider attempts run sequentially in a fixed priority
// order; the worst possible outcome of any operation is synthesized
// data, never an error.
type Service struct {
	cfg    config.MarketConfig
	cache  Cache
	bulk   QuoteProvider
	single QuoteProvider
	search SearchProvider
	synth  *Synthesizer
	group  singleflight.Group
	now    func() time.Time
}

// NewService wires the default provider stack from config.
func NewService(cfg config.MarketConfig) *Service {
	av := NewAlphaVantage(cfg)
	return &Service{
		cfg:    cfg,
		cache:  NewCache(cfg.RedisURL),
		bulk:   NewYahoo(cfg),
		single: av,
		search: av,
		synth:  NewSynthesizer(time.Now().UnixNano()),
		now:    time.Now,
	}
}

// strategy is one provider attempt in the fallback chain.
type strategy struct {
	name  string
	fetch func(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// strategies returns the ordered provider chain: the bulk provider
// covers the whole universe in one pass, the single-symbol provider is
// the targeted fallback. Unconfigured providers are excluded up front.
// The single-symbol provider is rate limited per symbol, so its
// strategy only ever sees a watchlist-sized head of the list, never the
// whole universe.
func (s *Service) strategies() []strategy {
	var out []strategy
	if s.bulk != nil && s.bulk.Configured() {
		out = append(out, strategy{s.bulk.Name(), s.bulk.FetchQuotes})
	}
	if s.single != nil && s.single.Configured() {
		out = append(out, strategy{s.single.Name(), func(ctx context.Context, symbols []string) ([]models.Quote, error) {
			if max := s.cfg.MaxQuoteBatch; max > 0 && len(symbols) > max {
				symbols = symbols[:max]
			}
			return s.single.FetchQuotes(ctx, symbols)
		}})
	}
	return out
}

// fetchLive walks the chain and returns the first non-empty result.
// Every provider failure is contained here: an error counts the same as
// an empty result.
func (s *Service) fetchLive(ctx context.Context, symbols []string) []models.Quote {
	for _, st := range s.strategies() {
		quotes, err := st.fetch(ctx, symbols)
		if err != nil {
			log.Printf("market: provider %s failed: %v", st.name, err)
			continue
		}
		if len(quotes) > 0 {
			return quotes
		}
	}
	return nil
}

// GetMarketData returns the full market snapshot. forceMock bypasses
// every live provider and serves synthesized data directly. The call
// cannot fail: total provider exhaustion resolves to the mock path.
func (s *Service) GetMarketData(ctx context.Context, forceMock bool) models.MarketPayload {
	symbols := LoadSymbols(s.cfg)
	key := marketCacheKey(symbols, forceMock, s.now().Unix()/int64(s.bucketSec()))

	if cached, ok := s.cache.Get(ctx, key); ok {
		var payload models.MarketPayload
		if err := json.Unmarshal(cached, &payload); err == nil {
			return payload
		}
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		payload := s.buildPayload(ctx, symbols, forceMock)
		ttl := s.cfg.LiveTTL()
		if payload.Source == "mock" {
			ttl = s.cfg.MockTTL()
		}
		if b, err := json.Marshal(payload); err == nil {
			s.cache.Set(ctx, key, b, ttl)
		}
		return payload, nil
	})
	return v.(models.MarketPayload)
}

func (s *Service) buildPayload(ctx context.Context, symbols []string, forceMock bool) models.MarketPayload {
	var trending []models.Quote
	var indices []models.Index
	source := "mock"

	if !forceMock {
		// One bulk pass covers the universe plus the benchmarks.
		live := s.fetchLive(ctx, append(append([]string{}, symbols...), indexSymbols...))
		if len(live) > 0 {
			trending, indices = splitIndices(live)
			source = "live"
		}
	}
	if len(trending) == 0 {
		trending = s.synth.Quotes(symbols)
		source = "mock"
	}
	if len(indices) < len(indexSymbols) {
		// Benchmarks are always fully populated, live rows first.
		indices = mergeIndices(indices, s.synth.Indices())
	}

	gainers, losers := deriveMovers(trending)
	now := s.now()

	return models.MarketPayload{
		Indices:    indices,
		Trending:   trending,
		TopGainers: gainers,
		TopLosers:  losers,
		MarketStatus: models.MarketStatus{
			IsOpen:      utils.IsMarketOpenAt(now),
			NextSession: utils.NextSessionAt(now),
			Timezone:    utils.MarketTimezone,
		},
		Source:    source,
		UpdatedAt: now,
	}
}

// GetQuotes returns normalized quotes for an explicit symbol list.
// The single-symbol provider is preferred for small targeted batches;
// the bulk provider covers the rest. Partial results are valid.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) []models.Quote {
	if len(symbols) == 0 {
		return []models.Quote{}
	}
	if max := s.cfg.MaxQuoteBatch; max > 0 && len(symbols) > max {
		symbols = symbols[:max]
	}
	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		normalized[i] = utils.NormalizeSymbol(sym)
	}

	key := quotesCacheKey(normalized)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var quotes []models.Quote
		if err := json.Unmarshal(cached, &quotes); err == nil {
			return quotes
		}
	}

	var quotes []models.Quote
	if s.single != nil && s.single.Configured() {
		qs, err := s.single.FetchQuotes(ctx, normalized)
		if err != nil {
			log.Printf("market: quotes via %s failed: %v", s.single.Name(), err)
		}
		quotes = qs
	}
	if len(quotes) == 0 && s.bulk != nil && s.bulk.Configured() {
		qs, err := s.bulk.FetchQuotes(ctx, normalized)
		if err != nil {
			log.Printf("market: quotes via %s failed: %v", s.bulk.Name(), err)
		}
		quotes = qs
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}

	if b, err := json.Marshal(quotes); err == nil {
		s.cache.Set(ctx, key, b, s.cfg.LiveTTL())
	}
	return quotes
}

// Search resolves a free-text query. An empty query yields an empty
// slice, not an error. Provider search is tried first; on failure or an
// empty result the built-in directory answers by substring match.
func (s *Service) Search(ctx context.Context, query string) []models.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}
	}

	key := "search:" + strings.ToUpper(query)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var results []models.SearchResult
		if err := json.Unmarshal(cached, &results); err == nil {
			return results
		}
	}

	var results []models.SearchResult
	if s.search != nil {
		rs, err := s.search.SearchSymbols(ctx, query)
		if err != nil {
			log.Printf("market: search %q failed: %v", query, err)
		}
		results = rs
	}
	if len(results) == 0 {
		for _, e := range utils.SearchDirectory(query, 10) {
			results = append(results, models.SearchResult{
				Symbol:   e.Symbol,
				Name:     e.Name,
				Sector:   e.Sector,
				Exchange: "NSE",
			})
		}
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	if b, err := json.Marshal(results); err == nil {
		s.cache.Set(ctx, key, b, s.cfg.SearchTTL())
	}
	return results
}

func (s *Service) bucketSec() int {
	if s.cfg.BucketSec > 0 {
		return s.cfg.BucketSec
	}
	return 5
}

// --- Derivations & helpers ---

// deriveMovers computes the top-5 gainers and losers from a trending
// set. Quotes with no reported change are excluded; neither list ever
// carries an entry with the wrong sign.
func deriveMovers(trending []models.Quote) (gainers, losers []models.Quote) {
	for _, q := range trending {
		if q.Change == nil {
			continue
		}
		switch {
		case *q.Change > 0:
			gainers = append(gainers, q)
		case *q.Change < 0:
			losers = append(losers, q)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool { return *gainers[i].Change > *gainers[j].Change })
	sort.SliceStable(losers, func(i, j int) bool { return *losers[i].Change < *losers[j].Change })
	if len(gainers) > 5 {
		gainers = gainers[:5]
	}
	if len(losers) > 5 {
		losers = losers[:5]
	}
	return gainers, losers
}

// splitIndices separates benchmark rows from trending rows in a mixed
// bulk result.
func splitIndices(quotes []models.Quote) (trending []models.Quote, indices []models.Index) {
	for _, q := range quotes {
		name, isIndex := indexNames[q.Symbol]
		if !isIndex {
			trending = append(trending, q)
			continue
		}
		idx := models.Index{Symbol: q.Symbol, Name: name}
		if q.Price != nil {
			idx.Value = *q.Price
		}
		if q.Change != nil {
			idx.ChangePercent = *q.Change
			if q.Price != nil && q.PrevClose != nil {
				idx.Change = *q.Price - *q.PrevClose
			}
		}
		indices = append(indices, idx)
	}
	return trending, indices
}

// mergeIndices fills the gaps in live with synthesized rows, keeping
// the canonical benchmark order.
func mergeIndices(live, synth []models.Index) []models.Index {
	bySymbol := make(map[string]models.Index, len(live))
	for _, idx := range live {
		bySymbol[idx.Symbol] = idx
	}
	out := make([]models.Index, 0, len(indexSymbols))
	for i, sym := range indexSymbols {
		if idx, ok := bySymbol[sym]; ok {
			out = append(out, idx)
		} else if i < len(synth) {
			out = append(out, synth[i])
		}
	}
	return out
}

// marketCacheKey is order-independent over the symbol set and rolls
// over with the time bucket, so identical requests inside the bucket
// share one entry.
func marketCacheKey(symbols []string, forceMock bool, bucket int64) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	key := "market:" + strings.Join(sorted, ",")
	if forceMock {
		key = "market:mock:" + strings.Join(sorted, ",")
	}
	return key + ":" + strconv.FormatInt(bucket, 10)
}

func quotesCacheKey(symbols []string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return "quotes:" + strings.Join(sorted, ",")
}
