// Package models defines the core data structures shared by the market
// data layer and the HTTP API.
package models

import "time"

// Quote is the canonical normalized quote for one tradable symbol.
//
// Every field except Symbol is optional: a nil pointer means the upstream
// provider did not report that value. Zero is a valid price and a valid
// change, so consumers must never collapse nil into 0.
type Quote struct {
	Symbol    string   `json:"symbol"`              // e.g., "RELIANCE"
	Name      string   `json:"name"`                // falls back to Symbol when unknown
	Price     *float64 `json:"price,omitempty"`     // last traded price
	Change    *float64 `json:"change,omitempty"`    // percentage change
	Open      *float64 `json:"open,omitempty"`
	High      *float64 `json:"high,omitempty"`
	Low       *float64 `json:"low,omitempty"`
	PrevClose *float64 `json:"prevClose,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
	Sector    string   `json:"sector"` // "-" when unknown
}

// SearchResult is one hit from a symbol search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Exchange string `json:"exchange"`
}

// Index is a headline benchmark (NIFTY 50, SENSEX, NIFTY BANK).
// Unlike Quote, an index row is always fully populated: when a live value
// is unavailable the synthesized one takes its place.
type Index struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// MarketStatus describes the current trading session, computed from the
// wall clock independently of any provider.
type MarketStatus struct {
	IsOpen      bool   `json:"isOpen"`
	NextSession string `json:"nextSession"`
	Timezone    string `json:"timezone"`
}

// MarketPayload is the full market snapshot returned by GET /api/market.
// TopGainers and TopLosers are always derived from Trending, never
// fetched on their own.
type MarketPayload struct {
	Indices      []Index      `json:"indices"`
	Trending     []Quote      `json:"trending"`
	TopGainers   []Quote      `json:"topGainers"`
	TopLosers    []Quote      `json:"topLosers"`
	MarketStatus MarketStatus `json:"marketStatus"`
	Source       string       `json:"source"` // "live" or "mock"
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewsArticle is a single market news headline.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Float returns a pointer to v. Convenient for building optional fields.
func Float(v float64) *float64 { return &v }
