package utils

import (
	"sort"
	"strings"
)

// DirectoryEntry describes one symbol in the built-in directory used for
// search fallback and sector lookup.
type DirectoryEntry struct {
	Symbol string
	Name   string
	Sector string
}

// symbolDirectory lists well-known NSE symbols with display names and
// sectors. It backs the search fallback when no provider is reachable and
// supplies best-effort sector data for normalized quotes.
var symbolDirectory = []DirectoryEntry{
	{"RELIANCE", "Reliance Industries Ltd", "Oil & Gas"},
	{"TCS", "Tata Consultancy Services Ltd", "IT Services"},
	{"INFY", "Infosys Ltd", "IT Services"},
	{"HDFCBANK", "HDFC Bank Ltd", "Banking"},
	{"ICICIBANK", "ICICI Bank Ltd", "Banking"},
	{"SBIN", "State Bank of India", "Banking"},
	{"HINDUNILVR", "Hindustan Unilever Ltd", "FMCG"},
	{"ITC", "ITC Ltd", "FMCG"},
	{"BHARTIARTL", "Bharti Airtel Ltd", "Telecom"},
	{"BAJFINANCE", "Bajaj Finance Ltd", "Financial Services"},
	{"LT", "Larsen & Toubro Ltd", "Construction"},
	{"KOTAKBANK", "Kotak Mahindra Bank Ltd", "Banking"},
	{"AXISBANK", "Axis Bank Ltd", "Banking"},
	{"ASIANPAINT", "Asian Paints Ltd", "Paints"},
	{"MARUTI", "Maruti Suzuki India Ltd", "Automobile"},
	{"WIPRO", "Wipro Ltd", "IT Services"},
	{"HCLTECH", "HCL Technologies Ltd", "IT Services"},
	{"TITAN", "Titan Company Ltd", "Consumer Durables"},
	{"SUNPHARMA", "Sun Pharmaceutical Industries Ltd", "Pharmaceuticals"},
	{"TATAMOTORS", "Tata Motors Ltd", "Automobile"},
	{"TATASTEEL", "Tata Steel Ltd", "Metals"},
	{"NTPC", "NTPC Ltd", "Power"},
	{"POWERGRID", "Power Grid Corporation of India Ltd", "Power"},
	{"ONGC", "Oil and Natural Gas Corporation Ltd", "Oil & Gas"},
	{"ULTRACEMCO", "UltraTech Cement Ltd", "Cement"},
	{"TECHM", "Tech Mahindra Ltd", "IT Services"},
	{"NESTLEIND", "Nestle India Ltd", "FMCG"},
	{"DRREDDY", "Dr. Reddy's Laboratories Ltd", "Pharmaceuticals"},
	{"CIPLA", "Cipla Ltd", "Pharmaceuticals"},
	{"COALINDIA", "Coal India Ltd", "Mining"},
}

// yahooIndexSymbols maps canonical index names to Yahoo Finance symbols.
var yahooIndexSymbols = map[string]string{
	"NIFTY 50":   "^NSEI",
	"SENSEX":     "^BSESN",
	"NIFTY BANK": "^NSEBANK",
}

// NormalizeSymbol uppercases, trims, and strips a leading "$" from a
// user-supplied symbol.
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return strings.TrimPrefix(symbol, "$")
}

// BareSymbol strips a known exchange suffix, leaving the plain ticker.
func BareSymbol(symbol string) string {
	for _, suffix := range []string{".NS", ".BSE", ".BO"} {
		if strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix)
		}
	}
	return symbol
}

// ToYahooSymbol converts a symbol to Yahoo Finance format. Index names
// map to their caret symbols; plain tickers get the .NS suffix; already
// qualified symbols pass through.
func ToYahooSymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if ys, ok := yahooIndexSymbols[symbol]; ok {
		return ys
	}
	if strings.HasPrefix(symbol, "^") ||
		strings.HasSuffix(symbol, ".NS") || strings.HasSuffix(symbol, ".BO") {
		return symbol
	}
	return symbol + ".NS"
}

// SuffixCandidates returns the exchange-suffix candidates to try for a
// symbol, in priority order. Already-qualified symbols yield themselves.
func SuffixCandidates(symbol string) []string {
	symbol = NormalizeSymbol(symbol)
	if symbol != BareSymbol(symbol) {
		return []string{symbol}
	}
	return []string{symbol + ".NS", symbol + ".BSE", symbol}
}

// LookupName returns the display name for a symbol, or the symbol itself
// when the directory does not know it.
func LookupName(symbol string) string {
	bare := BareSymbol(NormalizeSymbol(symbol))
	for _, e := range symbolDirectory {
		if e.Symbol == bare {
			return e.Name
		}
	}
	return symbol
}

// LookupSector returns the best-effort sector for a symbol, "-" when
// unknown.
func LookupSector(symbol string) string {
	bare := BareSymbol(NormalizeSymbol(symbol))
	for _, e := range symbolDirectory {
		if e.Symbol == bare {
			return e.Sector
		}
	}
	return "-"
}

// SearchDirectory case-insensitively substring-matches the built-in
// directory against query, over both symbol and name, returning at most
// limit entries in directory order.
func SearchDirectory(query string, limit int) []DirectoryEntry {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []DirectoryEntry
	for _, e := range symbolDirectory {
		if strings.Contains(e.Symbol, query) || strings.Contains(strings.ToUpper(e.Name), query) {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Directory returns a copy of the built-in directory, sorted by symbol.
func Directory() []DirectoryEntry {
	out := make([]DirectoryEntry, len(symbolDirectory))
	copy(out, symbolDirectory)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
