package market

import (
	"os"
	"strings"

	"github.com/rupeewise/rupeewise/internal/config"
)

// symbolsEnv is the comma-separated override for the trending universe.
const symbolsEnv = "MARKET_SYMBOLS"

// fallbackUniverse is the built-in working set used when neither the
// environment variable nor the symbols file provides one.
var fallbackUniverse = []string{
	"RELIANCE.NS",
	"TCS.NS",
	"HDFCBANK.NS",
	"INFY.NS",
	"ICICIBANK.NS",
	"HINDUNILVR.NS",
	"ITC.NS",
	"SBIN.NS",
	"BHARTIARTL.NS",
}

// LoadSymbols resolves the symbol universe, in priority order: the
// MARKET_SYMBOLS environment variable (comma-separated), the configured
// symbols file (one symbol per line, blank lines and # comments
// ignored), then the built-in fallback list. It is a pure function of
// environment and filesystem state at call time and never fails: any
// read error falls through to the next source.
func LoadSymbols(cfg config.MarketConfig) []string {
	if raw := strings.TrimSpace(os.Getenv(symbolsEnv)); raw != "" {
		if syms := splitCSV(raw); len(syms) > 0 {
			return syms
		}
	}

	if cfg.SymbolsFile != "" {
		if data, err := os.ReadFile(cfg.SymbolsFile); err == nil {
			if syms := parseSymbolLines(string(data)); len(syms) > 0 {
				return syms
			}
		}
	}

	out := make([]string, len(fallbackUniverse))
	copy(out, fallbackUniverse)
	return out
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseSymbolLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
