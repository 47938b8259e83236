package utils

import (
	"strings"
	"testing"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"reliance", "RELIANCE"},
		{"  tcs.ns ", "TCS.NS"},
		{"INFY", "INFY"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBareSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RELIANCE.NS", "RELIANCE"},
		{"RELIANCE.BSE", "RELIANCE"},
		{"RELIANCE.BO", "RELIANCE"},
		{"RELIANCE", "RELIANCE"},
		{"^NSEI", "^NSEI"},
	}

	for _, tt := range tests {
		if got := BareSymbol(tt.in); got != tt.want {
			t.Errorf("BareSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToYahooSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RELIANCE", "RELIANCE.NS"},
		{"RELIANCE.NS", "RELIANCE.NS"},
		{"TCS.BO", "TCS.BO"},
		{"^NSEI", "^NSEI"},
	}

	for _, tt := range tests {
		if got := ToYahooSymbol(tt.in); got != tt.want {
			t.Errorf("ToYahooSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuffixCandidates(t *testing.T) {
	// A bare symbol expands to NSE first, then BSE, then as-is.
	got := SuffixCandidates("RELIANCE")
	want := []string{"RELIANCE.NS", "RELIANCE.BSE", "RELIANCE"}
	if len(got) != len(want) {
		t.Fatalf("SuffixCandidates(RELIANCE) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// An already-qualified symbol is tried as-is, alone.
	got = SuffixCandidates("TCS.NS")
	if len(got) != 1 || got[0] != "TCS.NS" {
		t.Errorf("SuffixCandidates(TCS.NS) = %v, want [TCS.NS]", got)
	}
}

func TestLookupName(t *testing.T) {
	if got := LookupName("RELIANCE"); got != "Reliance Industries Ltd" {
		t.Errorf("LookupName(RELIANCE) = %q", got)
	}
	// Unknown symbols fall back to the symbol itself, never empty.
	if got := LookupName("ZZUNKNOWN"); got != "ZZUNKNOWN" {
		t.Errorf("LookupName(ZZUNKNOWN) = %q, want ZZUNKNOWN", got)
	}
}

func TestLookupSector(t *testing.T) {
	if got := LookupSector("TCS"); got == "" || got == "-" {
		t.Errorf("LookupSector(TCS) = %q, want a real sector", got)
	}
	if got := LookupSector("ZZUNKNOWN"); got != "-" {
		t.Errorf("LookupSector(ZZUNKNOWN) = %q, want -", got)
	}
}

func TestSearchDirectory(t *testing.T) {
	tests := []struct {
		query      string
		wantSymbol string
	}{
		{"reliance", "RELIANCE"},
		{"RELI", "RELIANCE"},
		{"consultancy", "TCS"}, // matches on name, not symbol
		{"hdfc", "HDFCBANK"},
	}

	for _, tt := range tests {
		results := SearchDirectory(tt.query, 10)
		found := false
		for _, r := range results {
			if r.Symbol == tt.wantSymbol {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SearchDirectory(%q) missing %s, got %v", tt.query, tt.wantSymbol, results)
		}
	}

	if results := SearchDirectory("zzzznotathing", 10); len(results) != 0 {
		t.Errorf("SearchDirectory(no match) = %v, want empty", results)
	}
}

func TestSearchDirectoryLimit(t *testing.T) {
	// A broad query must respect the limit.
	results := SearchDirectory("a", 3)
	if len(results) > 3 {
		t.Errorf("SearchDirectory limit: got %d results, want <= 3", len(results))
	}
}

func TestSearchDirectoryCaseInsensitive(t *testing.T) {
	lower := SearchDirectory("infosys", 10)
	upper := SearchDirectory("INFOSYS", 10)
	if len(lower) == 0 || len(lower) != len(upper) {
		t.Errorf("case sensitivity: lower=%d upper=%d", len(lower), len(upper))
	}
}

func TestDirectoryEntriesWellFormed(t *testing.T) {
	for _, e := range Directory() {
		if e.Symbol == "" || e.Name == "" {
			t.Errorf("directory entry missing fields: %+v", e)
		}
		if strings.Contains(e.Symbol, ".") {
			t.Errorf("directory symbol %q carries an exchange suffix", e.Symbol)
		}
	}
}
