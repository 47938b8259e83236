package utils

import (
	"testing"
	"time"
)

// istTime builds a time in IST for readable test cases.
func istTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, IST)
}

func TestIsMarketOpenAt(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		// 2026-09-02 is a Wednesday.
		{"mid-session weekday", istTime(2026, 9, 2, 11, 0), true},
		{"exact open", istTime(2026, 9, 2, 9, 15), true},
		{"exact close", istTime(2026, 9, 2, 15, 30), true},
		{"before open", istTime(2026, 9, 2, 9, 0), false},
		{"after close", istTime(2026, 9, 2, 16, 0), false},
		{"saturday", istTime(2026, 9, 5, 11, 0), false},
		{"sunday", istTime(2026, 9, 6, 11, 0), false},
		{"holiday mid-session", istTime(2026, 10, 2, 11, 0), false}, // Gandhi Jayanti
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarketOpenAt(tt.t); got != tt.want {
				t.Errorf("IsMarketOpenAt(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestIsMarketOpenAtConvertsZones(t *testing.T) {
	// 06:00 UTC is 11:30 IST, inside the session.
	utc := time.Date(2026, 9, 2, 6, 0, 0, 0, time.UTC)
	if !IsMarketOpenAt(utc) {
		t.Error("expected open for 06:00 UTC on a trading day")
	}
}

func TestIsTradingDay(t *testing.T) {
	if IsTradingDay(istTime(2026, 1, 26, 12, 0)) {
		t.Error("Republic Day should not be a trading day")
	}
	if !IsTradingDay(istTime(2026, 9, 2, 12, 0)) {
		t.Error("regular Wednesday should be a trading day")
	}
}

func TestNextTradingDay(t *testing.T) {
	// Friday 2026-09-04 is a holiday (Milad-un-Nabi); from Thursday the
	// next session is Monday.
	next := NextTradingDay(istTime(2026, 9, 3, 16, 0))
	if got := next.Format("2006-01-02"); got != "2026-09-07" {
		t.Errorf("NextTradingDay = %s, want 2026-09-07", got)
	}
}

func TestNextSessionAt(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"during session", istTime(2026, 9, 2, 11, 0), "closes 15:30 IST"},
		{"before open same day", istTime(2026, 9, 2, 8, 0), "opens 2026-09-02 09:15 IST"},
		{"after close", istTime(2026, 9, 2, 17, 0), "opens 2026-09-03 09:15 IST"},
		{"thursday evening skips holiday and weekend", istTime(2026, 9, 3, 17, 0), "opens 2026-09-07 09:15 IST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSessionAt(tt.t); got != tt.want {
				t.Errorf("NextSessionAt = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionBoundaries(t *testing.T) {
	d := istTime(2026, 9, 2, 12, 0)
	open := SessionOpenAt(d)
	close := SessionCloseAt(d)
	if open.Hour() != 9 || open.Minute() != 15 {
		t.Errorf("open = %v", open)
	}
	if close.Hour() != 15 || close.Minute() != 30 {
		t.Errorf("close = %v", close)
	}
	if !open.Before(close) {
		t.Error("open should precede close")
	}
}
