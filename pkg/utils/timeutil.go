package utils

import (
	"fmt"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback when the tz database is unavailable.
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NSE regular session window.
const (
	sessionOpenHour    = 9
	sessionOpenMinute  = 15
	sessionCloseHour   = 15
	sessionCloseMinute = 30
)

// MarketTimezone is the exchange timezone name reported in payloads.
const MarketTimezone = "Asia/Kolkata"

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// SessionOpenAt returns the session open time (09:15 IST) on the given date.
func SessionOpenAt(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), sessionOpenHour, sessionOpenMinute, 0, 0, IST)
}

// SessionCloseAt returns the session close time (15:30 IST) on the given date.
func SessionCloseAt(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), sessionCloseHour, sessionCloseMinute, 0, 0, IST)
}

// IsTradingDay reports whether the date is a weekday that is not an NSE
// trading holiday.
func IsTradingDay(t time.Time) bool {
	t = t.In(IST)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, holiday := nseHolidays[t.Format("2006-01-02")]
	return !holiday
}

// IsMarketOpenAt reports whether the NSE regular session is open at t.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(IST)
	if !IsTradingDay(t) {
		return false
	}
	open := SessionOpenAt(t)
	close := SessionCloseAt(t)
	return !t.Before(open) && !t.After(close)
}

// NextTradingDay returns the first trading day strictly after the given date.
func NextTradingDay(from time.Time) time.Time {
	next := from.In(IST).AddDate(0, 0, 1)
	for !IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// NextSessionAt describes the next session boundary relative to t, e.g.
// "closes 15:30 IST" during trading or "opens 2026-09-01 09:15 IST"
// outside it.
func NextSessionAt(t time.Time) string {
	t = t.In(IST)
	if IsMarketOpenAt(t) {
		return fmt.Sprintf("closes %02d:%02d IST", sessionCloseHour, sessionCloseMinute)
	}
	// Before today's open on a trading day, the next session is today.
	if IsTradingDay(t) && t.Before(SessionOpenAt(t)) {
		return fmt.Sprintf("opens %s %02d:%02d IST", t.Format("2006-01-02"), sessionOpenHour, sessionOpenMinute)
	}
	next := NextTradingDay(t)
	return fmt.Sprintf("opens %s %02d:%02d IST", next.Format("2006-01-02"), sessionOpenHour, sessionOpenMinute)
}

// NSE trading holidays for 2026. Update annually from the NSE circular.
var nseHolidays = map[string]string{
	"2026-01-26": "Republic Day",
	"2026-02-17": "Mahashivratri",
	"2026-03-10": "Holi",
	"2026-03-30": "Id-ul-Fitr (Ramadan)",
	"2026-04-02": "Ram Navami",
	"2026-04-03": "Good Friday",
	"2026-04-14": "Dr. Ambedkar Jayanti",
	"2026-05-01": "Maharashtra Day",
	"2026-05-25": "Buddha Purnima",
	"2026-06-05": "Id-ul-Zuha (Bakri Id)",
	"2026-07-06": "Muharram",
	"2026-08-15": "Independence Day",
	"2026-08-18": "Parsi New Year",
	"2026-09-04": "Milad-un-Nabi",
	"2026-10-02": "Mahatma Gandhi Jayanti",
	"2026-10-20": "Dussehra",
	"2026-11-09": "Diwali (Laxmi Pujan)",
	"2026-11-10": "Diwali (Balipratipada)",
	"2026-11-30": "Guru Nanak Jayanti",
	"2026-12-25": "Christmas",
}
