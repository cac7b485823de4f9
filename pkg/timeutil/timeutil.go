// Package timeutil provides timezone utilities for the São Paulo timezone (UTC-3).
// Check-in timestamps and the financial month filter are academy-local, not UTC,
// so every date boundary in the system goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// SaoPauloTZ is the São Paulo timezone (UTC-3, no DST).
// Brazil abolished DST in 2019, so this is constant year-round.
var SaoPauloTZ = time.FixedZone("America/Sao_Paulo", -3*60*60)

// Now returns the current time in São Paulo timezone.
func Now() time.Time {
	return time.Now().In(SaoPauloTZ)
}

// ToSaoPaulo converts a time to São Paulo timezone.
func ToSaoPaulo(t time.Time) time.Time {
	return t.In(SaoPauloTZ)
}

// Date creates a time in São Paulo timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, SaoPauloTZ)
}

// FormatDate renders a time as an ISO calendar date (2006-01-02) in
// academy-local time. This is the date format stored on attendance records,
// graduation history entries and financial records.
func FormatDate(t time.Time) string {
	return ToSaoPaulo(t).Format("2006-01-02")
}

// FormatClock renders a time as a 24h wall clock (15:04) in academy-local
// time, the format shown on check-in records.
func FormatClock(t time.Time) string {
	return ToSaoPaulo(t).Format("15:04")
}

// FormatMonth renders a time as a calendar month key (2006-01) in
// academy-local time, used by the financial month filter.
func FormatMonth(t time.Time) string {
	return ToSaoPaulo(t).Format("2006-01")
}

// ParseDate parses an ISO calendar date into a São Paulo midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, SaoPauloTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay returns the start of the day (00:00:00) in São Paulo timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToSaoPaulo(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, SaoPauloTZ)
}

// StartOfMonth returns the start of the month in São Paulo timezone.
func StartOfMonth(t time.Time) time.Time {
	local := ToSaoPaulo(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, SaoPauloTZ)
}

// EndOfMonth returns the last instant of the month in São Paulo timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// MonthsBetween returns the number of whole calendar months between two
// times, used when checking the monthsRequired side of a graduation rule.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	a := ToSaoPaulo(from)
	b := ToSaoPaulo(to)
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
