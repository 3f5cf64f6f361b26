// Package common contains small shared utilities: pluralization and
// display formatting for amounts, streaks and durations.
package common

import "fmt"

// Plural returns the plural suffix "s" for any count other than 1.
//
// Examples:
//
//	fmt.Sprintf("%d Bebit%s", 1, Plural(1)) → "1 Bebit"
//	fmt.Sprintf("%d Bebit%s", 5, Plural(5)) → "5 Bebits"
func Plural[T int | int64](n T) string {
	if n == 1 || n == -1 {
		return ""
	}
	return "s"
}

// FormatBebits renders a Bebit amount for display.
// Example: FormatBebits(150) → "150 Bebits"
func FormatBebits(n int64) string {
	return fmt.Sprintf("%d Bebit%s", n, Plural(n))
}

// FormatDays renders a streak length for display.
// Example: FormatDays(1) → "1 day"
func FormatDays(n int) string {
	return fmt.Sprintf("%d day%s", n, Plural(n))
}

// FormatHours renders an hour count, switching to days past 24h.
//
// Examples:
//
//	FormatHours(5)  → "5 hours"
//	FormatHours(48) → "2 days"
func FormatHours(hours int) string {
	if hours < 24 {
		return fmt.Sprintf("%d hour%s", hours, Plural(hours))
	}
	days := hours / 24
	return fmt.Sprintf("%d day%s", days, Plural(days))
}
