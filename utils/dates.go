package utils

import (
	"fmt"
	"math"
	"time"
)

// DateParser converts a YYYY-MM-DD string to a UTC time.
func DateParser(strDate string) (time.Time, error) {
	const layout = "2006-01-02"
	t, err := time.Parse(layout, strDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("DateParser: %q: %w", strDate, err)
	}
	return t, nil
}

// MonthStart truncates a date to the first day of its calendar month (UTC).
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthSequence returns the ordered first-of-month dates from month(start)
// through month(end) inclusive, stepping one calendar month at a time.
//
// start must not be after end.
func MonthSequence(start, end time.Time) []time.Time {
	first := MonthStart(start)
	last := MonthStart(end)

	n := MonthsBetween(first, last) + 1
	if n < 1 {
		return nil
	}

	months := make([]time.Time, 0, n)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// MonthsBetween returns the whole-month distance from a to b.
// Negative when b's month precedes a's.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// YearsBetween returns the elapsed time from a to b in fractional years,
// counted in whole months.
func YearsBetween(a, b time.Time) float64 {
	return float64(MonthsBetween(a, b)) / 12.0
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
