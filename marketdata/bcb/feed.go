// Package bcb bundles monthly index fixings for the two reference indices
// used by the instrument engine: IPCA (consumer price inflation) and CDI
// (interbank deposit rate). Rates are monthly decimal fractions.
package bcb

import (
	"time"

	"github.com/dfarias/fisim/config"
)

// IndexFeed supplies the monthly rate of an index for a calendar month.
type IndexFeed interface {
	MonthlyRate(date time.Time) float64
}

// HistoricalFeed serves bundled fixings keyed by (year, month) and falls
// back to a flat projected rate for any month without a fixing.
type HistoricalFeed struct {
	fixings    map[int]map[time.Month]float64
	projection float64
}

// NewHistoricalFeed builds a feed over a (year -> month -> rate) table.
func NewHistoricalFeed(fixings map[int]map[time.Month]float64, projection float64) *HistoricalFeed {
	return &HistoricalFeed{fixings: fixings, projection: projection}
}

func (f *HistoricalFeed) MonthlyRate(date time.Time) float64 {
	if months, ok := f.fixings[date.Year()]; ok {
		if rate, ok := months[date.Month()]; ok {
			return rate
		}
	}
	return f.projection
}

// MapIndexFeed is a date-keyed feed for development and testing.
// Dates are compared by calendar month.
type MapIndexFeed struct {
	rates    map[time.Time]float64
	fallback float64
}

func NewMapIndexFeed(rates map[time.Time]float64, fallback float64) *MapIndexFeed {
	normalized := make(map[time.Time]float64, len(rates))
	for d, r := range rates {
		normalized[time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)] = r
	}
	return &MapIndexFeed{rates: normalized, fallback: fallback}
}

func (m *MapIndexFeed) MonthlyRate(date time.Time) float64 {
	key := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	if rate, ok := m.rates[key]; ok {
		return rate
	}
	return m.fallback
}

// DefaultInflationFeed builds a feed over the bundled IPCA fixings with the
// configured flat projection.
func DefaultInflationFeed() IndexFeed {
	return NewHistoricalFeed(IPCAFixings, config.Get().DefaultInflationRate)
}

// DefaultFloatingFeed builds a feed over the bundled CDI fixings with the
// configured flat projection.
func DefaultFloatingFeed() IndexFeed {
	return NewHistoricalFeed(CDIFixings, config.Get().DefaultFloatingRate)
}
