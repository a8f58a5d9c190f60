package instrument

import (
	"math"
	"time"

	"github.com/dfarias/fisim/marketdata/bcb"
	"github.com/dfarias/fisim/utils"
)

// Indexer is the kind-specific rate rule of an instrument variant. The
// shared accrual engine is parameterized by it; each kind implements its
// own index lookup and monthly rate composition.
type Indexer interface {
	// IndexValue returns the index fixing applied for the month.
	// Kinds without an index return 0.
	IndexValue(date time.Time) float64

	// MonthlyRate returns the effective monthly rate for the month, as a
	// decimal fraction.
	MonthlyRate(date time.Time) float64

	// SupportsOverride reports whether the variant reads an index that a
	// scenario can replace.
	SupportsOverride() bool

	// SetOverride replaces the index fixings with a scenario map. Months
	// absent from the map fall back to the variant's default rate. No-op
	// for variants without an index.
	SetOverride(rates map[time.Time]float64)

	clone() Indexer
}

// AnnualToMonthly converts an annual rate to its compounding monthly
// equivalent: (1+r)^(1/12) - 1.
func AnnualToMonthly(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12.0) - 1
}

func normalizeOverride(rates map[time.Time]float64) map[time.Time]float64 {
	if rates == nil {
		return nil
	}
	out := make(map[time.Time]float64, len(rates))
	for d, r := range rates {
		out[utils.MonthStart(d)] = r
	}
	return out
}

// fixedIndexer has no external index; the annual contract rate fully
// determines the monthly rate.
type fixedIndexer struct {
	annual float64
}

func (ix *fixedIndexer) IndexValue(time.Time) float64      { return 0 }
func (ix *fixedIndexer) MonthlyRate(time.Time) float64     { return AnnualToMonthly(ix.annual) }
func (ix *fixedIndexer) SupportsOverride() bool            { return false }
func (ix *fixedIndexer) SetOverride(map[time.Time]float64) {}
func (ix *fixedIndexer) clone() Indexer {
	cp := *ix
	return &cp
}

// indexLookup resolves the month's index fixing: an override map takes
// precedence, and months missing from it use the instance fallback, not
// the shared feed.
type indexLookup struct {
	feed     bcb.IndexFeed
	override map[time.Time]float64
	fallback float64
}

func (l *indexLookup) value(date time.Time) float64 {
	if l.override != nil {
		if rate, ok := l.override[utils.MonthStart(date)]; ok {
			return rate
		}
		return l.fallback
	}
	if l.feed != nil {
		return l.feed.MonthlyRate(date)
	}
	return l.fallback
}

func (l *indexLookup) setOverride(rates map[time.Time]float64) {
	l.override = normalizeOverride(rates)
}

func (l *indexLookup) cloneLookup() indexLookup {
	cp := indexLookup{feed: l.feed, fallback: l.fallback}
	if l.override != nil {
		cp.override = make(map[time.Time]float64, len(l.override))
		for d, r := range l.override {
			cp.override[d] = r
		}
	}
	return cp
}

// inflationIndexer composes the monthly index with the real annual rate:
// (1+inflation)*(1+real) - 1.
type inflationIndexer struct {
	annual float64
	indexLookup
}

func (ix *inflationIndexer) IndexValue(date time.Time) float64 { return ix.value(date) }

func (ix *inflationIndexer) MonthlyRate(date time.Time) float64 {
	real := AnnualToMonthly(ix.annual)
	return (1+ix.value(date))*(1+real) - 1
}

func (ix *inflationIndexer) SupportsOverride() bool { return true }

func (ix *inflationIndexer) SetOverride(rates map[time.Time]float64) { ix.setOverride(rates) }

func (ix *inflationIndexer) clone() Indexer {
	return &inflationIndexer{annual: ix.annual, indexLookup: ix.cloneLookup()}
}

// floatingIndexer scales the reference rate by the contracted multiple.
type floatingIndexer struct {
	multiple float64
	indexLookup
}

func (ix *floatingIndexer) IndexValue(date time.Time) float64 { return ix.value(date) }

func (ix *floatingIndexer) MonthlyRate(date time.Time) float64 {
	return ix.value(date) * ix.multiple
}

func (ix *floatingIndexer) SupportsOverride() bool { return true }

func (ix *floatingIndexer) SetOverride(rates map[time.Time]float64) { ix.setOverride(rates) }

func (ix *floatingIndexer) clone() Indexer {
	return &floatingIndexer{multiple: ix.multiple, indexLookup: ix.cloneLookup()}
}
