package bcb_test

import (
	"math"
	"testing"
	"time"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/marketdata/bcb"
)

func TestHistoricalFeed_KnownFixing(t *testing.T) {
	t.Parallel()

	feed := bcb.DefaultInflationFeed()

	got := feed.MonthlyRate(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(got-0.0071) > 1e-12 {
		t.Fatalf("IPCA 2023-03 mismatch: got %.6f want 0.0071", got)
	}

	// Deflation months keep their sign.
	got = feed.MonthlyRate(time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(got-(-0.0068)) > 1e-12 {
		t.Fatalf("IPCA 2022-07 mismatch: got %.6f want -0.0068", got)
	}
}

func TestHistoricalFeed_ProjectionFallback(t *testing.T) {
	t.Parallel()

	inflation := bcb.DefaultInflationFeed()
	floating := bcb.DefaultFloatingFeed()

	// Beyond the bundled window.
	future := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := inflation.MonthlyRate(future); math.Abs(got-config.Get().DefaultInflationRate) > 1e-12 {
		t.Fatalf("inflation projection mismatch: got %.6f", got)
	}
	if got := floating.MonthlyRate(future); math.Abs(got-config.Get().DefaultFloatingRate) > 1e-12 {
		t.Fatalf("floating projection mismatch: got %.6f", got)
	}

	// Before the bundled window.
	past := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := floating.MonthlyRate(past); math.Abs(got-config.Get().DefaultFloatingRate) > 1e-12 {
		t.Fatalf("floating pre-window mismatch: got %.6f", got)
	}
}

func TestHistoricalFeed_MissingMonthWithinYear(t *testing.T) {
	t.Parallel()

	// A year entry that lacks a specific month falls back to the projection.
	feed := bcb.NewHistoricalFeed(map[int]map[time.Month]float64{
		2030: {time.January: 0.0050},
	}, 0.0040)

	if got := feed.MonthlyRate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)); math.Abs(got-0.0050) > 1e-12 {
		t.Fatalf("explicit fixing mismatch: got %.6f", got)
	}
	if got := feed.MonthlyRate(time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)); math.Abs(got-0.0040) > 1e-12 {
		t.Fatalf("missing month fallback mismatch: got %.6f", got)
	}
}

func TestMapIndexFeed(t *testing.T) {
	t.Parallel()

	feed := bcb.NewMapIndexFeed(map[time.Time]float64{
		// Mid-month key normalizes to its calendar month.
		time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC): 0.0100,
	}, 0.0040)

	if got := feed.MonthlyRate(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)); math.Abs(got-0.0100) > 1e-12 {
		t.Fatalf("map feed lookup mismatch: got %.6f", got)
	}
	if got := feed.MonthlyRate(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)); math.Abs(got-0.0040) > 1e-12 {
		t.Fatalf("map feed fallback mismatch: got %.6f", got)
	}
}
