package portfolio_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/portfolio"
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func fixed(t *testing.T, name string, principal float64, start, maturity time.Time) *instrument.Instrument {
	t.Helper()
	inst, err := instrument.NewFixedRate(instrument.FixedRateSpec{
		Name:         name,
		Principal:    principal,
		StartDate:    start,
		MaturityDate: maturity,
		AnnualRate:   0.12,
	})
	if err != nil {
		t.Fatalf("NewFixedRate: %v", err)
	}
	return inst
}

func TestAddRemove(t *testing.T) {
	t.Parallel()

	p := portfolio.New("test")
	a := fixed(t, "A", 1000, date(2023, time.January), date(2024, time.January))

	if err := p.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(fixed(t, "A", 500, date(2023, time.January), date(2024, time.January))); !errors.Is(err, portfolio.ErrDuplicateInstrument) {
		t.Fatalf("duplicate add: want ErrDuplicateInstrument, got %v", err)
	}

	if err := p.Remove("B"); !errors.Is(err, portfolio.ErrInstrumentNotFound) {
		t.Fatalf("remove missing: want ErrInstrumentNotFound, got %v", err)
	}
	if err := p.Remove("A"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("len after remove: %d", p.Len())
	}
}

func TestSimulate_EmptyPortfolio(t *testing.T) {
	t.Parallel()

	p := portfolio.New("empty")
	if _, err := p.Simulate(date(2023, time.January), date(2023, time.June)); !errors.Is(err, portfolio.ErrEmptyPortfolio) {
		t.Fatalf("want ErrEmptyPortfolio, got %v", err)
	}
}

func TestSimulate_LateStartLeavesCellsUndefined(t *testing.T) {
	t.Parallel()

	p := portfolio.New("staggered")
	a := fixed(t, "A", 1000, date(2023, time.January), date(2024, time.January))
	b := fixed(t, "B", 2000, date(2023, time.March), date(2024, time.March))
	if err := p.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(b); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := p.Simulate(date(2023, time.January), date(2023, time.June))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	for _, month := range []time.Time{date(2023, time.January), date(2023, time.February)} {
		if _, ok := res.Values[month]["B"]; ok {
			t.Fatalf("B defined before its start at %s", month.Format("2006-01"))
		}
		aValue, ok := res.Values[month]["A"]
		if !ok {
			t.Fatalf("A missing at %s", month.Format("2006-01"))
		}
		if math.Abs(res.Totals[month]-aValue) > 1e-9 {
			t.Fatalf("total at %s must equal A alone: %.6f vs %.6f", month.Format("2006-01"), res.Totals[month], aValue)
		}
	}

	march := date(2023, time.March)
	if bValue, ok := res.Values[march]["B"]; !ok || math.Abs(bValue-2000) > 1e-9 {
		t.Fatalf("B inception at March: %v %v", bValue, ok)
	}
	want := res.Values[march]["A"] + res.Values[march]["B"]
	if math.Abs(res.Totals[march]-want) > 1e-9 {
		t.Fatalf("March total: got %.6f want %.6f", res.Totals[march], want)
	}
}

func TestTotalValue(t *testing.T) {
	t.Parallel()

	p := portfolio.New("totals")
	if err := p.Add(fixed(t, "A", 1000, date(2023, time.January), date(2024, time.January))); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := p.TotalValue(time.Time{}); !errors.Is(err, portfolio.ErrNotSimulated) {
		t.Fatalf("before simulate: want ErrNotSimulated, got %v", err)
	}

	res, err := p.Simulate(date(2023, time.January), date(2023, time.June))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	got, err := p.TotalValue(time.Time{})
	if err != nil {
		t.Fatalf("TotalValue: %v", err)
	}
	if math.Abs(got-res.FinalTotal()) > 1e-9 {
		t.Fatalf("zero date total: got %.6f want %.6f", got, res.FinalTotal())
	}

	got, err = p.TotalValue(date(2023, time.April))
	if err != nil {
		t.Fatalf("TotalValue: %v", err)
	}
	if math.Abs(got-res.Totals[date(2023, time.April)]) > 1e-9 {
		t.Fatalf("april total: got %.6f", got)
	}

	if _, err := p.TotalValue(date(2024, time.June)); !errors.Is(err, instrument.ErrDateNotInHistory) {
		t.Fatalf("unsimulated month: want ErrDateNotInHistory, got %v", err)
	}
}

func TestRentability_CouponsAddedBack(t *testing.T) {
	t.Parallel()

	p := portfolio.New("maturing")
	if err := p.Add(fixed(t, "A", 1000, date(2023, time.January), date(2023, time.July))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(fixed(t, "B", 2000, date(2023, time.January), date(2023, time.July))); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := p.Simulate(date(2023, time.January), date(2023, time.July))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	// Both mature inside the window: the final total is zero and the
	// payouts carry the whole return.
	if res.FinalTotal() != 0 {
		t.Fatalf("final total: %.6f", res.FinalTotal())
	}
	want := math.Pow(1.12, 0.5) - 1
	if got := res.Rentability(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("rentability: got %.8f want %.8f", got, want)
	}

	got, err := p.Rentability(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Rentability: %v", err)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("portfolio rentability: got %.8f want %.8f", got, want)
	}

	r := math.Pow(1.12, 1.0/12.0) - 1
	got, err = p.Rentability(date(2023, time.February), date(2023, time.April))
	if err != nil {
		t.Fatalf("Rentability: %v", err)
	}
	if want := math.Pow(1+r, 2) - 1; math.Abs(got-want) > 1e-9 {
		t.Fatalf("dated rentability: got %.8f want %.8f", got, want)
	}

	if _, err := p.Rentability(time.Time{}, date(2024, time.June)); !errors.Is(err, instrument.ErrDateNotInHistory) {
		t.Fatalf("unsimulated end: want ErrDateNotInHistory, got %v", err)
	}
}

func TestCouponTotals_PerMonth(t *testing.T) {
	t.Parallel()

	p := portfolio.New("coupons")
	for _, in := range []struct {
		name      string
		principal float64
	}{
		{"A", 1000},
		{"B", 2000},
	} {
		inst, err := instrument.NewFixedRate(instrument.FixedRateSpec{
			Name:              in.name,
			Principal:         in.principal,
			StartDate:         date(2023, time.January),
			MaturityDate:      date(2024, time.January),
			AnnualRate:        0.105,
			SemiannualCoupons: true,
		})
		if err != nil {
			t.Fatalf("NewFixedRate: %v", err)
		}
		if err := p.Add(inst); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	res, err := p.Simulate(date(2023, time.January), date(2024, time.January))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	july := date(2023, time.July)
	want := 3000 * config.Get().FixedSemiannualCoupon
	if got := res.CouponTotals[july]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("july coupon total: got %.6f want %.6f", got, want)
	}

	var grand float64
	for _, month := range res.Months {
		var sum float64
		for _, c := range res.Coupons[month] {
			sum += c
		}
		if math.Abs(res.CouponTotals[month]-sum) > 1e-9 {
			t.Fatalf("coupon total at %s: got %.6f want %.6f", month.Format("2006-01"), res.CouponTotals[month], sum)
		}
		grand += res.CouponTotals[month]
	}
	if math.Abs(grand-res.TotalCoupons) > 1e-9 {
		t.Fatalf("grand total: got %.6f want %.6f", grand, res.TotalCoupons)
	}
}

func TestCouponTable_OneRowPerMonth(t *testing.T) {
	t.Parallel()

	p := portfolio.New("coupon-render")
	a, err := instrument.NewFixedRate(instrument.FixedRateSpec{
		Name:              "A",
		Principal:         1000,
		StartDate:         date(2023, time.January),
		MaturityDate:      date(2024, time.January),
		AnnualRate:        0.105,
		SemiannualCoupons: true,
	})
	if err != nil {
		t.Fatalf("NewFixedRate: %v", err)
	}
	if err := p.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(fixed(t, "B", 2000, date(2023, time.January), date(2024, time.February))); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := p.Simulate(date(2023, time.January), date(2024, time.January))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	table := res.CouponTable()
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	// Header, one row per paying month (July and January), grand total.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), table)
	}
	header := lines[0]
	for _, col := range []string{"Date", "A", "B", "Total"} {
		if !strings.Contains(header, col) {
			t.Fatalf("header missing %q:\n%s", col, table)
		}
	}
	if !strings.Contains(lines[1], "2023-07") || !strings.Contains(lines[1], "-") {
		t.Fatalf("july row must mark B as undefined:\n%s", table)
	}
}

func TestClone_IndependentRuns(t *testing.T) {
	t.Parallel()

	p := portfolio.New("base")
	if err := p.Add(fixed(t, "A", 1000, date(2023, time.January), date(2024, time.January))); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cp := p.Clone()
	if _, err := cp.Simulate(date(2023, time.January), date(2023, time.June)); err != nil {
		t.Fatalf("clone Simulate: %v", err)
	}

	if _, err := p.LastResult(); !errors.Is(err, portfolio.ErrNotSimulated) {
		t.Fatalf("original must stay unsimulated, got %v", err)
	}
	orig, err := p.Get("A")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(orig.History()) != 0 {
		t.Fatalf("original instrument history changed: %d entries", len(orig.History()))
	}
}

func TestTable_RendersUndefinedCells(t *testing.T) {
	t.Parallel()

	p := portfolio.New("render")
	if err := p.Add(fixed(t, "A", 1000, date(2023, time.January), date(2024, time.January))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(fixed(t, "B", 2000, date(2023, time.March), date(2024, time.March))); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := p.Simulate(date(2023, time.January), date(2023, time.April))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	table := res.Table()
	if !strings.Contains(table, "2023-01") || !strings.Contains(table, "Total") {
		t.Fatalf("table missing expected columns:\n%s", table)
	}
	if !strings.Contains(table, "-") {
		t.Fatalf("table missing undefined cell marker:\n%s", table)
	}
}
