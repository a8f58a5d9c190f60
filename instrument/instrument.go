// Package instrument models fixed-income instruments and simulates their
// month-by-month value evolution, including semiannual coupon payments.
//
// Three kinds share one accrual engine: fixed-rate, inflation-linked
// (additive: index + real rate) and floating-rate (multiplicative:
// multiple x reference rate). All rates are decimal fractions
// (0.055 = 5.5% a.a.).
package instrument

import (
	"fmt"
	"time"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/marketdata/bcb"
	"github.com/dfarias/fisim/utils"
)

// Instrument is a single fixed-income position. Configuration fields are
// set at construction and never mutated; running state changes only
// through SimulateMonth and Reset.
type Instrument struct {
	Name         string
	Principal    float64
	StartDate    time.Time // first of the start month
	MaturityDate time.Time // first of the maturity month
	AnnualRate   float64   // contract rate; for floating kinds, the multiple of the index
	Kind         IndexKind
	Operator     Operator
	// SemiannualCoupons enables payouts in the two CouponMonths.
	SemiannualCoupons bool
	// CouponMonths are the two payment months, six apart.
	CouponMonths [2]time.Month
	Currency     string

	indexer Indexer

	// fixedCoupon is the payment of fixed-rate semiannual instruments,
	// set once at construction from the configured market approximation.
	fixedCoupon float64

	// flatCouponFraction, when positive, makes inflation-linked interim
	// coupons pay this fraction of the corrected principal instead of the
	// accrued interest.
	flatCouponFraction float64

	history        map[time.Time]MonthlyResult
	months         []time.Time
	accrued        float64
	corrected      float64
	lastCouponDate time.Time
}

// FixedRateSpec configures a fixed-rate instrument (single annual rate
// agreed at inception, no external index).
type FixedRateSpec struct {
	Name         string
	Principal    float64
	StartDate    time.Time
	MaturityDate time.Time
	// AnnualRate is the contract rate as a decimal fraction (0.105 = 10.5% a.a.).
	AnnualRate        float64
	SemiannualCoupons bool
	// CouponMonths are the two payment months. When both are zero they
	// are derived from the start month (first payment six months in).
	CouponMonths [2]time.Month
	Currency     string
}

// InflationLinkedSpec configures an inflation-linked instrument
// (index + real rate, additive).
type InflationLinkedSpec struct {
	Name         string
	Principal    float64
	StartDate    time.Time
	MaturityDate time.Time
	// AnnualRate is the real rate on top of inflation, as a decimal fraction.
	AnnualRate        float64
	SemiannualCoupons bool
	CouponMonths      [2]time.Month
	Currency          string
	// FlatCouponFraction, when positive, replaces the accrued-interest
	// coupon with a flat fraction of the corrected principal per payment
	// (real treasury notes approximate ~0.0295). Zero pays the accrued
	// interest.
	FlatCouponFraction float64
	// Feed supplies monthly inflation fixings. Nil uses the bundled feed.
	Feed bcb.IndexFeed
	// DefaultIndexRate is the fallback when a scenario override misses a
	// month. Zero uses the configured projection.
	DefaultIndexRate float64
}

// FloatingRateSpec configures a floating-rate instrument (multiple of a
// reference rate, multiplicative). Floating instruments pay everything at
// maturity; they carry no coupon schedule.
type FloatingRateSpec struct {
	Name         string
	Principal    float64
	StartDate    time.Time
	MaturityDate time.Time
	// RateMultiple is the contracted fraction of the reference rate
	// (1.10 = 110%).
	RateMultiple float64
	Currency     string
	// Feed supplies monthly reference-rate fixings. Nil uses the bundled feed.
	Feed bcb.IndexFeed
	// DefaultIndexRate is the fallback when a scenario override misses a
	// month. Zero uses the configured projection.
	DefaultIndexRate float64
}

// NewFixedRate builds a fixed-rate instrument.
func NewFixedRate(spec FixedRateSpec) (*Instrument, error) {
	inst := &Instrument{
		Name:              spec.Name,
		Principal:         spec.Principal,
		StartDate:         utils.MonthStart(spec.StartDate),
		MaturityDate:      utils.MonthStart(spec.MaturityDate),
		AnnualRate:        spec.AnnualRate,
		Kind:              IndexNone,
		Operator:          OpNone,
		SemiannualCoupons: spec.SemiannualCoupons,
		CouponMonths:      spec.CouponMonths,
		Currency:          spec.Currency,
		indexer:           &fixedIndexer{annual: spec.AnnualRate},
	}
	if err := inst.validate("NewFixedRate"); err != nil {
		return nil, err
	}
	if inst.SemiannualCoupons {
		inst.fixedCoupon = inst.Principal * config.Get().FixedSemiannualCoupon
	}
	inst.Reset()
	return inst, nil
}

// NewInflationLinked builds an inflation-linked instrument.
func NewInflationLinked(spec InflationLinkedSpec) (*Instrument, error) {
	feed := spec.Feed
	if feed == nil {
		feed = bcb.DefaultInflationFeed()
	}
	fallback := spec.DefaultIndexRate
	if fallback == 0 {
		fallback = config.Get().DefaultInflationRate
	}
	inst := &Instrument{
		Name:               spec.Name,
		Principal:          spec.Principal,
		StartDate:          utils.MonthStart(spec.StartDate),
		MaturityDate:       utils.MonthStart(spec.MaturityDate),
		AnnualRate:         spec.AnnualRate,
		Kind:               IndexInflation,
		Operator:           OpAdditive,
		SemiannualCoupons:  spec.SemiannualCoupons,
		CouponMonths:       spec.CouponMonths,
		Currency:           spec.Currency,
		flatCouponFraction: spec.FlatCouponFraction,
		indexer: &inflationIndexer{
			annual:      spec.AnnualRate,
			indexLookup: indexLookup{feed: feed, fallback: fallback},
		},
	}
	if err := inst.validate("NewInflationLinked"); err != nil {
		return nil, err
	}
	inst.Reset()
	return inst, nil
}

// NewFloatingRate builds a floating-rate instrument.
func NewFloatingRate(spec FloatingRateSpec) (*Instrument, error) {
	feed := spec.Feed
	if feed == nil {
		feed = bcb.DefaultFloatingFeed()
	}
	fallback := spec.DefaultIndexRate
	if fallback == 0 {
		fallback = config.Get().DefaultFloatingRate
	}
	inst := &Instrument{
		Name:         spec.Name,
		Principal:    spec.Principal,
		StartDate:    utils.MonthStart(spec.StartDate),
		MaturityDate: utils.MonthStart(spec.MaturityDate),
		AnnualRate:   spec.RateMultiple,
		Kind:         IndexFloating,
		Operator:     OpMultiplicative,
		Currency:     spec.Currency,
		indexer: &floatingIndexer{
			multiple:    spec.RateMultiple,
			indexLookup: indexLookup{feed: feed, fallback: fallback},
		},
	}
	if err := inst.validate("NewFloatingRate"); err != nil {
		return nil, err
	}
	inst.Reset()
	return inst, nil
}

func (inst *Instrument) validate(op string) error {
	if !inst.StartDate.Before(inst.MaturityDate) {
		return fmt.Errorf("%s: start %s must precede maturity %s: %w",
			op, inst.StartDate.Format("2006-01-02"), inst.MaturityDate.Format("2006-01-02"), ErrInvalidInstrument)
	}
	if inst.Kind != IndexNone && inst.Operator == OpNone {
		return fmt.Errorf("%s: indexed kind %s requires an operator: %w", op, inst.Kind, ErrInvalidInstrument)
	}
	if inst.Kind == IndexNone && inst.Operator != OpNone {
		return fmt.Errorf("%s: operator %q without an index: %w", op, inst.Operator, ErrInvalidInstrument)
	}

	if !inst.SemiannualCoupons {
		inst.CouponMonths = [2]time.Month{}
		return nil
	}
	if inst.CouponMonths == ([2]time.Month{}) {
		inst.CouponMonths = defaultCouponMonths(inst.StartDate)
	}
	for _, m := range inst.CouponMonths {
		if m < time.January || m > time.December {
			return fmt.Errorf("%s: coupon month %d outside 1..12: %w", op, m, ErrInvalidInstrument)
		}
	}
	diff := int(inst.CouponMonths[0]) - int(inst.CouponMonths[1])
	if diff != 6 && diff != -6 {
		return fmt.Errorf("%s: coupon months %d/%d must be six apart: %w",
			op, inst.CouponMonths[0], inst.CouponMonths[1], ErrInvalidInstrument)
	}
	return nil
}

// defaultCouponMonths places the first payment six months after the start
// month and the second a year in.
func defaultCouponMonths(start time.Time) [2]time.Month {
	first := start.Month() + 6
	if first > time.December {
		first -= 12
	}
	return [2]time.Month{first, start.Month()}
}

// Reset clears the simulated history and running state, keeping the
// configuration. Called at the start of every fresh simulation run.
func (inst *Instrument) Reset() {
	inst.history = make(map[time.Time]MonthlyResult)
	inst.months = nil
	inst.accrued = 0
	inst.corrected = inst.Principal
	inst.lastCouponDate = time.Time{}
}

// Clone returns a new instrument with identical configuration and empty
// state, for independent scenario runs.
func (inst *Instrument) Clone() *Instrument {
	cp := &Instrument{
		Name:               inst.Name,
		Principal:          inst.Principal,
		StartDate:          inst.StartDate,
		MaturityDate:       inst.MaturityDate,
		AnnualRate:         inst.AnnualRate,
		Kind:               inst.Kind,
		Operator:           inst.Operator,
		SemiannualCoupons:  inst.SemiannualCoupons,
		CouponMonths:       inst.CouponMonths,
		Currency:           inst.Currency,
		indexer:            inst.indexer.clone(),
		fixedCoupon:        inst.fixedCoupon,
		flatCouponFraction: inst.flatCouponFraction,
	}
	cp.Reset()
	return cp
}

// SupportsOverride reports whether scenario index overrides apply to this
// instrument.
func (inst *Instrument) SupportsOverride() bool {
	return inst.indexer.SupportsOverride()
}

// SetIndexOverride injects a scenario map of monthly index fixings, which
// takes precedence over the shared feed. Months absent from the map fall
// back to the instrument's default monthly rate.
func (inst *Instrument) SetIndexOverride(rates map[time.Time]float64) {
	inst.indexer.SetOverride(rates)
}

// MonthlyRate exposes the kind-specific effective monthly rate.
func (inst *Instrument) MonthlyRate(date time.Time) float64 {
	return inst.indexer.MonthlyRate(date)
}

// IndexValue exposes the kind-specific index fixing.
func (inst *Instrument) IndexValue(date time.Time) float64 {
	return inst.indexer.IndexValue(date)
}

// History returns the simulated months in chronological order.
func (inst *Instrument) History() []MonthlyResult {
	out := make([]MonthlyResult, 0, len(inst.months))
	for _, m := range inst.months {
		out = append(out, inst.history[m])
	}
	return out
}

// Result returns the snapshot for a simulated month.
func (inst *Instrument) Result(date time.Time) (MonthlyResult, error) {
	res, ok := inst.history[utils.MonthStart(date)]
	if !ok {
		return MonthlyResult{}, fmt.Errorf("Result: %s: %w", date.Format("2006-01-02"), ErrDateNotInHistory)
	}
	return res, nil
}

// LastResult returns the most recent snapshot, if any month was simulated.
func (inst *Instrument) LastResult() (MonthlyResult, bool) {
	if len(inst.months) == 0 {
		return MonthlyResult{}, false
	}
	return inst.history[inst.months[len(inst.months)-1]], true
}

// LastCouponDate returns the month of the last payout, if one happened.
func (inst *Instrument) LastCouponDate() (time.Time, bool) {
	return inst.lastCouponDate, !inst.lastCouponDate.IsZero()
}

func (inst *Instrument) String() string {
	desc := fmt.Sprintf("%s - %s %.2f, %s to %s", inst.Name, inst.Currency, inst.Principal,
		inst.StartDate.Format("2006-01"), inst.MaturityDate.Format("2006-01"))
	switch inst.Kind {
	case IndexInflation:
		desc += fmt.Sprintf(", inflation + %.2f%% a.a.", inst.AnnualRate*100)
	case IndexFloating:
		desc += fmt.Sprintf(", %.0f%% of reference rate", inst.AnnualRate*100)
	default:
		desc += fmt.Sprintf(", %.2f%% a.a.", inst.AnnualRate*100)
	}
	if inst.SemiannualCoupons {
		desc += fmt.Sprintf(", coupons in months %d/%d", inst.CouponMonths[0], inst.CouponMonths[1])
	}
	return desc
}
