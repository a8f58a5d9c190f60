package instrument

import (
	"fmt"
	"time"

	"github.com/dfarias/fisim/utils"
)

// SimulateMonth valuates one calendar month and appends the snapshot to
// the instrument's history. Months must be valuated in chronological
// order: each month's computation reads the previous month's snapshot.
func (inst *Instrument) SimulateMonth(date time.Time) (MonthlyResult, error) {
	month := utils.MonthStart(date)

	if month.Before(inst.StartDate) {
		return MonthlyResult{}, fmt.Errorf("SimulateMonth: %s precedes start %s: %w",
			month.Format("2006-01-02"), inst.StartDate.Format("2006-01-02"), ErrDateOutOfRange)
	}
	if month.After(inst.MaturityDate) {
		return MonthlyResult{}, fmt.Errorf("SimulateMonth: %s past maturity %s: %w",
			month.Format("2006-01-02"), inst.MaturityDate.Format("2006-01-02"), ErrDateOutOfRange)
	}
	if len(inst.months) > 0 && !month.After(inst.months[len(inst.months)-1]) {
		return MonthlyResult{}, fmt.Errorf("SimulateMonth: %s not after last simulated month %s: %w",
			month.Format("2006-01-02"), inst.months[len(inst.months)-1].Format("2006-01-02"), ErrDateOutOfRange)
	}

	// Inception: value is the principal, nothing accrues.
	if month.Equal(inst.StartDate) {
		return inst.store(inst.inceptionResult()), nil
	}
	if len(inst.months) == 0 {
		inst.store(inst.inceptionResult())
	}

	prev := inst.history[inst.months[len(inst.months)-1]]
	indexValue := inst.indexer.IndexValue(month)

	// The corrected principal tracks the index alone; only the
	// inflation-linked additive kind compounds it.
	if inst.Kind == IndexInflation && inst.Operator == OpAdditive {
		inst.corrected *= 1 + indexValue
	} else {
		inst.corrected = inst.Principal
	}

	rate := inst.indexer.MonthlyRate(month)
	interest := inst.monthInterest(prev.Value, rate)
	inst.accrued += interest
	value := prev.Value + interest

	var (
		couponPaid   bool
		couponAmount float64
	)
	isMaturity := month.Equal(inst.MaturityDate)
	if (inst.SemiannualCoupons && inst.isCouponMonth(month)) || isMaturity {
		couponPaid = true
		switch {
		case isMaturity && inst.SemiannualCoupons:
			// Final payout: corrected principal plus the closing coupon.
			couponAmount = inst.corrected + inst.interimCoupon()
			value = 0
		case isMaturity:
			// Lump sum: principal plus everything accrued.
			couponAmount = value
			value = 0
		default:
			// Interim coupon: paid interest leaves the tracked value;
			// only the principal track keeps compounding.
			couponAmount = inst.interimCoupon()
			value = inst.corrected
		}
		inst.accrued = 0
		inst.lastCouponDate = month
	}

	return inst.store(MonthlyResult{
		Date:               month,
		Value:              value,
		Principal:          inst.Principal,
		Interest:           interest,
		AccruedInterest:    inst.accrued,
		IndexValue:         indexValue,
		MonthlyRate:        rate,
		CouponPaid:         couponPaid,
		CouponAmount:       couponAmount,
		CorrectedPrincipal: inst.corrected,
	}), nil
}

// SimulatePeriod clears the instrument state and valuates every month
// from start through end. The window must lie within the instrument's
// life.
func (inst *Instrument) SimulatePeriod(start, end time.Time) ([]MonthlyResult, error) {
	first := utils.MonthStart(start)
	last := utils.MonthStart(end)

	if first.After(last) {
		return nil, fmt.Errorf("SimulatePeriod: start %s after end %s: %w",
			first.Format("2006-01-02"), last.Format("2006-01-02"), ErrDateOutOfRange)
	}
	if first.Before(inst.StartDate) {
		return nil, fmt.Errorf("SimulatePeriod: start %s precedes instrument start %s: %w",
			first.Format("2006-01-02"), inst.StartDate.Format("2006-01-02"), ErrDateOutOfRange)
	}
	if last.After(inst.MaturityDate) {
		return nil, fmt.Errorf("SimulatePeriod: end %s past maturity %s: %w",
			last.Format("2006-01-02"), inst.MaturityDate.Format("2006-01-02"), ErrDateOutOfRange)
	}

	inst.Reset()

	months := utils.MonthSequence(first, last)
	results := make([]MonthlyResult, 0, len(months))
	for _, month := range months {
		res, err := inst.SimulateMonth(month)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Rentability returns the return over a simulated window. Coupons paid
// strictly after the window start are added back to the final value: a
// payout removes value from the tracked series without being a loss.
//
// A zero start defaults to the instrument start; a zero end defaults to
// the last simulated month.
func (inst *Instrument) Rentability(start, end time.Time) (float64, error) {
	if len(inst.months) == 0 {
		return 0, fmt.Errorf("Rentability: no simulated history: %w", ErrDateNotInHistory)
	}

	first := inst.StartDate
	if !start.IsZero() {
		first = utils.MonthStart(start)
	}
	last := inst.months[len(inst.months)-1]
	if !end.IsZero() {
		last = utils.MonthStart(end)
	}

	initial := inst.Principal
	if !first.Equal(inst.StartDate) {
		res, ok := inst.history[first]
		if !ok {
			return 0, fmt.Errorf("Rentability: start %s: %w", first.Format("2006-01-02"), ErrDateNotInHistory)
		}
		initial = res.Value
	}
	final, ok := inst.history[last]
	if !ok {
		return 0, fmt.Errorf("Rentability: end %s: %w", last.Format("2006-01-02"), ErrDateNotInHistory)
	}

	var coupons float64
	for _, m := range inst.months {
		if m.After(first) && !m.After(last) {
			if res := inst.history[m]; res.CouponPaid {
				coupons += res.CouponAmount
			}
		}
	}

	return (final.Value+coupons)/initial - 1, nil
}

func (inst *Instrument) inceptionResult() MonthlyResult {
	inst.corrected = inst.Principal
	inst.accrued = 0
	return MonthlyResult{
		Date:               inst.StartDate,
		Value:              inst.Principal,
		Principal:          inst.Principal,
		CorrectedPrincipal: inst.Principal,
	}
}

// monthInterest applies the kind-specific accrual base.
func (inst *Instrument) monthInterest(prevValue, rate float64) float64 {
	switch {
	case inst.Kind == IndexInflation && inst.Operator == OpAdditive:
		// Accrue on the corrected principal, keeping the inflation track
		// separate from accrued interest.
		return inst.corrected * rate
	case inst.Kind == IndexNone && inst.SemiannualCoupons:
		// Coupons strip the interest out, so the principal alone compounds.
		return inst.Principal * rate
	default:
		return prevValue * rate
	}
}

// interimCoupon is the payout of a scheduled coupon month. Fixed-rate
// instruments pay the coupon fixed at construction; inflation-linked
// instruments pay the interest accrued since the last payout, unless a
// flat fraction of the corrected principal was configured.
func (inst *Instrument) interimCoupon() float64 {
	if inst.Kind == IndexNone {
		return inst.fixedCoupon
	}
	if inst.Kind == IndexInflation && inst.flatCouponFraction > 0 {
		return inst.corrected * inst.flatCouponFraction
	}
	return inst.accrued
}

func (inst *Instrument) isCouponMonth(month time.Time) bool {
	return month.Month() == inst.CouponMonths[0] || month.Month() == inst.CouponMonths[1]
}

func (inst *Instrument) store(res MonthlyResult) MonthlyResult {
	inst.history[res.Date] = res
	inst.months = append(inst.months, res.Date)
	return res
}
