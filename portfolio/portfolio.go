// Package portfolio aggregates instruments and simulates them together
// over a shared month sequence, producing per-month values and totals.
package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/internal/metrics"
	"github.com/dfarias/fisim/utils"
)

var (
	// ErrDuplicateInstrument is returned when an instrument name is added twice.
	ErrDuplicateInstrument = errors.New("duplicate instrument")

	// ErrInstrumentNotFound is returned when a name is not in the portfolio.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrEmptyPortfolio is returned when a simulation is requested with no
	// instruments.
	ErrEmptyPortfolio = errors.New("empty portfolio")

	// ErrNotSimulated is returned when results are requested before any
	// simulation ran.
	ErrNotSimulated = errors.New("portfolio not simulated")
)

// Portfolio holds a named set of instruments in insertion order.
type Portfolio struct {
	Name string

	names       []string
	instruments map[string]*instrument.Instrument

	result *Result
}

// New returns an empty portfolio.
func New(name string) *Portfolio {
	return &Portfolio{
		Name:        name,
		instruments: make(map[string]*instrument.Instrument),
	}
}

// Add appends an instrument. Names must be unique within the portfolio.
func (p *Portfolio) Add(inst *instrument.Instrument) error {
	if _, ok := p.instruments[inst.Name]; ok {
		return fmt.Errorf("Add: %q: %w", inst.Name, ErrDuplicateInstrument)
	}
	p.names = append(p.names, inst.Name)
	p.instruments[inst.Name] = inst
	return nil
}

// Remove drops an instrument by name.
func (p *Portfolio) Remove(name string) error {
	if _, ok := p.instruments[name]; !ok {
		return fmt.Errorf("Remove: %q: %w", name, ErrInstrumentNotFound)
	}
	delete(p.instruments, name)
	for i, n := range p.names {
		if n == name {
			p.names = append(p.names[:i], p.names[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns an instrument by name.
func (p *Portfolio) Get(name string) (*instrument.Instrument, error) {
	inst, ok := p.instruments[name]
	if !ok {
		return nil, fmt.Errorf("Get: %q: %w", name, ErrInstrumentNotFound)
	}
	return inst, nil
}

// Names returns the instrument names in insertion order.
func (p *Portfolio) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of instruments.
func (p *Portfolio) Len() int {
	return len(p.names)
}

// Instruments returns the instruments in insertion order.
func (p *Portfolio) Instruments() []*instrument.Instrument {
	out := make([]*instrument.Instrument, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, p.instruments[name])
	}
	return out
}

// Clone returns a portfolio with cloned instruments and no simulated
// state, for independent scenario runs.
func (p *Portfolio) Clone() *Portfolio {
	cp := New(p.Name)
	for _, name := range p.names {
		cp.names = append(cp.names, name)
		cp.instruments[name] = p.instruments[name].Clone()
	}
	return cp
}

// Simulate valuates every instrument month by month across the window
// and aggregates the results. Instruments are reset first, so repeated
// calls are independent.
//
// Months outside an instrument's life leave its cell undefined rather
// than zero; the month total sums the defined cells only.
func (p *Portfolio) Simulate(start, end time.Time) (*Result, error) {
	if len(p.names) == 0 {
		return nil, fmt.Errorf("Simulate: %w", ErrEmptyPortfolio)
	}

	first := utils.MonthStart(start)
	last := utils.MonthStart(end)
	if first.After(last) {
		return nil, fmt.Errorf("Simulate: start %s after end %s: %w",
			first.Format("2006-01-02"), last.Format("2006-01-02"), instrument.ErrDateOutOfRange)
	}

	for _, name := range p.names {
		p.instruments[name].Reset()
	}

	months := utils.MonthSequence(first, last)
	res := newResult(p.Name, first, last, months, p.Names())
	for _, name := range p.names {
		res.InstrumentSnapshot[name] = p.instruments[name]
	}

	for _, month := range months {
		for _, name := range p.names {
			inst := p.instruments[name]
			if month.Before(inst.StartDate) || month.After(inst.MaturityDate) {
				continue
			}
			mr, err := inst.SimulateMonth(month)
			if err != nil {
				// A failed valuation leaves the cell undefined instead of
				// aborting the whole run.
				continue
			}
			metrics.InstrumentMonths.Inc()
			res.record(month, name, mr)
		}
	}

	p.result = res
	return res, nil
}

// LastResult returns the result of the most recent Simulate call.
func (p *Portfolio) LastResult() (*Result, error) {
	if p.result == nil {
		return nil, fmt.Errorf("LastResult: %w", ErrNotSimulated)
	}
	return p.result, nil
}

// TotalValue returns the portfolio total for a simulated month. A zero
// date returns the final month of the last run.
func (p *Portfolio) TotalValue(date time.Time) (float64, error) {
	if p.result == nil {
		return 0, fmt.Errorf("TotalValue: %w", ErrNotSimulated)
	}
	month := p.result.EndDate
	if !date.IsZero() {
		month = utils.MonthStart(date)
	}
	total, ok := p.result.Totals[month]
	if !ok {
		return 0, fmt.Errorf("TotalValue: %s: %w", month.Format("2006-01-02"), instrument.ErrDateNotInHistory)
	}
	return total, nil
}

// Rentability returns the portfolio return between two simulated months,
// adding back the coupons paid strictly after the start month. Zero dates
// default to the ends of the last run.
func (p *Portfolio) Rentability(start, end time.Time) (float64, error) {
	if p.result == nil {
		return 0, fmt.Errorf("Rentability: %w", ErrNotSimulated)
	}

	first := p.result.StartDate
	if !start.IsZero() {
		first = utils.MonthStart(start)
	}
	last := p.result.EndDate
	if !end.IsZero() {
		last = utils.MonthStart(end)
	}

	initial, ok := p.result.Totals[first]
	if !ok {
		return 0, fmt.Errorf("Rentability: start %s: %w", first.Format("2006-01-02"), instrument.ErrDateNotInHistory)
	}
	final, ok := p.result.Totals[last]
	if !ok {
		return 0, fmt.Errorf("Rentability: end %s: %w", last.Format("2006-01-02"), instrument.ErrDateNotInHistory)
	}
	if initial == 0 {
		return 0, nil
	}

	var coupons float64
	for _, month := range p.result.Months {
		if month.After(first) && !month.After(last) {
			coupons += p.result.CouponTotals[month]
		}
	}

	return (final+coupons)/initial - 1, nil
}
