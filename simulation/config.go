package simulation

import "time"

// Config drives a scenario run: the simulation window, optional cost
// adjustments and the named scenario curves.
type Config struct {
	StartDate time.Time
	EndDate   time.Time

	// WithTaxes enables the income tax adjustment on gains.
	WithTaxes bool
	// IncomeTaxRate is the flat tax applied to gains when WithTaxes is set.
	IncomeTaxRate float64
	// AdminFeeRate is the annual administration fee on the balance.
	AdminFeeRate float64

	// ContributionInterval is the spacing of periodic contributions in
	// months. Zero disables contributions.
	ContributionInterval int
	ContributionAmount   float64

	// InflationScenarios and FloatingScenarios map scenario names to
	// monthly index curves. A scenario absent from both maps runs on the
	// bundled historical feeds.
	InflationScenarios map[string]map[time.Time]float64
	FloatingScenarios  map[string]map[time.Time]float64
}

// NewConfig returns a config for the window with the standard tax rate.
func NewConfig(start, end time.Time) Config {
	return Config{
		StartDate:          start,
		EndDate:            end,
		IncomeTaxRate:      0.15,
		InflationScenarios: make(map[string]map[time.Time]float64),
		FloatingScenarios:  make(map[string]map[time.Time]float64),
	}
}
