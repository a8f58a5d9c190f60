// Package simulation orchestrates portfolio runs across named scenarios,
// injecting scenario index curves into the instruments that read them.
package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/internal/metrics"
	"github.com/dfarias/fisim/portfolio"
	"github.com/dfarias/fisim/utils"
)

// BaseScenario is the scenario name used when no curve override applies.
const BaseScenario = "base"

// Engine runs a portfolio through one or more scenarios and keeps the
// results for comparison.
type Engine struct {
	portfolio *portfolio.Portfolio
	config    Config
	log       *logrus.Logger

	results map[string]*portfolio.Result
}

// NewEngine builds an engine for the portfolio. A nil logger gets a
// default one.
func NewEngine(p *portfolio.Portfolio, cfg Config, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		portfolio: p,
		config:    cfg,
		log:       log,
		results:   make(map[string]*portfolio.Result),
	}
}

// Run simulates the portfolio under one scenario. The scenario's curves,
// when present in the config, replace the index feeds of the instruments
// that read them.
func (e *Engine) Run(scenario string) (*portfolio.Result, error) {
	runID := uuid.NewString()
	logger := e.log.WithFields(logrus.Fields{
		"run_id":    runID,
		"scenario":  scenario,
		"portfolio": e.portfolio.Name,
	})
	logger.WithFields(logrus.Fields{
		"start": e.config.StartDate.Format("2006-01"),
		"end":   e.config.EndDate.Format("2006-01"),
	}).Info("starting simulation run")

	e.applyScenario(scenario)
	e.warnUnappliedAdjustments(logger)

	res, err := e.portfolio.Simulate(e.config.StartDate, e.config.EndDate)
	if err != nil {
		metrics.SimulationRuns.WithLabelValues(scenario, "error").Inc()
		logger.WithError(err).Error("simulation run failed")
		return nil, fmt.Errorf("Run: scenario %q: %w", scenario, err)
	}
	metrics.SimulationRuns.WithLabelValues(scenario, "ok").Inc()

	e.results[scenario] = res
	logger.WithFields(logrus.Fields{
		"months":      len(res.Months),
		"final_total": res.FinalTotal(),
		"coupons":     res.TotalCoupons,
	}).Info("simulation run complete")
	return res, nil
}

// RunMany simulates every scenario on an independent clone of the
// portfolio, so runs do not share instrument state.
func (e *Engine) RunMany(scenarios []string) (map[string]*portfolio.Result, error) {
	out := make(map[string]*portfolio.Result, len(scenarios))
	for _, scenario := range scenarios {
		sub := NewEngine(e.portfolio.Clone(), e.config, e.log)
		res, err := sub.Run(scenario)
		if err != nil {
			return nil, err
		}
		out[scenario] = res
		e.results[scenario] = res
	}
	return out, nil
}

// Results returns the results collected so far, keyed by scenario.
func (e *Engine) Results() map[string]*portfolio.Result {
	out := make(map[string]*portfolio.Result, len(e.results))
	for name, res := range e.results {
		out[name] = res
	}
	return out
}

// ScenarioSummary condenses one scenario run for comparison.
type ScenarioSummary struct {
	Scenario         string
	InitialValue     float64
	FinalValue       float64
	TotalCoupons     float64
	Return           float64
	AnnualizedReturn float64
	Years            float64
}

// Summary returns one line per simulated scenario, sorted by name.
func (e *Engine) Summary() []ScenarioSummary {
	names := make([]string, 0, len(e.results))
	for name := range e.results {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ScenarioSummary, 0, len(names))
	for _, name := range names {
		res := e.results[name]
		ret := res.Rentability()
		years := utils.YearsBetween(res.StartDate, res.EndDate)
		annualized := ret
		if years > 0 {
			annualized = math.Pow(1+ret, 1/years) - 1
		}
		out = append(out, ScenarioSummary{
			Scenario:         name,
			InitialValue:     res.Totals[res.Months[0]],
			FinalValue:       res.FinalTotal(),
			TotalCoupons:     res.TotalCoupons,
			Return:           ret,
			AnnualizedReturn: annualized,
			Years:            years,
		})
	}
	return out
}

// applyScenario injects the scenario curves into every instrument whose
// kind reads the matching index. Instruments without an index are left
// alone.
func (e *Engine) applyScenario(scenario string) {
	inflation, hasInflation := e.config.InflationScenarios[scenario]
	floating, hasFloating := e.config.FloatingScenarios[scenario]
	for _, inst := range e.portfolio.Instruments() {
		if !inst.SupportsOverride() {
			continue
		}
		// A nil override clears any curve a previous run injected and
		// restores the bundled historical feed.
		switch inst.Kind {
		case instrument.IndexInflation:
			if hasInflation {
				inst.SetIndexOverride(inflation)
			} else {
				inst.SetIndexOverride(nil)
			}
		case instrument.IndexFloating:
			if hasFloating {
				inst.SetIndexOverride(floating)
			} else {
				inst.SetIndexOverride(nil)
			}
		}
	}
}

func (e *Engine) warnUnappliedAdjustments(logger *logrus.Entry) {
	if e.config.WithTaxes {
		logger.WithField("rate", e.config.IncomeTaxRate).Warn("income tax adjustment not applied to this run")
	}
	if e.config.AdminFeeRate > 0 {
		logger.WithField("rate", e.config.AdminFeeRate).Warn("administration fee not applied to this run")
	}
	if e.config.ContributionInterval > 0 && e.config.ContributionAmount > 0 {
		logger.Warn("periodic contributions not applied to this run")
	}
}
