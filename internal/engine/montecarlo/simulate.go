// Package montecarlo runs seeded stochastic projections of a company's
// revenue, costs and net income, and aggregates the trial outcomes.
package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/finmodel/internal/models"
)

const (
	DefaultIterations      = 10000
	DefaultProjectionYears = 5
	DefaultTaxRatePct      = 25.0
)

// trial is one simulated path.
type trial struct {
	revenue   []float64
	netIncome []float64
	npv       float64
}

func (t trial) cumulativeNetIncome() float64 {
	sum := 0.0
	for _, v := range t.netIncome {
		sum += v
	}
	return sum
}

// Normalize fills zero-valued run parameters with defaults.
func Normalize(spec models.SimulationSpec) models.SimulationSpec {
	if spec.Iterations <= 0 {
		spec.Iterations = DefaultIterations
	}
	if spec.ProjectionYears <= 0 {
		spec.ProjectionYears = DefaultProjectionYears
	}
	if spec.TaxRatePct == nil {
		tax := DefaultTaxRatePct
		spec.TaxRatePct = &tax
	}
	if spec.Workers <= 0 {
		spec.Workers = runtime.GOMAXPROCS(0)
	}
	if spec.Workers > spec.Iterations {
		spec.Workers = spec.Iterations
	}
	return spec
}

// Validate checks a normalised spec before any sampling starts.
func Validate(spec models.SimulationSpec) error {
	vars := spec.Variables
	for _, v := range []struct {
		name string
		d    models.Distribution
	}{
		{"revenue_growth", vars.RevenueGrowth},
		{"cost_ratio", vars.CostRatio},
		{"opex_growth", vars.OpexGrowth},
		{"discount_rate", vars.DiscountRate},
	} {
		if err := ValidateDistribution(v.name, v.d); err != nil {
			return err
		}
	}
	if vars.DiscountRate.Min <= -100 {
		return models.InvalidDistribution("discount_rate", "min must be above -100, got %g", vars.DiscountRate.Min)
	}
	if spec.TaxRatePct == nil || *spec.TaxRatePct < 0 || *spec.TaxRatePct >= 100 {
		return models.InvalidAssumption("tax_rate_pct", "must be set and in [0, 100)")
	}
	if spec.Base.Revenue < 0 || spec.Base.OperatingExpenses < 0 {
		return models.InvalidAssumption("base", "revenue and operating expenses must not be negative")
	}
	return nil
}

// Run simulates spec.Iterations independent trials sharded across
// spec.Workers goroutines. Worker w draws from PCG(seed, w), so a run is
// reproducible for a given seed and worker count. A zero seed is replaced by a
// random one and reported in the result.
//
// Cancellation is checked between trials; a cancelled run returns the context
// error and no aggregates.
func Run(ctx context.Context, spec models.SimulationSpec) (models.SimulationResult, error) {
	spec = Normalize(spec)
	if err := Validate(spec); err != nil {
		return models.SimulationResult{}, err
	}
	if spec.Seed == 0 {
		spec.Seed = rand.Uint64()
	}

	trials := make([]trial, spec.Iterations)
	per := (spec.Iterations + spec.Workers - 1) / spec.Workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < spec.Workers; w++ {
		start := w * per
		end := min(start+per, spec.Iterations)
		if start >= end {
			break
		}
		s := newSampler(spec.Seed, uint64(w))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				trials[i] = simulate(s, spec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.SimulationResult{}, fmt.Errorf("monte carlo cancelled: %w", err)
	}

	return aggregate(spec, trials), nil
}

// simulate advances one company state through the projection years.
func simulate(s *sampler, spec models.SimulationSpec) trial {
	vars := spec.Variables
	tax := *spec.TaxRatePct / 100
	t := trial{
		revenue:   make([]float64, spec.ProjectionYears),
		netIncome: make([]float64, spec.ProjectionYears),
		npv:       -spec.Base.InitialInvestment,
	}

	revenue := spec.Base.Revenue
	opex := spec.Base.OperatingExpenses
	discount := 1.0
	for y := 0; y < spec.ProjectionYears; y++ {
		revenue *= 1 + s.bounded(vars.RevenueGrowth)/100
		cogs := revenue * s.bounded(vars.CostRatio) / 100
		opex *= 1 + s.bounded(vars.OpexGrowth)/100

		pretax := revenue - cogs - opex
		ni := pretax - max(0, pretax)*tax

		discount /= 1 + s.bounded(vars.DiscountRate)/100
		t.npv += ni * discount

		t.revenue[y] = revenue
		t.netIncome[y] = ni
	}
	return t
}

// ExpectedPath runs a single trial with every variable fixed at its mean.
// It returns per-year revenue and net income and the path NPV.
func ExpectedPath(spec models.SimulationSpec) (revenue, netIncome []float64, npv float64, err error) {
	spec = Normalize(spec)
	if err := Validate(spec); err != nil {
		return nil, nil, 0, err
	}
	fixed := spec
	for _, d := range []*models.Distribution{
		&fixed.Variables.RevenueGrowth,
		&fixed.Variables.CostRatio,
		&fixed.Variables.OpexGrowth,
		&fixed.Variables.DiscountRate,
	} {
		d.Std = 0
	}
	t := simulate(newSampler(1, 0), fixed)
	return t.revenue, t.netIncome, t.npv, nil
}
