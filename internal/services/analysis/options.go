package analysis

import (
	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/engine/capital"
	"github.com/bobmcallan/finmodel/internal/engine/valuation"
	"github.com/bobmcallan/finmodel/internal/models"
)

// CapitalOptions maps the [capital] section onto the evaluator options.
func CapitalOptions(cfg *common.Config) capital.Options {
	return capital.Options{
		StrongNPVShare:    cfg.Capital.StrongNPVShare,
		StrongIRRMultiple: cfg.Capital.StrongIRRMultiple,
		ExactLimit:        cfg.Capital.ExactLimit,
		SensitivitySteps:  cfg.Capital.SensitivitySteps,
	}
}

// GridOptions maps the [valuation] section onto the DCF grid options.
// Missing steps fall back to the engine defaults.
func GridOptions(cfg *common.Config) valuation.GridOptions {
	opts := valuation.DefaultGridOptions()
	if len(cfg.Valuation.WACCSteps) > 0 {
		opts.WACCStepsPct = cfg.Valuation.WACCSteps
	}
	if len(cfg.Valuation.GrowthSteps) > 0 {
		opts.GrowthStepsPct = cfg.Valuation.GrowthSteps
	}
	opts.FlatGrowthPct = cfg.Valuation.FlatGrowthPct
	return opts
}

// SimulationDefaults fills run parameters the scenario left unset from [simulation].
func SimulationDefaults(spec models.SimulationSpec, cfg *common.Config) models.SimulationSpec {
	sim := cfg.Simulation
	if spec.Iterations <= 0 {
		spec.Iterations = sim.Iterations
	}
	if spec.ProjectionYears <= 0 {
		spec.ProjectionYears = sim.ProjectionYears
	}
	if spec.Workers <= 0 {
		spec.Workers = sim.Workers
	}
	if spec.Seed == 0 {
		spec.Seed = sim.Seed
	}
	if spec.TaxRatePct == nil {
		tax := sim.TaxRatePct
		spec.TaxRatePct = &tax
	}
	return spec
}
