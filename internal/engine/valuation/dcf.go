package valuation

import (
	"github.com/bobmcallan/finmodel/internal/models"
)

// GridOptions controls the WACC × terminal-growth sensitivity grid.
type GridOptions struct {
	WACCStepsPct   []float64 `toml:"wacc_steps"`
	GrowthStepsPct []float64 `toml:"growth_steps"`
	// FlatGrowthPct replaces the projected growth path with a single rate in
	// every grid cell. Nil reuses the valuation's own growth rates.
	FlatGrowthPct *float64 `toml:"flat_growth_pct"`
}

// DefaultGridOptions returns ±2 points of WACC and ±1 point of terminal growth.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		WACCStepsPct:   []float64{-2, -1, 0, 1, 2},
		GrowthStepsPct: []float64{-1, -0.5, 0, 0.5, 1},
	}
}

func projectionYears(a models.ValuationAssumptions) int {
	if a.ProjectionYears > 0 {
		return a.ProjectionYears
	}
	return len(a.GrowthRatesPct)
}

// growthAt repeats the final rate beyond the supplied path.
func growthAt(rates []float64, year int) float64 {
	if year < len(rates) {
		return rates[year]
	}
	return rates[len(rates)-1]
}

// Value runs the DCF: explicit FCF projection discounted at WACC, plus a
// Gordon-growth terminal value discounted back the same number of years.
func Value(a models.ValuationAssumptions) (models.ValuationResult, error) {
	if len(a.GrowthRatesPct) == 0 {
		return models.ValuationResult{}, models.InsufficientData("growth_rates_pct", "at least one growth rate is required")
	}
	if a.WACCPct <= -100 {
		return models.ValuationResult{}, models.InvalidAssumption("wacc_pct", "must be above -100, got %g", a.WACCPct)
	}
	if a.TerminalGrowthPct >= a.WACCPct {
		return models.ValuationResult{}, models.InvalidAssumption("terminal_growth_pct",
			"terminal growth %g%% must be below wacc %g%%", a.TerminalGrowthPct, a.WACCPct)
	}

	years := projectionYears(a)
	wacc := a.WACCPct / 100

	res := models.ValuationResult{
		ProjectedCashFlows: make([]models.ProjectedCashFlow, years),
		NetDebt:            a.NetDebt,
	}

	fcf := a.InitialFCF
	discount := 1.0
	for i := 0; i < years; i++ {
		g := growthAt(a.GrowthRatesPct, i)
		fcf *= 1 + g/100
		discount /= 1 + wacc
		pv := fcf * discount
		res.ProjectedCashFlows[i] = models.ProjectedCashFlow{
			Year:           i + 1,
			GrowthPct:      g,
			FCF:            fcf,
			DiscountFactor: discount,
			PresentValue:   pv,
		}
		res.SumPresentValue += pv
	}

	res.TerminalFCF = fcf * (1 + a.TerminalGrowthPct/100)
	res.TerminalValue = res.TerminalFCF / ((a.WACCPct - a.TerminalGrowthPct) / 100)
	res.PVTerminalValue = res.TerminalValue * discount

	res.EnterpriseValue = res.SumPresentValue + res.PVTerminalValue
	res.EquityValue = res.EnterpriseValue - a.NetDebt
	if a.SharesOutstanding > 0 {
		res.ValuePerShare = res.EquityValue / a.SharesOutstanding
	}
	if res.EnterpriseValue != 0 {
		res.TerminalValueSharePct = res.PVTerminalValue / res.EnterpriseValue * 100
	}
	return res, nil
}

// Grid recomputes equity value for every WACC and terminal-growth offset.
// Cells where terminal growth is not below WACC are marked invalid rather
// than failing the grid.
func Grid(a models.ValuationAssumptions, opts GridOptions) (models.SensitivityGrid, error) {
	if len(opts.WACCStepsPct) == 0 || len(opts.GrowthStepsPct) == 0 {
		d := DefaultGridOptions()
		if len(opts.WACCStepsPct) == 0 {
			opts.WACCStepsPct = d.WACCStepsPct
		}
		if len(opts.GrowthStepsPct) == 0 {
			opts.GrowthStepsPct = d.GrowthStepsPct
		}
	}
	if len(a.GrowthRatesPct) == 0 {
		return models.SensitivityGrid{}, models.InsufficientData("growth_rates_pct", "at least one growth rate is required")
	}

	base := a
	if opts.FlatGrowthPct != nil {
		years := projectionYears(a)
		flat := make([]float64, years)
		for i := range flat {
			flat[i] = *opts.FlatGrowthPct
		}
		base.GrowthRatesPct = flat
		base.ProjectionYears = years
	}

	grid := models.SensitivityGrid{
		WACCPcts:           make([]float64, len(opts.WACCStepsPct)),
		TerminalGrowthPcts: make([]float64, len(opts.GrowthStepsPct)),
		FlatGrowthPct:      opts.FlatGrowthPct,
		Cells:              make([][]models.GridCell, len(opts.WACCStepsPct)),
	}
	for j, dg := range opts.GrowthStepsPct {
		grid.TerminalGrowthPcts[j] = a.TerminalGrowthPct + dg
	}

	for i, dw := range opts.WACCStepsPct {
		w := a.WACCPct + dw
		grid.WACCPcts[i] = w
		grid.Cells[i] = make([]models.GridCell, len(opts.GrowthStepsPct))
		for j, g := range grid.TerminalGrowthPcts {
			cell := models.GridCell{WACCPct: w, TerminalGrowthPct: g}
			if g < w {
				scenario := base
				scenario.WACCPct = w
				scenario.TerminalGrowthPct = g
				r, err := Value(scenario)
				if err != nil {
					return models.SensitivityGrid{}, err
				}
				cell.EquityValue = r.EquityValue
				cell.Valid = true
			}
			grid.Cells[i][j] = cell
		}
	}
	return grid, nil
}

// Valuate runs Value and Grid together.
func Valuate(a models.ValuationAssumptions, opts GridOptions) (models.Valuation, error) {
	res, err := Value(a)
	if err != nil {
		return models.Valuation{}, err
	}
	grid, err := Grid(a, opts)
	if err != nil {
		return models.Valuation{}, err
	}
	return models.Valuation{Assumptions: a, Result: res, Grid: grid}, nil
}
