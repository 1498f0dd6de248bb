package financials

import (
	"math"

	"github.com/bobmcallan/finmodel/internal/engine/valuation"
	"github.com/bobmcallan/finmodel/internal/models"
)

func latest(statements []*models.FinancialStatement) (*models.FinancialStatement, error) {
	if len(statements) == 0 {
		return nil, models.InsufficientData("statements", "no stored financial statements")
	}
	return statements[len(statements)-1], nil
}

// EstimateFCF is operating cash flow less capex, or net income scaled by
// the FCF conversion ratio when no cash-flow lines were reported.
func EstimateFCF(st *models.FinancialStatement, d models.EstimationDefaults) float64 {
	if st.OperatingCashFlow != 0 {
		return st.OperatingCashFlow - st.CapitalExpenditure
	}
	return st.NetIncome * d.FCFConversion
}

// EstimateCash returns reported cash, or a share of current assets.
func EstimateCash(st *models.FinancialStatement, d models.EstimationDefaults) float64 {
	if st.Cash > 0 {
		return st.Cash
	}
	return st.CurrentAssets * d.CashShareOfCurrentAssets
}

// EstimateFixedCosts returns reported fixed costs, or a share of operating expenses.
func EstimateFixedCosts(st *models.FinancialStatement, d models.EstimationDefaults) float64 {
	if st.FixedCosts > 0 {
		return st.FixedCosts
	}
	return st.OperatingExpenses * d.FixedCostShareOfOpex
}

// HistoricalGrowthPct is the latest year-over-year revenue growth, clamped
// to ±MaxGrowthPct. It falls back to DefaultGrowthPct without a usable prior year.
func HistoricalGrowthPct(statements []*models.FinancialStatement, d models.EstimationDefaults) float64 {
	n := len(statements)
	if n < 2 || statements[n-2].Revenue <= 0 {
		return d.DefaultGrowthPct
	}
	g := (statements[n-1].Revenue/statements[n-2].Revenue - 1) * 100
	if d.MaxGrowthPct > 0 {
		g = math.Max(-d.MaxGrowthPct, math.Min(d.MaxGrowthPct, g))
	}
	return g
}

// GrowthPath fades the starting rate towards the terminal rate by fadePct per
// year. A start at or below the terminal rate is held flat.
func GrowthPath(startPct, terminalPct, fadePct float64, years int) []float64 {
	path := make([]float64, years)
	for y := range path {
		g := startPct
		if startPct > terminalPct {
			g = math.Max(terminalPct, startPct-fadePct*float64(y))
		}
		path[y] = g
	}
	return path
}

// BuildValuationAssumptions derives DCF inputs from a company's statements, oldest first.
func BuildValuationAssumptions(statements []*models.FinancialStatement, d models.EstimationDefaults) (models.ValuationAssumptions, error) {
	st, err := latest(statements)
	if err != nil {
		return models.ValuationAssumptions{}, err
	}
	years := d.ProjectionYears
	if years <= 0 {
		years = 5
	}
	growth := HistoricalGrowthPct(statements, d)
	return models.ValuationAssumptions{
		InitialFCF:        EstimateFCF(st, d),
		GrowthRatesPct:    GrowthPath(growth, d.DefaultTerminalGrowthPct, d.GrowthFadePct, years),
		ProjectionYears:   years,
		WACCPct:           d.DefaultWACCPct,
		TerminalGrowthPct: d.DefaultTerminalGrowthPct,
		NetDebt:           valuation.NetDebt(st.TotalLiabilities, EstimateCash(st, d)),
		SharesOutstanding: st.SharesOutstanding,
	}, nil
}

// BuildBreakEvenModel derives a single-product CVP model from the latest statement.
// Units sold must be reported to price a unit.
func BuildBreakEvenModel(statements []*models.FinancialStatement, d models.EstimationDefaults) (models.BreakEvenModel, error) {
	st, err := latest(statements)
	if err != nil {
		return models.BreakEvenModel{}, err
	}
	if st.UnitsSold <= 0 {
		return models.BreakEvenModel{}, models.InsufficientData("units_sold",
			"statement %s/%d reports no units sold", st.CompanyID, st.FiscalYear)
	}
	return models.BreakEvenModel{
		FixedCosts:          EstimateFixedCosts(st, d),
		VariableCostPerUnit: st.COGS / st.UnitsSold,
		SellingPrice:        st.Revenue / st.UnitsSold,
		ExpectedUnits:       st.UnitsSold,
	}, nil
}

// BuildWorkingCapitalModel reads the cash-cycle inputs from the latest statement.
func BuildWorkingCapitalModel(statements []*models.FinancialStatement) (models.WorkingCapitalModel, error) {
	st, err := latest(statements)
	if err != nil {
		return models.WorkingCapitalModel{}, err
	}
	return models.WorkingCapitalModel{
		AccountsReceivable: st.AccountsReceivable,
		Inventory:          st.Inventory,
		AccountsPayable:    st.AccountsPayable,
		Revenue:            st.Revenue,
		COGS:               st.COGS,
	}, nil
}

// BuildSimulationBase seeds a Monte Carlo run with the latest revenue and opex.
func BuildSimulationBase(statements []*models.FinancialStatement) (models.SimulationBase, error) {
	st, err := latest(statements)
	if err != nil {
		return models.SimulationBase{}, err
	}
	return models.SimulationBase{
		Revenue:           st.Revenue,
		OperatingExpenses: st.OperatingExpenses,
	}, nil
}

// ApplyProjectDefaults fills the discount and tax rates the input did not give from d.
func ApplyProjectDefaults(p *models.Project, given models.RatesGiven, d models.EstimationDefaults) {
	if !given.DiscountRate {
		p.DiscountRatePct = d.DefaultDiscountRatePct
	}
	if !given.TaxRate {
		p.TaxRatePct = d.DefaultTaxRatePct
	}
}
