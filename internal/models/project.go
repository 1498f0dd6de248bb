package models

// DepreciationMethod selects a depreciation schedule.
type DepreciationMethod string

const (
	DepreciationStraightLine     DepreciationMethod = "straight_line"
	DepreciationDecliningBalance DepreciationMethod = "declining_balance"
	DepreciationMACRS            DepreciationMethod = "macrs"
)

// RateResult is the outcome of an iterative rate solve (IRR).
// Rate is a decimal fraction. When Converged is false Rate is the best
// iterate found, not a trustworthy root.
type RateResult struct {
	Rate       float64 `json:"rate"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Method     string  `json:"method"`
}

// Percent returns the rate as a percentage.
func (r RateResult) Percent() float64 {
	return r.Rate * 100
}

// PaybackResult reports when cumulative flows recover an investment.
// When Recovered is false, Years is len(flows)+1.
type PaybackResult struct {
	Years     float64 `json:"years"`
	Recovered bool    `json:"recovered"`
}

// DepreciationEntry is one year of a depreciation schedule.
type DepreciationEntry struct {
	Year      int     `json:"year"`
	Charge    float64 `json:"charge"`
	BookValue float64 `json:"book_value"`
}

// Project is a capital project to evaluate.
// CashFlows are nominal pre-tax inflows for periods 1..n; the investment is period 0.
type Project struct {
	Name               string             `json:"name" yaml:"name"`
	InitialInvestment  float64            `json:"initial_investment" yaml:"initial_investment"`
	CashFlows          []float64          `json:"cash_flows" yaml:"cash_flows"`
	DiscountRatePct    float64            `json:"discount_rate_pct" yaml:"discount_rate_pct"`
	LifeYears          int                `json:"life_years" yaml:"life_years"`
	SalvageValue       float64            `json:"salvage_value" yaml:"salvage_value"`
	TaxRatePct         float64            `json:"tax_rate_pct" yaml:"tax_rate_pct"`
	DepreciationMethod DepreciationMethod `json:"depreciation_method" yaml:"depreciation_method"`
	FinanceRatePct     *float64           `json:"finance_rate_pct,omitempty" yaml:"finance_rate_pct,omitempty"`
	ReinvestRatePct    *float64           `json:"reinvest_rate_pct,omitempty" yaml:"reinvest_rate_pct,omitempty"`
}

// RatesGiven records which project rates an input set explicitly. A rate that
// was given is kept even when it is zero.
type RatesGiven struct {
	DiscountRate bool
	TaxRate      bool
}

// Recommendation is the accept/reject outcome for a project.
type Recommendation string

const (
	RecommendAccept Recommendation = "ACCEPT"
	RecommendReject Recommendation = "REJECT"
)

// DecisionStrength grades how comfortably a project clears its hurdle.
type DecisionStrength string

const (
	StrengthStrong   DecisionStrength = "STRONG"
	StrengthModerate DecisionStrength = "MODERATE"
	StrengthWeak     DecisionStrength = "WEAK"
)

// Decision is the classified outcome of a project evaluation.
type Decision struct {
	Recommendation Recommendation   `json:"recommendation"`
	Strength       DecisionStrength `json:"strength"`
	Reasons        []string         `json:"reasons,omitempty"`
}

// ProjectEvaluation holds all derived metrics for a project.
type ProjectEvaluation struct {
	Project                 string              `json:"project"`
	AfterTaxCashFlows       []float64           `json:"after_tax_cash_flows"`
	Depreciation            []DepreciationEntry `json:"depreciation"`
	NPV                     float64             `json:"npv"`
	IRR                     RateResult          `json:"irr"`
	IRRPct                  float64             `json:"irr_pct"`
	MIRRPct                 float64             `json:"mirr_pct"`
	Payback                 PaybackResult       `json:"payback"`
	DiscountedPayback       PaybackResult       `json:"discounted_payback"`
	ProfitabilityIndex      float64             `json:"profitability_index"`
	EquivalentAnnualAnnuity float64             `json:"equivalent_annual_annuity"`
	Decision                Decision            `json:"decision"`
}

// PortfolioMethod names a capital rationing solver.
type PortfolioMethod string

const (
	// PortfolioGreedy sorts by profitability index and admits while budget remains.
	// It approximates the 0/1 knapsack problem and is not guaranteed optimal.
	PortfolioGreedy PortfolioMethod = "greedy_pi"
	// PortfolioExact enumerates subsets; only available for small candidate sets.
	PortfolioExact PortfolioMethod = "exact"
)

// PortfolioCandidate is an evaluated project considered for selection.
type PortfolioCandidate struct {
	Name               string  `json:"name"`
	Investment         float64 `json:"investment"`
	NPV                float64 `json:"npv"`
	ProfitabilityIndex float64 `json:"profitability_index"`
}

// PortfolioSelection is the result of capital rationing under a budget.
type PortfolioSelection struct {
	Method          PortfolioMethod      `json:"method"`
	Budget          float64              `json:"budget"`
	Selected        []PortfolioCandidate `json:"selected"`
	Excluded        []PortfolioCandidate `json:"excluded"`
	TotalInvestment float64              `json:"total_investment"`
	TotalNPV        float64              `json:"total_npv"`
	RemainingBudget float64              `json:"remaining_budget"`
}

// SensitivityVariable names an input perturbed in a sensitivity run.
type SensitivityVariable string

const (
	SensitivityInvestment   SensitivityVariable = "investment"
	SensitivityCashFlows    SensitivityVariable = "cash_flows"
	SensitivityDiscountRate SensitivityVariable = "discount_rate"
	SensitivityPrice        SensitivityVariable = "price"
	SensitivityVariableCost SensitivityVariable = "variable_cost"
	SensitivityFixedCosts   SensitivityVariable = "fixed_costs"
)

// SensitivityPoint is one recomputation under a single perturbation.
type SensitivityPoint struct {
	Variable     SensitivityVariable `json:"variable"`
	ChangePct    float64             `json:"change_pct"`
	NPV          float64             `json:"npv"`
	IRRPct       float64             `json:"irr_pct"`
	IRRConverged bool                `json:"irr_converged"`
}

// TornadoBar is the NPV swing attributable to one variable.
type TornadoBar struct {
	Variable SensitivityVariable `json:"variable"`
	LowNPV   float64             `json:"low_npv"`
	HighNPV  float64             `json:"high_npv"`
	Range    float64             `json:"range"`
}

// ProjectSensitivity holds the sensitivity sweep and its tornado ranking (widest first).
type ProjectSensitivity struct {
	Project    string             `json:"project"`
	BaseNPV    float64            `json:"base_npv"`
	BaseIRRPct float64            `json:"base_irr_pct"`
	Points     []SensitivityPoint `json:"points"`
	Tornado    []TornadoBar       `json:"tornado"`
}
