package models

// WACCInput holds capital-structure inputs. All rates and weights are percentages.
// Weights are normalised, so 60/40 and 0.6/0.4 describe the same structure.
type WACCInput struct {
	RiskFreeRatePct      float64 `json:"risk_free_rate_pct" yaml:"risk_free_rate_pct"`
	Beta                 float64 `json:"beta" yaml:"beta"`
	MarketRiskPremiumPct float64 `json:"market_risk_premium_pct" yaml:"market_risk_premium_pct"`
	CostOfDebtPct        float64 `json:"cost_of_debt_pct" yaml:"cost_of_debt_pct"`
	TaxRatePct           float64 `json:"tax_rate_pct" yaml:"tax_rate_pct"`
	EquityWeightPct      float64 `json:"equity_weight_pct" yaml:"equity_weight_pct"`
	DebtWeightPct        float64 `json:"debt_weight_pct" yaml:"debt_weight_pct"`
}

// WACCResult holds the calculated rates as percentages.
type WACCResult struct {
	CostOfEquityPct       float64 `json:"cost_of_equity_pct"`
	AfterTaxCostOfDebtPct float64 `json:"after_tax_cost_of_debt_pct"`
	EquityWeightPct       float64 `json:"equity_weight_pct"`
	DebtWeightPct         float64 `json:"debt_weight_pct"`
	WACCPct               float64 `json:"wacc_pct"`
}

// ValuationAssumptions are the inputs to a DCF valuation. Rates are percentages.
// ProjectionYears defaults to len(GrowthRatesPct); when longer, the last rate repeats.
type ValuationAssumptions struct {
	InitialFCF        float64   `json:"initial_fcf" yaml:"initial_fcf"`
	GrowthRatesPct    []float64 `json:"growth_rates_pct" yaml:"growth_rates_pct"`
	ProjectionYears   int       `json:"projection_years,omitempty" yaml:"projection_years,omitempty"`
	WACCPct           float64   `json:"wacc_pct" yaml:"wacc_pct"`
	TerminalGrowthPct float64   `json:"terminal_growth_pct" yaml:"terminal_growth_pct"`
	NetDebt           float64   `json:"net_debt" yaml:"net_debt"`
	SharesOutstanding float64   `json:"shares_outstanding,omitempty" yaml:"shares_outstanding,omitempty"`
}

// ProjectedCashFlow is one year of the explicit forecast.
type ProjectedCashFlow struct {
	Year           int     `json:"year"`
	GrowthPct      float64 `json:"growth_pct"`
	FCF            float64 `json:"fcf"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
}

// ValuationResult is the DCF output.
type ValuationResult struct {
	ProjectedCashFlows    []ProjectedCashFlow `json:"projected_cash_flows"`
	SumPresentValue       float64             `json:"sum_present_value"`
	TerminalFCF           float64             `json:"terminal_fcf"`
	TerminalValue         float64             `json:"terminal_value"`
	PVTerminalValue       float64             `json:"pv_terminal_value"`
	EnterpriseValue       float64             `json:"enterprise_value"`
	NetDebt               float64             `json:"net_debt"`
	EquityValue           float64             `json:"equity_value"`
	ValuePerShare         float64             `json:"value_per_share,omitempty"`
	TerminalValueSharePct float64             `json:"terminal_value_share_pct"`
}

// GridCell is one WACC × terminal-growth recomputation.
// Valid is false where terminal growth is not below WACC.
type GridCell struct {
	WACCPct           float64 `json:"wacc_pct"`
	TerminalGrowthPct float64 `json:"terminal_growth_pct"`
	EquityValue       float64 `json:"equity_value"`
	Valid             bool    `json:"valid"`
}

// SensitivityGrid holds equity values indexed [wacc][terminal growth].
type SensitivityGrid struct {
	WACCPcts           []float64    `json:"wacc_pcts"`
	TerminalGrowthPcts []float64    `json:"terminal_growth_pcts"`
	FlatGrowthPct      *float64     `json:"flat_growth_pct,omitempty"`
	Cells              [][]GridCell `json:"cells"`
}

// Valuation bundles a DCF result with its sensitivity grid.
type Valuation struct {
	Assumptions ValuationAssumptions `json:"assumptions"`
	Result      ValuationResult      `json:"result"`
	Grid        SensitivityGrid      `json:"grid"`
}
