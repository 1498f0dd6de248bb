package models

import "time"

// FinancialStatement is one fiscal year of recorded company figures.
// A zero value on an optional line means "not reported" and triggers the matching estimation default.
type FinancialStatement struct {
	CompanyID  string `json:"company_id" yaml:"company_id"`
	FiscalYear int    `json:"fiscal_year" yaml:"fiscal_year"`

	// Income statement
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	COGS              float64 `json:"cogs" yaml:"cogs"`
	OperatingExpenses float64 `json:"operating_expenses" yaml:"operating_expenses"`
	FixedCosts        float64 `json:"fixed_costs,omitempty" yaml:"fixed_costs,omitempty"`
	Depreciation      float64 `json:"depreciation,omitempty" yaml:"depreciation,omitempty"`
	NetIncome         float64 `json:"net_income" yaml:"net_income"`
	UnitsSold         float64 `json:"units_sold,omitempty" yaml:"units_sold,omitempty"`

	// Cash flow
	OperatingCashFlow  float64 `json:"operating_cash_flow,omitempty" yaml:"operating_cash_flow,omitempty"`
	CapitalExpenditure float64 `json:"capital_expenditure,omitempty" yaml:"capital_expenditure,omitempty"`

	// Balance sheet
	CurrentAssets      float64 `json:"current_assets" yaml:"current_assets"`
	Cash               float64 `json:"cash,omitempty" yaml:"cash,omitempty"`
	AccountsReceivable float64 `json:"accounts_receivable" yaml:"accounts_receivable"`
	Inventory          float64 `json:"inventory" yaml:"inventory"`
	AccountsPayable    float64 `json:"accounts_payable" yaml:"accounts_payable"`
	TotalLiabilities   float64 `json:"total_liabilities" yaml:"total_liabilities"`
	SharesOutstanding  float64 `json:"shares_outstanding,omitempty" yaml:"shares_outstanding,omitempty"`

	RecordedAt time.Time `json:"recorded_at" yaml:"-"`
}

// EstimationDefaults are the fallback ratios applied when stored statements
// lack a direct figure. Ratios are fractions, rates are percentages.
type EstimationDefaults struct {
	FixedCostShareOfOpex     float64 `json:"fixed_cost_share_of_opex" toml:"fixed_cost_share_of_opex"`
	CashShareOfCurrentAssets float64 `json:"cash_share_of_current_assets" toml:"cash_share_of_current_assets"`
	FCFConversion            float64 `json:"fcf_conversion" toml:"fcf_conversion"`
	DefaultGrowthPct         float64 `json:"default_growth_pct" toml:"default_growth_pct"`
	MaxGrowthPct             float64 `json:"max_growth_pct" toml:"max_growth_pct"`
	GrowthFadePct            float64 `json:"growth_fade_pct" toml:"growth_fade_pct"`
	DefaultTaxRatePct        float64 `json:"default_tax_rate_pct" toml:"default_tax_rate_pct"`
	DefaultDiscountRatePct   float64 `json:"default_discount_rate_pct" toml:"default_discount_rate_pct"`
	DefaultWACCPct           float64 `json:"default_wacc_pct" toml:"default_wacc_pct"`
	DefaultTerminalGrowthPct float64 `json:"default_terminal_growth_pct" toml:"default_terminal_growth_pct"`
	ProjectionYears          int     `json:"projection_years" toml:"projection_years"`
}

// DefaultEstimationDefaults returns the stock fallback ratios.
func DefaultEstimationDefaults() EstimationDefaults {
	return EstimationDefaults{
		FixedCostShareOfOpex:     0.70,
		CashShareOfCurrentAssets: 0.30,
		FCFConversion:            0.80,
		DefaultGrowthPct:         5,
		MaxGrowthPct:             30,
		GrowthFadePct:            1,
		DefaultTaxRatePct:        25,
		DefaultDiscountRatePct:   10,
		DefaultWACCPct:           10,
		DefaultTerminalGrowthPct: 2.5,
		ProjectionYears:          5,
	}
}
