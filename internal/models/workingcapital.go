package models

// WorkingCapitalModel holds balance-sheet and income figures for one period.
// Purchases defaults to COGS; DaysInPeriod defaults to 365.
type WorkingCapitalModel struct {
	AccountsReceivable float64 `json:"accounts_receivable" yaml:"accounts_receivable"`
	Inventory          float64 `json:"inventory" yaml:"inventory"`
	AccountsPayable    float64 `json:"accounts_payable" yaml:"accounts_payable"`
	Revenue            float64 `json:"revenue" yaml:"revenue"`
	COGS               float64 `json:"cogs" yaml:"cogs"`
	Purchases          float64 `json:"purchases,omitempty" yaml:"purchases,omitempty"`
	DaysInPeriod       int     `json:"days_in_period,omitempty" yaml:"days_in_period,omitempty"`
}

// WorkingCapitalThresholds are the benchmarks an opportunity is flagged against.
type WorkingCapitalThresholds struct {
	MaxDSO float64 `json:"max_dso" toml:"max_dso"`
	MaxDIO float64 `json:"max_dio" toml:"max_dio"`
	MinDPO float64 `json:"min_dpo" toml:"min_dpo"`
}

// CashCycle is the days-based working capital picture.
type CashCycle struct {
	DSO                 float64 `json:"dso"`
	DIO                 float64 `json:"dio"`
	DPO                 float64 `json:"dpo"`
	CashConversionCycle float64 `json:"cash_conversion_cycle"`
	DailySales          float64 `json:"daily_sales"`
	DailyCOGS           float64 `json:"daily_cogs"`
	DailyPurchases      float64 `json:"daily_purchases"`
}

// Opportunity is a flagged working-capital improvement with its one-off cash release.
type Opportunity struct {
	Metric     string   `json:"metric"`
	Current    float64  `json:"current"`
	Target     float64  `json:"target"`
	CashImpact float64  `json:"cash_impact"`
	Actions    []string `json:"actions"`
}

// WorkingCapitalResult is the cash-cycle analysis.
type WorkingCapitalResult struct {
	CashCycle       CashCycle     `json:"cash_cycle"`
	Opportunities   []Opportunity `json:"optimization_opportunities"`
	TotalCashImpact float64       `json:"total_cash_impact"`
}

// CashForecastSpec drives the receivables/payables pipeline forecaster.
// CollectionRates[k] is the fraction of a month's sales collected k months later;
// PaymentRates likewise for expenses. Monthly series shorter than Months repeat their last value.
type CashForecastSpec struct {
	OpeningCash     float64   `json:"opening_cash" yaml:"opening_cash"`
	Months          int       `json:"months" yaml:"months"`
	MonthlyRevenue  []float64 `json:"monthly_revenue" yaml:"monthly_revenue"`
	MonthlyExpenses []float64 `json:"monthly_expenses" yaml:"monthly_expenses"`
	CollectionRates []float64 `json:"collection_rates" yaml:"collection_rates"`
	PaymentRates    []float64 `json:"payment_rates" yaml:"payment_rates"`
	MinimumBalance  float64   `json:"minimum_balance,omitempty" yaml:"minimum_balance,omitempty"`
}

// CashForecastMonth is one month of the forecast.
type CashForecastMonth struct {
	Month           int     `json:"month"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	Collections     float64 `json:"collections"`
	Payments        float64 `json:"payments"`
	NetCashFlow     float64 `json:"net_cash_flow"`
	EndingCash      float64 `json:"ending_cash"`
	Receivables     float64 `json:"receivables"`
	Payables        float64 `json:"payables"`
	Shortfall       bool    `json:"shortfall"`
	ShortfallAmount float64 `json:"shortfall_amount,omitempty"`
}

// CashForecast is the month-by-month projection with shortfall summary.
type CashForecast struct {
	Months            []CashForecastMonth `json:"months"`
	ShortfallMonths   []int               `json:"shortfall_months"`
	WorstShortfall    float64             `json:"worst_shortfall"`
	RecommendedBuffer float64             `json:"recommended_buffer"`
	EndingCash        float64             `json:"ending_cash"`
	BadDebt           float64             `json:"bad_debt"`
}
