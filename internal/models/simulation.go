package models

// Distribution describes a bounded normal variable. Values are percentages.
type Distribution struct {
	Mean float64 `json:"mean" yaml:"mean" toml:"mean"`
	Std  float64 `json:"std" yaml:"std" toml:"std"`
	Min  float64 `json:"min" yaml:"min" toml:"min"`
	Max  float64 `json:"max" yaml:"max" toml:"max"`
}

// SimulationVariables is the fixed set of stochastic drivers, drawn independently each year.
type SimulationVariables struct {
	RevenueGrowth Distribution `json:"revenue_growth" yaml:"revenue_growth"`
	CostRatio     Distribution `json:"cost_ratio" yaml:"cost_ratio"`
	OpexGrowth    Distribution `json:"opex_growth" yaml:"opex_growth"`
	DiscountRate  Distribution `json:"discount_rate" yaml:"discount_rate"`
}

// SimulationBase is the starting company state.
type SimulationBase struct {
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	OperatingExpenses float64 `json:"operating_expenses" yaml:"operating_expenses"`
	InitialInvestment float64 `json:"initial_investment,omitempty" yaml:"initial_investment,omitempty"`
}

// SimulationSpec configures a Monte Carlo run. Zero values (nil tax rate) take engine defaults.
type SimulationSpec struct {
	Iterations      int                 `json:"iterations" yaml:"iterations"`
	ProjectionYears int                 `json:"projection_years" yaml:"projection_years"`
	TaxRatePct      *float64            `json:"tax_rate_pct,omitempty" yaml:"tax_rate_pct,omitempty"`
	Seed            uint64              `json:"seed,omitempty" yaml:"seed,omitempty"`
	Workers         int                 `json:"workers,omitempty" yaml:"workers,omitempty"`
	Base            SimulationBase      `json:"base" yaml:"base"`
	Variables       SimulationVariables `json:"variables" yaml:"variables"`
}

// DistributionStats are the moments of a simulated output.
type DistributionStats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Percentiles reported for every simulated output.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// HistogramBin is one equal-width bucket.
type HistogramBin struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// OutputDistribution aggregates one simulated output across all trials.
type OutputDistribution struct {
	Name        string            `json:"name"`
	Statistics  DistributionStats `json:"statistics"`
	Percentiles Percentiles       `json:"percentiles"`
	Histogram   []HistogramBin    `json:"histogram"`
}

// Probabilities are fractions of trials meeting an outcome.
type Probabilities struct {
	Profit      float64 `json:"profit"`
	PositiveNPV float64 `json:"positive_npv"`
}

// TailRisk holds value-at-risk measures on final-year net income.
type TailRisk struct {
	VaR95             float64 `json:"var_95"`
	VaR99             float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
}

// YearBand is the cross-trial spread of one projection year.
type YearBand struct {
	Year         int     `json:"year"`
	RevenueP5    float64 `json:"revenue_p5"`
	RevenueP50   float64 `json:"revenue_p50"`
	RevenueP95   float64 `json:"revenue_p95"`
	NetIncomeP5  float64 `json:"net_income_p5"`
	NetIncomeP50 float64 `json:"net_income_p50"`
	NetIncomeP95 float64 `json:"net_income_p95"`
}

// SimulationResult is the aggregated output of a Monte Carlo run.
type SimulationResult struct {
	Iterations          int                `json:"iterations"`
	ProjectionYears     int                `json:"projection_years"`
	Seed                uint64             `json:"seed"`
	FinalRevenue        OutputDistribution `json:"final_revenue"`
	FinalNetIncome      OutputDistribution `json:"final_net_income"`
	CumulativeNetIncome OutputDistribution `json:"cumulative_net_income"`
	NPV                 OutputDistribution `json:"npv"`
	Probabilities       Probabilities      `json:"probabilities"`
	Risk                TailRisk           `json:"risk"`
	YearBands           []YearBand         `json:"year_bands"`
}
