package models

// BreakEvenModel is a single-product cost-volume-profit model.
// ExpectedUnits, when positive, enables margin of safety and operating leverage.
// TargetMarginPct, when positive, adds a target-margin solution to an analysis.
type BreakEvenModel struct {
	FixedCosts          float64 `json:"fixed_costs" yaml:"fixed_costs"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit" yaml:"variable_cost_per_unit"`
	SellingPrice        float64 `json:"selling_price" yaml:"selling_price"`
	TargetProfit        float64 `json:"target_profit,omitempty" yaml:"target_profit,omitempty"`
	TargetMarginPct     float64 `json:"target_margin_pct,omitempty" yaml:"target_margin_pct,omitempty"`
	ExpectedUnits       float64 `json:"expected_units,omitempty" yaml:"expected_units,omitempty"`
}

// MarginOfSafety measures how far expected sales sit above break-even.
type MarginOfSafety struct {
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
	Pct     float64 `json:"pct"`
}

// BreakEvenResult is the single-product CVP output.
type BreakEvenResult struct {
	BreakEvenUnits          int64           `json:"break_even_units"`
	BreakEvenRevenue        float64         `json:"break_even_revenue"`
	ContributionMargin      float64         `json:"contribution_margin"`
	ContributionMarginRatio float64         `json:"contribution_margin_ratio"`
	MarginOfSafety          *MarginOfSafety `json:"margin_of_safety,omitempty"`
	ProfitAtExpected        *float64        `json:"profit_at_expected,omitempty"`
	OperatingLeverage       *float64        `json:"operating_leverage,omitempty"`
}

// TargetKind distinguishes target-profit from target-margin solving.
type TargetKind string

const (
	TargetProfit TargetKind = "profit"
	TargetMargin TargetKind = "margin"
)

// TargetSolution is the volume needed to reach a profit or margin target.
type TargetSolution struct {
	Kind            TargetKind `json:"kind"`
	Target          float64    `json:"target"`
	RequiredUnits   int64      `json:"required_units"`
	RequiredRevenue float64    `json:"required_revenue"`
}

// Product is one line in a multi-product mix. SalesMixPct is normalised across products.
type Product struct {
	Name         string  `json:"name" yaml:"name"`
	Price        float64 `json:"price" yaml:"price"`
	VariableCost float64 `json:"variable_cost" yaml:"variable_cost"`
	SalesMixPct  float64 `json:"sales_mix_pct" yaml:"sales_mix_pct"`
}

// MultiProductModel is a CVP model over a sales mix.
type MultiProductModel struct {
	FixedCosts   float64   `json:"fixed_costs" yaml:"fixed_costs"`
	TargetProfit float64   `json:"target_profit,omitempty" yaml:"target_profit,omitempty"`
	Products     []Product `json:"products" yaml:"products"`
}

// ProductBreakEven is one product's share of the mix break-even.
type ProductBreakEven struct {
	Name               string  `json:"name"`
	MixFraction        float64 `json:"mix_fraction"`
	ContributionMargin float64 `json:"contribution_margin"`
	BreakEvenUnits     int64   `json:"break_even_units"`
	BreakEvenRevenue   float64 `json:"break_even_revenue"`
}

// MultiProductResult is the multi-product CVP output.
type MultiProductResult struct {
	Products                   []ProductBreakEven `json:"products"`
	WeightedContributionMargin float64            `json:"weighted_contribution_margin"`
	WeightedPrice              float64            `json:"weighted_price"`
	WeightedCMRatio            float64            `json:"weighted_cm_ratio"`
	BreakEvenUnits             int64              `json:"break_even_units"`
	BreakEvenRevenue           float64            `json:"break_even_revenue"`
}

// BreakEvenSensitivityPoint is the break-even under one perturbation.
// Defined is false when the perturbation removes the contribution margin.
type BreakEvenSensitivityPoint struct {
	Variable          SensitivityVariable `json:"variable"`
	ChangePct         float64             `json:"change_pct"`
	BreakEvenUnits    int64               `json:"break_even_units"`
	ChangeFromBasePct float64             `json:"change_from_base_pct"`
	Defined           bool                `json:"defined"`
}

// BreakEvenAnalysis bundles the base result, sensitivity sweep and any target solutions.
type BreakEvenAnalysis struct {
	Model       BreakEvenModel              `json:"model"`
	Result      BreakEvenResult             `json:"result"`
	Sensitivity []BreakEvenSensitivityPoint `json:"sensitivity"`
	Targets     []TargetSolution            `json:"targets,omitempty"`
}
