package models

// Run wraps an engine result with the stored analysis it was saved as.
// AnalysisID is empty when the run was not persisted.
type Run[T any] struct {
	AnalysisID string       `json:"analysis_id,omitempty"`
	CompanyID  string       `json:"company_id,omitempty"`
	Kind       AnalysisKind `json:"kind"`
	Result     T            `json:"result"`
}

// PortfolioRequest is a capital rationing problem.
type PortfolioRequest struct {
	Budget   float64         `json:"budget" yaml:"budget"`
	Method   PortfolioMethod `json:"method,omitempty" yaml:"method,omitempty"`
	Projects []Project       `json:"projects" yaml:"projects"`
}

// PortfolioReport is the chosen portfolio plus every project's evaluation.
type PortfolioReport struct {
	Selection   PortfolioSelection  `json:"selection"`
	Evaluations []ProjectEvaluation `json:"evaluations"`
}

// DCFRequest is a valuation with an optional capital structure. When WACC is
// set, its computed rate replaces Assumptions.WACCPct.
type DCFRequest struct {
	Assumptions ValuationAssumptions `json:"assumptions" yaml:"assumptions"`
	WACC        *WACCInput           `json:"wacc,omitempty" yaml:"wacc,omitempty"`
}

// DCFReport is a valuation and the WACC it was discounted at.
type DCFReport struct {
	WACC      *WACCResult `json:"wacc,omitempty"`
	Valuation Valuation   `json:"valuation"`
}
