package models

import (
	"encoding/json"
	"time"
)

// Record subjects.
const (
	SubjectStatement = "statement"
	SubjectAnalysis  = "analysis"
)

// Record is a generic document record for all persisted data.
// Owner is the company identifier; Value holds the JSON payload.
type Record struct {
	Owner    string    `json:"owner"`
	Subject  string    `json:"subject"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}

// AnalysisKind names the engine that produced a stored analysis.
type AnalysisKind string

const (
	AnalysisProject        AnalysisKind = "project"
	AnalysisPortfolio      AnalysisKind = "portfolio"
	AnalysisSensitivity    AnalysisKind = "sensitivity"
	AnalysisValuation      AnalysisKind = "valuation"
	AnalysisSimulation     AnalysisKind = "simulation"
	AnalysisBreakEven      AnalysisKind = "breakeven"
	AnalysisProductMix     AnalysisKind = "breakeven_mix"
	AnalysisWorkingCapital AnalysisKind = "working_capital"
	AnalysisCashForecast   AnalysisKind = "cash_forecast"
)

// Analysis is a persisted engine run: the inputs it was given and the result it produced.
type Analysis struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Kind      AnalysisKind    `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
