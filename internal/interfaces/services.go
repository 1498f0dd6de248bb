package interfaces

import (
	"context"

	"github.com/bobmcallan/finmodel/internal/models"
)

// FinancialsService builds engine inputs from stored financial statements
type FinancialsService interface {
	// ImportStatements saves statements, replacing any for the same company and year
	ImportStatements(ctx context.Context, statements []models.FinancialStatement) (int, error)

	// ListStatements returns a company's statements oldest first
	ListStatements(ctx context.Context, companyID string) ([]*models.FinancialStatement, error)

	// WithDefaults returns a service that estimates with d instead of the configured defaults
	WithDefaults(d models.EstimationDefaults) FinancialsService

	ValuationAssumptions(ctx context.Context, companyID string) (models.ValuationAssumptions, error)
	BreakEvenModel(ctx context.Context, companyID string) (models.BreakEvenModel, error)
	WorkingCapitalModel(ctx context.Context, companyID string) (models.WorkingCapitalModel, error)
	SimulationBase(ctx context.Context, companyID string) (models.SimulationBase, error)

	// ApplyProjectDefaults fills project rates not given by the input from the estimation defaults
	ApplyProjectDefaults(p *models.Project, given models.RatesGiven)
}

// RunOptions controls how an analysis run is recorded
type RunOptions struct {
	CompanyID string
	Save      bool
}

// AnalysisService runs the engines and optionally persists each run
type AnalysisService interface {
	EvaluateProject(ctx context.Context, opts RunOptions, p models.Project) (models.Run[models.ProjectEvaluation], error)
	SelectPortfolio(ctx context.Context, opts RunOptions, req models.PortfolioRequest) (models.Run[models.PortfolioReport], error)
	ProjectSensitivity(ctx context.Context, opts RunOptions, p models.Project) (models.Run[models.ProjectSensitivity], error)
	Valuate(ctx context.Context, opts RunOptions, req models.DCFRequest) (models.Run[models.DCFReport], error)
	Simulate(ctx context.Context, opts RunOptions, spec models.SimulationSpec) (models.Run[models.SimulationResult], error)
	BreakEven(ctx context.Context, opts RunOptions, m models.BreakEvenModel) (models.Run[models.BreakEvenAnalysis], error)
	MultiProductBreakEven(ctx context.Context, opts RunOptions, m models.MultiProductModel) (models.Run[models.MultiProductResult], error)
	WorkingCapital(ctx context.Context, opts RunOptions, m models.WorkingCapitalModel) (models.Run[models.WorkingCapitalResult], error)
	CashForecast(ctx context.Context, opts RunOptions, spec models.CashForecastSpec) (models.Run[models.CashForecast], error)

	// History lists stored analyses newest first
	History(ctx context.Context, companyID string, limit int) ([]*models.Analysis, error)

	// DeleteAnalysis removes one stored analysis; ErrNotFound when it does not exist
	DeleteAnalysis(ctx context.Context, companyID, id string) error
}
