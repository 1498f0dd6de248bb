// Package analysis runs the financial engines on behalf of callers, logs each
// run and optionally records it in storage.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/engine/breakeven"
	"github.com/bobmcallan/finmodel/internal/engine/capital"
	"github.com/bobmcallan/finmodel/internal/engine/montecarlo"
	"github.com/bobmcallan/finmodel/internal/engine/valuation"
	"github.com/bobmcallan/finmodel/internal/engine/workingcapital"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// DefaultCompanyID owns runs saved without a company.
const DefaultCompanyID = "default"

// ErrNoStorage is returned when a run asks to be saved but no store is configured.
var ErrNoStorage = errors.New("analysis storage not configured")

// Compile-time interface check
var _ interfaces.AnalysisService = (*Service)(nil)

// Service implements AnalysisService
type Service struct {
	analyses interfaces.AnalysisStore
	config   *common.Config
	logger   *common.Logger
}

// NewService creates an analysis service. analyses may be nil when runs are never saved.
func NewService(analyses interfaces.AnalysisStore, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		analyses: analyses,
		config:   config,
		logger:   logger.Component("analysis"),
	}
}

// finish records a completed run when opts.Save is set and wraps it in a Run.
func finish[T any](ctx context.Context, s *Service, opts interfaces.RunOptions, kind models.AnalysisKind, input any, result T) (models.Run[T], error) {
	run := models.Run[T]{CompanyID: opts.CompanyID, Kind: kind, Result: result}
	if !opts.Save {
		return run, nil
	}
	if s.analyses == nil {
		return run, ErrNoStorage
	}
	if run.CompanyID == "" {
		run.CompanyID = DefaultCompanyID
	}

	in, err := json.Marshal(input)
	if err != nil {
		return run, fmt.Errorf("failed to marshal %s input: %w", kind, err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return run, fmt.Errorf("failed to marshal %s result: %w", kind, err)
	}

	a := &models.Analysis{
		ID:        uuid.New().String(),
		CompanyID: run.CompanyID,
		Kind:      kind,
		Input:     in,
		Result:    out,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.analyses.SaveAnalysis(ctx, a); err != nil {
		return run, fmt.Errorf("failed to save %s analysis: %w", kind, err)
	}
	run.AnalysisID = a.ID

	s.logger.Debug().
		Str("id", a.ID).
		Str("company", a.CompanyID).
		Str("kind", string(kind)).
		Msg("Analysis saved")
	return run, nil
}

func (s *Service) EvaluateProject(ctx context.Context, opts interfaces.RunOptions, p models.Project) (models.Run[models.ProjectEvaluation], error) {
	start := time.Now()
	eval, err := capital.Evaluate(p, CapitalOptions(s.config))
	if err != nil {
		return models.Run[models.ProjectEvaluation]{}, fmt.Errorf("evaluate project %q: %w", p.Name, err)
	}

	s.logger.Info().
		Str("project", p.Name).
		Float64("npv", eval.NPV).
		Float64("irr_pct", eval.IRRPct).
		Bool("irr_converged", eval.IRR.Converged).
		Str("decision", string(eval.Decision.Recommendation)).
		Dur("elapsed", time.Since(start)).
		Msg("Project evaluated")

	return finish(ctx, s, opts, models.AnalysisProject, p, eval)
}

func (s *Service) SelectPortfolio(ctx context.Context, opts interfaces.RunOptions, req models.PortfolioRequest) (models.Run[models.PortfolioReport], error) {
	method := req.Method
	if method == "" {
		method = models.PortfolioGreedy
	}
	selection, evals, err := capital.EvaluatePortfolio(req.Projects, req.Budget, method, CapitalOptions(s.config))
	if err != nil {
		return models.Run[models.PortfolioReport]{}, fmt.Errorf("select portfolio: %w", err)
	}

	s.logger.Info().
		Str("method", string(method)).
		Float64("budget", req.Budget).
		Int("candidates", len(req.Projects)).
		Int("selected", len(selection.Selected)).
		Float64("total_npv", selection.TotalNPV).
		Msg("Portfolio selected")

	report := models.PortfolioReport{Selection: selection, Evaluations: evals}
	return finish(ctx, s, opts, models.AnalysisPortfolio, req, report)
}

func (s *Service) ProjectSensitivity(ctx context.Context, opts interfaces.RunOptions, p models.Project) (models.Run[models.ProjectSensitivity], error) {
	sens, err := capital.Sensitivity(p, CapitalOptions(s.config))
	if err != nil {
		return models.Run[models.ProjectSensitivity]{}, fmt.Errorf("sensitivity for %q: %w", p.Name, err)
	}

	event := s.logger.Info().
		Str("project", p.Name).
		Float64("base_npv", sens.BaseNPV).
		Int("points", len(sens.Points))
	if len(sens.Tornado) > 0 {
		event = event.Str("widest", string(sens.Tornado[0].Variable)).Float64("widest_range", sens.Tornado[0].Range)
	}
	event.Msg("Project sensitivity computed")

	return finish(ctx, s, opts, models.AnalysisSensitivity, p, sens)
}

func (s *Service) Valuate(ctx context.Context, opts interfaces.RunOptions, req models.DCFRequest) (models.Run[models.DCFReport], error) {
	var report models.DCFReport
	assumptions := req.Assumptions
	if req.WACC != nil {
		w, err := valuation.WACC(*req.WACC)
		if err != nil {
			return models.Run[models.DCFReport]{}, fmt.Errorf("wacc: %w", err)
		}
		report.WACC = &w
		assumptions.WACCPct = w.WACCPct
	}

	v, err := valuation.Valuate(assumptions, GridOptions(s.config))
	if err != nil {
		return models.Run[models.DCFReport]{}, fmt.Errorf("dcf valuation: %w", err)
	}
	report.Valuation = v

	s.logger.Info().
		Float64("wacc_pct", assumptions.WACCPct).
		Float64("terminal_growth_pct", assumptions.TerminalGrowthPct).
		Float64("enterprise_value", v.Result.EnterpriseValue).
		Float64("equity_value", v.Result.EquityValue).
		Float64("tv_share_pct", v.Result.TerminalValueSharePct).
		Msg("DCF valuation computed")

	return finish(ctx, s, opts, models.AnalysisValuation, req, report)
}

func (s *Service) Simulate(ctx context.Context, opts interfaces.RunOptions, spec models.SimulationSpec) (models.Run[models.SimulationResult], error) {
	spec = SimulationDefaults(spec, s.config)
	start := time.Now()

	result, err := montecarlo.Run(ctx, spec)
	if err != nil {
		return models.Run[models.SimulationResult]{}, fmt.Errorf("simulate: %w", err)
	}

	s.logger.Info().
		Int("iterations", result.Iterations).
		Int("years", result.ProjectionYears).
		Uint64("seed", result.Seed).
		Float64("npv_mean", result.NPV.Statistics.Mean).
		Float64("p_profit", result.Probabilities.Profit).
		Float64("var_95", result.Risk.VaR95).
		Dur("elapsed", time.Since(start)).
		Msg("Monte Carlo simulation completed")

	// The stored input carries the seed actually used so the run can be replayed.
	spec.Seed = result.Seed
	return finish(ctx, s, opts, models.AnalysisSimulation, spec, result)
}

func (s *Service) BreakEven(ctx context.Context, opts interfaces.RunOptions, m models.BreakEvenModel) (models.Run[models.BreakEvenAnalysis], error) {
	a, err := breakeven.Analysis(m, s.config.BreakEven.SensitivitySteps)
	if err != nil {
		return models.Run[models.BreakEvenAnalysis]{}, fmt.Errorf("break-even: %w", err)
	}

	s.logger.Info().
		Int64("break_even_units", a.Result.BreakEvenUnits).
		Float64("break_even_revenue", a.Result.BreakEvenRevenue).
		Float64("cm_ratio", a.Result.ContributionMarginRatio).
		Int("targets", len(a.Targets)).
		Msg("Break-even computed")

	return finish(ctx, s, opts, models.AnalysisBreakEven, m, a)
}

func (s *Service) MultiProductBreakEven(ctx context.Context, opts interfaces.RunOptions, m models.MultiProductModel) (models.Run[models.MultiProductResult], error) {
	r, err := breakeven.MultiProduct(m)
	if err != nil {
		return models.Run[models.MultiProductResult]{}, fmt.Errorf("multi-product break-even: %w", err)
	}

	s.logger.Info().
		Int("products", len(r.Products)).
		Int64("break_even_units", r.BreakEvenUnits).
		Float64("break_even_revenue", r.BreakEvenRevenue).
		Msg("Multi-product break-even computed")

	return finish(ctx, s, opts, models.AnalysisProductMix, m, r)
}

func (s *Service) WorkingCapital(ctx context.Context, opts interfaces.RunOptions, m models.WorkingCapitalModel) (models.Run[models.WorkingCapitalResult], error) {
	r, err := workingcapital.Analyze(m, s.config.WorkingCapital)
	if err != nil {
		return models.Run[models.WorkingCapitalResult]{}, fmt.Errorf("working capital: %w", err)
	}

	s.logger.Info().
		Float64("dso", r.CashCycle.DSO).
		Float64("dio", r.CashCycle.DIO).
		Float64("dpo", r.CashCycle.DPO).
		Float64("ccc", r.CashCycle.CashConversionCycle).
		Int("opportunities", len(r.Opportunities)).
		Float64("cash_impact", r.TotalCashImpact).
		Msg("Working capital analysed")

	return finish(ctx, s, opts, models.AnalysisWorkingCapital, m, r)
}

func (s *Service) CashForecast(ctx context.Context, opts interfaces.RunOptions, spec models.CashForecastSpec) (models.Run[models.CashForecast], error) {
	f, err := workingcapital.Forecast(spec)
	if err != nil {
		return models.Run[models.CashForecast]{}, fmt.Errorf("cash forecast: %w", err)
	}

	event := s.logger.Info()
	if len(f.ShortfallMonths) > 0 {
		event = s.logger.Warn().
			Float64("worst_shortfall", f.WorstShortfall).
			Float64("recommended_buffer", f.RecommendedBuffer)
	}
	event.
		Int("months", len(f.Months)).
		Float64("ending_cash", f.EndingCash).
		Ints("shortfall_months", f.ShortfallMonths).
		Msg("Cash forecast computed")

	return finish(ctx, s, opts, models.AnalysisCashForecast, spec, f)
}

func (s *Service) History(ctx context.Context, companyID string, limit int) ([]*models.Analysis, error) {
	if s.analyses == nil {
		return nil, ErrNoStorage
	}
	if companyID == "" {
		companyID = DefaultCompanyID
	}
	return s.analyses.ListAnalyses(ctx, companyID, limit)
}

func (s *Service) DeleteAnalysis(ctx context.Context, companyID, id string) error {
	if s.analyses == nil {
		return ErrNoStorage
	}
	if companyID == "" {
		companyID = DefaultCompanyID
	}
	if _, err := s.analyses.GetAnalysis(ctx, companyID, id); err != nil {
		return fmt.Errorf("analysis %s: %w", id, err)
	}
	if err := s.analyses.DeleteAnalysis(ctx, companyID, id); err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	s.logger.Info().Str("company", companyID).Str("analysis_id", id).Msg("Analysis deleted")
	return nil
}
