// Package financials loads stored financial statements and turns them into
// engine inputs, filling gaps with the configured estimation defaults.
package financials

import (
	"context"
	"fmt"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// Compile-time interface check
var _ interfaces.FinancialsService = (*Service)(nil)

// Service implements FinancialsService
type Service struct {
	statements interfaces.StatementStore
	defaults   models.EstimationDefaults
	logger     *common.Logger
}

// NewService creates a new financials service
func NewService(statements interfaces.StatementStore, defaults models.EstimationDefaults, logger *common.Logger) *Service {
	return &Service{
		statements: statements,
		defaults:   defaults,
		logger:     logger,
	}
}

func (s *Service) WithDefaults(d models.EstimationDefaults) interfaces.FinancialsService {
	clone := *s
	clone.defaults = d
	return &clone
}

func (s *Service) ImportStatements(ctx context.Context, statements []models.FinancialStatement) (int, error) {
	saved := 0
	for i := range statements {
		if err := s.statements.SaveStatement(ctx, &statements[i]); err != nil {
			return saved, fmt.Errorf("failed to import statement %d: %w", i, err)
		}
		saved++
	}
	s.logger.Info().Int("count", saved).Msg("Financial statements imported")
	return saved, nil
}

func (s *Service) ListStatements(ctx context.Context, companyID string) ([]*models.FinancialStatement, error) {
	statements, err := s.statements.ListStatements(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements for %s: %w", companyID, err)
	}
	return statements, nil
}

func (s *Service) load(ctx context.Context, companyID string) ([]*models.FinancialStatement, error) {
	statements, err := s.ListStatements(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("company", companyID).Int("statements", len(statements)).Msg("Loaded stored statements")
	return statements, nil
}

func (s *Service) ValuationAssumptions(ctx context.Context, companyID string) (models.ValuationAssumptions, error) {
	statements, err := s.load(ctx, companyID)
	if err != nil {
		return models.ValuationAssumptions{}, err
	}
	return BuildValuationAssumptions(statements, s.defaults)
}

func (s *Service) BreakEvenModel(ctx context.Context, companyID string) (models.BreakEvenModel, error) {
	statements, err := s.load(ctx, companyID)
	if err != nil {
		return models.BreakEvenModel{}, err
	}
	return BuildBreakEvenModel(statements, s.defaults)
}

func (s *Service) WorkingCapitalModel(ctx context.Context, companyID string) (models.WorkingCapitalModel, error) {
	statements, err := s.load(ctx, companyID)
	if err != nil {
		return models.WorkingCapitalModel{}, err
	}
	return BuildWorkingCapitalModel(statements)
}

func (s *Service) SimulationBase(ctx context.Context, companyID string) (models.SimulationBase, error) {
	statements, err := s.load(ctx, companyID)
	if err != nil {
		return models.SimulationBase{}, err
	}
	return BuildSimulationBase(statements)
}

func (s *Service) ApplyProjectDefaults(p *models.Project, given models.RatesGiven) {
	ApplyProjectDefaults(p, given, s.defaults)
}
