package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// StatementStore stores FinancialStatements as JSON records keyed by fiscal year.
type StatementStore struct {
	records interfaces.RecordStore
}

func NewStatementStore(records interfaces.RecordStore) *StatementStore {
	return &StatementStore{records: records}
}

func (s *StatementStore) GetStatement(ctx context.Context, companyID string, fiscalYear int) (*models.FinancialStatement, error) {
	rec, err := s.records.Get(ctx, companyID, models.SubjectStatement, strconv.Itoa(fiscalYear))
	if err != nil {
		return nil, err
	}
	return decodeStatement(rec)
}

func (s *StatementStore) SaveStatement(ctx context.Context, statement *models.FinancialStatement) error {
	if statement.CompanyID == "" {
		return fmt.Errorf("statement has no company_id")
	}
	if statement.FiscalYear <= 0 {
		return fmt.Errorf("statement for %s has no fiscal_year", statement.CompanyID)
	}
	data, err := json.Marshal(statement)
	if err != nil {
		return fmt.Errorf("failed to marshal statement: %w", err)
	}
	rec := &models.Record{
		Owner:   statement.CompanyID,
		Subject: models.SubjectStatement,
		Key:     strconv.Itoa(statement.FiscalYear),
		Value:   string(data),
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return err
	}
	statement.RecordedAt = rec.DateTime
	return nil
}

func (s *StatementStore) DeleteStatement(ctx context.Context, companyID string, fiscalYear int) error {
	return s.records.Delete(ctx, companyID, models.SubjectStatement, strconv.Itoa(fiscalYear))
}

func (s *StatementStore) ListStatements(ctx context.Context, companyID string) ([]*models.FinancialStatement, error) {
	recs, err := s.records.List(ctx, companyID, models.SubjectStatement)
	if err != nil {
		return nil, err
	}
	statements := make([]*models.FinancialStatement, 0, len(recs))
	for _, rec := range recs {
		st, err := decodeStatement(rec)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	sort.Slice(statements, func(i, j int) bool {
		return statements[i].FiscalYear < statements[j].FiscalYear
	})
	return statements, nil
}

func decodeStatement(rec *models.Record) (*models.FinancialStatement, error) {
	var st models.FinancialStatement
	if err := json.Unmarshal([]byte(rec.Value), &st); err != nil {
		return nil, fmt.Errorf("failed to decode statement %s/%s: %w", rec.Owner, rec.Key, err)
	}
	st.RecordedAt = rec.DateTime
	return &st, nil
}

// AnalysisStore stores Analysis runs as JSON records keyed by analysis ID.
type AnalysisStore struct {
	records interfaces.RecordStore
}

func NewAnalysisStore(records interfaces.RecordStore) *AnalysisStore {
	return &AnalysisStore{records: records}
}

func (s *AnalysisStore) GetAnalysis(ctx context.Context, companyID, id string) (*models.Analysis, error) {
	rec, err := s.records.Get(ctx, companyID, models.SubjectAnalysis, id)
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(rec)
}

func (s *AnalysisStore) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		return fmt.Errorf("analysis has no id")
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return s.records.Put(ctx, &models.Record{
		Owner:   analysis.CompanyID,
		Subject: models.SubjectAnalysis,
		Key:     analysis.ID,
		Value:   string(data),
	})
}

func (s *AnalysisStore) DeleteAnalysis(ctx context.Context, companyID, id string) error {
	return s.records.Delete(ctx, companyID, models.SubjectAnalysis, id)
}

func (s *AnalysisStore) ListAnalyses(ctx context.Context, companyID string, limit int) ([]*models.Analysis, error) {
	recs, err := s.records.Query(ctx, companyID, models.SubjectAnalysis, interfaces.QueryOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	analyses := make([]*models.Analysis, 0, len(recs))
	for _, rec := range recs {
		a, err := decodeAnalysis(rec)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

func decodeAnalysis(rec *models.Record) (*models.Analysis, error) {
	var a models.Analysis
	if err := json.Unmarshal([]byte(rec.Value), &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", rec.Key, err)
	}
	return &a, nil
}
