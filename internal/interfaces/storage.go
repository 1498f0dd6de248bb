// Package interfaces defines service contracts for finmodel
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/finmodel/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageManager coordinates the record store and its typed facades
type StorageManager interface {
	// RecordStore exposes the generic backend
	RecordStore() RecordStore

	// Statements stores per-company financial statements keyed by fiscal year
	Statements() StatementStore

	// Analyses stores engine runs keyed by analysis ID
	Analyses() AnalysisStore

	// PurgeAnalyses deletes every stored analysis across companies
	PurgeAnalyses(ctx context.Context) (int, error)

	// Backend names the configured backend ("badger" or "surrealdb")
	Backend() string

	// Lifecycle
	Close() error
}

// RecordStore persists generic records addressed by owner, subject and key.
type RecordStore interface {
	Get(ctx context.Context, owner, subject, key string) (*models.Record, error)
	Put(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, owner, subject, key string) error
	List(ctx context.Context, owner, subject string) ([]*models.Record, error)
	Query(ctx context.Context, owner, subject string, opts QueryOptions) ([]*models.Record, error)
	DeleteBySubject(ctx context.Context, subject string) (int, error)
	Close() error
}

// QueryOptions configures query behavior for RecordStore.
type QueryOptions struct {
	Limit   int
	OrderBy string // "datetime_desc" (default), "datetime_asc"
}

// StatementStore manages financial statements
type StatementStore interface {
	GetStatement(ctx context.Context, companyID string, fiscalYear int) (*models.FinancialStatement, error)
	SaveStatement(ctx context.Context, statement *models.FinancialStatement) error
	DeleteStatement(ctx context.Context, companyID string, fiscalYear int) error

	// ListStatements returns a company's statements ordered by fiscal year ascending
	ListStatements(ctx context.Context, companyID string) ([]*models.FinancialStatement, error)
}

// AnalysisStore manages persisted engine runs
type AnalysisStore interface {
	GetAnalysis(ctx context.Context, companyID, id string) (*models.Analysis, error)
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	DeleteAnalysis(ctx context.Context, companyID, id string) error

	// ListAnalyses returns the newest analyses first; limit <= 0 means all
	ListAnalyses(ctx context.Context, companyID string, limit int) ([]*models.Analysis, error)
}
