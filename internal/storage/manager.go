// Package storage provides the StorageManager that opens the configured
// record store and exposes typed statement and analysis facades over it.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
	"github.com/bobmcallan/finmodel/internal/storage/badger"
	"github.com/bobmcallan/finmodel/internal/storage/surrealdb"
)

// Manager implements interfaces.StorageManager over a single RecordStore.
type Manager struct {
	backend    string
	records    interfaces.RecordStore
	statements *StatementStore
	analyses   *AnalysisStore
	logger     *common.Logger
}

// NewManager opens the record store selected by config.Storage.Backend.
func NewManager(ctx context.Context, logger *common.Logger, config *common.Config) (*Manager, error) {
	var (
		records interfaces.RecordStore
		err     error
	)

	switch config.Storage.Backend {
	case common.BackendBadger, "":
		records, err = badger.NewStore(logger, config.Storage.Path)
	case common.BackendSurrealDB:
		records, err = surrealdb.Connect(ctx, logger, config.Storage)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: %s, %s)",
			config.Storage.Backend, common.BackendBadger, common.BackendSurrealDB)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s record store: %w", config.Storage.Backend, err)
	}

	m := NewManagerWithStore(logger, config.Storage.Backend, records)
	logger.Info().
		Str("backend", m.backend).
		Msg("Storage manager initialized")
	return m, nil
}

// NewManagerWithStore builds a Manager around an already open record store.
func NewManagerWithStore(logger *common.Logger, backend string, records interfaces.RecordStore) *Manager {
	if backend == "" {
		backend = common.BackendBadger
	}
	return &Manager{
		backend:    backend,
		records:    records,
		statements: NewStatementStore(records),
		analyses:   NewAnalysisStore(records),
		logger:     logger,
	}
}

func (m *Manager) RecordStore() interfaces.RecordStore {
	return m.records
}

func (m *Manager) Statements() interfaces.StatementStore {
	return m.statements
}

func (m *Manager) Analyses() interfaces.AnalysisStore {
	return m.analyses
}

func (m *Manager) Backend() string {
	return m.backend
}

// PurgeAnalyses deletes every stored analysis and returns the count.
func (m *Manager) PurgeAnalyses(ctx context.Context) (int, error) {
	count, err := m.RecordStore().DeleteBySubject(ctx, models.SubjectAnalysis)
	if err != nil {
		return 0, fmt.Errorf("failed to purge analyses: %w", err)
	}
	m.logger.Info().Int("count", count).Msg("Analyses purged")
	return count, nil
}

func (m *Manager) Close() error {
	return m.records.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
