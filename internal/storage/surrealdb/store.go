// Package surrealdb implements interfaces.RecordStore on a SurrealDB server.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// recordTable holds every statement and analysis record.
const recordTable = "records"

// Store implements interfaces.RecordStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
	owned  bool
}

// Connect dials the configured server, signs in and selects the namespace and database.
func Connect(ctx context.Context, logger *common.Logger, config common.StorageConfig) (*Store, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	store, err := NewStore(ctx, db, logger)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	store.owned = true

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB record store connected")
	return store, nil
}

// NewStore wraps an existing connection and ensures the record table exists.
func NewStore(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*Store, error) {
	// SurrealDB v3 errors on querying non-existent tables
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", recordTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", recordTable, err)
	}
	return &Store{db: db, logger: logger}, nil
}

func recordID(owner, subject, key string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(recordTable, owner+"_"+subject+"_"+key)
}

// isNotFoundError reports whether err is the driver's missing-record error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

func (s *Store) Get(ctx context.Context, owner, subject, key string) (*models.Record, error) {
	record, err := surrealdb.Select[models.Record](ctx, s.db, recordID(owner, subject, key))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%s '%s' for '%s': %w", subject, key, owner, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select %s '%s': %w", subject, key, err)
	}
	if record == nil || record.Key == "" {
		return nil, fmt.Errorf("%s '%s' for '%s': %w", subject, key, owner, interfaces.ErrNotFound)
	}
	return record, nil
}

func (s *Store) Put(ctx context.Context, record *models.Record) error {
	record.Version = 1
	if existing, err := s.Get(ctx, record.Owner, record.Subject, record.Key); err == nil {
		record.Version = existing.Version + 1
	}
	record.DateTime = time.Now().UTC()

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    recordID(record.Owner, record.Subject, record.Key),
		"record": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Record](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.Warn().Err(err).Int("attempt", attempt).Str("subject", record.Subject).Msg("Record upsert failed")
	}
	return fmt.Errorf("failed to put %s '%s' after retries: %w", record.Subject, record.Key, lastErr)
}

func (s *Store) Delete(ctx context.Context, owner, subject, key string) error {
	_, err := surrealdb.Delete[models.Record](ctx, s.db, recordID(owner, subject, key))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete %s '%s': %w", subject, key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner, subject string) ([]*models.Record, error) {
	sql := "SELECT * FROM " + recordTable + " WHERE owner = $owner AND subject = $subject"
	records, err := s.query(ctx, sql, owner, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", subject, err)
	}
	return records, nil
}

func (s *Store) Query(ctx context.Context, owner, subject string, opts interfaces.QueryOptions) ([]*models.Record, error) {
	sql := "SELECT * FROM " + recordTable + " WHERE owner = $owner AND subject = $subject"
	if opts.OrderBy == "datetime_asc" {
		sql += " ORDER BY datetime ASC"
	} else {
		sql += " ORDER BY datetime DESC"
	}
	if opts.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	records, err := s.query(ctx, sql, owner, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", subject, err)
	}
	return records, nil
}

func (s *Store) query(ctx context.Context, sql, owner, subject string) ([]*models.Record, error) {
	vars := map[string]any{
		"owner":   owner,
		"subject": subject,
	}
	results, err := surrealdb.Query[[]models.Record](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}

	var mapped []*models.Record
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *Store) DeleteBySubject(ctx context.Context, subject string) (int, error) {
	sql := "DELETE " + recordTable + " WHERE subject = $subject RETURN BEFORE"
	vars := map[string]any{"subject": subject}

	results, err := surrealdb.Query[[]models.Record](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by subject: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	return count, nil
}

// Close releases the connection when this store opened it.
func (s *Store) Close() error {
	if s.owned {
		s.db.Close(context.Background())
	}
	return nil
}

var _ interfaces.RecordStore = (*Store)(nil)
