// Package badger implements interfaces.RecordStore using BadgerHold.
// Statements and analyses are stored as generic Record entries.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// Store implements interfaces.RecordStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) a BadgerHold database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold record store opened")
	return &Store{db: db, logger: logger}, nil
}

// keySep is the composite key separator. A null byte cannot collide with
// company identifiers or analysis IDs.
const keySep = "\x00"

func compositeKey(owner, subject, key string) string {
	return owner + keySep + subject + keySep + key
}

func (s *Store) Get(_ context.Context, owner, subject, key string) (*models.Record, error) {
	var rec models.Record
	if err := s.db.Get(compositeKey(owner, subject, key), &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%s '%s' for '%s': %w", subject, key, owner, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", subject, key, err)
	}
	return &rec, nil
}

func (s *Store) Put(_ context.Context, record *models.Record) error {
	ck := compositeKey(record.Owner, record.Subject, record.Key)

	// Read existing to increment version
	var existing models.Record
	if err := s.db.Get(ck, &existing); err == nil {
		record.Version = existing.Version + 1
	} else {
		record.Version = 1
	}
	record.DateTime = time.Now()

	if err := s.db.Upsert(ck, record); err != nil {
		return fmt.Errorf("failed to put %s '%s': %w", record.Subject, record.Key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, owner, subject, key string) error {
	err := s.db.Delete(compositeKey(owner, subject, key), models.Record{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete %s '%s': %w", subject, key, err)
	}
	return nil
}

func (s *Store) find(owner, subject string) ([]*models.Record, error) {
	var found []models.Record
	query := badgerhold.Where("Owner").Eq(owner).And("Subject").Eq(subject)
	if err := s.db.Find(&found, query); err != nil {
		return nil, err
	}
	result := make([]*models.Record, 0, len(found))
	for i := range found {
		result = append(result, &found[i])
	}
	return result, nil
}

func (s *Store) List(_ context.Context, owner, subject string) ([]*models.Record, error) {
	result, err := s.find(owner, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", subject, err)
	}
	return result, nil
}

func (s *Store) Query(_ context.Context, owner, subject string, opts interfaces.QueryOptions) ([]*models.Record, error) {
	result, err := s.find(owner, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", subject, err)
	}

	if opts.OrderBy == "datetime_asc" {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].DateTime.Before(result[j].DateTime)
		})
	} else {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].DateTime.After(result[j].DateTime)
		})
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (s *Store) DeleteBySubject(_ context.Context, subject string) (int, error) {
	var found []models.Record
	if err := s.db.Find(&found, badgerhold.Where("Subject").Eq(subject)); err != nil {
		return 0, fmt.Errorf("failed to find %s records: %w", subject, err)
	}
	count := 0
	for _, rec := range found {
		if err := s.db.Delete(compositeKey(rec.Owner, rec.Subject, rec.Key), models.Record{}); err == nil {
			count++
		}
	}
	if count > 0 {
		s.logger.Debug().Str("subject", subject).Int("deleted", count).Msg("Records deleted by subject")
	}
	return count, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ interfaces.RecordStore = (*Store)(nil)
