package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	rec := &models.Record{
		Owner:   "acme",
		Subject: models.SubjectStatement,
		Key:     "2024",
		Value:   `{"revenue":1000}`,
	}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "acme", models.SubjectStatement, "2024")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != `{"revenue":1000}` {
		t.Errorf("unexpected value: %s", got.Value)
	}
	if got.Version != 1 {
		t.Errorf("expected version 1, got %d", got.Version)
	}
	if got.DateTime.IsZero() {
		t.Error("expected DateTime to be stamped")
	}

	// Update (version increment)
	rec.Value = `{"revenue":1200}`
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put update: %v", err)
	}
	got, _ = store.Get(ctx, "acme", models.SubjectStatement, "2024")
	if got.Version != 2 {
		t.Errorf("expected version 2, got %d", got.Version)
	}

	if err := store.Delete(ctx, "acme", models.SubjectStatement, "2024"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = store.Get(ctx, "acme", models.SubjectStatement, "2024")
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Get after delete: want ErrNotFound, got %v", err)
	}

	// Deleting a missing record is not an error
	if err := store.Delete(ctx, "acme", models.SubjectStatement, "2024"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestListScopesOwnerAndSubject(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectStatement, Key: "2023", Value: "a"})
	store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectStatement, Key: "2024", Value: "b"})
	store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectAnalysis, Key: "x", Value: "c"})
	store.Put(ctx, &models.Record{Owner: "globex", Subject: models.SubjectStatement, Key: "2024", Value: "d"})

	recs, err := store.List(ctx, "acme", models.SubjectStatement)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 statements for acme, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Owner != "acme" || r.Subject != models.SubjectStatement {
			t.Errorf("unexpected record %+v", r)
		}
	}
}

func TestQueryOrderAndLimit(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"first", "second", "third"} {
		if err := store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectAnalysis, Key: key}); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	recs, err := store.Query(ctx, "acme", models.SubjectAnalysis, interfaces.QueryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Key != "third" || recs[1].Key != "second" {
		t.Errorf("default order should be newest first, got %s, %s", recs[0].Key, recs[1].Key)
	}

	recs, _ = store.Query(ctx, "acme", models.SubjectAnalysis, interfaces.QueryOptions{OrderBy: "datetime_asc"})
	if len(recs) != 3 || recs[0].Key != "first" {
		t.Errorf("ascending order should start with first, got %+v", recs)
	}
}

func TestDeleteBySubject(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectAnalysis, Key: "a1"})
	store.Put(ctx, &models.Record{Owner: "globex", Subject: models.SubjectAnalysis, Key: "a2"})
	store.Put(ctx, &models.Record{Owner: "acme", Subject: models.SubjectStatement, Key: "2024"})

	n, err := store.DeleteBySubject(ctx, models.SubjectAnalysis)
	if err != nil {
		t.Fatalf("DeleteBySubject: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if _, err := store.Get(ctx, "acme", models.SubjectStatement, "2024"); err != nil {
		t.Errorf("statement should survive: %v", err)
	}
}
