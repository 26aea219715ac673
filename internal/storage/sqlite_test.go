package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"kharcha/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadBeforeFirstSave(t *testing.T) {
	repo := newTestRepo(t)
	_, ok, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected no snapshot on a fresh database")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	want := core.Ledger{
		Budget: 50000,
		Transactions: []core.Transaction{
			core.NewTransaction("Lunch", 200, "Food", now),
			core.NewTransaction("Salary", 1000, core.IncomeCategory, now),
			core.NewTransaction("Bus", 45.5, "Transport", now),
		},
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot after save")
	}
	if got.Budget != want.Budget {
		t.Fatalf("Budget = %v, want %v", got.Budget, want.Budget)
	}
	if !reflect.DeepEqual(got.Transactions, want.Transactions) {
		t.Fatalf("Transactions round-trip mismatch:\n got %+v\nwant %+v",
			got.Transactions, want.Transactions)
	}
}

func TestSaveReplacesWholeSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := core.Ledger{
		Budget:       100,
		Transactions: []core.Transaction{core.NewTransaction("a", 1, "Food", time.Now())},
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := core.Ledger{Budget: 2000, Transactions: []core.Transaction{}}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Budget != 2000 || len(got.Transactions) != 0 {
		t.Fatalf("got %+v, want the second snapshot verbatim", got)
	}
}
