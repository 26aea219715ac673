// Package ledger owns the process-wide transaction sequence and monthly
// budget. The store is the only writer of that state: mutations go through
// the four named operations, each of which persists a whole snapshot
// before returning, so persistence failures surface at the mutation that
// caused them instead of vanishing inside a middleware wrapper.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"kharcha/internal/core"
)

// Snapshotter persists and restores whole ledger snapshots under a fixed
// namespace. There are no partial updates: every save replaces the
// previous snapshot, and load returns it verbatim.
type Snapshotter interface {
	Save(ctx context.Context, l core.Ledger) error
	Load(ctx context.Context) (core.Ledger, bool, error)
}

// Publisher emits ledger mutation events. Implementations must be safe to
// skip: a nil Publisher disables events entirely, and publish failures
// never fail the mutation that triggered them.
type Publisher interface {
	PublishTransactionAdded(ctx context.Context, t core.Transaction) error
	PublishBudgetChanged(ctx context.Context, budget float64) error
	PublishHistoryCleared(ctx context.Context) error
}

// Store is the ledger's ownership boundary. All access is serialized by a
// mutex; callers get defensive copies and can never alias internal state.
type Store struct {
	mu        sync.Mutex
	ledger    core.Ledger
	isLoading bool
	lastErr   error

	snapshots Snapshotter
	events    Publisher
}

// New restores the persisted snapshot, or starts from first-launch
// defaults when none exists. A snapshot that exists but cannot be decoded
// fails the startup rather than being silently reset.
func New(ctx context.Context, snapshots Snapshotter, events Publisher) (*Store, error) {
	s := &Store{snapshots: snapshots, events: events}

	restored, ok, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger snapshot: %w", err)
	}
	if ok {
		s.ledger = restored
		slog.InfoContext(ctx, "Ledger snapshot restored",
			"transactions", len(restored.Transactions),
			"budget", restored.Budget)
	} else {
		s.ledger = core.NewLedger()
		slog.InfoContext(ctx, "Ledger initialized with defaults",
			"budget", s.ledger.Budget)
	}
	return s, nil
}

// AddTransaction prepends the record to the sequence and persists. The
// store performs no validation of its own: amount and category presence
// are the caller's responsibility, and a malformed record pushed directly
// is accepted silently.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	s.ledger.Transactions = append([]core.Transaction{t}, s.ledger.Transactions...)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.events != nil {
		if perr := s.events.PublishTransactionAdded(ctx, t); perr != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction event",
				"transaction_id", t.ID, "error", perr)
		}
	}
	return nil
}

// SetBudget replaces the budget unconditionally and persists. Validation
// happens in calling code before invocation.
func (s *Store) SetBudget(ctx context.Context, budget float64) error {
	s.mu.Lock()
	s.ledger.Budget = budget
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.events != nil {
		if perr := s.events.PublishBudgetChanged(ctx, budget); perr != nil {
			slog.ErrorContext(ctx, "Failed to publish budget event",
				"budget", budget, "error", perr)
		}
	}
	return nil
}

// ClearHistory empties the transaction sequence and persists. The budget
// survives. Irreversible.
func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	s.ledger.Transactions = []core.Transaction{}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.events != nil {
		if perr := s.events.PublishHistoryCleared(ctx); perr != nil {
			slog.ErrorContext(ctx, "Failed to publish clear event", "error", perr)
		}
	}
	return nil
}

// FetchData is a placeholder hook point for a future remote sync. Today it
// only clears the loading flag.
func (s *Store) FetchData(ctx context.Context) error {
	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of the current state for selector
// evaluation.
func (s *Store) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// IsLoading reports the asynchronous-loading flag. No real asynchronous
// source populates it yet.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the most recent persistence error, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.snapshots.Save(ctx, s.ledger.Clone()); err != nil {
		s.lastErr = err
		slog.ErrorContext(ctx, "Failed to persist ledger snapshot",
			"transactions", len(s.ledger.Transactions), "error", err)
		return fmt.Errorf("persist ledger snapshot: %w", err)
	}
	s.lastErr = nil
	return nil
}
