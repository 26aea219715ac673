// Package storage persists ledger snapshots to SQLite. The whole
// serialized ledger lives in a single row keyed by a fixed namespace:
// reads happen once at startup, writes replace the row after every
// mutation. No partial updates, no secondary indices.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kharcha/internal/core"

	_ "modernc.org/sqlite"
)

// SnapshotNamespace is the durable key the ledger snapshot is stored
// under. It matches the storage key the mobile client has always used, so
// an existing snapshot survives the move between implementations.
const SnapshotNamespace = "expenses-storage"

type SQLiteRepository struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, namespace: SnapshotNamespace}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements ledger.Snapshotter. The previous snapshot is replaced
// wholesale; last write wins.
func (r *SQLiteRepository) Save(ctx context.Context, l core.Ledger) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (namespace, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		r.namespace, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Ledger snapshot saved",
		"namespace", r.namespace,
		"transactions", len(l.Transactions),
		"bytes", len(payload))
	return nil
}

// Load implements ledger.Snapshotter. A missing row means first launch
// (ok=false); a row that fails to decode is returned as an error, not
// silently reset.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Ledger, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE namespace = ?`, r.namespace).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Ledger{}, false, nil
	}
	if err != nil {
		return core.Ledger{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var l core.Ledger
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return core.Ledger{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return l, true, nil
}
