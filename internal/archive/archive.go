// Package archive is the completion ledger: every task the dispatch loop
// finishes is recorded once, and per-tier totals are aggregated for the
// stats surface. The ledger is append-only; ClearAll on the scheduler does
// not touch it. The default DSN is ":memory:".
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/servq/pkg/model"

	_ "modernc.org/sqlite"
)

// Archive records completed tasks in SQLite.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the ledger database at dsn. Use ":memory:" for an
// in-process ledger.
func New(dsn string, logger *slog.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	return &Archive{
		db:     db,
		logger: logger.With("component", "archive"),
	}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Migrate creates the ledger table.
func (a *Archive) Migrate(ctx context.Context) error {
	a.logger.Debug("sql", "op", "migrate")
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS completions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id      INTEGER NOT NULL,
			room         TEXT    NOT NULL,
			tier         TEXT    NOT NULL,
			task_type    TEXT    NOT NULL,
			worker       TEXT    NOT NULL,
			minutes      INTEGER NOT NULL,
			charge       REAL    NOT NULL,
			completed_at TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_completions_tier ON completions(tier);
	`)
	return err
}

// Record appends one completed task to the ledger.
func (a *Archive) Record(ctx context.Context, t model.Task) error {
	a.logger.Debug("sql", "op", "insert", "table", "completions", "task_id", t.ID)

	completedAt := time.Now().UTC()
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.UTC()
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO completions (task_id, room, tier, task_type, worker, minutes, charge, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Room, string(t.Tier), t.Type, t.Worker, t.ActualMinutes, t.Charge,
		completedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Stats aggregates the ledger per tier, ordered by tier name.
func (a *Archive) Stats(ctx context.Context) ([]model.TierStats, error) {
	a.logger.Debug("sql", "op", "select", "table", "completions")

	rows, err := a.db.QueryContext(ctx,
		`SELECT tier, COUNT(*), COALESCE(SUM(minutes), 0), COALESCE(SUM(charge), 0)
		 FROM completions GROUP BY tier ORDER BY tier`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TierStats
	for rows.Next() {
		var s model.TierStats
		var tier string
		if err := rows.Scan(&tier, &s.Completed, &s.TotalMinutes, &s.Revenue); err != nil {
			return nil, err
		}
		s.Tier = model.Tier(tier)
		out = append(out, s)
	}
	return out, rows.Err()
}
