// Package ledger keeps a SQLite record of what happened to every input
// score on each preprocessing run.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jsphweid/melodex/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	file_num INTEGER NOT NULL,
	path TEXT NOT NULL,
	status TEXT NOT NULL,
	parsed INTEGER NOT NULL,
	key TEXT NOT NULL DEFAULT '',
	shift INTEGER NOT NULL DEFAULT 0,
	symbols INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id, file_num);
`

type Ledger struct {
	db   *sql.DB
	path string
}

func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) Path() string {
	return l.path
}

// Record stores the outcomes of one run in a single transaction.
func (l *Ledger) Record(ctx context.Context, runID string, outcomes []model.Outcome) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (run_id, file_num, path, status, parsed, key, shift, symbols, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx, runID, o.FileNum, o.Path, string(o.Status), o.Parsed, o.Key, o.Shift, o.Symbols, o.Error, now)
		if err != nil {
			return fmt.Errorf("recording %v: %w", o.Path, err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the id of the most recently recorded run, or "" when
// the ledger is empty.
func (l *Ledger) LatestRun(ctx context.Context) (string, error) {
	var runID string
	err := l.db.QueryRowContext(ctx, "SELECT run_id FROM outcomes ORDER BY id DESC LIMIT 1").Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("finding latest run: %w", err)
	}
	return runID, nil
}

func (l *Ledger) Outcomes(ctx context.Context, runID string) ([]model.Outcome, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT file_num, path, status, parsed, key, shift, symbols, error
		FROM outcomes WHERE run_id = ? ORDER BY file_num`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var res []model.Outcome
	for rows.Next() {
		var o model.Outcome
		var status string
		if err := rows.Scan(&o.FileNum, &o.Path, &status, &o.Parsed, &o.Key, &o.Shift, &o.Symbols, &o.Error); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = model.Status(status)
		res = append(res, o)
	}
	return res, rows.Err()
}
