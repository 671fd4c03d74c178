// Package postgres persists study runs with sqlx.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS study_runs (
	id UUID PRIMARY KEY,
	study_key TEXT NOT NULL,
	report TEXT NOT NULL,
	summary JSONB,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_study_runs_study_key ON study_runs (study_key, created_at DESC);`

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository, ensuring the schema exists
func NewRunRepository(db *sqlx.DB) (ports.RunRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &runRepository{db: db}, nil
}

// Save inserts a completed study run
func (r *runRepository) Save(ctx context.Context, run *model.StudyRun) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `INSERT INTO study_runs (id, study_key, report, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Study, run.Report, summaryJSON, run.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save study run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*model.StudyRun, error) {
	query := `SELECT id, study_key, report, summary, created_at
		FROM study_runs WHERE id = $1`

	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get study run: %w", err)
	}

	return run, nil
}

// LatestByStudy retrieves the most recent run for a study
func (r *runRepository) LatestByStudy(ctx context.Context, study core.StudyKey) (*model.StudyRun, error) {
	query := `SELECT id, study_key, report, summary, created_at
		FROM study_runs WHERE study_key = $1
		ORDER BY created_at DESC LIMIT 1`

	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, study))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return run, nil
}

// ListRecent retrieves the most recent runs across all studies
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*model.StudyRun, error) {
	query := `SELECT id, study_key, report, summary, created_at
		FROM study_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query study runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.StudyRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *runRepository) scanRun(row rowScanner) (*model.StudyRun, error) {
	var run model.StudyRun
	var summaryJSON []byte
	var createdAt sql.NullTime

	err := row.Scan(&run.ID, &run.Study, &run.Report, &summaryJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
	}
	if createdAt.Valid {
		run.CreatedAt = core.NewTimestamp(createdAt.Time)
	}

	return &run, nil
}
