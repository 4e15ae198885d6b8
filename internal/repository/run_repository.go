package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

// RunRepository persists versioned scheduling-run snapshots.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateVersioned inserts a run assigning the next global version number.
func (r *RunRepository) CreateVersioned(ctx context.Context, run *models.ScheduleRun) error {
	if run == nil {
		return fmt.Errorf("run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RunStatusCompleted
	}
	if len(run.Config) == 0 {
		run.Config = types.JSONText(`{}`)
	}
	if len(run.Snapshot) == 0 {
		run.Snapshot = types.JSONText(`{}`)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM schedule_runs`
	if err := sqlx.GetContext(ctx, r.db, &run.Version, nextVersionQuery); err != nil {
		return fmt.Errorf("compute next run version: %w", err)
	}

	const insertQuery = `
INSERT INTO schedule_runs (id, version, status, config, snapshot, created_at)
VALUES (:id, :version, :status, :config, :snapshot, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertQuery, run); err != nil {
		return fmt.Errorf("insert schedule run: %w", err)
	}
	return nil
}

// FindByID loads one run including its full snapshot.
func (r *RunRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRun, error) {
	const query = `SELECT id, version, status, config, snapshot, created_at FROM schedule_runs WHERE id = $1`
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// Latest returns the most recent run.
func (r *RunRepository) Latest(ctx context.Context) (*models.ScheduleRun, error) {
	const query = `SELECT id, version, status, config, snapshot, created_at FROM schedule_runs ORDER BY version DESC LIMIT 1`
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns run summaries newest first, without snapshot bodies.
func (r *RunRepository) List(ctx context.Context) ([]models.ScheduleRun, error) {
	const query = `SELECT id, version, status, config, '{}'::jsonb AS snapshot, created_at FROM schedule_runs ORDER BY version DESC`
	var runs []models.ScheduleRun
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}
