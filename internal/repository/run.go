package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/models"
)

// RunRepository owns the ingest_runs ledger. Rows are created when a run
// starts, finalized exactly once, and never mutated afterwards.
type RunRepository interface {
	Create(ctx context.Context, run *models.IngestRun) error
	Finish(ctx context.Context, run *models.IngestRun) error
	LastRuns(ctx context.Context, limit int) ([]models.IngestRun, error)
}

type runRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRunRepository(db *sqlx.DB, logger *zap.Logger) RunRepository {
	return &runRepository{db: db, logger: logger}
}

func (r *runRepository) Create(ctx context.Context, run *models.IngestRun) error {
	query := `INSERT INTO ingest_runs (source, status) VALUES ($1, $2) RETURNING id, started_at`
	return r.db.QueryRowxContext(ctx, query, run.Source, run.Status).Scan(&run.ID, &run.StartedAt)
}

func (r *runRepository) Finish(ctx context.Context, run *models.IngestRun) error {
	query := `
		UPDATE ingest_runs
		SET status = $1, finished_at = NOW(), items_fetched = $2, items_inserted = $3,
			items_updated = $4, errors = $5
		WHERE id = $6 AND status = 'running'
		RETURNING finished_at`
	return r.db.QueryRowxContext(ctx, query,
		run.Status, run.ItemsFetched, run.ItemsInserted, run.ItemsUpdated, run.Errors, run.ID,
	).Scan(&run.FinishedAt)
}

func (r *runRepository) LastRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	runs := []models.IngestRun{}
	query := `SELECT id, source, started_at, finished_at, status, items_fetched, items_inserted,
		items_updated, errors FROM ingest_runs ORDER BY started_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, err
	}
	return runs, nil
}
