package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/models"
)

// SavedItem joins a saved marker with its policy for the /saved listing.
type SavedItem struct {
	Policy  models.Policy
	SavedAt time.Time
}

// SavedRepository owns the saved_policies bookmarks.
type SavedRepository interface {
	// Save is idempotent: saving an already-saved policy is a no-op.
	Save(ctx context.Context, policyID int64) error
	Delete(ctx context.Context, policyID int64) error
	List(ctx context.Context) ([]SavedItem, error)
}

type savedRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSavedRepository(db *sqlx.DB, logger *zap.Logger) SavedRepository {
	return &savedRepository{db: db, logger: logger}
}

func (r *savedRepository) Save(ctx context.Context, policyID int64) error {
	query := `INSERT INTO saved_policies (policy_id) VALUES ($1) ON CONFLICT (policy_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, policyID)
	return err
}

func (r *savedRepository) Delete(ctx context.Context, policyID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_policies WHERE policy_id = $1`, policyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *savedRepository) List(ctx context.Context) ([]SavedItem, error) {
	type row struct {
		models.Policy
		SavedAt time.Time `db:"saved_at"`
	}
	rows := []row{}
	query := `
		SELECT p.id, p.source, p.source_item_id, p.title, p.summary, p.text, p.content_hash,
			p.normalized_hash, p.version, p.jurisdiction, p.policy_type, p.status, p.scopes,
			p.mandatory, p.sectors, p.confidence, p.impact_score, p.impact_factors,
			p.effective_date, p.created_at, p.last_updated_at, s.saved_at
		FROM saved_policies s
		JOIN policies p ON p.id = s.policy_id
		ORDER BY s.saved_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items := make([]SavedItem, 0, len(rows))
	for _, rw := range rows {
		items = append(items, SavedItem{Policy: rw.Policy, SavedAt: rw.SavedAt})
	}
	return items, nil
}
