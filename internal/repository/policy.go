package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/models"
)

// PolicyRepository owns all reads and writes on the policies and
// policy_changes_log tables. The ingestion pipeline is the only writer; the
// API layer only reads.
type PolicyRepository interface {
	GetBySourceItem(ctx context.Context, source, sourceItemID string) (*models.Policy, error)
	GetByID(ctx context.Context, id int64) (*models.Policy, error)
	// Insert writes a new version-1 policy. A concurrent insert of the same
	// (source, source_item_id) loses silently and returns ErrVersionConflict.
	Insert(ctx context.Context, p *models.Policy) error
	// Refresh updates raw fields and content_hash only: no version bump, no
	// change-log entry, last_updated_at untouched.
	Refresh(ctx context.Context, p *models.Policy) error
	// ApplyVersion bumps the stored version from versionFrom to
	// versionFrom+1 together with the re-classified fields, and appends the
	// change-log entry in the same transaction. If the stored version has
	// already advanced it returns ErrVersionConflict and writes nothing.
	ApplyVersion(ctx context.Context, p *models.Policy, versionFrom int, diff models.Diff) error
	List(ctx context.Context, filter ListFilter) ([]models.Policy, int, error)
	History(ctx context.Context, policyID int64) ([]models.PolicyChange, error)
	TopByImpact(ctx context.Context, limit int) ([]models.Policy, error)
}

type policyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPolicyRepository(db *sqlx.DB, logger *zap.Logger) PolicyRepository {
	return &policyRepository{db: db, logger: logger}
}

const policyColumns = `id, source, source_item_id, title, summary, text, content_hash, normalized_hash,
	version, jurisdiction, policy_type, status, scopes, mandatory, sectors, confidence,
	impact_score, impact_factors, effective_date, created_at, last_updated_at`

func (r *policyRepository) GetBySourceItem(ctx context.Context, source, sourceItemID string) (*models.Policy, error) {
	var p models.Policy
	query := `SELECT ` + policyColumns + ` FROM policies WHERE source = $1 AND source_item_id = $2`
	err := r.db.GetContext(ctx, &p, query, source, sourceItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *policyRepository) GetByID(ctx context.Context, id int64) (*models.Policy, error) {
	var p models.Policy
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *policyRepository) Insert(ctx context.Context, p *models.Policy) error {
	query := `
		INSERT INTO policies (source, source_item_id, title, summary, text, content_hash, normalized_hash,
			version, jurisdiction, policy_type, status, scopes, mandatory, sectors, confidence,
			impact_score, impact_factors, effective_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (source, source_item_id) DO NOTHING
		RETURNING id, created_at, last_updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		p.Source, p.SourceItemID, p.Title, p.Summary, p.Text, p.ContentHash, p.NormalizedHash,
		p.Version, p.Jurisdiction, p.PolicyType, p.Status, p.Scopes, p.Mandatory, p.Sectors,
		p.Confidence, p.ImpactScore, p.ImpactFactors, p.EffectiveDate,
	).Scan(&p.ID, &p.CreatedAt, &p.LastUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Another run inserted the same item first; the loser skips.
		return ErrVersionConflict
	}
	return err
}

func (r *policyRepository) Refresh(ctx context.Context, p *models.Policy) error {
	query := `
		UPDATE policies
		SET title = $1, summary = $2, text = $3, content_hash = $4, effective_date = $5
		WHERE id = $6`
	_, err := r.db.ExecContext(ctx, query, p.Title, p.Summary, p.Text, p.ContentHash, p.EffectiveDate, p.ID)
	return err
}

func (r *policyRepository) ApplyVersion(ctx context.Context, p *models.Policy, versionFrom int, diff models.Diff) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin version transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE policies
		SET title = $1, summary = $2, text = $3, content_hash = $4, normalized_hash = $5,
			version = version + 1, jurisdiction = $6, policy_type = $7, status = $8, scopes = $9,
			mandatory = $10, sectors = $11, confidence = $12, impact_score = $13,
			impact_factors = $14, effective_date = $15, last_updated_at = NOW()
		WHERE id = $16 AND version = $17
		RETURNING version, last_updated_at`
	err = tx.QueryRowxContext(ctx, query,
		p.Title, p.Summary, p.Text, p.ContentHash, p.NormalizedHash,
		p.Jurisdiction, p.PolicyType, p.Status, p.Scopes,
		p.Mandatory, p.Sectors, p.Confidence, p.ImpactScore,
		p.ImpactFactors, p.EffectiveDate, p.ID, versionFrom,
	).Scan(&p.Version, &p.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The stored version moved under us; a concurrent run won.
			return ErrVersionConflict
		}
		return err
	}

	change := models.PolicyChange{
		PolicyID:    p.ID,
		VersionFrom: versionFrom,
		VersionTo:   versionFrom + 1,
		Diff:        diff,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO policy_changes_log (policy_id, version_from, version_to, diff) VALUES ($1, $2, $3, $4)`,
		change.PolicyID, change.VersionFrom, change.VersionTo, change.Diff)
	if err != nil {
		return fmt.Errorf("append change log: %w", err)
	}

	return tx.Commit()
}

func (r *policyRepository) List(ctx context.Context, filter ListFilter) ([]models.Policy, int, error) {
	where, args := filter.whereClause()

	var total int
	countQuery := `SELECT COUNT(*) FROM policies` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + policyColumns + ` FROM policies` + where + filter.orderClause() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.limit(), filter.offset())

	policies := []models.Policy{}
	if err := r.db.SelectContext(ctx, &policies, query, args...); err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

func (r *policyRepository) History(ctx context.Context, policyID int64) ([]models.PolicyChange, error) {
	changes := []models.PolicyChange{}
	query := `SELECT id, policy_id, version_from, version_to, changed_at, diff
		FROM policy_changes_log WHERE policy_id = $1 ORDER BY version_to DESC`
	if err := r.db.SelectContext(ctx, &changes, query, policyID); err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *policyRepository) TopByImpact(ctx context.Context, limit int) ([]models.Policy, error) {
	policies := []models.Policy{}
	query := `SELECT ` + policyColumns + ` FROM policies
		ORDER BY impact_score DESC, confidence DESC, last_updated_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &policies, query, limit); err != nil {
		return nil, err
	}
	return policies, nil
}
