// Package ingest runs the fetch -> fingerprint -> classify -> score -> persist
// pipeline and keeps the ingest_runs ledger. A run never panics out of the
// loop: fetch failures fail the run, per-item failures are recorded on the run
// and processing continues with the next item.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/classify"
	"github.com/sharathb5/PolicyRadar/internal/fetch"
	"github.com/sharathb5/PolicyRadar/internal/fingerprint"
	"github.com/sharathb5/PolicyRadar/internal/models"
	"github.com/sharathb5/PolicyRadar/internal/repository"
	"github.com/sharathb5/PolicyRadar/internal/scoring"
)

const effectiveDateLayout = "2006-01-02"

// RunResult is the summary of one ingestion run, mirrored into ingest_runs.
type RunResult struct {
	RunID         int64    `json:"run_id"`
	Source        string   `json:"source"`
	Status        string   `json:"status"`
	ItemsFetched  int      `json:"items_fetched"`
	ItemsInserted int      `json:"items_inserted"`
	ItemsUpdated  int      `json:"items_updated"`
	Errors        []string `json:"errors"`
}

// Pipeline wires the fetch registry, the rule engines and the repositories
// into one single-source ingestion run.
type Pipeline struct {
	fetchers      *fetch.Registry
	policies      repository.PolicyRepository
	runs          repository.RunRepository
	classifier    *classify.Classifier
	scorer        *scoring.Scorer
	jurisdictions map[string]string
	logger        *zap.Logger
	now           func() time.Time
}

// NewPipeline builds a Pipeline. jurisdictions maps a source name to its
// configured jurisdiction; sources missing from the map fall back to the
// classifier's own source inference.
func NewPipeline(
	fetchers *fetch.Registry,
	policies repository.PolicyRepository,
	runs repository.RunRepository,
	classifier *classify.Classifier,
	scorer *scoring.Scorer,
	jurisdictions map[string]string,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		fetchers:      fetchers,
		policies:      policies,
		runs:          runs,
		classifier:    classifier,
		scorer:        scorer,
		jurisdictions: jurisdictions,
		logger:        logger,
		now:           time.Now,
	}
}

// Run ingests one source end to end. The returned error is reserved for
// infrastructure failures that prevent the run from being recorded at all;
// everything else, a failed fetch included, lands in the result and the
// ledger instead.
func (p *Pipeline) Run(ctx context.Context, source string) (*RunResult, error) {
	run := &models.IngestRun{Source: source, Status: models.RunStatusRunning}
	if err := p.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create ingest run for %s: %w", source, err)
	}
	p.logger.Info("ingest run started", zap.String("source", source), zap.Int64("run_id", run.ID))

	result := &RunResult{RunID: run.ID, Source: source}

	fetcher, err := p.fetchers.Get(source)
	if err != nil {
		return p.finish(ctx, run, result, err)
	}
	items, err := fetcher.Fetch(ctx)
	if err != nil {
		return p.finish(ctx, run, result, fmt.Errorf("fetch %s: %w", source, err))
	}
	result.ItemsFetched = len(items)

	for _, item := range items {
		inserted, updated, err := p.processItem(ctx, source, item)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %s: %v", item.SourceItemID, err))
			p.logger.Warn("item failed",
				zap.String("source", source),
				zap.String("source_item_id", item.SourceItemID),
				zap.Error(err))
			continue
		}
		if inserted {
			result.ItemsInserted++
		}
		if updated {
			result.ItemsUpdated++
		}
	}

	return p.finish(ctx, run, result, nil)
}

// finish finalizes the ledger row exactly once. fetchErr non-nil marks the
// whole run failed; per-item errors alone leave it completed.
func (p *Pipeline) finish(ctx context.Context, run *models.IngestRun, result *RunResult, fetchErr error) (*RunResult, error) {
	result.Status = models.RunStatusCompleted
	if fetchErr != nil {
		result.Status = models.RunStatusFailed
		result.Errors = append(result.Errors, fetchErr.Error())
	}

	run.Status = result.Status
	run.ItemsFetched = result.ItemsFetched
	run.ItemsInserted = result.ItemsInserted
	run.ItemsUpdated = result.ItemsUpdated
	run.Errors = pq.StringArray{}
	if len(result.Errors) > 0 {
		run.Errors = pq.StringArray(result.Errors)
	}

	if err := p.runs.Finish(ctx, run); err != nil {
		p.logger.Error("finalize ingest run", zap.Int64("run_id", run.ID), zap.Error(err))
		return result, fmt.Errorf("finalize ingest run %d: %w", run.ID, err)
	}
	p.logger.Info("ingest run finished",
		zap.Int64("run_id", run.ID),
		zap.String("status", result.Status),
		zap.Int("fetched", result.ItemsFetched),
		zap.Int("inserted", result.ItemsInserted),
		zap.Int("updated", result.ItemsUpdated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// processItem applies the three-way change decision to one raw item.
// A version conflict means a concurrent run already did the work, so it is
// treated as success with no counters touched.
func (p *Pipeline) processItem(ctx context.Context, source string, item fetch.RawItem) (inserted, updated bool, err error) {
	if item.SourceItemID == "" {
		return false, false, errors.New("missing source_item_id")
	}

	contentHash := fingerprint.ContentHash(source, item.SourceItemID, item.TitleRaw, item.SummaryRaw, item.TextRaw)
	normalizedHash := fingerprint.NormalizedHash(item.TitleRaw, item.SummaryRaw, item.TextRaw)

	stored, err := p.policies.GetBySourceItem(ctx, source, item.SourceItemID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return false, false, fmt.Errorf("lookup: %w", err)
		}
		if err := p.insert(ctx, source, item, contentHash, normalizedHash); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return false, false, nil
			}
			return false, false, fmt.Errorf("insert: %w", err)
		}
		return true, false, nil
	}

	switch decideChange(stored, contentHash, normalizedHash) {
	case ChangeUnchanged:
		return false, false, nil
	case ChangeRefreshed:
		refreshed := *stored
		refreshed.Title = item.TitleRaw
		refreshed.Summary = item.SummaryRaw
		refreshed.Text = item.TextRaw
		refreshed.ContentHash = contentHash
		refreshed.EffectiveDate = p.parseEffectiveDate(source, item)
		if err := p.policies.Refresh(ctx, &refreshed); err != nil {
			return false, false, fmt.Errorf("refresh: %w", err)
		}
		return false, false, nil
	default:
		if err := p.version(ctx, source, item, stored, contentHash, normalizedHash); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return false, false, nil
			}
			return false, false, fmt.Errorf("version: %w", err)
		}
		return false, true, nil
	}
}

func (p *Pipeline) insert(ctx context.Context, source string, item fetch.RawItem, contentHash, normalizedHash string) error {
	policy := p.build(source, item, contentHash, normalizedHash)
	policy.Version = 1
	return p.policies.Insert(ctx, policy)
}

func (p *Pipeline) version(ctx context.Context, source string, item fetch.RawItem, stored *models.Policy, contentHash, normalizedHash string) error {
	next := p.build(source, item, contentHash, normalizedHash)
	next.ID = stored.ID
	next.CreatedAt = stored.CreatedAt
	diff := buildDiff(stored, next)
	return p.policies.ApplyVersion(ctx, next, stored.Version, diff)
}

// build classifies and scores a raw item into a fully populated policy value.
func (p *Pipeline) build(source string, item fetch.RawItem, contentHash, normalizedHash string) *models.Policy {
	classified := p.classifier.Classify(classify.Input{
		Title:        item.TitleRaw,
		Text:         item.TextRaw,
		Summary:      item.SummaryRaw,
		Jurisdiction: p.jurisdictions[source],
		Source:       source,
	})
	effectiveDate := p.parseEffectiveDate(source, item)
	score, factors := p.scorer.Score(scoring.Input{
		Mandatory:     classified.Mandatory,
		EffectiveDate: effectiveDate,
		Scopes:        classified.Scopes,
		Sectors:       nil,
		Title:         item.TitleRaw,
		Summary:       item.SummaryRaw,
		Text:          item.TextRaw,
		Reference:     p.now(),
	})

	return &models.Policy{
		Source:         source,
		SourceItemID:   item.SourceItemID,
		Title:          item.TitleRaw,
		Summary:        item.SummaryRaw,
		Text:           item.TextRaw,
		ContentHash:    contentHash,
		NormalizedHash: normalizedHash,
		Jurisdiction:   classified.Jurisdiction,
		PolicyType:     classified.PolicyType,
		Status:         classified.Status,
		Scopes:         pq.Int64Array(classified.Scopes),
		Mandatory:      classified.Mandatory,
		Sectors:        pq.StringArray{},
		Confidence:     classified.Confidence,
		ImpactScore:    score,
		ImpactFactors:  factors,
		EffectiveDate:  effectiveDate,
	}
}

// parseEffectiveDate reads the source's ISO date string. An empty or
// malformed value yields nil, which the scorer treats as no time signal.
func (p *Pipeline) parseEffectiveDate(source string, item fetch.RawItem) *time.Time {
	if item.EffectiveDateRaw == "" {
		return nil
	}
	t, err := time.Parse(effectiveDateLayout, item.EffectiveDateRaw)
	if err != nil {
		p.logger.Warn("unparsable effective date",
			zap.String("source", source),
			zap.String("source_item_id", item.SourceItemID),
			zap.String("effective_date_raw", item.EffectiveDateRaw))
		return nil
	}
	return &t
}
