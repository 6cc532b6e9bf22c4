package ingest

import "github.com/sharathb5/PolicyRadar/internal/models"

// Change is the three-way outcome of comparing a fetched item against its
// stored record.
type Change int

const (
	// ChangeUnchanged: content_hash identical, nothing to do at all.
	ChangeUnchanged Change = iota
	// ChangeRefreshed: raw bytes differ but the normalized content does
	// not. Raw fields are rewritten, no version bump, no change log.
	ChangeRefreshed
	// ChangeVersioned: normalized content differs. Reclassify, rescore,
	// bump the version and append a change-log entry.
	ChangeVersioned
)

func (c Change) String() string {
	switch c {
	case ChangeUnchanged:
		return "unchanged"
	case ChangeRefreshed:
		return "refreshed"
	case ChangeVersioned:
		return "versioned"
	default:
		return "unknown"
	}
}

// decideChange classifies the relationship between the stored record and the
// freshly computed hashes. content_hash unchanged implies normalized_hash
// unchanged, so the identical-content check comes first.
func decideChange(stored *models.Policy, contentHash, normalizedHash string) Change {
	if stored.ContentHash == contentHash {
		return ChangeUnchanged
	}
	if stored.NormalizedHash == normalizedHash {
		return ChangeRefreshed
	}
	return ChangeVersioned
}
