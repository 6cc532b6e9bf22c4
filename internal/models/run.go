package models

import (
	"time"

	"github.com/lib/pq"
)

// IngestRun states. A run moves forward exactly once: running → completed or
// running → failed.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IngestRun represents one row in the 'ingest_runs' table: the ledger entry
// for a single pipeline invocation. Mutated only by the run that created it
// and immutable once status leaves running.
type IngestRun struct {
	ID            int64          `db:"id" json:"id"`
	Source        string         `db:"source" json:"source"`
	StartedAt     time.Time      `db:"started_at" json:"started_at"`
	FinishedAt    *time.Time     `db:"finished_at" json:"finished_at"`
	Status        string         `db:"status" json:"status"`
	ItemsFetched  int            `db:"items_fetched" json:"items_fetched"`
	ItemsInserted int            `db:"items_inserted" json:"items_inserted"`
	ItemsUpdated  int            `db:"items_updated" json:"items_updated"`
	Errors        pq.StringArray `db:"errors" json:"errors"`
}
