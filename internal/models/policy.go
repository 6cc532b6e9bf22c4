package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Enumerations shared by the classifier, the repositories and the API layer.
// Values mirror the public contract and must not be renamed.
const (
	PolicyTypeDisclosure  = "Disclosure"
	PolicyTypePricing     = "Pricing"
	PolicyTypeBan         = "Ban"
	PolicyTypeIncentive   = "Incentive"
	PolicyTypeSupplyChain = "Supply-chain"

	StatusProposed  = "Proposed"
	StatusAdopted   = "Adopted"
	StatusEffective = "Effective"

	JurisdictionEU        = "EU"
	JurisdictionUSFederal = "US-Federal"
	JurisdictionUSCA      = "US-CA"
	JurisdictionUK        = "UK"
	JurisdictionOther     = "OTHER"
)

// Policy represents one row in the 'policies' table: the current version of a
// tracked policy document. Raw title/summary/text are immutable per version;
// the ingestion pipeline is the only writer.
type Policy struct {
	ID             int64          `db:"id" json:"id"`
	Source         string         `db:"source" json:"source"`
	SourceItemID   string         `db:"source_item_id" json:"source_item_id"`
	Title          string         `db:"title" json:"title"`
	Summary        string         `db:"summary" json:"summary"`
	Text           string         `db:"text" json:"text"`
	ContentHash    string         `db:"content_hash" json:"-"`
	NormalizedHash string         `db:"normalized_hash" json:"-"`
	Version        int            `db:"version" json:"version"`
	Jurisdiction   string         `db:"jurisdiction" json:"jurisdiction"`
	PolicyType     string         `db:"policy_type" json:"policy_type"`
	Status         string         `db:"status" json:"status"`
	Scopes         pq.Int64Array  `db:"scopes" json:"scopes"`
	Mandatory      bool           `db:"mandatory" json:"mandatory"`
	Sectors        pq.StringArray `db:"sectors" json:"sectors"`
	Confidence     float64        `db:"confidence" json:"confidence"`
	ImpactScore    int            `db:"impact_score" json:"impact_score"`
	ImpactFactors  ImpactFactors  `db:"impact_factors" json:"impact_factors"`
	EffectiveDate  *time.Time     `db:"effective_date" json:"effective_date"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	LastUpdatedAt  time.Time      `db:"last_updated_at" json:"last_updated_at"`
}

// ImpactFactors holds the five independent 0-20 sub-scores behind
// impact_score. Stored as JSONB.
type ImpactFactors struct {
	Mandatory            int `json:"mandatory"`
	TimeProximity        int `json:"time_proximity"`
	ScopeCoverage        int `json:"scope_coverage"`
	SectorBreadth        int `json:"sector_breadth"`
	DisclosureComplexity int `json:"disclosure_complexity"`
}

// Total returns the capped impact score for the factor set.
func (f ImpactFactors) Total() int {
	sum := f.Mandatory + f.TimeProximity + f.ScopeCoverage + f.SectorBreadth + f.DisclosureComplexity
	if sum > 100 {
		return 100
	}
	return sum
}

func (f ImpactFactors) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *ImpactFactors) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = ImpactFactors{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ImpactFactors", src)
	}
}

// FieldChange is one old/new pair inside a change-log diff.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Diff maps a field name to its old/new values. Only fields whose value
// actually changed between versions appear. Stored as JSONB.
type Diff map[string]FieldChange

func (d Diff) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Diff) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = Diff{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Diff", src)
	}
}

// PolicyChange represents one row in the 'policy_changes_log' table: an
// append-only record of a single version transition.
type PolicyChange struct {
	ID          int64     `db:"id" json:"id"`
	PolicyID    int64     `db:"policy_id" json:"policy_id"`
	VersionFrom int       `db:"version_from" json:"version_from"`
	VersionTo   int       `db:"version_to" json:"version_to"`
	ChangedAt   time.Time `db:"changed_at" json:"changed_at"`
	Diff        Diff      `db:"diff" json:"diff"`
}

// SavedPolicy represents one row in the 'saved_policies' table.
type SavedPolicy struct {
	PolicyID int64     `db:"policy_id" json:"policy_id"`
	SavedAt  time.Time `db:"saved_at" json:"saved_at"`
}
