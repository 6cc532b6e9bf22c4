package ingest

import (
	"time"

	"github.com/sharathb5/PolicyRadar/internal/fingerprint"
	"github.com/sharathb5/PolicyRadar/internal/models"
)

// buildDiff records old/new pairs for every field whose value changed between
// two versions. Text fields are compared on their normalized projection so a
// purely cosmetic difference in one field does not show up in the diff, but
// the stored values are the raw ones.
func buildDiff(old, new *models.Policy) models.Diff {
	diff := models.Diff{}

	textField := func(name, oldVal, newVal string) {
		if fingerprint.Normalize(oldVal) != fingerprint.Normalize(newVal) {
			diff[name] = models.FieldChange{Old: oldVal, New: newVal}
		}
	}
	textField("title", old.Title, new.Title)
	textField("summary", old.Summary, new.Summary)
	textField("text", old.Text, new.Text)

	if !equalDates(old.EffectiveDate, new.EffectiveDate) {
		diff["effective_date"] = models.FieldChange{Old: formatDate(old.EffectiveDate), New: formatDate(new.EffectiveDate)}
	}
	if old.PolicyType != new.PolicyType {
		diff["policy_type"] = models.FieldChange{Old: old.PolicyType, New: new.PolicyType}
	}
	if old.Status != new.Status {
		diff["status"] = models.FieldChange{Old: old.Status, New: new.Status}
	}
	if !equalScopes(old.Scopes, new.Scopes) {
		diff["scopes"] = models.FieldChange{Old: old.Scopes, New: new.Scopes}
	}
	if old.Mandatory != new.Mandatory {
		diff["mandatory"] = models.FieldChange{Old: old.Mandatory, New: new.Mandatory}
	}
	if old.ImpactScore != new.ImpactScore {
		diff["impact_score"] = models.FieldChange{Old: old.ImpactScore, New: new.ImpactScore}
	}

	return diff
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func equalScopes(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
