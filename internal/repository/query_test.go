package repository

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClauseEmptyFilter(t *testing.T) {
	where, args := ListFilter{}.whereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestWhereClauseAllFilters(t *testing.T) {
	impactMin := 60
	confidenceMin := 0.8
	before := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f := ListFilter{
		Q:               "carbon",
		Region:          "EU",
		PolicyType:      "Disclosure",
		Status:          "Adopted",
		Scopes:          []int64{1, 3},
		ImpactMin:       &impactMin,
		ConfidenceMin:   &confidenceMin,
		EffectiveBefore: &before,
		EffectiveAfter:  &after,
	}
	where, args := f.whereClause()

	assert.Equal(t,
		" WHERE (title ILIKE $1 OR summary ILIKE $1) AND jurisdiction = $2 AND policy_type = $3"+
			" AND status = $4 AND scopes && $5 AND impact_score >= $6 AND confidence >= $7"+
			" AND effective_date <= $8 AND effective_date >= $9",
		where)
	require.Len(t, args, 9)
	assert.Equal(t, "%carbon%", args[0])
	assert.Equal(t, pq.Int64Array{1, 3}, args[4])
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		sort, order string
		want        string
	}{
		{"impact", "desc", " ORDER BY impact_score DESC, id ASC"},
		{"effective", "asc", " ORDER BY effective_date ASC, id ASC"},
		{"updated", "", " ORDER BY last_updated_at DESC, id ASC"},
		{"", "", " ORDER BY impact_score DESC, id ASC"},
		{"evil; DROP TABLE policies", "asc", " ORDER BY impact_score ASC, id ASC"},
	}
	for _, tc := range cases {
		got := ListFilter{Sort: tc.sort, Order: tc.order}.orderClause()
		assert.Equal(t, tc.want, got, "sort=%q order=%q", tc.sort, tc.order)
	}
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 20, ListFilter{}.limit())
	assert.Equal(t, 100, ListFilter{PageSize: 500}.limit())
	assert.Equal(t, 0, ListFilter{Page: 1, PageSize: 20}.offset())
	assert.Equal(t, 40, ListFilter{Page: 3, PageSize: 20}.offset())
	assert.Equal(t, 0, ListFilter{Page: -4}.offset())
}
