package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Sort keys accepted by the policies list endpoint, mapped to columns here so
// user input never reaches the SQL string directly.
var sortColumns = map[string]string{
	"impact":    "impact_score",
	"effective": "effective_date",
	"updated":   "last_updated_at",
}

// ListFilter captures the query parameters of GET /policies.
type ListFilter struct {
	Q               string
	Region          string
	PolicyType      string
	Status          string
	Scopes          []int64
	ImpactMin       *int
	ConfidenceMin   *float64
	EffectiveBefore *time.Time
	EffectiveAfter  *time.Time
	Sort            string
	Order           string
	Page            int
	PageSize        int
}

// whereClause builds the WHERE fragment and its positional arguments.
func (f ListFilter) whereClause() (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d)", n, n))
	}
	if f.Region != "" {
		add("jurisdiction = $%d", f.Region)
	}
	if f.PolicyType != "" {
		add("policy_type = $%d", f.PolicyType)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if len(f.Scopes) > 0 {
		add("scopes && $%d", pq.Int64Array(f.Scopes))
	}
	if f.ImpactMin != nil {
		add("impact_score >= $%d", *f.ImpactMin)
	}
	if f.ConfidenceMin != nil {
		add("confidence >= $%d", *f.ConfidenceMin)
	}
	if f.EffectiveBefore != nil {
		add("effective_date <= $%d", *f.EffectiveBefore)
	}
	if f.EffectiveAfter != nil {
		add("effective_date >= $%d", *f.EffectiveAfter)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause builds the ORDER BY fragment. Unknown sort keys fall back to
// impact; unknown orders fall back to desc. A trailing id sort keeps
// pagination stable across identical sort values.
func (f ListFilter) orderClause() string {
	column, ok := sortColumns[f.Sort]
	if !ok {
		column = sortColumns["impact"]
	}
	direction := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

func (f ListFilter) limit() int {
	switch {
	case f.PageSize <= 0:
		return 20
	case f.PageSize > 100:
		return 100
	default:
		return f.PageSize
	}
}

// PageOrDefault returns the effective page number for the response envelope.
func (f ListFilter) PageOrDefault() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// PageSizeOrDefault returns the effective page size for the response envelope.
func (f ListFilter) PageSizeOrDefault() int {
	return f.limit()
}

func (f ListFilter) offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.limit()
}
