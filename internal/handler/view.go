package handler

import (
	"time"

	"github.com/sharathb5/PolicyRadar/internal/models"
	"github.com/sharathb5/PolicyRadar/internal/repository"
)

// PolicyListItem is the wire projection returned by GET /policies and inside
// saved/digest groups. Field names are part of the public contract.
type PolicyListItem struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Jurisdiction        string    `json:"jurisdiction"`
	PolicyType          string    `json:"policy_type"`
	Status              string    `json:"status"`
	Scopes              []int64   `json:"scopes"`
	ImpactScore         int       `json:"impact_score"`
	Confidence          float64   `json:"confidence"`
	EffectiveDate       *string   `json:"effective_date"`
	LastUpdatedAt       time.Time `json:"last_updated_at"`
	SourceNameOfficial  string    `json:"source_name_official"`
	SourceNameSecondary string    `json:"source_name_secondary"`
	WhatMightChange     string    `json:"what_might_change"`
}

// PolicyDetail extends the list projection with the full document fields.
type PolicyDetail struct {
	PolicyListItem
	Summary       string                `json:"summary"`
	Text          string                `json:"text"`
	Mandatory     bool                  `json:"mandatory"`
	Sectors       []string              `json:"sectors"`
	Version       int                   `json:"version"`
	ImpactFactors models.ImpactFactors  `json:"impact_factors"`
	History       []models.PolicyChange `json:"history"`
}

// SavedGroup is one recency bucket in the GET /saved response.
type SavedGroup struct {
	Count    int              `json:"count"`
	Policies []PolicyListItem `json:"policies"`
}

// sourceDisplayNames maps internal source keys to the names shown to users.
// Unknown sources fall back to the raw key.
var sourceDisplayNames = map[string]string{
	"eurlex":              "EUR-Lex",
	"european commission": "European Commission",
	"efrag":               "EFRAG",
	"sec":                 "U.S. Securities and Exchange Commission",
	"federal register":    "Federal Register",
	"epa":                 "U.S. Environmental Protection Agency",
	"carb":                "California Air Resources Board",
	"oal":                 "California Office of Administrative Law",
	"gov.uk":              "UK Government",
}

// whatMightChange is the per-status one-liner shown in list views.
var whatMightChange = map[string]string{
	models.StatusProposed:  "Requirements, thresholds and timelines may still shift before adoption.",
	models.StatusAdopted:   "Implementation details and effective dates may be refined before entry into force.",
	models.StatusEffective: "Amendments, guidance and enforcement practice may still evolve.",
}

func toListItem(p models.Policy) PolicyListItem {
	official, ok := sourceDisplayNames[p.Source]
	if !ok {
		official = p.Source
	}

	var effective *string
	if p.EffectiveDate != nil {
		s := p.EffectiveDate.Format("2006-01-02")
		effective = &s
	}

	return PolicyListItem{
		ID:                  p.ID,
		Title:               p.Title,
		Jurisdiction:        p.Jurisdiction,
		PolicyType:          p.PolicyType,
		Status:              p.Status,
		Scopes:              append([]int64{}, p.Scopes...),
		ImpactScore:         p.ImpactScore,
		Confidence:          p.Confidence,
		EffectiveDate:       effective,
		LastUpdatedAt:       p.LastUpdatedAt,
		SourceNameOfficial:  official,
		SourceNameSecondary: p.Jurisdiction,
		WhatMightChange:     whatMightChange[p.Status],
	}
}

func toListItems(policies []models.Policy) []PolicyListItem {
	items := make([]PolicyListItem, 0, len(policies))
	for _, p := range policies {
		items = append(items, toListItem(p))
	}
	return items
}

func toDetail(p models.Policy, history []models.PolicyChange) PolicyDetail {
	if history == nil {
		history = []models.PolicyChange{}
	}
	return PolicyDetail{
		PolicyListItem: toListItem(p),
		Summary:        p.Summary,
		Text:           p.Text,
		Mandatory:      p.Mandatory,
		Sectors:        append([]string{}, p.Sectors...),
		Version:        p.Version,
		ImpactFactors:  p.ImpactFactors,
		History:        history,
	}
}

func groupSaved(items []repository.SavedItem, now time.Time) map[string]SavedGroup {
	groups := map[string][]PolicyListItem{
		"last_7_days":  {},
		"last_30_days": {},
		"older":        {},
	}
	for _, item := range items {
		age := now.Sub(item.SavedAt)
		switch {
		case age <= 7*24*time.Hour:
			groups["last_7_days"] = append(groups["last_7_days"], toListItem(item.Policy))
		case age <= 30*24*time.Hour:
			groups["last_30_days"] = append(groups["last_30_days"], toListItem(item.Policy))
		default:
			groups["older"] = append(groups["older"], toListItem(item.Policy))
		}
	}

	out := make(map[string]SavedGroup, len(groups))
	for name, policies := range groups {
		out[name] = SavedGroup{Count: len(policies), Policies: policies}
	}
	return out
}
