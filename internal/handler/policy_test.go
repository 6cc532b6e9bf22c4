package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/models"
	"github.com/sharathb5/PolicyRadar/internal/repository"
)

type fakePolicyRepo struct {
	policies   map[int64]models.Policy
	history    map[int64][]models.PolicyChange
	listResult []models.Policy
	listTotal  int
	gotFilter  repository.ListFilter
}

func (r *fakePolicyRepo) GetBySourceItem(context.Context, string, string) (*models.Policy, error) {
	return nil, repository.ErrNotFound
}

func (r *fakePolicyRepo) GetByID(_ context.Context, id int64) (*models.Policy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePolicyRepo) Insert(context.Context, *models.Policy) error { return nil }

func (r *fakePolicyRepo) Refresh(context.Context, *models.Policy) error { return nil }
func (r *fakePolicyRepo) ApplyVersion(context.Context, *models.Policy, int, models.Diff) error {
	return nil
}

func (r *fakePolicyRepo) List(_ context.Context, filter repository.ListFilter) ([]models.Policy, int, error) {
	r.gotFilter = filter
	return r.listResult, r.listTotal, nil
}

func (r *fakePolicyRepo) History(_ context.Context, policyID int64) ([]models.PolicyChange, error) {
	return r.history[policyID], nil
}

func (r *fakePolicyRepo) TopByImpact(_ context.Context, limit int) ([]models.Policy, error) {
	if len(r.listResult) > limit {
		return r.listResult[:limit], nil
	}
	return r.listResult, nil
}

func samplePolicy() models.Policy {
	effective := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	return models.Policy{
		ID:            42,
		Source:        "eurlex",
		SourceItemID:  "csrd-2026",
		Title:         "Mandatory climate disclosure rule",
		Summary:       "Companies must report emissions.",
		Text:          "The regulation is adopted.",
		Version:       2,
		Jurisdiction:  models.JurisdictionEU,
		PolicyType:    models.PolicyTypeDisclosure,
		Status:        models.StatusAdopted,
		Scopes:        []int64{1, 3},
		Mandatory:     true,
		Sectors:       []string{"energy"},
		Confidence:    0.9,
		ImpactScore:   79,
		ImpactFactors: models.ImpactFactors{Mandatory: 20, TimeProximity: 20, ScopeCoverage: 14, SectorBreadth: 5, DisclosureComplexity: 20},
		EffectiveDate: &effective,
		LastUpdatedAt: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
	}
}

func newPolicyRouter(repo *fakePolicyRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewPolicyHandler(repo, zap.NewNop())
	router.GET("/policies", h.ListPolicies)
	router.GET("/policies/:id", h.GetPolicyByID)
	return router
}

func TestListPoliciesEnvelope(t *testing.T) {
	repo := &fakePolicyRepo{listResult: []models.Policy{samplePolicy()}, listTotal: 37}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/policies?region=EU&impact_min=60&scopes=1,3&page=2&page_size=10", nil)
	newPolicyRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items    []PolicyListItem `json:"items"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
		PageSize int              `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 37, body.Total)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.PageSize)
	require.Len(t, body.Items, 1)

	item := body.Items[0]
	assert.Equal(t, int64(42), item.ID)
	assert.Equal(t, "EUR-Lex", item.SourceNameOfficial)
	assert.Equal(t, models.JurisdictionEU, item.SourceNameSecondary)
	assert.NotEmpty(t, item.WhatMightChange)
	require.NotNil(t, item.EffectiveDate)
	assert.Equal(t, "2026-06-30", *item.EffectiveDate)

	assert.Equal(t, "EU", repo.gotFilter.Region)
	require.NotNil(t, repo.gotFilter.ImpactMin)
	assert.Equal(t, 60, *repo.gotFilter.ImpactMin)
	assert.Equal(t, []int64{1, 3}, repo.gotFilter.Scopes)
}

func TestListPoliciesRejectsBadParams(t *testing.T) {
	for _, query := range []string{
		"impact_min=high",
		"confidence_min=very",
		"scopes=1,two",
		"effective_before=June+2026",
		"page=first",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/policies?"+query, nil)
		newPolicyRouter(&fakePolicyRepo{}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestGetPolicyDetail(t *testing.T) {
	p := samplePolicy()
	repo := &fakePolicyRepo{
		policies: map[int64]models.Policy{42: p},
		history: map[int64][]models.PolicyChange{42: {{
			PolicyID:    42,
			VersionFrom: 1,
			VersionTo:   2,
			Diff:        models.Diff{"title": {Old: "a", New: "b"}},
		}}},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/policies/42", nil)
	newPolicyRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var detail PolicyDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, p.Summary, detail.Summary)
	assert.Equal(t, p.Text, detail.Text)
	assert.True(t, detail.Mandatory)
	assert.Equal(t, []string{"energy"}, detail.Sectors)
	assert.Equal(t, 2, detail.Version)
	assert.Equal(t, p.ImpactFactors, detail.ImpactFactors)
	require.Len(t, detail.History, 1)
	assert.Equal(t, 2, detail.History[0].VersionTo)
}

func TestGetPolicyNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/policies/999", nil)
	newPolicyRouter(&fakePolicyRepo{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Policy not found"}`, w.Body.String())
}

func TestGetPolicyInvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/policies/abc", nil)
	newPolicyRouter(&fakePolicyRepo{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
