package handler

import (
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
)

func TestPreviewDigest(t *testing.T) {
	var policies []models.Policy
	for i := 0; i < 7; i++ {
		p := samplePolicy()
		p.ID = int64(i + 1)
		p.ImpactScore = 90 - i*10
		policies = append(policies, p)
	}
	repo := &fakePolicyRepo{listResult: policies}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewDigestHandler(repo, zap.NewNop()).(*digestHandler)
	generated := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return generated }
	router.POST("/digest/preview", h.PreviewDigest)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/digest/preview", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Top5        []PolicyListItem `json:"top5"`
		GeneratedAt string           `json:"generated_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Top5, 5)
	assert.Equal(t, 90, body.Top5[0].ImpactScore)
	assert.Equal(t, "2025-10-15T12:00:00Z", body.GeneratedAt)
}
