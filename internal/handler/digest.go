package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/repository"
)

const digestSize = 5

type DigestHandler interface {
	PreviewDigest(c *gin.Context)
}

type digestHandler struct {
	policyRepo repository.PolicyRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewDigestHandler(policyRepo repository.PolicyRepository, logger *zap.Logger) DigestHandler {
	return &digestHandler{policyRepo: policyRepo, logger: logger, now: time.Now}
}

// PreviewDigest handles POST /digest/preview
func (h *digestHandler) PreviewDigest(c *gin.Context) {
	policies, err := h.policyRepo.TopByImpact(c.Request.Context(), digestSize)
	if err != nil {
		h.logger.Error("Failed to build digest preview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build digest preview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top5":         toListItems(policies),
		"generated_at": h.now().UTC().Format(time.RFC3339),
	})
}
