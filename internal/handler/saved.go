package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/repository"
)

type SavedHandler interface {
	ListSaved(c *gin.Context)
	SavePolicy(c *gin.Context)
	UnsavePolicy(c *gin.Context)
}

type savedHandler struct {
	savedRepo  repository.SavedRepository
	policyRepo repository.PolicyRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewSavedHandler(savedRepo repository.SavedRepository, policyRepo repository.PolicyRepository, logger *zap.Logger) SavedHandler {
	return &savedHandler{savedRepo: savedRepo, policyRepo: policyRepo, logger: logger, now: time.Now}
}

// ListSaved handles GET /saved
func (h *savedHandler) ListSaved(c *gin.Context) {
	items, err := h.savedRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list saved policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve saved policies"})
		return
	}

	c.JSON(http.StatusOK, groupSaved(items, h.now()))
}

// SavePolicy handles POST /saved/:policy_id
func (h *savedHandler) SavePolicy(c *gin.Context) {
	id, ok := h.policyID(c)
	if !ok {
		return
	}

	if _, err := h.policyRepo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
			return
		}
		h.logger.Error("Failed to look up policy", zap.Int64("policy_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save policy"})
		return
	}

	if err := h.savedRepo.Save(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to save policy", zap.Int64("policy_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "policy_id": id})
}

// UnsavePolicy handles DELETE /saved/:policy_id
func (h *savedHandler) UnsavePolicy(c *gin.Context) {
	id, ok := h.policyID(c)
	if !ok {
		return
	}

	if err := h.savedRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Policy is not saved"})
			return
		}
		h.logger.Error("Failed to unsave policy", zap.Int64("policy_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": false, "policy_id": id})
}

func (h *savedHandler) policyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("policy_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return 0, false
	}
	return id, true
}
