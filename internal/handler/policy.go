package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/repository"
)

type PolicyHandler interface {
	ListPolicies(c *gin.Context)
	GetPolicyByID(c *gin.Context)
}

type policyHandler struct {
	policyRepo repository.PolicyRepository
	logger     *zap.Logger
}

func NewPolicyHandler(policyRepo repository.PolicyRepository, logger *zap.Logger) PolicyHandler {
	return &policyHandler{policyRepo: policyRepo, logger: logger}
}

// ListPolicies handles GET /policies
func (h *policyHandler) ListPolicies(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policies, total, err := h.policyRepo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve policies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     toListItems(policies),
		"total":     total,
		"page":      filter.PageOrDefault(),
		"page_size": filter.PageSizeOrDefault(),
	})
}

// GetPolicyByID handles GET /policies/:id
func (h *policyHandler) GetPolicyByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	policy, err := h.policyRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
			return
		}
		h.logger.Error("Failed to get policy", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve policy"})
		return
	}

	history, err := h.policyRepo.History(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get policy history", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve policy"})
		return
	}

	c.JSON(http.StatusOK, toDetail(*policy, history))
}

// bindListFilter parses the /policies query parameters. Unknown sort values
// fall through to the repository's default ordering; malformed numbers and
// dates are a client error.
func bindListFilter(c *gin.Context) (repository.ListFilter, error) {
	filter := repository.ListFilter{
		Q:          c.Query("q"),
		Region:     c.Query("region"),
		PolicyType: c.Query("policy_type"),
		Status:     c.Query("status"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}

	if raw := c.Query("scopes"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			scope, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return filter, errors.New("scopes must be a comma-separated list of integers")
			}
			filter.Scopes = append(filter.Scopes, scope)
		}
	}
	if raw := c.Query("impact_min"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("impact_min must be an integer")
		}
		filter.ImpactMin = &v
	}
	if raw := c.Query("confidence_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("confidence_min must be a number")
		}
		filter.ConfidenceMin = &v
	}
	if raw := c.Query("effective_before"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("effective_before must be YYYY-MM-DD")
		}
		filter.EffectiveBefore = &t
	}
	if raw := c.Query("effective_after"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("effective_after must be YYYY-MM-DD")
		}
		filter.EffectiveAfter = &t
	}
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("page must be an integer")
		}
		filter.Page = v
	}
	if raw := c.Query("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("page_size must be an integer")
		}
		filter.PageSize = v
	}

	return filter, nil
}
