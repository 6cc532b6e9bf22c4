package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/models"
	"github.com/sharathb5/PolicyRadar/internal/repository"
)

const healthRunHistory = 10

type HealthHandler interface {
	Healthz(c *gin.Context)
}

type healthHandler struct {
	db      *sqlx.DB
	runRepo repository.RunRepository
	logger  *zap.Logger
}

func NewHealthHandler(db *sqlx.DB, runRepo repository.RunRepository, logger *zap.Logger) HealthHandler {
	return &healthHandler{db: db, runRepo: runRepo, logger: logger}
}

// Healthz handles GET /healthz. It is the only unauthenticated endpoint and
// always answers 200; degradation shows up in the body, not the status code.
func (h *healthHandler) Healthz(c *gin.Context) {
	status := "healthy"
	database := "connected"
	lastRuns := []models.IngestRun{}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error("Database ping failed", zap.Error(err))
		status = "unhealthy"
		database = "disconnected"
	} else {
		runs, err := h.runRepo.LastRuns(c.Request.Context(), healthRunHistory)
		if err != nil {
			h.logger.Error("Failed to load recent runs", zap.Error(err))
			status = "unhealthy"
		} else if runs != nil {
			lastRuns = runs
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"database":  database,
		"last_runs": lastRuns,
	})
}
