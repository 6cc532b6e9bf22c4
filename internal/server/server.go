package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/handler"
	"github.com/sharathb5/PolicyRadar/internal/ingest"
	"github.com/sharathb5/PolicyRadar/internal/middleware"
	"github.com/sharathb5/PolicyRadar/internal/repository"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	pipeline *ingest.Pipeline
	apiKey   string
	logger   *zap.Logger
}

func NewServer(db *sqlx.DB, pipeline *ingest.Pipeline, apiKey string, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		pipeline: pipeline,
		apiKey:   apiKey,
		logger:   logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	policyRepo := repository.NewPolicyRepository(s.db, s.logger)
	runRepo := repository.NewRunRepository(s.db, s.logger)
	savedRepo := repository.NewSavedRepository(s.db, s.logger)

	healthHandler := handler.NewHealthHandler(s.db, runRepo, s.logger)
	policyHandler := handler.NewPolicyHandler(policyRepo, s.logger)
	savedHandler := handler.NewSavedHandler(savedRepo, policyRepo, s.logger)
	digestHandler := handler.NewDigestHandler(policyRepo, s.logger)
	ingestHandler := handler.NewIngestHandler(s.pipeline, s.logger)

	// Health check stays open; everything else is behind the API key.
	s.router.GET("/healthz", healthHandler.Healthz)

	authed := s.router.Group("/")
	authed.Use(middleware.APIKey(s.apiKey, s.logger))
	{
		authed.GET("/policies", policyHandler.ListPolicies)
		authed.GET("/policies/:id", policyHandler.GetPolicyByID)
		authed.GET("/saved", savedHandler.ListSaved)
		authed.POST("/saved/:policy_id", savedHandler.SavePolicy)
		authed.DELETE("/saved/:policy_id", savedHandler.UnsavePolicy)
		authed.POST("/digest/preview", digestHandler.PreviewDigest)
		authed.POST("/ingest/:source", ingestHandler.TriggerIngest)
	}
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
