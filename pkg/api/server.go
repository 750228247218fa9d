// Package api exposes the HTTP surface: the Slack events webhook and
// operational endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/analyza-ai/analyza/pkg/config"
	"github.com/analyza-ai/analyza/pkg/database"
	"github.com/analyza-ai/analyza/pkg/orchestrator"
	"github.com/analyza-ai/analyza/pkg/session"
	"github.com/analyza-ai/analyza/pkg/slack"
	"github.com/analyza-ai/analyza/pkg/version"
)

// Server wires the webhook to the orchestration pipeline.
type Server struct {
	cfg        *config.Config
	db         *database.Client
	sessions   *session.Manager
	orch       *orchestrator.Orchestrator
	slack      *slack.Client
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the API server over its collaborators.
func NewServer(cfg *config.Config, db *database.Client, sessions *session.Manager, orch *orchestrator.Orchestrator, slackClient *slack.Client) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		orch:     orch,
		slack:    slackClient,
		logger:   slog.Default().With("component", "api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.Info)
	router.GET("/health", s.Health)
	router.POST("/slack/events", s.SlackEvents)

	return router
}

// Start runs the HTTP server until Shutdown or failure.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Info describes the API for whoever opens the base URL.
func (s *Server) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     s.cfg.Bot.Name + " assistant API",
		"version":     version.Full(),
		"description": "Processes chat mentions with warehouse and visualization capabilities",
		"endpoints": gin.H{
			"slack_events": gin.H{
				"path":        "/slack/events",
				"method":      "POST",
				"description": "Slack Events API webhook",
			},
			"health": gin.H{
				"path":        "/health",
				"method":      "GET",
				"description": "Service and database health",
			},
		},
	})
}

// Health reports service liveness plus warehouse pool health.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := s.db.Health(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealth,
	})
}
