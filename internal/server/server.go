// Package server exposes the pipeline over HTTP. Thin glue only: bodies
// are forwarded into the pipeline and the response is always a
// well-formed plan-shaped JSON document, never a raw error.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora/planora/internal/model"
	"github.com/planora/planora/internal/pipeline"
)

// Server wraps the gin router around a pipeline
type Server struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	engine   *gin.Engine
}

// planRequest is the body accepted by both endpoints. All fields are
// optional: an empty doc falls back to the fixture document.
type planRequest struct {
	Doc     string `json:"doc"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// planResponse wraps a plan with an optional error field for degraded
// outcomes. Rules and open questions are always present, possibly empty.
type planResponse struct {
	model.Plan
	Error string `json:"error,omitempty"`
}

// New creates the HTTP boundary around the given pipeline
func New(p *pipeline.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		pipeline: p,
		logger:   logger,
		engine:   engine,
	}

	engine.POST("/plan", s.handlePlan)
	engine.POST("/plan/raw", s.handlePlanRaw)
	engine.GET("/healthz", s.handleHealth)

	return s
}

// Handler returns the underlying http.Handler, used directly in tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails
func (s *Server) Run(addr string) error {
	s.logger.Info("http boundary listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func (s *Server) handlePlan(c *gin.Context) {
	s.process(c, s.pipeline.ProcessDocument)
}

func (s *Server) handlePlanRaw(c *gin.Context) {
	s.process(c, s.pipeline.ProcessRaw)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) process(c *gin.Context, run func(ctx context.Context, text, documentID, version string) (model.Plan, error)) {
	var req planRequest
	// An empty body is fine: it means "process the fixture document"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, planResponse{
			Plan:  emptyPlan(req.Name, req.Version),
			Error: "invalid request body: " + err.Error(),
		})
		return
	}

	result, err := run(c.Request.Context(), req.Doc, req.Name, req.Version)
	if err != nil {
		// The pipeline still produced a structurally valid plan; surface
		// the failure alongside it rather than as a bare error.
		s.logger.Warn("plan processing degraded", zap.Error(err))
		c.JSON(http.StatusOK, planResponse{Plan: result, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, planResponse{Plan: result})
}

func emptyPlan(documentID, version string) model.Plan {
	if version == "" {
		version = pipeline.DefaultVersion
	}
	return model.Plan{
		DocumentID:    documentID,
		Version:       version,
		Rules:         []model.Rule{},
		OpenQuestions: []model.OpenQuestion{},
	}
}
