// Package api exposes the analyzer over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"filmintel/internal/analysis"
	"filmintel/internal/logging"
	"filmintel/internal/services"
)

// Synopses and screenplays share one request shape.
type storyRequest struct {
	Story string `json:"story"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server wires the analyzer endpoints into a gin engine.
type Server struct {
	analyzer       *analysis.Analyzer
	frontendOrigin string
	logger         *slog.Logger
	engine         *gin.Engine
}

// Option customizes a Server.
type Option func(*Server)

// WithFrontendOrigin sets the origin allowed by CORS.
func WithFrontendOrigin(origin string) Option {
	return func(s *Server) {
		s.frontendOrigin = strings.TrimSpace(origin)
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the HTTP surface around an analyzer.
func NewServer(analyzer *analysis.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestID())
	engine.Use(s.cors())
	engine.Use(s.requestLog())

	engine.GET("/healthz", s.handleHealth)
	engine.POST("/analyze", s.handleAnalyze)
	engine.POST("/analyze_synopsis", s.handleAnalyzeSynopsis)

	s.engine = engine
	return s
}

// Handler returns the http.Handler for serving or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the supplied bind address until the listener fails.
func (s *Server) Run(bind string) error {
	return s.engine.Run(bind)
}

// requestID tags every request with a correlation id, honoring one the
// caller already supplied.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.frontendOrigin != "" {
			c.Header("Access-Control-Allow-Origin", s.frontendOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		attrs := []slog.Attr{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
		}
		attrs = append(attrs, logging.ContextFields(c.Request.Context())...)
		s.logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request handled", attrs...)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyzeSynopsis(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	report, err := s.analyzer.AnalyzeSynopsis(c.Request.Context(), req.Story)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	result, err := s.analyzer.AnalyzeScript(c.Request.Context(), req.Story)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps the service error markers onto HTTP statuses. Detail
// text is forwarded for validation problems only; upstream failures get a
// generic message so provider internals stay out of responses.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, services.ErrConfiguration):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: "analysis backend not configured"})
	default:
		s.logger.Error("analysis failed",
			logging.Error(err),
			logging.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: "analysis failed - please try again"})
	}
}
