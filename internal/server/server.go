// Package server serves the web dashboard and the JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/metrics"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"emoji":   report.Emoji,
	"outcome": report.OutcomeIcon,
}).ParseFS(templateFS, "templates/*.html"))

// Checker runs the full check pipeline on text
type Checker interface {
	Run(ctx context.Context, text string) (*model.Report, error)
}

// Server is the dashboard HTTP server
type Server struct {
	checker  Checker
	setupErr error
	screener *axiom.Screener
	lang     report.Language
	logger   *zap.Logger
	router   *gin.Engine
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLanguage sets the default report language
func WithLanguage(lang report.Language) Option {
	return func(s *Server) {
		s.lang = lang
	}
}

// New creates the server. When the pipeline could not be built, checker is nil
// and setupErr explains why: check endpoints then answer 503 while screening,
// axioms and health keep working.
func New(checker Checker, setupErr error, opts ...Option) *Server {
	s := &Server{
		checker:  checker,
		setupErr: setupErr,
		screener: axiom.NewScreener(),
		lang:     report.English,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.checker == nil && s.setupErr == nil {
		s.setupErr = errors.New("checker not configured")
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.SetHTMLTemplate(templates)

	r.GET("/", s.index)
	r.POST("/check", s.checkForm)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/check", s.apiCheck)
		api.POST("/screen", s.apiScreen)
		api.GET("/axioms", s.axioms)
	}

	return r
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("dashboard shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
