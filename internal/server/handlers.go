package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/extract"
	"github.com/ppiankov/hallucheck/internal/metrics"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/report"
)

// CheckRequest is the body of POST /api/v1/check and the dashboard form
type CheckRequest struct {
	Text     string `json:"text" form:"text"`
	Language string `json:"language" form:"language"`
}

// ScreenRequest is the body of POST /api/v1/screen
type ScreenRequest struct {
	Text        string            `json:"text" form:"text"`
	GroundTruth map[string]string `json:"ground_truth"`
	MultiScale  map[string]string `json:"multi_scale"` // Observed behavior per scale, for A4
	Language    string            `json:"language" form:"language"`
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.indexView("", nil))
}

func (s *Server) checkForm(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "index.html", s.indexView(req.Text, err))
		return
	}

	r, err := s.check(c.Request.Context(), req.Text)
	if err != nil {
		c.HTML(errorStatus(err), "index.html", s.indexView(req.Text, err))
		return
	}

	c.HTML(http.StatusOK, "results.html", newResultsView(r, s.language(req.Language)))
}

func (s *Server) apiCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	r, err := s.check(c.Request.Context(), req.Text)
	if err != nil {
		abortWithError(c, errorStatus(err), errorCode(err), errorMessage(err))
		return
	}

	if strings.EqualFold(c.Query("format"), "markdown") {
		md := report.Markdown(r, s.language(req.Language))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "hallucheck-report-"+r.ID+".md"))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	c.JSON(http.StatusOK, report.NewDocument(r))
}

func (s *Server) apiScreen(c *gin.Context) {
	var req ScreenRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		abortWithError(c, http.StatusBadRequest, "EMPTY_TEXT", errorMessage(extract.ErrEmptyText))
		return
	}

	r := s.screener.ScreenTextWithScales(req.Text, req.GroundTruth, req.MultiScale)
	for _, v := range r.Verdicts {
		metrics.RecordScreening(string(v.Outcome), string(v.Axiom))
	}

	if strings.EqualFold(c.Query("format"), "markdown") {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.ScreeningMarkdown(r, s.language(req.Language))))
		return
	}
	if r.Verdicts == nil {
		r.Verdicts = []model.Verdict{}
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) axioms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"axioms": axiom.All()})
}

func (s *Server) health(c *gin.Context) {
	status := gin.H{
		"status":         "ok",
		"version":        model.Version,
		"checks_enabled": s.setupErr == nil,
	}
	if s.setupErr != nil {
		status["config_error"] = apierr.UserMessage(s.setupErr)
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) check(ctx context.Context, text string) (*model.Report, error) {
	if s.setupErr != nil {
		return nil, s.setupErr
	}
	if strings.TrimSpace(text) == "" {
		return nil, extract.ErrEmptyText
	}

	r, err := s.checker.Run(ctx, text)
	if err != nil {
		s.logger.Warn("check failed", zap.Error(err))
		return nil, err
	}
	return r, nil
}

func (s *Server) language(requested string) report.Language {
	if requested == "" {
		return s.lang
	}
	return report.ParseLanguage(requested)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, extract.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, apierr.ErrMissingAPIKey), errors.Is(err, apierr.ErrConfig):
		return http.StatusServiceUnavailable
	case apierr.IsRateLimit(err):
		return http.StatusTooManyRequests
	case apierr.IsAuth(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch errorStatus(err) {
	case http.StatusBadRequest:
		return "EMPTY_TEXT"
	case http.StatusServiceUnavailable:
		return "NOT_CONFIGURED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusBadGateway:
		return "UPSTREAM_AUTH"
	case http.StatusGatewayTimeout:
		return "TIMEOUT"
	default:
		return "CHECK_FAILED"
	}
}

func errorMessage(err error) string {
	if errors.Is(err, extract.ErrEmptyText) {
		return "Please enter the text to check"
	}
	return apierr.UserMessage(err)
}
