package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChecker struct {
	report *model.Report
	err    error
	text   string
}

func (f *fakeChecker) Run(ctx context.Context, text string) (*model.Report, error) {
	f.text = text
	return f.report, f.err
}

func sampleReport() *model.Report {
	return &model.Report{
		ID:          "abc-123",
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:     model.Version,
		Status:      model.StatusSuccess,
		Claims: []model.ClaimResult{{
			Claim: model.Claim{Text: "The Eiffel Tower opened in 1889"},
			Search: &model.SearchResult{Sources: []model.Source{
				{Title: "Eiffel Tower", URL: "https://example.org/eiffel"},
			}},
			Comparison: model.Comparison{Judgment: model.JudgmentVerified, Confidence: 0.9, Reasoning: "Confirmed"},
		}},
		Screening: model.ScreeningSummary{Total: 1, NeedsSource: 1, Verdict: model.ScreeningNeedsSource},
		Credibility: model.Credibility{
			Score:       90,
			Level:       model.LevelHigh,
			Stats:       map[model.Judgment]int{model.JudgmentVerified: 1},
			TotalClaims: 1,
		},
	}
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := New(&fakeChecker{}, nil)
	w := do(t, s, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, model.Version, body["version"])
	assert.Equal(t, true, body["checks_enabled"])
}

func TestIndex(t *testing.T) {
	w := do(t, New(&fakeChecker{}, nil), http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AI Hallucination Detector")
	assert.Contains(t, w.Body.String(), "GPT-4 Turbo facts")
	assert.NotContains(t, w.Body.String(), "Full checks are disabled")
}

func TestAPICheck_JSON(t *testing.T) {
	checker := &fakeChecker{report: sampleReport()}
	w := do(t, New(checker, nil), http.MethodPost, "/api/v1/check", "application/json", `{"text": "The Eiffel Tower opened in 1889."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Eiffel Tower opened in 1889.", checker.text)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	meta := doc["meta"].(map[string]interface{})
	assert.Equal(t, "abc-123", meta["id"])
	overall := doc["overall"].(map[string]interface{})
	assert.Equal(t, float64(90), overall["score"])
}

func TestAPICheck_Markdown(t *testing.T) {
	w := do(t, New(&fakeChecker{report: sampleReport()}, nil), http.MethodPost, "/api/v1/check?format=markdown", "application/json", `{"text": "x", "language": "zh"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "hallucheck-report-abc-123.md")
	assert.Contains(t, w.Body.String(), "AI幻觉检测报告")
}

func TestAPICheck_Errors(t *testing.T) {
	tests := []struct {
		name     string
		checker  *fakeChecker
		setupErr error
		body     string
		want     int
		wantCode string
	}{
		{"empty text", &fakeChecker{}, nil, `{"text": "   "}`, http.StatusBadRequest, "EMPTY_TEXT"},
		{"bad json", &fakeChecker{}, nil, `{"text": `, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing keys", nil, apierr.MissingKey("TAVILY_API_KEY"), `{"text": "hello there"}`, http.StatusServiceUnavailable, "NOT_CONFIGURED"},
		{"rate limited", &fakeChecker{err: &apierr.Error{Service: "tavily", StatusCode: http.StatusTooManyRequests}}, nil, `{"text": "hello there"}`, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"bad upstream key", &fakeChecker{err: &apierr.Error{Service: "anthropic", StatusCode: http.StatusUnauthorized}}, nil, `{"text": "hello there"}`, http.StatusBadGateway, "UPSTREAM_AUTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checker Checker
			if tt.checker != nil {
				checker = tt.checker
			}
			w := do(t, New(checker, tt.setupErr), http.MethodPost, "/api/v1/check", "application/json", tt.body)

			require.Equal(t, tt.want, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestMissingKeys_ScreeningStillWorks(t *testing.T) {
	s := New(nil, apierr.MissingKey("ANTHROPIC_API_KEY"))

	w := do(t, s, http.MethodGet, "/", "", "")
	assert.Contains(t, w.Body.String(), "ANTHROPIC_API_KEY")

	w = do(t, s, http.MethodPost, "/api/v1/screen", "application/json",
		`{"text": "You have to accept this plan today. Water is wet and cold."}`)
	require.Equal(t, http.StatusOK, w.Code)

	var r model.ScreeningReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, 2, r.Summary.Total)
	assert.Equal(t, 1, r.Summary.Flagged)
	assert.Equal(t, model.ScreeningDefects, r.Summary.Verdict)

	w = do(t, s, http.MethodGet, "/health", "", "")
	assert.Contains(t, w.Body.String(), `"checks_enabled":false`)
}

func TestAPIScreen_GroundTruthAndMarkdown(t *testing.T) {
	s := New(&fakeChecker{}, nil)

	w := do(t, s, http.MethodPost, "/api/v1/screen", "application/json",
		`{"text": "Everyone agrees the launch was a failure overall.", "ground_truth": {"the launch": "a success"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var r model.ScreeningReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	require.Len(t, r.Verdicts, 1)
	assert.Equal(t, model.OutcomeFlagged, r.Verdicts[0].Outcome)

	w = do(t, s, http.MethodPost, "/api/v1/screen?format=markdown", "application/json", `{"text": "Water is wet and cold."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PASSED AXIOM SCREENING")

	w = do(t, s, http.MethodPost, "/api/v1/screen", "application/json", `{"text": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIScreen_MultiScale(t *testing.T) {
	s := New(&fakeChecker{}, nil)

	w := do(t, s, http.MethodPost, "/api/v1/screen", "application/json",
		`{"text": "The team shares credit fairly.", "multi_scale": {"team": "cooperative", "company": "hostile"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var r model.ScreeningReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	require.Len(t, r.Verdicts, 1)
	assert.Equal(t, model.OutcomeFlagged, r.Verdicts[0].Outcome)
	assert.Equal(t, model.AxiomFractal, r.Verdicts[0].Axiom)

	w = do(t, s, http.MethodPost, "/api/v1/screen", "application/json", `{"text": "The team shares credit fairly."}`)
	require.Equal(t, http.StatusOK, w.Code)
	var plain model.ScreeningReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plain))
	require.Len(t, plain.Verdicts, 1)
	assert.Equal(t, model.OutcomePass, plain.Verdicts[0].Outcome)
}

func TestAxioms(t *testing.T) {
	w := do(t, New(&fakeChecker{}, nil), http.MethodGet, "/api/v1/axioms", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Axioms []struct {
			ID       string `json:"id"`
			Advisory bool   `json:"advisory"`
		} `json:"axioms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Axioms, 9)
	assert.Equal(t, "A1", body.Axioms[0].ID)
	assert.True(t, body.Axioms[8].Advisory)
}

func TestCheckForm(t *testing.T) {
	checker := &fakeChecker{report: sampleReport()}
	form := url.Values{"text": {"The Eiffel Tower opened in 1889."}, "language": {"en"}}
	w := do(t, New(checker, nil), http.MethodPost, "/check", "application/x-www-form-urlencoded", form.Encode())

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "score-high")
	assert.Contains(t, body, "The Eiffel Tower opened in 1889")
	assert.Contains(t, body, "https://example.org/eiffel")
	assert.Contains(t, body, "hallucheck-report-abc-123.md")
}

func TestCheckForm_NoClaims(t *testing.T) {
	r := &model.Report{ID: "n1", Status: model.StatusNoClaims, Message: model.NoClaimsMessage}
	form := url.Values{"text": {"I think pizza is great."}}
	w := do(t, New(&fakeChecker{report: r}, nil), http.MethodPost, "/check", "application/x-www-form-urlencoded", form.Encode())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No verifiable factual claims")
}

func TestCheckForm_EmptyText(t *testing.T) {
	w := do(t, New(&fakeChecker{}, nil), http.MethodPost, "/check", "application/x-www-form-urlencoded", "text=")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter the text to check")
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(&fakeChecker{}, nil)
	do(t, s, http.MethodPost, "/api/v1/screen", "application/json", `{"text": "You have to accept this plan today."}`)

	w := do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hallucheck_screening_claims_total")
}

func TestScoreClass(t *testing.T) {
	assert.Equal(t, "score-high", scoreClass(75))
	assert.Equal(t, "score-medium", scoreClass(50))
	assert.Equal(t, "score-low", scoreClass(49))
}
