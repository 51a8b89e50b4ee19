// Package metrics exposes Prometheus counters for screening, verification and API usage.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hallucheck"

var (
	// screenedClaims counts axiom screening outcomes.
	// Labels: outcome (pass, flagged, needs-source), axiom (A1..A9, empty on pass)
	screenedClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "screening",
		Name:      "claims_total",
		Help:      "Claims screened by outcome and triggering axiom",
	}, []string{"outcome", "axiom"})

	// judgments counts search-based verdicts.
	// Labels: verdict (VERIFIED ... ERROR)
	judgments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "judgments_total",
		Help:      "Claim judgments by verdict",
	}, []string{"verdict"})

	// apiErrors counts failed calls to hosted APIs.
	// Labels: service (anthropic, openai, tavily, ...), kind (auth, rate_limit, other)
	apiErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Failed external API calls by service and kind",
	}, []string{"service", "kind"})

	// cacheLookups counts search cache hits and misses.
	// Labels: result (hit, miss)
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "cache_lookups_total",
		Help:      "Search cache lookups by result",
	}, []string{"result"})

	// runDuration measures complete pipeline runs.
	// Labels: status (success, no_claims, error)
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Pipeline run duration in seconds",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"status"})

	// credibilityScore tracks the distribution of report scores.
	credibilityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "credibility_score",
		Help:      "Distribution of overall credibility scores",
		Buckets:   []float64{20, 40, 60, 80, 100},
	})
)

// RecordScreening records one screened claim.
func RecordScreening(outcome, axiom string) {
	screenedClaims.WithLabelValues(outcome, axiom).Inc()
}

// RecordJudgment records one claim verdict.
func RecordJudgment(verdict string) {
	judgments.WithLabelValues(verdict).Inc()
}

// RecordAPIError records a failed external call.
//
// Inputs:
//
//	service - API name, e.g. "anthropic" or "tavily".
//	kind - "auth", "rate_limit" or "other".
func RecordAPIError(service, kind string) {
	apiErrors.WithLabelValues(service, kind).Inc()
}

// RecordCacheLookup records a search cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordRun records a finished pipeline run and, when it produced one, its score.
func RecordRun(status string, durationSec float64, score int, scored bool) {
	runDuration.WithLabelValues(status).Observe(durationSec)
	if scored {
		credibilityScore.Observe(float64(score))
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
