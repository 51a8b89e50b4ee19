package model

import "time"

// ReportStatus tells whether a report carries claim results
type ReportStatus string

const (
	StatusSuccess  ReportStatus = "success"
	StatusNoClaims ReportStatus = "no_claims"
)

// NoClaimsMessage is shown when the text contains nothing checkable
const NoClaimsMessage = "No verifiable factual claims found in the text (it may be opinion or advice)."

// Report represents the complete credibility report for one input text
type Report struct {
	ID           string       `json:"id"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Version      string       `json:"version"`
	Status       ReportStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
	Source       string       `json:"source,omitempty"`        // File path or URL the text came from
	OriginalText string       `json:"original_text,omitempty"` // Truncated input text

	Extraction ExtractionSummary `json:"extraction_summary"`
	Claims     []ClaimResult     `json:"claims"`

	Screening   ScreeningSummary `json:"screening"`
	Credibility Credibility      `json:"overall"`
	Signals     []Signal         `json:"signals,omitempty"`
}

// ExtractionSummary is the extractor's own account of the text
type ExtractionSummary struct {
	TotalFound int    `json:"total_claims_found"`
	Opinions   int    `json:"opinion_statements"`
	Note       string `json:"note,omitempty"`
}

// Credibility is the overall score derived from judgments
type Credibility struct {
	Score       int              `json:"score"` // 0-100
	Level       Level            `json:"level"`
	Stats       map[Judgment]int `json:"stats"`
	TotalClaims int              `json:"total_claims"`
}

// Level buckets the credibility score
type Level string

const (
	LevelHigh    Level = "high"
	LevelMedium  Level = "medium"
	LevelLow     Level = "low"
	LevelSerious Level = "serious"
	LevelNoData  Level = "no_data"
)

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalJudgmentDistribution  SignalType = "judgment_distribution"
	SignalStructuralDefects     SignalType = "structural_defects"
	SignalSourceRequired        SignalType = "source_required"
	SignalAuthorityDistribution SignalType = "authority_distribution"
	SignalContradiction         SignalType = "contradiction"
	SignalPipelineErrors        SignalType = "pipeline_errors"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
