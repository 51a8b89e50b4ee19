package report

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/hallucheck/internal/model"
)

// Meta identifies a rendered report
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	Source      string    `json:"source,omitempty"`
}

// Document is the JSON form of a credibility report
type Document struct {
	Meta         Meta                    `json:"meta"`
	Status       model.ReportStatus      `json:"status"`
	Message      string                  `json:"message,omitempty"`
	Overall      model.Credibility       `json:"overall"`
	Signals      []model.Signal          `json:"signals,omitempty"`
	Screening    model.ScreeningSummary  `json:"screening"`
	Extraction   model.ExtractionSummary `json:"extraction_summary"`
	Claims       []model.ClaimResult     `json:"claims"`
	OriginalText string                  `json:"original_text"`
}

// NewDocument arranges a report for JSON output
func NewDocument(r *model.Report) Document {
	claims := r.Claims
	if claims == nil {
		claims = []model.ClaimResult{}
	}
	return Document{
		Meta: Meta{
			GeneratedAt: r.GeneratedAt,
			Version:     r.Version,
			ID:          r.ID,
			Source:      r.Source,
		},
		Status:       r.Status,
		Message:      r.Message,
		Overall:      r.Credibility,
		Signals:      r.Signals,
		Screening:    r.Screening,
		Extraction:   r.Extraction,
		Claims:       claims,
		OriginalText: r.OriginalText,
	}
}

// JSON renders a credibility report as indented JSON
func JSON(r *model.Report) ([]byte, error) {
	return json.MarshalIndent(NewDocument(r), "", "  ")
}

// ScreeningJSON renders a screening report as indented JSON
func ScreeningJSON(r model.ScreeningReport) ([]byte, error) {
	if r.Verdicts == nil {
		r.Verdicts = []model.Verdict{}
	}
	return json.MarshalIndent(r, "", "  ")
}
