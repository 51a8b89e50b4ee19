package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/hallucheck/internal/model"
)

func sampleReport() *model.Report {
	sources := []model.Source{
		{Title: "Official site", URL: "https://example.gov/a"},
		{Title: "", URL: "https://example.org/b"},
		{Title: "Encyclopedia", URL: "https://example.org/c"},
		{Title: "Fourth", URL: "https://example.org/d"},
	}
	return &model.Report{
		ID:          "rep-1",
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:     model.Version,
		Status:      model.StatusSuccess,
		Source:      "answer.txt",
		Claims: []model.ClaimResult{
			{
				Claim:  model.Claim{Text: "OpenAI released GPT-4 Turbo in November 2023"},
				Search: &model.SearchResult{Sources: sources},
				Comparison: model.Comparison{
					Judgment:   model.JudgmentVerified,
					Confidence: 0.95,
					Reasoning:  "Multiple reliable sources confirm",
					Supporting: []string{"Official blog post"},
				},
			},
			{
				Claim: model.Claim{Text: "GPT-4 Turbo is always 10x cheaper because of caching"},
				Screening: model.Verdict{
					Outcome:    model.OutcomeFlagged,
					Axiom:      model.AxiomCausality,
					Violations: []model.AxiomID{model.AxiomCausality},
				},
				Comparison: model.Comparison{
					Judgment:      model.JudgmentContradicted,
					Confidence:    0.85,
					Reasoning:     "Roughly 3x, not 10x",
					Contradicting: []string{"Pricing page shows about 3x"},
					Correction:    "About one third of the GPT-4 price",
				},
			},
		},
		Screening: model.ScreeningSummary{Total: 2, Passed: 1, Flagged: 1, RiskPercent: 50, Verdict: model.ScreeningDefects},
		Credibility: model.Credibility{
			Score: 48,
			Level: model.LevelLow,
			Stats: map[model.Judgment]int{
				model.JudgmentVerified:     1,
				model.JudgmentContradicted: 1,
			},
			TotalClaims: 2,
		},
		OriginalText: "OpenAI released GPT-4 Turbo...",
	}
}

func TestMarkdown_English(t *testing.T) {
	md := Markdown(sampleReport(), English)

	for _, want := range []string{
		"# 🔍 AI Hallucination Check Report",
		"**Source**: answer.txt",
		"**Credibility score**: 48/100",
		"**Level**: Low credibility 🟠",
		"- ✅ Verified: 1 claim(s)",
		"- ❌ Contradicted: 1 claim(s)",
		"**Screening verdict**: STRUCTURAL DEFECTS DETECTED",
		"1 passed, 1 flagged, 0 need a source (hallucination risk 50%)",
		"### ✅ Claim 1: Verified",
		"> OpenAI released GPT-4 Turbo in November 2023",
		"**Confidence**: 95%",
		"**Supporting evidence**:\n- Official blog post",
		"### ❌ Claim 2: Contradicted",
		"**Correct information**: About one third of the GPT-4 price",
		"**Structural flags**: 🚩 A3 Causality cannot be erased",
		"- [Official site](https://example.gov/a)",
		"- [Link](https://example.org/b)",
		"## ⚠️ Disclaimer",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	if strings.Contains(md, "Fourth") {
		t.Error("Expected at most 3 sources per claim")
	}
	if strings.Contains(md, "Error:") {
		t.Error("Expected error count omitted when zero")
	}
}

func TestMarkdown_Chinese(t *testing.T) {
	md := Markdown(sampleReport(), Chinese)

	for _, want := range []string{
		"# 🔍 AI幻觉检测报告",
		"**可信度评分**: 48/100",
		"**评估等级**: 低可信度 🟠",
		"- ✅ 已验证: 1 条",
		"### ❌ 声明 2: 存在矛盾",
		"**置信度**: 85%",
		"**正确信息**",
		"## ⚠️ 免责声明",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestMarkdown_NoClaims(t *testing.T) {
	r := &model.Report{
		Status:      model.StatusNoClaims,
		Message:     model.NoClaimsMessage,
		GeneratedAt: time.Now(),
	}

	md := Markdown(r, English)
	if !strings.Contains(md, model.NoClaimsMessage) {
		t.Error("Expected no-claims message")
	}
	if strings.Contains(md, "Credibility score") {
		t.Error("Expected no score section without claims")
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleReport())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	meta, ok := doc["meta"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected meta object")
	}
	if meta["id"] != "rep-1" || meta["version"] != model.Version {
		t.Errorf("Unexpected meta: %v", meta)
	}
	if meta["generated_at"] != "2025-03-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp: %v", meta["generated_at"])
	}

	overall := doc["overall"].(map[string]interface{})
	if overall["score"] != float64(48) || overall["level"] != "low" {
		t.Errorf("Unexpected overall: %v", overall)
	}
	if claims := doc["claims"].([]interface{}); len(claims) != 2 {
		t.Errorf("Expected 2 claims, got %d", len(claims))
	}
	if doc["original_text"] != "OpenAI released GPT-4 Turbo..." {
		t.Errorf("Unexpected original text: %v", doc["original_text"])
	}
}

func TestJSON_EmptyClaimsIsArray(t *testing.T) {
	data, err := JSON(&model.Report{Status: model.StatusNoClaims})
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"claims": []`)) {
		t.Errorf("Expected empty claims array, got %s", data)
	}
}

func screeningSample() model.ScreeningReport {
	verdicts := []model.Verdict{
		{Claim: "You have to accept this plan today.", Outcome: model.OutcomeFlagged, Axiom: model.AxiomChoice, Violations: []model.AxiomID{model.AxiomChoice}, Confidence: 0.8},
		{Claim: "Acme Corp. was founded in 1998.", Outcome: model.OutcomeNeedsSource, Axiom: model.AxiomTransparency, SourceRequired: true, Confidence: 0.7,
			Advisory: []string{"Requires source verification.", "No source provided."}},
		{Claim: "Water is wet and cold.", Outcome: model.OutcomePass, Confidence: 1},
	}
	return model.ScreeningReport{Summary: model.Summarize(verdicts), Verdicts: verdicts}
}

func TestScreeningMarkdown(t *testing.T) {
	md := ScreeningMarkdown(screeningSample(), English)

	for _, want := range []string{
		"**Screening verdict**: STRUCTURAL DEFECTS DETECTED",
		"1 passed, 1 flagged, 1 need a source",
		"1. 🚩 You have to accept this plan today.",
		"   - Structural flags: A7 Choice space is freedom",
		"2. 📋 Acme Corp. was founded in 1998.",
		"   - Requires source verification. No source provided.",
		"3. ✅ Water is wet and cold.",
		"   - Confidence: 100%",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected screening markdown to contain %q\n%s", want, md)
		}
	}
}

func TestScreeningJSON(t *testing.T) {
	data, err := ScreeningJSON(model.ScreeningReport{Summary: model.Summarize(nil)})
	if err != nil {
		t.Fatalf("ScreeningJSON failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"verdicts": []`)) {
		t.Errorf("Expected empty verdicts array, got %s", data)
	}
	if !bytes.Contains(data, []byte(`"verdict": "PASSED AXIOM SCREENING"`)) {
		t.Errorf("Expected passed verdict, got %s", data)
	}
}

func TestParseFormatAndLanguage(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Error("Expected error for unknown format")
	}

	if ParseLanguage("zh-CN") != Chinese || ParseLanguage("fr") != English {
		t.Error("Unexpected language mapping")
	}
}

func TestRenderer_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.json")
	if err := NewRenderer(English).WriteFile(sampleReport(), FormatJSON, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !json.Valid(data) {
		t.Error("Expected valid JSON on disk")
	}
}

func TestPrint_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, []byte("# Title"), FormatMarkdown); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if buf.String() != "# Title\n" {
		t.Errorf("Expected plain markdown with trailing newline, got %q", buf.String())
	}
	if IsTerminal(&buf) {
		t.Error("Expected buffer not to be a terminal")
	}
}

func TestLabels(t *testing.T) {
	if JudgmentLabel(model.JudgmentError, Chinese) != "判定出错" {
		t.Error("Unexpected Chinese error label")
	}
	if Emoji(model.JudgmentUnverified) != "❓" || Emoji(model.JudgmentError) != "🔴" {
		t.Error("Unexpected emoji")
	}
	if LevelLabel(model.LevelHigh, English) != "High credibility 🟢" {
		t.Error("Unexpected level label")
	}
}
