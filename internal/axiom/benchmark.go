package axiom

import (
	"fmt"
	"strings"
)

// BenchmarkCase is one reproducible screening check
type BenchmarkCase struct {
	Name string
	Run  func(s *Screener) (ok bool, detail string)
}

// BenchmarkDetail is the outcome of a single case
type BenchmarkDetail struct {
	Test   string `json:"test"`
	Pass   bool   `json:"pass"`
	Detail string `json:"actual"`
}

// BenchmarkResult summarizes a benchmark run
type BenchmarkResult struct {
	Passed  int               `json:"passed"`
	Total   int               `json:"total"`
	Score   string            `json:"score"`
	Details []BenchmarkDetail `json:"details"`
}

func expectFlagged(claim string) func(*Screener) (bool, string) {
	return func(s *Screener) (bool, string) {
		v := s.Verify(claim, Context{})
		return !v.Passed(), fmt.Sprintf("Flagged=%t, Violations=[%s]", !v.Passed(), strings.Join(Shorts(v.Violations), ", "))
	}
}

func expectSource(claim string) func(*Screener) (bool, string) {
	return func(s *Screener) (bool, string) {
		v := s.Verify(claim, Context{})
		return v.SourceRequired, fmt.Sprintf("Source required=%t, Confidence=%.2f", v.SourceRequired, v.Confidence)
	}
}

// BenchmarkCases are the built-in reference checks
var BenchmarkCases = []BenchmarkCase{
	{"Proper noun needs source verification (A9)",
		expectSource("Xiaokaikai Technology Ltd. was founded in 2024 in Shenzhen")},
	{"Self-contradiction detection (A2)",
		expectFlagged("This method always works but sometimes fails in edge cases")},
	{"Unsupported absolute causality (A3)",
		expectFlagged("This always causes improvement because it definitely proves the theory")},
	{"False dichotomy detection (A7)",
		expectFlagged("You have to choose: either accept this or fail completely")},
	{"Clean claim passes", func(s *Screener) (bool, string) {
		v := s.Verify("Research suggests that smaller models with better training data can outperform larger ones in specific tasks", Context{})
		return v.Passed(), fmt.Sprintf("Passed=%t, Confidence=%.2f", v.Passed(), v.Confidence)
	}},
	{"Multi-claim contradiction detection (A2)", func(s *Screener) (bool, string) {
		r := s.ScreenText("The company reported record profits in Q3 2024. "+
			"Revenue increased by 25% year over year. "+
			"The company reported significant losses in Q3 2024.", nil)
		return r.Summary.Flagged > 0, fmt.Sprintf("Flagged=%d/%d", r.Summary.Flagged, r.Summary.Total)
	}},
	{"Specific numbers need source (A9)",
		expectSource("The project processed 1500000 documents with 99.7% accuracy in 2025")},
	{"Existence denial detection (A1)",
		expectFlagged("Their contributions don't matter and they don't deserve recognition")},
	{"Short-term bias detection (A5)",
		expectFlagged("Let's use this quick fix hack as a temporary workaround")},
	{"Unverifiable model claim needs source (A9)",
		expectSource("claude-sonnet-4 does not exist as a real model in 2026")},
}

// RunBenchmark runs every built-in case
func RunBenchmark(s *Screener) BenchmarkResult {
	res := BenchmarkResult{Total: len(BenchmarkCases)}
	for _, c := range BenchmarkCases {
		ok, detail := c.Run(s)
		if ok {
			res.Passed++
		}
		res.Details = append(res.Details, BenchmarkDetail{Test: c.Name, Pass: ok, Detail: detail})
	}
	pct := 0.0
	if res.Total > 0 {
		pct = float64(res.Passed) / float64(res.Total) * 100
	}
	res.Score = fmt.Sprintf("%d/%d (%.0f%%)", res.Passed, res.Total, pct)
	return res
}
