package server

import (
	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/report"
)

// example is a canned input offered on the form
type example struct {
	Name string
	Text string
}

var examples = []example{
	{
		Name: "GPT-4 Turbo facts (contains errors)",
		Text: "OpenAI released GPT-4 Turbo in November 2023, at a price 10 times lower than GPT-4. More than 2 million developers already use the GPT-4 Turbo API. GPT-4 Turbo extended the context window to 128K tokens.",
	},
	{
		Name: "China economic data",
		Text: "According to the latest data, China's GDP grew 5.2% in 2024, beating the government's 5% target. China is the world's second largest economy, with a GDP of about 18 trillion US dollars.",
	},
	{
		Name: "AI industry news (mixed)",
		Text: "Anthropic was founded by former OpenAI VP of Research Dario Amodei and is headquartered in San Francisco. In 2024 Anthropic received a 10 billion dollar investment from Google. Claude 3.5 Sonnet was the strongest AI model of 2024, beating GPT-4 on every benchmark.",
	},
	{
		Name: "GPT-4信息（中文）",
		Text: "OpenAI在2023年11月发布了GPT-4 Turbo，价格比GPT-4降低了10倍。目前已有超过200万开发者在使用GPT-4 Turbo API。GPT-4 Turbo的上下文窗口扩展到了128K tokens。",
	},
}

type indexView struct {
	Text        string
	Error       string
	ConfigError string
	Examples    []example
}

func (s *Server) indexView(text string, err error) indexView {
	v := indexView{Text: text, Examples: examples}
	if err != nil {
		v.Error = errorMessage(err)
	}
	if s.setupErr != nil {
		v.ConfigError = apierr.UserMessage(s.setupErr)
	}
	return v
}

type statView struct {
	Emoji string
	Label string
	Count int
}

type cardView struct {
	N             int
	Judgment      model.Judgment
	Label         string
	Class         string
	Claim         string
	Confidence    int
	Reasoning     string
	Supporting    []string
	Contradicting []string
	Correction    string
	Screening     model.Outcome
	Flags         []string
	Sources       []model.Source
	Error         string
}

type resultsView struct {
	Report     *model.Report
	Score      int
	ScoreClass string
	Level      string
	NoClaims   bool
	Message    string
	Stats      []statView
	Screening  model.ScreeningSummary
	Cards      []cardView
	Markdown   string
}

func newResultsView(r *model.Report, lang report.Language) resultsView {
	v := resultsView{
		Report:     r,
		Score:      r.Credibility.Score,
		ScoreClass: scoreClass(r.Credibility.Score),
		Level:      report.LevelLabel(r.Credibility.Level, lang),
		NoClaims:   r.Status == model.StatusNoClaims,
		Message:    r.Message,
		Screening:  r.Screening,
		Markdown:   report.Markdown(r, lang),
	}

	for _, j := range model.Judgments {
		v.Stats = append(v.Stats, statView{
			Emoji: report.Emoji(j),
			Label: report.JudgmentLabel(j, lang),
			Count: r.Credibility.Stats[j],
		})
	}

	for i, c := range r.Claims {
		card := cardView{
			N:             i + 1,
			Judgment:      c.Comparison.Judgment,
			Label:         report.JudgmentLabel(c.Comparison.Judgment, lang),
			Class:         verdictClass(c.Comparison.Judgment),
			Claim:         c.Claim.Text,
			Confidence:    int(c.Comparison.Confidence * 100),
			Reasoning:     c.Comparison.Reasoning,
			Supporting:    c.Comparison.Supporting,
			Contradicting: c.Comparison.Contradicting,
			Correction:    c.Comparison.Correction,
			Screening:     c.Screening.Outcome,
			Error:         c.Error,
		}
		for _, id := range c.Screening.Violations {
			if a, ok := axiom.Lookup(id); ok {
				card.Flags = append(card.Flags, string(id)+" "+a.Short)
			}
		}
		if c.Search != nil {
			card.Sources = c.Search.Sources
			if len(card.Sources) > 3 {
				card.Sources = card.Sources[:3]
			}
		}
		v.Cards = append(v.Cards, card)
	}

	return v
}

// scoreClass colors the dashboard score box
func scoreClass(score int) string {
	switch {
	case score >= 75:
		return "score-high"
	case score >= 50:
		return "score-medium"
	default:
		return "score-low"
	}
}

func verdictClass(j model.Judgment) string {
	switch j {
	case model.JudgmentVerified:
		return "verdict-verified"
	case model.JudgmentPartiallyVerified:
		return "verdict-partial"
	case model.JudgmentContradicted:
		return "verdict-contradicted"
	case model.JudgmentError:
		return "verdict-error"
	default:
		return "verdict-unverified"
	}
}
