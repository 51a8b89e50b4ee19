package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/model"
)

// maxSources is the number of search sources listed per claim
const maxSources = 3

// Markdown renders a credibility report
func Markdown(r *model.Report, lang Language) string {
	l := labelsFor(lang)
	var b strings.Builder

	b.WriteString(l.title + "\n\n")
	fmt.Fprintf(&b, "**%s**: %s\n", l.generated, r.GeneratedAt.Local().Format(time.DateTime))
	if r.Source != "" {
		fmt.Fprintf(&b, "**%s**: %s\n", l.source, r.Source)
	}
	b.WriteString("\n")

	if r.Status == model.StatusNoClaims {
		b.WriteString(noClaimsMessage(r, lang) + "\n\n")
		writeDisclaimer(&b, l)
		return b.String()
	}

	b.WriteString(l.overall + "\n\n")
	fmt.Fprintf(&b, "**%s**: %d/100\n", l.score, r.Credibility.Score)
	fmt.Fprintf(&b, "**%s**: %s\n\n", l.level, LevelLabel(r.Credibility.Level, lang))

	fmt.Fprintf(&b, "**%s**:\n", l.stats)
	for _, j := range []model.Judgment{
		model.JudgmentVerified,
		model.JudgmentPartiallyVerified,
		model.JudgmentUnverified,
		model.JudgmentContradicted,
	} {
		fmt.Fprintf(&b, "- %s %s: %s\n", Emoji(j), JudgmentLabel(j, lang), fmt.Sprintf(l.count, r.Credibility.Stats[j]))
	}
	if n := r.Credibility.Stats[model.JudgmentError]; n > 0 {
		fmt.Fprintf(&b, "- %s %s: %s\n", Emoji(model.JudgmentError), JudgmentLabel(model.JudgmentError, lang), fmt.Sprintf(l.count, n))
	}
	b.WriteString("\n")

	b.WriteString(l.screening + "\n\n")
	s := r.Screening
	fmt.Fprintf(&b, "**%s**: %s\n\n", l.screenVerdict, s.Verdict)
	b.WriteString(fmt.Sprintf(l.screenCounts, s.Passed, s.Flagged, s.NeedsSource, s.RiskPercent) + "\n\n")

	b.WriteString("---\n\n")
	b.WriteString(l.details + "\n\n")
	for i, c := range r.Claims {
		writeClaim(&b, l, lang, i+1, c)
	}

	writeDisclaimer(&b, l)
	return b.String()
}

func writeClaim(b *strings.Builder, l labels, lang Language, n int, c model.ClaimResult) {
	cmp := c.Comparison
	fmt.Fprintf(b, "### %s %s: %s\n\n", Emoji(cmp.Judgment), fmt.Sprintf(l.claim, n), JudgmentLabel(cmp.Judgment, lang))
	fmt.Fprintf(b, "> %s\n\n", c.Claim.Text)
	fmt.Fprintf(b, "**%s**: %d%%\n\n", l.confidence, int(cmp.Confidence*100))
	fmt.Fprintf(b, "**%s**: %s\n\n", l.reasoning, cmp.Reasoning)
	if c.Error != "" && c.Error != cmp.Reasoning {
		fmt.Fprintf(b, "**%s**: %s\n\n", l.errorNote, c.Error)
	}

	writeList(b, l.supporting, cmp.Supporting)
	writeList(b, l.contradicting, cmp.Contradicting)

	if cmp.Correction != "" {
		fmt.Fprintf(b, "**%s**: %s\n\n", l.correction, cmp.Correction)
	}

	if c.Screening.Outcome == model.OutcomeFlagged {
		fmt.Fprintf(b, "**%s**: %s %s\n\n", l.flags, OutcomeIcon(c.Screening.Outcome),
			strings.Join(axiomNames(c.Screening.Violations), "; "))
	}

	if c.Search != nil && len(c.Search.Sources) > 0 {
		fmt.Fprintf(b, "**%s**:\n", l.sources)
		for i, src := range c.Search.Sources {
			if i == maxSources {
				break
			}
			title := src.Title
			if title == "" {
				title = "Link"
			}
			fmt.Fprintf(b, "- [%s](%s)\n", title, src.URL)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeDisclaimer(b *strings.Builder, l labels) {
	b.WriteString(l.disclaimerHead + "\n\n")
	b.WriteString(strings.Join(l.disclaimer, "\n") + "\n")
}

// axiomNames formats violations as "A2 Truth is self-consistent"
func axiomNames(ids []model.AxiomID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if a, ok := axiom.Lookup(id); ok {
			names = append(names, string(id)+" "+a.Short)
		}
	}
	return names
}

func noClaimsMessage(r *model.Report, lang Language) string {
	if lang == Chinese {
		return "未在文本中找到可验证的事实性声明（可能是观点或建议类内容）。"
	}
	if r.Message != "" {
		return r.Message
	}
	return model.NoClaimsMessage
}

// ScreeningMarkdown renders a local axiom screening report
func ScreeningMarkdown(r model.ScreeningReport, lang Language) string {
	l := labelsFor(lang)
	var b strings.Builder

	b.WriteString(l.screening + "\n\n")
	s := r.Summary
	fmt.Fprintf(&b, "**%s**: %s\n\n", l.screenVerdict, s.Verdict)
	b.WriteString(fmt.Sprintf(l.screenCounts, s.Passed, s.Flagged, s.NeedsSource, s.RiskPercent) + "\n\n")

	for i, v := range r.Verdicts {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, OutcomeIcon(v.Outcome), v.Claim)
		switch v.Outcome {
		case model.OutcomeFlagged:
			fmt.Fprintf(&b, "   - %s: %s\n", l.flags, strings.Join(axiomNames(v.Violations), "; "))
		case model.OutcomeNeedsSource:
			fmt.Fprintf(&b, "   - %s\n", strings.Join(v.Advisory, " "))
		}
		fmt.Fprintf(&b, "   - %s: %.0f%%\n", l.confidence, v.Confidence*100)
	}

	return b.String()
}
