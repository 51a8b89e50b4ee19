// Package report renders credibility and screening reports as Markdown, JSON
// or styled terminal output.
package report

import (
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
)

// Language selects the report labels
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage maps a config value to a Language; anything unknown is English
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "cn", "chinese":
		return Chinese
	default:
		return English
	}
}

// labels holds every user-visible string of a report in one language
type labels struct {
	title          string
	generated      string
	source         string
	overall        string
	score          string
	level          string
	stats          string
	count          string // format for "N claims"
	screening      string
	screenVerdict  string
	screenCounts   string // passed, flagged, needs source, risk
	details        string
	claim          string // format for "Claim N"
	confidence     string
	reasoning      string
	supporting     string
	contradicting  string
	correction     string
	flags          string
	sources        string
	errorNote      string
	disclaimerHead string
	disclaimer     []string
	judgments      map[model.Judgment]string
	levels         map[model.Level]string
}

var english = labels{
	title:         "# 🔍 AI Hallucination Check Report",
	generated:     "Generated",
	source:        "Source",
	overall:       "## 📊 Overall Assessment",
	score:         "Credibility score",
	level:         "Level",
	stats:         "Verdicts",
	count:         "%d claim(s)",
	screening:     "## 🧭 Axiom Screening",
	screenVerdict: "Screening verdict",
	screenCounts:  "%d passed, %d flagged, %d need a source (hallucination risk %.0f%%)",
	details:       "## 📋 Claim-by-Claim Results",
	claim:         "Claim %d",
	confidence:    "Confidence",
	reasoning:     "Reasoning",
	supporting:    "Supporting evidence",
	contradicting: "Contradicting evidence",
	correction:    "Correct information",
	flags:         "Structural flags",
	sources:       "Sources",
	errorNote:     "Error",

	disclaimerHead: "## ⚠️ Disclaimer",
	disclaimer: []string{
		"This report was generated automatically and is for reference only. Results are based on publicly searchable information and have these limitations:",
		"",
		"- Search results may be incomplete or out of date",
		"- Some specialist information is hard to verify",
		"- Automated judgments can be wrong",
		"",
		"Confirm important information with official sources or a qualified professional.",
	},
	judgments: map[model.Judgment]string{
		model.JudgmentVerified:          "Verified",
		model.JudgmentPartiallyVerified: "Partially verified",
		model.JudgmentUnverified:        "Unverified",
		model.JudgmentContradicted:      "Contradicted",
		model.JudgmentError:             "Error",
	},
	levels: map[model.Level]string{
		model.LevelHigh:    "High credibility 🟢",
		model.LevelMedium:  "Medium credibility 🟡",
		model.LevelLow:     "Low credibility 🟠",
		model.LevelSerious: "Serious problems 🔴",
		model.LevelNoData:  "No data",
	},
}

var chinese = labels{
	title:         "# 🔍 AI幻觉检测报告",
	generated:     "生成时间",
	source:        "来源",
	overall:       "## 📊 总体评估",
	score:         "可信度评分",
	level:         "评估等级",
	stats:         "检测统计",
	count:         "%d 条",
	screening:     "## 🧭 公理筛查",
	screenVerdict: "筛查结论",
	screenCounts:  "通过 %d 条，标记 %d 条，需核实来源 %d 条（幻觉风险 %.0f%%）",
	details:       "## 📋 逐条检测结果",
	claim:         "声明 %d",
	confidence:    "置信度",
	reasoning:     "判定理由",
	supporting:    "支持证据",
	contradicting: "反对证据",
	correction:    "正确信息",
	flags:         "结构性问题",
	sources:       "参考来源",
	errorNote:     "错误",

	disclaimerHead: "## ⚠️ 免责声明",
	disclaimer: []string{
		"本报告由AI自动生成，仅供参考。检测结果基于公开可搜索的信息，可能存在以下局限性：",
		"",
		"- 搜索结果可能不完整或过时",
		"- 某些专业领域的信息可能难以验证",
		"- AI判定可能存在误差",
		"",
		"如需确认关键信息，请查阅官方来源或咨询专业人士。",
	},
	judgments: map[model.Judgment]string{
		model.JudgmentVerified:          "已验证",
		model.JudgmentPartiallyVerified: "部分正确",
		model.JudgmentUnverified:        "无法验证",
		model.JudgmentContradicted:      "存在矛盾",
		model.JudgmentError:             "判定出错",
	},
	levels: map[model.Level]string{
		model.LevelHigh:    "高可信度 🟢",
		model.LevelMedium:  "中等可信度 🟡",
		model.LevelLow:     "低可信度 🟠",
		model.LevelSerious: "存在严重问题 🔴",
		model.LevelNoData:  "无数据",
	},
}

func labelsFor(lang Language) labels {
	if lang == Chinese {
		return chinese
	}
	return english
}

// Emoji returns the marker shown next to a judgment
func Emoji(j model.Judgment) string {
	switch j {
	case model.JudgmentVerified:
		return "✅"
	case model.JudgmentContradicted:
		return "❌"
	case model.JudgmentPartiallyVerified:
		return "⚠️"
	case model.JudgmentError:
		return "🔴"
	default:
		return "❓"
	}
}

// JudgmentLabel returns the display name of a judgment
func JudgmentLabel(j model.Judgment, lang Language) string {
	if l, ok := labelsFor(lang).judgments[j]; ok {
		return l
	}
	return string(j)
}

// LevelLabel returns the display name of a credibility level
func LevelLabel(l model.Level, lang Language) string {
	if s, ok := labelsFor(lang).levels[l]; ok {
		return s
	}
	return string(l)
}

// OutcomeIcon marks an axiom screening outcome
func OutcomeIcon(o model.Outcome) string {
	switch o {
	case model.OutcomeFlagged:
		return "🚩"
	case model.OutcomeNeedsSource:
		return "📋"
	default:
		return "✅"
	}
}
