// Package tui is the interactive axiom screener.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/model"
)

// maxShown is the number of recent results kept on screen
const maxShown = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	claimStyle  = lipgloss.NewStyle().Italic(true)
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	flagStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	sourceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(3)
)

type entry struct {
	claim   string
	verdict model.Verdict
}

// Model screens each submitted line against the axioms
type Model struct {
	input    textinput.Model
	screener *axiom.Screener
	entries  []entry
	quitting bool
}

// New creates the screener model
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Type a claim, or 'quit' to exit"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.Focus()

	return Model{
		input:    ti,
		screener: axiom.NewScreener(),
	}
}

// Run starts the interactive screener on the given terminal streams
func Run(in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(New(), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			claim := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			switch strings.ToLower(claim) {
			case "":
				return m, nil
			case "quit", "exit", "q":
				m.quitting = true
				return m, tea.Quit
			}
			m.entries = append(m.entries, entry{
				claim:   claim,
				verdict: m.screener.Verify(claim, axiom.Context{}),
			})
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hallucheck · axiom screener") + "\n")
	b.WriteString(helpStyle.Render("Each claim is checked against the nine axioms locally; nothing leaves your machine.") + "\n\n")

	start := 0
	if len(m.entries) > maxShown {
		start = len(m.entries) - maxShown
	}
	for _, e := range m.entries[start:] {
		b.WriteString(claimStyle.Render(e.claim) + "\n")
		b.WriteString(RenderVerdict(e.verdict) + "\n\n")
	}

	if m.quitting {
		b.WriteString(fmt.Sprintf("Screened %d claim(s).\n", len(m.entries)))
		return b.String()
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render("enter: screen · esc/ctrl+c: quit") + "\n")
	return b.String()
}

// Screened returns the verdicts produced so far
func (m Model) Screened() []model.Verdict {
	out := make([]model.Verdict, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.verdict
	}
	return out
}

// RenderVerdict formats a single verdict for the terminal
func RenderVerdict(v model.Verdict) string {
	var lines []string

	switch v.Outcome {
	case model.OutcomeFlagged:
		lines = append(lines, flagStyle.Render(fmt.Sprintf("🚩 FLAGGED · confidence %.0f%%", v.Confidence*100)))
		for _, id := range v.Violations {
			if a, ok := axiom.Lookup(id); ok {
				lines = append(lines, noteStyle.Render(fmt.Sprintf("⚠️  %s %s: %s", id, a.Short, a.Description)))
			}
		}
	case model.OutcomeNeedsSource:
		lines = append(lines, sourceStyle.Render(fmt.Sprintf("📋 Source verification recommended · confidence %.0f%%", v.Confidence*100)))
		for _, note := range v.Advisory {
			lines = append(lines, noteStyle.Render(note))
		}
	default:
		lines = append(lines, passStyle.Render(fmt.Sprintf("✅ PASSED · confidence %.0f%%", v.Confidence*100)))
	}

	if v.Outcome != model.OutcomeNeedsSource {
		lines = append(lines, noteStyle.Render(v.Reasoning))
	}
	return strings.Join(lines, "\n")
}
