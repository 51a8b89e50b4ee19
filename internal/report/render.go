package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/ppiankov/hallucheck/internal/model"
)

// Format is an output format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use markdown or json)", s)
	}
}

// Renderer writes reports in one language
type Renderer struct {
	lang Language
}

// NewRenderer creates a renderer
func NewRenderer(lang Language) *Renderer {
	return &Renderer{lang: lang}
}

// Render returns the report in the given format
func (r *Renderer) Render(report *model.Report, format Format) ([]byte, error) {
	if format == FormatJSON {
		return JSON(report)
	}
	return []byte(Markdown(report, r.lang)), nil
}

// RenderScreening returns a screening report in the given format
func (r *Renderer) RenderScreening(report model.ScreeningReport, format Format) ([]byte, error) {
	if format == FormatJSON {
		return ScreeningJSON(report)
	}
	return []byte(ScreeningMarkdown(report, r.lang)), nil
}

// WriteFile renders the report to path, creating parent directories
func (r *Renderer) WriteFile(report *model.Report, format Format, path string) error {
	data, err := r.Render(report, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// IsTerminal reports whether stream, an input or output, is an interactive terminal
func IsTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print writes Markdown to w, styled with glamour when w is a terminal.
// JSON and non-terminal output are written unchanged.
func Print(w io.Writer, data []byte, format Format) error {
	if format == FormatMarkdown && IsTerminal(w) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := renderer.Render(string(data)); err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
