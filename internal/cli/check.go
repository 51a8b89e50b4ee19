package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/extract"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/pipeline"
	"github.com/ppiankov/hallucheck/internal/report"
)

var (
	checkFile    string
	checkURL     string
	checkOut     string
	checkFormat  string
	checkQuiet   bool
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a text for hallucinations and print a credibility report",
	Long: `Check runs the full detection pipeline:
- Extract up to N checkable factual claims with the configured LLM
- Screen every claim against the nine axioms
- Search the web for each claim (Tavily)
- Compare each claim with the search results
- Score the overall credibility

Input is the text argument, a file (-f), a web page (--url) or stdin.

Example:
  hallucheck check "The Eiffel Tower was completed in 1889 and is 330 metres tall."
  hallucheck check -f answer.txt -o report.md
  hallucheck check --url https://example.com/article --format json
  pbpaste | hallucheck check --lang zh`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read text from file")
	checkCmd.Flags().StringVar(&checkURL, "url", "", "fetch the text of a web page")
	checkCmd.Flags().StringVarP(&checkOut, "output", "o", "", "write the report to a file instead of stdout")
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "report format (markdown, json)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "suppress progress output")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(firstNonEmpty(checkFormat, cfg.Output.Format))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	opts := []pipeline.Option{}
	if !checkQuiet {
		opts = append(opts, pipeline.WithProgress(stderrProgress(cmd.ErrOrStderr())))
	}

	p, err := pipeline.NewFromConfig(cfg, logger, opts...)
	if err != nil {
		return configError(err)
	}

	text, source, err := readCheckInput(ctx, cmd, p, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return extract.ErrEmptyText
	}

	r, err := p.Run(ctx, text)
	if err != nil {
		return &checkError{err: err}
	}
	r.Source = source

	if r.Status == model.StatusNoClaims && !checkQuiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "ℹ️  "+r.Message)
	}

	renderer := report.NewRenderer(report.ParseLanguage(cfg.Output.Language))
	if checkOut != "" {
		if err := renderer.WriteFile(r, format, checkOut); err != nil {
			return err
		}
		if !checkQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Report written to %s (score %d/100)\n", checkOut, r.Credibility.Score)
		}
		return nil
	}

	data, err := renderer.Render(r, format)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return report.Print(cmd.OutOrStdout(), data, format)
}

// readCheckInput returns the text to check and where it came from
func readCheckInput(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, args []string) (string, string, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, checkFile != "", checkURL != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return "", "", errors.New("use only one of: text argument, --file, --url")
	}

	switch {
	case len(args) > 0:
		return args[0], "", nil
	case checkFile != "":
		text, err := p.LoadInput(ctx, checkFile)
		return text, checkFile, err
	case checkURL != "":
		if !pipeline.IsURL(checkURL) {
			return "", "", fmt.Errorf("not an http(s) URL: %s", checkURL)
		}
		text, err := p.LoadInput(ctx, checkURL)
		return text, checkURL, err
	}

	if report.IsTerminal(cmd.InOrStdin()) {
		return "", "", errors.New("no input: pass text, --file, --url or pipe text on stdin")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

// stderrProgress prints pipeline progress lines
func stderrProgress(w io.Writer) pipeline.ProgressFunc {
	icons := map[pipeline.Stage]string{
		pipeline.StageFetch:   "🌐",
		pipeline.StageExtract: "📝",
		pipeline.StageScreen:  "🧭",
		pipeline.StageSearch:  "🔎",
		pipeline.StageCompare: "⚖️ ",
		pipeline.StageScore:   "📊",
	}
	return func(stage pipeline.Stage, message string) {
		fmt.Fprintf(w, "%s %s\n", icons[stage], message)
	}
}

// checkError reports a failed run in user terms and keeps the cause for errors.Is
type checkError struct {
	err error
}

func (e *checkError) Error() string {
	return "check failed: " + apierr.UserMessage(e.err)
}

func (e *checkError) Unwrap() error {
	return e.err
}

// configError adds a hint to missing-key errors
func configError(err error) error {
	if errors.Is(err, apierr.ErrMissingAPIKey) {
		return fmt.Errorf("%w\nSet the key in your environment or in a .env file (see 'hallucheck config show')", err)
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
