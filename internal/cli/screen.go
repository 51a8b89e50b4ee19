package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/extract"
	"github.com/ppiankov/hallucheck/internal/metrics"
	"github.com/ppiankov/hallucheck/internal/report"
	"github.com/ppiankov/hallucheck/internal/tui"
)

var (
	screenFile        string
	screenJSON        bool
	screenBenchmark   bool
	screenInteractive bool
	screenGroundTruth string
	screenScales      map[string]string
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen [text]",
	Short: "Screen a text against the nine axioms (local, no API keys)",
	Long: `Screen splits a text into sentences and checks each one against the nine
structural axioms. Nothing is sent to an LLM or search API.

Outcomes per sentence:
  pass          no structural problem found
  flagged       at least one of A1-A8 violated
  needs-source  contains names, dates or numbers that must be verified (A9)

Example:
  hallucheck screen "Our product always works because it is guaranteed."
  hallucheck screen -f answer.txt --json
  hallucheck screen -f answer.txt --ground-truth facts.json
  hallucheck screen "The team shares credit." --scale team=cooperative --scale company=hostile
  hallucheck screen --benchmark
  hallucheck screen -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVarP(&screenFile, "file", "f", "", "read text from file")
	screenCmd.Flags().BoolVar(&screenJSON, "json", false, "print JSON instead of Markdown")
	screenCmd.Flags().BoolVar(&screenBenchmark, "benchmark", false, "run the built-in 10-case benchmark")
	screenCmd.Flags().BoolVarP(&screenInteractive, "interactive", "i", false, "screen claims interactively")
	screenCmd.Flags().StringVar(&screenGroundTruth, "ground-truth", "", "JSON file mapping subjects to known values")
	screenCmd.Flags().StringToStringVar(&screenScales, "scale", nil, "observed behavior per scale, e.g. --scale team=cooperative --scale company=hostile")
}

func runScreen(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case screenBenchmark:
		return printBenchmark(out, axiom.RunBenchmark(axiom.NewScreener()), screenJSON)
	case screenInteractive:
		return tui.Run(cmd.InOrStdin(), out)
	}

	text, err := readScreenInput(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return extract.ErrEmptyText
	}

	truth, err := loadGroundTruth(screenGroundTruth)
	if err != nil {
		return err
	}

	r := axiom.NewScreener().ScreenTextWithScales(text, truth, screenScales)
	for _, v := range r.Verdicts {
		metrics.RecordScreening(string(v.Outcome), string(v.Axiom))
	}

	format := report.FormatMarkdown
	if screenJSON {
		format = report.FormatJSON
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := report.NewRenderer(report.ParseLanguage(cfg.Output.Language)).RenderScreening(r, format)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return report.Print(out, data, format)
}

func readScreenInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0 && screenFile != "":
		return "", errors.New("use either a text argument or --file")
	case len(args) > 0:
		return args[0], nil
	case screenFile != "":
		data, err := os.ReadFile(screenFile)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}

	if report.IsTerminal(cmd.InOrStdin()) {
		return "", errors.New("no input: pass text, --file, or pipe text on stdin (or use -i)")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// loadGroundTruth reads a {"subject": "known value"} JSON file
func loadGroundTruth(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}
	var truth map[string]string
	if err := json.Unmarshal(data, &truth); err != nil {
		return nil, fmt.Errorf("parse ground truth %s: %w", path, err)
	}
	return truth, nil
}

func printBenchmark(w io.Writer, res axiom.BenchmarkResult, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, "Axiom screening benchmark")
	fmt.Fprintln(w)
	for _, d := range res.Details {
		mark := "✅"
		if !d.Pass {
			mark = "❌"
		}
		fmt.Fprintf(w, "  %s  %s\n", mark, d.Test)
		fmt.Fprintf(w, "       → %s\n", d.Detail)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  SCORE: %s\n", res.Score)
	return nil
}

