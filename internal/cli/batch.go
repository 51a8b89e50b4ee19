package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/pipeline"
	"github.com/ppiankov/hallucheck/internal/report"
	"github.com/ppiankov/hallucheck/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchList    string
	batchTimeout time.Duration
	batchFormat  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [files or URLs...]",
	Short: "Check many texts in parallel",
	Long: `Batch checks several inputs concurrently:
- Each argument is a text file or an http(s) URL
- --list reads more inputs from a file (one per line, # for comments)
- Inputs share the search cache and the API rate limiter
- One report per input is written to the output directory

Example:
  hallucheck batch answers/*.txt
  hallucheck batch --list inputs.txt --concurrency 4 --output-dir ./reports
  hallucheck batch a.txt https://example.com/post --format json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", min(runtime.NumCPU(), 4), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./hallucheck-reports", "output directory for reports")
	batchCmd.Flags().StringVar(&batchList, "list", "", "file listing inputs, one per line")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "report format (markdown, json)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs := append([]string(nil), args...)
	if batchList != "" {
		listed, err := worker.ReadInputsFromFile(batchList)
		if err != nil {
			return err
		}
		inputs = append(inputs, listed...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs: pass files or URLs, or use --list")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(firstNonEmpty(batchFormat, cfg.Output.Format))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  hallucheck Batch Processing\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Inputs:       %d\n", len(inputs))
	fmt.Fprintf(errOut, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(errOut, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(errOut, "\n")

	p, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return configError(err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(errOut, "⚙️  Checking %d inputs with %d workers...\n\n", len(inputs), concurrency)
	results := processor.ProcessInputs(ctx, inputs)

	renderer := report.NewRenderer(report.ParseLanguage(cfg.Output.Language))
	successCount := 0
	failureCount := 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %s\n", result.Input, apierr.UserMessage(result.Error))
			continue
		}

		path := filepath.Join(outputDir, reportFilename(result.Input, used)+extension(format))
		if err := renderer.WriteFile(result.Report, format, path); err != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Input, err)
			continue
		}

		successCount++
		fmt.Fprintf(errOut, "✓ %s (score: %d/100, %s)\n", result.Input, result.Report.Credibility.Score, result.Report.Credibility.Level)
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Batch Complete\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d inputs\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(errOut, "  Output:    %s\n", outputDir)
	fmt.Fprintf(errOut, "\n")

	if successCount == 0 {
		return fmt.Errorf("all %d inputs failed", failureCount)
	}
	return nil
}

func extension(f report.Format) string {
	if f == report.FormatJSON {
		return ".json"
	}
	return ".md"
}

// reportFilename derives a unique, filesystem-safe report name from an input
func reportFilename(input string, used map[string]int) string {
	name := input
	if pipeline.IsURL(name) {
		name = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(name), "https://"), "http://")
	} else {
		name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	name = sanitizeFilename(name)
	if name == "" {
		name = "report"
	}

	used[name]++
	if n := used[name]; n > 1 {
		name = fmt.Sprintf("%s-%d", name, n)
	}
	return name
}

// sanitizeFilename sanitizes a string for use as a filename
const maxFilenameBytes = 100

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = strings.Trim(replacer.Replace(s), "_-.")

	// Limit to 100 bytes without splitting a multi-byte character
	if len(s) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}

	return s
}
