package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/pipeline"
	"github.com/ppiankov/hallucheck/internal/report"
	"github.com/ppiankov/hallucheck/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Serve the hallucination checker as a web dashboard and JSON API.

Routes:
  GET  /                 dashboard
  POST /api/v1/check     full check (JSON; ?format=markdown for a report file)
  POST /api/v1/screen    local axiom screening only
  GET  /api/v1/axioms    the nine screening axioms
  GET  /health           liveness and configuration status
  GET  /metrics          Prometheus metrics

Without API keys the dashboard still starts; checks report the missing
configuration and screening keeps working.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var checker server.Checker
	p, setupErr := pipeline.NewFromConfig(cfg, logger.Named("pipeline"))
	if setupErr != nil {
		logger.Warn("checks disabled", zap.Error(setupErr))
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", configError(setupErr))
	} else {
		checker = p
	}

	srv := server.New(checker, setupErr,
		server.WithLogger(logger.Named("server")),
		server.WithLanguage(report.ParseLanguage(cfg.Output.Language)),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := firstNonEmpty(serveAddr, cfg.Server.Addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "🔍 hallucheck dashboard listening on %s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
