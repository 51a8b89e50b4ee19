package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/hallucheck/internal/model"
)

var (
	cfgFile     string
	verbose     bool
	langFlag    string
	llmProvider string
	llmModel    string
	noCache     bool

	logger = zap.NewNop()
)

// configKeys are the settings that may come from HALLUCHECK_* environment variables
var configKeys = []string{
	"llm.provider", "llm.model", "llm.api_key", "llm.base_url", "llm.timeout_seconds", "llm.max_tokens",
	"search.provider", "search.api_key", "search.base_url", "search.depth", "search.max_results",
	"search.include_domains", "search.timeout_seconds",
	"extraction.max_claims",
	"cache.enabled", "cache.dir", "cache.memory_ttl", "cache.disk_ttl",
	"rate_limit.requests_per_second", "rate_limit.burst",
	"http.timeout", "http.user_agent", "http.max_body_bytes", "http.respect_robots",
	"http.http_proxy", "http.https_proxy", "http.no_proxy",
	"output.format", "output.language", "output.verbose",
	"server.addr",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hallucheck",
	Short: "hallucheck - AI hallucination detector",
	Long: `hallucheck checks AI-generated text for factual errors.

It extracts the checkable claims from a text, searches the web for each one,
asks a language model to compare the claim with what was found, and scores
the overall credibility. Every claim is also screened locally against nine
structural axioms that flag self-contradiction, absolute causality, false
dilemmas and unsourced specifics.

Results are automated and for reference only.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of hallucheck.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hallucheck v%s\n", model.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hallucheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "report language (en, zh)")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "provider", "", "LLM provider (anthropic, openai, ollama, gemini)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "model", "", "LLM model name")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the search result cache")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// API keys usually live in .env next to the project
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".hallucheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match HALLUCHECK_*
	viper.SetEnvPrefix("HALLUCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range configKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file, environment and flags over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	applyFlags(cfg)
	return cfg, nil
}

// applyFlags overrides the loaded configuration with flags that were set
func applyFlags(cfg *model.Config) {
	if langFlag != "" {
		cfg.Output.Language = langFlag
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		if llmModel == "" && cfg.LLM.Provider != model.DefaultConfig().LLM.Provider {
			// The default model belongs to the default provider
			cfg.LLM.Model = ""
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}
