package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/worker"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "anthropic", "claude", "":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("%w: unknown LLM provider: %s (supported: anthropic, openai, gemini, ollama)", apierr.ErrConfig, config.Provider)
	}
}

// KeyEnvVar returns the environment variable holding the provider's API key
func KeyEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini", "google":
		return "GEMINI_API_KEY"
	case "ollama":
		return ""
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, filling the API key
// and Ollama base URL from the environment when the config leaves them empty.
func ConfigFromModel(modelConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	cfg := Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  httpConfig.HTTPProxy,
		HTTPSProxy: httpConfig.HTTPSProxy,
		NoProxy:    httpConfig.NoProxy,
	}

	if cfg.APIKey == "" {
		if env := KeyEnvVar(cfg.Provider); env != "" {
			cfg.APIKey = os.Getenv(env)
		}
	}
	if cfg.BaseURL == "" && strings.EqualFold(cfg.Provider, "ollama") {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg
}

// RateLimited wraps a provider so every completion waits on a shared limiter
type RateLimited struct {
	Provider
	limiter *worker.Limiter
}

// NewRateLimited wraps p with limiter, keyed by the provider name
func NewRateLimited(p Provider, limiter *worker.Limiter) *RateLimited {
	return &RateLimited{Provider: p, limiter: limiter}
}

// Complete waits for rate limit clearance, then delegates
func (r *RateLimited) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.WaitKey(ctx, "llm:"+r.Name()); err != nil {
		return nil, err
	}
	return r.Provider.Complete(ctx, req)
}
