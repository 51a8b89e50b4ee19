package model

import (
	"os"
	"path/filepath"
	"time"
)

// Version is the application version embedded in reports
const Version = "0.2.0"

// Config is the complete hallucheck configuration
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
}

// LLMConfig configures the language-model provider used for extraction and comparison
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // anthropic, openai, ollama, gemini
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never written to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig configures the search API
type SearchConfig struct {
	Provider       string   `yaml:"provider" mapstructure:"provider"` // tavily
	APIKey         string   `yaml:"-" mapstructure:"api_key"`
	BaseURL        string   `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Depth          string   `yaml:"depth" mapstructure:"depth"` // basic, advanced
	MaxResults     int      `yaml:"max_results" mapstructure:"max_results"`
	IncludeDomains []string `yaml:"include_domains,omitempty" mapstructure:"include_domains"`
	Timeout        int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ExtractionConfig limits claim extraction
type ExtractionConfig struct {
	MaxClaims int `yaml:"max_claims" mapstructure:"max_claims"`
}

// CacheConfig contains caching settings for search results
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig limits outbound API calls per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// HTTPConfig contains settings for fetching URL input and proxying API calls
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`     // markdown, json
	Language string `yaml:"language" mapstructure:"language"` // en, zh
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ServerConfig configures the dashboard
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Search: SearchConfig{
			Provider:   "tavily",
			Depth:      "basic",
			MaxResults: 5,
			Timeout:    30,
		},
		Extraction: ExtractionConfig{
			MaxClaims: 5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "hallucheck/0.2 (+https://github.com/ppiankov/hallucheck)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Output: OutputConfig{
			Format:   "markdown",
			Language: "en",
		},
		Server: ServerConfig{
			Addr: ":8501",
		},
	}
}

// defaultCacheDir returns ~/.hallucheck/cache, or a temp dir when home is unknown
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hallucheck-cache")
	}
	return filepath.Join(home, ".hallucheck", "cache")
}
