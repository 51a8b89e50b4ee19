package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/util"
)

const (
	// TavilyKeyEnv holds the Tavily API key
	TavilyKeyEnv = "TAVILY_API_KEY"

	defaultTavilyURL = "https://api.tavily.com"
)

// TavilyConfig configures the Tavily client
type TavilyConfig struct {
	APIKey         string
	BaseURL        string
	Depth          string // basic, advanced
	MaxResults     int
	IncludeDomains []string
	Timeout        time.Duration
	HTTPProxy      string
	HTTPSProxy     string
	NoProxy        string
	Authority      *AuthorityConfig // nil selects DefaultAuthorityConfig
}

// TavilyConfigFromModel builds a client config, reading the key from the environment when unset
func TavilyConfigFromModel(cfg model.SearchConfig, httpCfg model.HTTPConfig) TavilyConfig {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(TavilyKeyEnv)
	}
	return TavilyConfig{
		APIKey:         key,
		BaseURL:        cfg.BaseURL,
		Depth:          cfg.Depth,
		MaxResults:     cfg.MaxResults,
		IncludeDomains: cfg.IncludeDomains,
		Timeout:        time.Duration(cfg.Timeout) * time.Second,
		HTTPProxy:      httpCfg.HTTPProxy,
		HTTPSProxy:     httpCfg.HTTPSProxy,
		NoProxy:        httpCfg.NoProxy,
	}
}

// Tavily implements Searcher against the Tavily search API
type Tavily struct {
	config     TavilyConfig
	baseURL    string
	httpClient *http.Client
	classifier *AuthorityClassifier
}

type tavilyRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	MaxResults        int      `json:"max_results"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type tavilyError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
	Error string `json:"error"`
}

// NewTavily creates a Tavily client
func NewTavily(config TavilyConfig) (*Tavily, error) {
	if config.APIKey == "" {
		return nil, apierr.MissingKey(TavilyKeyEnv)
	}

	switch config.Depth {
	case "":
		config.Depth = "basic"
	case "basic", "advanced":
	default:
		return nil, fmt.Errorf("%w: search depth must be basic or advanced, got %q", apierr.ErrConfig, config.Depth)
	}

	if config.MaxResults <= 0 {
		config.MaxResults = 5
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultTavilyURL
	}

	authority := DefaultAuthorityConfig()
	if config.Authority != nil {
		authority = *config.Authority
	}

	return &Tavily{
		config:  config,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		classifier: NewAuthorityClassifier(authority),
	}, nil
}

// Name returns the backend name
func (t *Tavily) Name() string {
	return "tavily"
}

// Depth returns the configured search depth
func (t *Tavily) Depth() string {
	return t.config.Depth
}

// Search runs one query
func (t *Tavily) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:         t.config.APIKey,
		Query:          query,
		SearchDepth:    t.config.Depth,
		MaxResults:     t.config.MaxResults,
		IncludeAnswer:  true,
		IncludeDomains: t.config.IncludeDomains,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.config.APIKey)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &apierr.Error{
			Service:    "tavily",
			StatusCode: httpResp.StatusCode,
			Message:    tavilyErrorMessage(respBody),
		}
	}

	var resp tavilyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	result := &model.SearchResult{
		Query:   query,
		Answer:  strings.TrimSpace(resp.Answer),
		Sources: make([]model.Source, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		result.Sources = append(result.Sources, model.Source{
			Title:   strings.TrimSpace(r.Title),
			URL:     r.URL,
			Content: truncateRunes(strings.TrimSpace(r.Content), MaxContentRunes),
			Score:   r.Score,
		})
	}
	t.classifier.ClassifyAll(result.Sources)

	return result, nil
}

// tavilyErrorMessage pulls the message out of an error body, which Tavily
// returns either as {"detail": {"error": ...}} or {"error": ...}
func tavilyErrorMessage(body []byte) string {
	var e tavilyError
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Detail.Error != "" {
			return e.Detail.Error
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}
