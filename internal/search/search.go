// Package search looks claims up with a web search API and prepares the hits for comparison.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
)

// MaxContentRunes caps the content kept per source
const MaxContentRunes = 500

// NoResultsText is the comparison input when a search came back empty
const NoResultsText = "No relevant search results found"

// Searcher looks up one query
type Searcher interface {
	// Name identifies the backend, e.g. "tavily"
	Name() string

	// Search runs the query and returns classified, truncated sources
	Search(ctx context.Context, query string) (*model.SearchResult, error)
}

// FormatForComparison renders a search result as prompt input:
// the synthesized answer first, then numbered sources.
func FormatForComparison(result *model.SearchResult) string {
	if result == nil {
		return NoResultsText
	}

	var b strings.Builder
	if answer := strings.TrimSpace(result.Answer); answer != "" {
		fmt.Fprintf(&b, "[Search summary] %s\n\n", answer)
	}

	for i, src := range result.Sources {
		fmt.Fprintf(&b, "[Source %d] %s\n", i+1, src.Title)
		fmt.Fprintf(&b, "URL: %s\n", src.URL)
		if src.Authority != model.TierUnknown {
			fmt.Fprintf(&b, "Authority: %s\n", src.Authority)
		}
		fmt.Fprintf(&b, "Content: %s\n\n", src.Content)
	}

	if b.Len() == 0 {
		return NoResultsText
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateRunes shortens s to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
