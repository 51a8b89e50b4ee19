package search

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
)

// AuthorityConfig lists the domains and path patterns used to rank sources
type AuthorityConfig struct {
	PrimaryDomains   []string
	SecondaryDomains []string
	PathPatterns     []PathPattern
	DomainMap        map[string]string // Explicit host -> tier overrides
}

// PathPattern assigns a tier to URLs whose path matches Pattern
type PathPattern struct {
	Pattern string
	Tier    string
}

// DefaultAuthorityConfig returns the built-in source rankings
func DefaultAuthorityConfig() AuthorityConfig {
	return AuthorityConfig{
		PrimaryDomains: []string{
			"doi.org", "arxiv.org", "nature.com", "science.org", "nih.gov",
			"who.int", "un.org", "europa.eu", "gov.uk", "gov.cn", "sec.gov",
			"scholar.google.com", "pubmed.ncbi.nlm.nih.gov",
		},
		SecondaryDomains: []string{
			"wikipedia.org", "britannica.com", "reuters.com", "apnews.com",
			"bbc.com", "bbc.co.uk", "nytimes.com", "theguardian.com",
			"bloomberg.com", "ft.com", "economist.com", "xinhuanet.com",
		},
		PathPatterns: []PathPattern{
			{Pattern: `/(press|newsroom|investor|ir)/`, Tier: "primary"},
			{Pattern: `/(statute|legal|law)/`, Tier: "primary"},
			{Pattern: `/(blog|forum|community|discussion)s?/`, Tier: "tertiary"},
		},
	}
}

// AuthorityClassifier classifies sources into authority tiers
type AuthorityClassifier struct {
	domainMap    map[string]model.AuthorityTier
	primary      []string
	secondary    []string
	pathPatterns []compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.AuthorityTier
}

// NewAuthorityClassifier builds a classifier; invalid path patterns are skipped
func NewAuthorityClassifier(config AuthorityConfig) *AuthorityClassifier {
	c := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		primary:   config.PrimaryDomains,
		secondary: config.SecondaryDomains,
	}

	for host, tier := range config.DomainMap {
		c.domainMap[strings.ToLower(host)] = parseTier(tier)
	}

	for _, pp := range config.PathPatterns {
		re, err := regexp.Compile(pp.Pattern)
		if err != nil {
			continue
		}
		c.pathPatterns = append(c.pathPatterns, compiledPattern{pattern: re, tier: parseTier(pp.Tier)})
	}

	return c
}

// Classify classifies a URL into an authority tier
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return model.TierTertiary
	}

	host := strings.ToLower(parsed.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, a.primary) {
		return model.TierPrimary
	}
	if matchesDomain(host, a.secondary) {
		return model.TierSecondary
	}

	for _, cp := range a.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			return cp.tier
		}
	}

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.HasSuffix(host, ".mil") || strings.HasSuffix(host, ".ac.uk") ||
		strings.HasSuffix(host, ".edu.cn") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// ClassifyAll sets the authority tier of every source
func (a *AuthorityClassifier) ClassifyAll(sources []model.Source) {
	for i := range sources {
		sources[i].Authority = a.Classify(sources[i].URL)
	}
}

// matchesDomain reports whether host equals or is a subdomain of one of domains
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func parseTier(tier string) model.AuthorityTier {
	switch strings.ToLower(tier) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
