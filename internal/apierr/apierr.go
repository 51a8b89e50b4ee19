// Package apierr types the failures of the hosted LLM and search APIs so callers
// can tell configuration problems from transient ones.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingAPIKey is returned before any network call when a required key is absent
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrConfig marks invalid configuration
	ErrConfig = errors.New("configuration error")
)

// Error is a non-2xx response from an external API
type Error struct {
	Service    string // "anthropic", "openai", "tavily", ...
	StatusCode int
	Type       string // Provider error type, if any
	Message    string
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s API error (%d): %s - %s", e.Service, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// MissingKey builds the configuration error for an absent environment variable
func MissingKey(envVar string) error {
	return fmt.Errorf("%w: %s environment variable not set", ErrMissingAPIKey, envVar)
}

// IsAuth reports whether err is an authentication or missing-key failure
func IsAuth(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return true
		}
		return strings.Contains(strings.ToLower(apiErr.Type), "authentication")
	}
	return false
}

// IsRateLimit reports whether err is a rate-limit response
func IsRateLimit(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || strings.Contains(apiErr.Type, "rate_limit")
	}
	return false
}

// IsFatal reports whether a pipeline run must stop instead of failing a single claim
func IsFatal(err error) bool {
	return IsAuth(err) || errors.Is(err, ErrConfig)
}

// UserMessage converts err into a message suitable for end users
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "API key not configured: " + err.Error()
	case IsAuth(err):
		return "API key invalid or expired, please check your configuration"
	case IsRateLimit(err):
		return "API rate limit exceeded, please try again later"
	case errors.Is(err, ErrConfig):
		return err.Error()
	default:
		return "Detection failed: " + err.Error()
	}
}
