package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		_, _ = w.Write([]byte("User-agent: hallucheck\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("hallucheck/0.2 (+https://example.com)", nil, 5*time.Second)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/articles/1")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected public path allowed for our agent")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected 2s crawl delay, got %v", delay)
	}

	if checker.IsAllowed(context.Background(), server.URL+"/private/page") {
		t.Error("Expected private path disallowed")
	}

	if hits.Load() != 1 {
		t.Errorf("Expected robots.txt fetched once, got %d", hits.Load())
	}

	checker.Clear()
	checker.IsAllowed(context.Background(), server.URL+"/")
	if hits.Load() != 2 {
		t.Errorf("Expected refetch after Clear, got %d", hits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("hallucheck", server.Client(), 0)
	if !checker.IsAllowed(context.Background(), server.URL+"/anything") {
		t.Error("Expected missing robots.txt to allow")
	}
}

func TestRobotsChecker_Unreachable(t *testing.T) {
	checker := NewRobotsChecker("hallucheck", nil, 100*time.Millisecond)
	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	if err != nil || !allowed {
		t.Errorf("Expected unreachable robots.txt to allow, got %v/%v", allowed, err)
	}

	if _, _, err := checker.CanFetch(context.Background(), "no-host"); err == nil {
		t.Error("Expected error for URL without host")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	cases := map[string]string{
		"hallucheck/0.2 (+https://x)": "hallucheck",
		"Mozilla/5.0 (X11)":           "Mozilla",
		"bot":                         "bot",
		"":                            "",
	}
	for in, want := range cases {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
