package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func newTestFetcher(respectRobots bool) *Fetcher {
	return NewFetcher(5*time.Second, "hallucheck-test/1.0", 1<<20, respectRobots, "", "", "")
}

func TestFetch_ExtractsVisibleText(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title> Moon facts </title><style>p{}</style></head>
<body><script>var x = "ignored";</script>
<h1>The Moon</h1><p>The Moon orbits   Earth every 27.3 days.</p>
<noscript>enable js</noscript><p>It is about 384,400 km away.</p></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "hallucheck-test/1.0" {
			t.Errorf("Expected user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	result, err := newTestFetcher(false).Fetch(context.Background(), server.URL+"/moon")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if result.Title != "Moon facts" {
		t.Errorf("Unexpected title %q", result.Title)
	}
	want := "The Moon\nThe Moon orbits Earth every 27.3 days.\nIt is about 384,400 km away."
	if result.Text != want {
		t.Errorf("Unexpected text:\n%q\nwant\n%q", result.Text, want)
	}
	if !strings.HasSuffix(result.FinalURL, "/moon") {
		t.Errorf("Unexpected final URL %s", result.FinalURL)
	}
}

func TestFetch_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "  Water boils at 100 degrees Celsius.  \n")
	}))
	defer server.Close()

	result, err := newTestFetcher(false).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Text != "Water boils at 100 degrees Celsius." {
		t.Errorf("Unexpected text %q", result.Text)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "ua", 10, false, "", "", "")
	result, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.HTML) != 10 {
		t.Errorf("Expected body capped at 10 bytes, got %d", len(result.HTML))
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /drafts/\n")
			return
		}
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, "text")
	}))
	defer server.Close()

	f := newTestFetcher(true)
	if _, err := f.Fetch(context.Background(), server.URL+"/drafts/post"); !errors.Is(err, ErrRobotsDisallowed) {
		t.Fatalf("Expected robots error, got %v", err)
	}
	if pageHits.Load() != 0 {
		t.Error("Expected disallowed page not to be requested")
	}

	if _, err := f.Fetch(context.Background(), server.URL+"/posts/1"); err != nil {
		t.Errorf("Expected allowed page to be fetched, got %v", err)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body><p>OK</p></body></html>")
	}))
	defer server.Close()

	result, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.Text != "OK" {
		t.Errorf("Unexpected text %q", result.Text)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected no retry for 404, got %d attempts", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != maxFetchAttempts {
		t.Errorf("Expected %d attempts, got %d", maxFetchAttempts, attempts.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			if got := isRetryableFetchError(errors.New(tt.err)); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}

	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

func TestVisibleText_NoTitle(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<div>First line</div><div><span>Second</span> line</div>"))
	if err != nil {
		t.Fatal(err)
	}
	title, text := visibleText(doc)
	if title != "" {
		t.Errorf("Expected no title, got %q", title)
	}
	if text != "First line\nSecond line" {
		t.Errorf("Unexpected text %q", text)
	}
}
