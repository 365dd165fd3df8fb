package scraper

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
)

const jobPageHTML = `<!DOCTYPE html>
<html><head>
<title>Senior Data Engineer | Acme Corp</title>
<meta property="og:title" content="Senior Data Engineer | Acme Corp">
<meta property="og:site_name" content="Acme Corp">
</head>
<body>
<nav><a href="/">Home</a><a href="/jobs">All jobs</a></nav>
<main>
<h1>Senior Data Engineer</h1>
<p>Acme Corp is hiring a senior data engineer to build and operate large
scale batch and streaming pipelines for our analytics platform.</p>
<h2>Responsibilities</h2>
<ul>
<li>Design, build and maintain reliable data pipelines</li>
<li>Own the ingestion layer for third party data sources</li>
<li>Partner with analysts on warehouse modeling</li>
</ul>
<h2>Requirements</h2>
<ul>
<li>5+ years of experience with Python and SQL in production</li>
<li>Hands on experience with Airflow or similar orchestrators</li>
</ul>
<p>The salary range for this role is $120,000 - $150,000 per year
depending on experience.</p>
<div>Apply now</div>
<h2>Equal Opportunity</h2>
<p>Acme Corp is an equal opportunity employer.</p>
</main>
<footer>Copyright Acme</footer>
</body></html>`

func newJobServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/job", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, jobPageHTML)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>loading</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeStaticPage(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second, TrimNoise: true})

	p, err := s.Scrape(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if p.Title != "Senior Data Engineer" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("company = %q", p.Company)
	}
	if !strings.Contains(p.SalaryRange, "$120,000") {
		t.Errorf("salary = %q", p.SalaryRange)
	}
	if !strings.Contains(p.Description, "## Responsibilities") {
		t.Errorf("description missing responsibilities heading:\n%s", p.Description)
	}
	if !strings.Contains(p.Description, "- Design, build and maintain reliable data pipelines") {
		t.Errorf("description missing list item:\n%s", p.Description)
	}
	if strings.Contains(p.Description, "Apply now") {
		t.Errorf("description kept UI chrome:\n%s", p.Description)
	}
	if strings.Contains(p.Description, "equal opportunity employer") {
		t.Errorf("description kept trailing noise section:\n%s", p.Description)
	}
	if strings.Contains(p.Description, "Copyright") {
		t.Errorf("description kept footer:\n%s", p.Description)
	}
}

func TestScrapeInvalidURL(t *testing.T) {
	s := New(Options{})
	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/relative/path"} {
		if _, err := s.Scrape(context.Background(), raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Scrape(%q) err = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestScrapeNoContent(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second})

	_, err := s.Scrape(context.Background(), srv.URL+"/empty")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

type fakeCache struct {
	m    map[string]string
	sets int
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.m[key]
	return v, ok
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.m[key] = value
	c.sets++
}

func TestScrapeUsesCache(t *testing.T) {
	var hits atomic.Int64
	srv := newJobServer(t, &hits)
	cache := &fakeCache{m: map[string]string{}}
	s := New(Options{Timeout: 5 * time.Second, Cache: cache})

	url := srv.URL + "/job"
	first, err := s.Scrape(context.Background(), url)
	if err != nil {
		t.Fatalf("first Scrape: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := s.Scrape(context.Background(), url)
	if err != nil {
		t.Fatalf("second Scrape: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second read should come from cache)", got)
	}
	if first.Title != second.Title || first.Description != second.Description {
		t.Errorf("cached posting differs from original")
	}
}

func TestScrapeHeadlessFallback(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second, Headless: true})
	s.fetchRendered = func(ctx context.Context, jobURL string, profile *Profile) (string, error) {
		return jobPageHTML, nil
	}

	p, err := s.Scrape(context.Background(), srv.URL+"/empty")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if !strings.Contains(p.Description, "## Responsibilities") {
		t.Errorf("rendered description not used:\n%s", p.Description)
	}
	found := false
	for _, n := range p.Notes {
		if strings.Contains(n, "headless") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing headless note, notes = %v", p.Notes)
	}
}

func TestScrapeTruncatesDescription(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second, MaxDescriptionChars: 120})

	p, err := s.Scrape(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if got := len([]rune(p.Description)); got > 120 {
		t.Errorf("description length = %d, want <= 120", got)
	}
	found := false
	for _, n := range p.Notes {
		if strings.Contains(n, "truncated") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing truncation note, notes = %v", p.Notes)
	}
}

func TestScrapeMany(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second})

	urls := []string{srv.URL + "/job", srv.URL + "/job", srv.URL + "/missing"}
	results := s.ScrapeMany(context.Background(), urls, 2)
	if len(results) != len(urls) {
		t.Fatalf("results = %d, want %d", len(results), len(urls))
	}

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			if !strings.HasSuffix(r.URL, "/missing") {
				t.Errorf("unexpected failure for %s: %v", r.URL, r.Err)
			}
			continue
		}
		if r.Posting.Title == "" {
			t.Errorf("empty title for %s", r.URL)
		}
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

func TestScrapeManyRateLimited(t *testing.T) {
	srv := newJobServer(t, nil)
	s := New(Options{Timeout: 5 * time.Second, BatchRateLimit: 2})

	urls := []string{srv.URL + "/job", srv.URL + "/job", srv.URL + "/job"}
	start := time.Now()
	results := s.ScrapeMany(context.Background(), urls, 3)
	elapsed := time.Since(start)

	if len(results) != len(urls) {
		t.Fatalf("results = %d, want %d", len(results), len(urls))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected failure for %s: %v", r.URL, r.Err)
		}
	}
	// Three requests at 2 rps cannot finish inside the first second.
	if elapsed < 500*time.Millisecond {
		t.Errorf("batch finished in %s, rate limit not applied", elapsed)
	}
}
