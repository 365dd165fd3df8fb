package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/justin-aj/tailor-resume-ai/internal/scraper"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"
)

type fakeScraper struct {
	posting scraper.Posting
	err     error
	calls   int
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (scraper.Posting, error) {
	f.calls++
	if f.err != nil {
		return scraper.Posting{}, f.err
	}
	p := f.posting
	p.URL = url
	return p, nil
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) JobEvent(eventType string, j Job) {
	r.events = append(r.events, eventType+":"+string(j.Status))
}

func newTestFiles(t *testing.T, resume string) *storage.Store {
	t.Helper()
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "resume.tex")
	if resume != "" {
		if err := os.WriteFile(resumePath, []byte(resume), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	st, err := storage.NewStore(resumePath, filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func newTestService(t *testing.T, sc PostingScraper, rec *eventRecorder, resume string) *Service {
	t.Helper()
	var n Notifier
	if rec != nil {
		n = rec
	}
	return NewService(NewMemoryStore(), sc, newTestFiles(t, resume), n, nil)
}

func TestCreateValidatesURL(t *testing.T) {
	svc := newTestService(t, &fakeScraper{}, nil, "")
	for _, raw := range []string{"", "nope", "ftp://example.com"} {
		if _, err := svc.Create(context.Background(), raw); !errors.Is(err, scraper.ErrInvalidURL) {
			t.Errorf("Create(%q) err = %v, want ErrInvalidURL", raw, err)
		}
	}

	j, err := svc.Create(context.Background(), "https://example.com/job/1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if j.Status != StatusPending {
		t.Errorf("status = %s, want pending", j.Status)
	}
	if j.ID == uuid.Nil {
		t.Errorf("id not assigned")
	}
}

func TestScrapeLifecycle(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Description: "Build pipelines.",
	}}
	rec := &eventRecorder{}
	svc := newTestService(t, sc, rec, "")

	j, err := svc.Create(context.Background(), "https://example.com/job/1")
	if err != nil {
		t.Fatal(err)
	}

	j, err = svc.Scrape(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if j.Status != StatusScraped {
		t.Errorf("status = %s, want scraped", j.Status)
	}
	if j.Title != "Data Engineer" || j.Description != "Build pipelines." {
		t.Errorf("posting fields not stored: %+v", j)
	}

	want := []string{
		"job_created:pending",
		"job_updated:scraping",
		"job_updated:scraped",
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, rec.events[i], want[i])
		}
	}
}

func TestScrapeFailureSettlesAtError(t *testing.T) {
	sc := &fakeScraper{err: fmt.Errorf("fetch failed: connection refused")}
	svc := newTestService(t, sc, nil, "")

	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	j, err := svc.Scrape(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Scrape should settle the job, not fail: %v", err)
	}
	if j.Status != StatusError {
		t.Errorf("status = %s, want error", j.Status)
	}
	if !strings.Contains(j.LastError, "connection refused") {
		t.Errorf("last_error = %q", j.LastError)
	}
}

func TestScrapeRejectsSettledJob(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{Title: "X", Description: "Y"}}
	svc := newTestService(t, sc, nil, "")

	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	if _, err := svc.Scrape(context.Background(), j.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Scrape(context.Background(), j.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Scrape err = %v, want ErrInvalidTransition", err)
	}
	if sc.calls != 1 {
		t.Errorf("scraper calls = %d, want 1", sc.calls)
	}
}

func TestBuildPrompt(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Description: "Build pipelines with Python.",
	}}
	svc := newTestService(t, sc, nil, `\documentclass{article}`)

	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	j, _ = svc.Scrape(context.Background(), j.ID)

	j, err := svc.BuildPrompt(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(j.Prompt, "## Data Engineer") {
		t.Errorf("prompt missing posting block")
	}
	if !strings.Contains(j.Prompt, `\documentclass{article}`) {
		t.Errorf("prompt missing resume content")
	}
	if j.PromptWordCount == 0 || j.PromptCharCount == 0 {
		t.Errorf("prompt counts not set: words=%d chars=%d", j.PromptWordCount, j.PromptCharCount)
	}
}

func TestBuildPromptRequiresScrapedDescription(t *testing.T) {
	svc := newTestService(t, &fakeScraper{}, nil, "resume")
	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	if _, err := svc.BuildPrompt(context.Background(), j.ID); !errors.Is(err, ErrNotScraped) {
		t.Errorf("err = %v, want ErrNotScraped", err)
	}
}

func TestBuildPromptRequiresResumeFile(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{Description: "something"}}
	svc := newTestService(t, sc, nil, "")
	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	j, _ = svc.Scrape(context.Background(), j.ID)
	if _, err := svc.BuildPrompt(context.Background(), j.ID); !errors.Is(err, ErrEmptyResume) {
		t.Errorf("err = %v, want ErrEmptyResume", err)
	}
}

func TestSetAppliedAndDelete(t *testing.T) {
	rec := &eventRecorder{}
	svc := newTestService(t, &fakeScraper{}, rec, "")

	j, _ := svc.Create(context.Background(), "https://example.com/job/1")
	j, err := svc.SetApplied(context.Background(), j.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !j.Applied {
		t.Errorf("applied flag not set")
	}

	if err := svc.Delete(context.Background(), j.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), j.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	last := rec.events[len(rec.events)-1]
	if !strings.HasPrefix(last, EventDeleted) {
		t.Errorf("last event = %s, want %s", last, EventDeleted)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	svc := newTestService(t, &fakeScraper{}, nil, "")
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), fmt.Sprintf("https://example.com/job/%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("list not sorted newest first")
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusScraping, true},
		{StatusScraping, StatusScraped, true},
		{StatusScraping, StatusError, true},
		{StatusPending, StatusScraped, false},
		{StatusScraped, StatusScraping, false},
		{StatusScraped, StatusPending, false},
		{StatusError, StatusScraping, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
