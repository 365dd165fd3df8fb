package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/handler"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/routes"
	"github.com/justin-aj/tailor-resume-ai/internal/jobs"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/jwt"
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

const testPassphrase = "open sesame"

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeScraper struct {
	posting scraper.Posting
	err     error
}

func (f *fakeScraper) Scrape(ctx context.Context, jobURL string) (scraper.Posting, error) {
	if f.err != nil {
		return scraper.Posting{}, f.err
	}
	if _, err := scraper.NormalizeURL(jobURL); err != nil {
		return scraper.Posting{}, err
	}
	p := f.posting
	p.URL = jobURL
	return p, nil
}

func (f *fakeScraper) ScrapeMany(ctx context.Context, urls []string, workers int) []scraper.BatchResult {
	out := make([]scraper.BatchResult, 0, len(urls))
	for _, u := range urls {
		p, err := f.Scrape(ctx, u)
		out = append(out, scraper.BatchResult{URL: u, Posting: p, Err: err})
	}
	return out
}

func newTestApp(t *testing.T, sc *fakeScraper) (*fiber.App, *storage.Store) {
	t.Helper()

	dir := t.TempDir()
	files, err := storage.NewStore(filepath.Join(dir, "resume.tex"), filepath.Join(dir, "notes.md"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	svc := jobs.NewService(jobs.NewMemoryStore(), sc, files, nil, logger)

	jwtSvc := jwt.NewHMACService("test-secret", time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware().Middleware())

	routes.Register(app, routes.Deps{
		Health: handler.NewHealthHandler("tailor-resume-ai", "test"),
		Home:   handler.NewHomeHandler(),
		Prompt: handler.NewPromptHandler(),
		Files:  handler.NewFilesHandler(files),
		Latex:  handler.NewLatexHandler(nil, files, filepath.Join(dir, "output")),
		Scrape: handler.NewScrapeHandler(sc),
		Jobs:   handler.NewJobsHandler(svc),
		Auth:   handler.NewAuthHandler(jwtSvc, string(hash)),
		AuthMW: middleware.NewAuthMiddleware(jwtSvc),
	})
	return app, files
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, semanticResponse) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s decode: %v", method, path, err)
	}
	return resp.StatusCode, sr
}

func ownerToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	code, sr := doJSON(t, app, "POST", "/api/v1/auth/token", "", map[string]string{"passphrase": testPassphrase})
	if code != http.StatusOK {
		t.Fatalf("token: expected 200, got %d (message=%s)", code, sr.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil {
		t.Fatalf("token decode: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("token: empty token")
	}
	return data.Token
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	code, sr := doJSON(t, app, "GET", "/health", "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if sr.Message != "ok" {
		t.Fatalf("expected message=ok, got %s", sr.Message)
	}
}

func TestAuthRejectsWrongPassphrase(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	code, _ := doJSON(t, app, "POST", "/api/v1/auth/token", "", map[string]string{"passphrase": "wrong"})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	code, _ := doJSON(t, app, "PUT", "/api/v1/files/resume", "", map[string]string{"content": "x"})
	if code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", code)
	}

	req := httptest.NewRequest("PUT", "/api/v1/files/resume", bytes.NewReader([]byte(`{"content":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", resp.StatusCode)
	}
}

func TestFileRoundTrip(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})
	tok := ownerToken(t, app)

	code, _ := doJSON(t, app, "PUT", "/api/v1/files/resume", tok, map[string]string{"content": "\\documentclass{article}"})
	if code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", code)
	}

	code, sr := doJSON(t, app, "GET", "/api/v1/files/resume", "", nil)
	if code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", code)
	}
	var data struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Content != "\\documentclass{article}" {
		t.Fatalf("content round trip: got %q", data.Content)
	}

	code, _ = doJSON(t, app, "GET", "/api/v1/files/cover-letter", "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown document: expected 404, got %d", code)
	}
}

func TestPromptEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	code, sr := doJSON(t, app, "POST", "/api/v1/prompt", "", map[string]string{
		"job_description": "Build data pipelines.",
		"latex_resume":    "\\documentclass{article}",
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (message=%s)", code, sr.Message)
	}
	var data struct {
		Prompt    string `json:"prompt"`
		WordCount int    `json:"word_count"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Prompt == "" || data.WordCount == 0 {
		t.Fatalf("expected assembled prompt, got %+v", data)
	}

	code, _ = doJSON(t, app, "POST", "/api/v1/prompt", "", map[string]string{"latex_resume": "x"})
	if code != http.StatusBadRequest {
		t.Fatalf("missing job_description: expected 400, got %d", code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	long := "\\item " + string(bytes.Repeat([]byte("x"), 120))
	code, sr := doJSON(t, app, "POST", "/api/v1/validate", "", map[string]string{"content": long})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var data struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Severity string `json:"severity"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Valid {
		t.Fatalf("expected over-long line to fail validation")
	}
	if len(data.Issues) == 0 {
		t.Fatalf("expected at least one issue")
	}
}

func TestCompileWithoutEngine(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})
	tok := ownerToken(t, app)

	code, _ := doJSON(t, app, "POST", "/api/v1/compile", tok, map[string]string{"content": "\\documentclass{article}"})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with no engine, got %d", code)
	}
}

func TestScrapeEndpoint(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Description: "Build pipelines.",
	}}
	app, _ := newTestApp(t, sc)
	tok := ownerToken(t, app)

	code, sr := doJSON(t, app, "POST", "/api/v1/scrape", tok, map[string]string{"url": "https://boards.greenhouse.io/acme/jobs/1"})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (message=%s)", code, sr.Message)
	}
	var data struct {
		Posting     scraper.Posting `json:"posting"`
		PromptBlock string          `json:"prompt_block"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Posting.Title != "Data Engineer" || data.PromptBlock == "" {
		t.Fatalf("unexpected scrape payload: %+v", data)
	}

	code, _ = doJSON(t, app, "POST", "/api/v1/scrape", tok, map[string]string{"url": "not a url"})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid url: expected 400, got %d", code)
	}
}

func TestBatchScrapeLimits(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})
	tok := ownerToken(t, app)

	code, _ := doJSON(t, app, "POST", "/api/v1/scrape/batch", tok, map[string]any{"urls": []string{}})
	if code != http.StatusBadRequest {
		t.Fatalf("empty urls: expected 400, got %d", code)
	}

	urls := make([]string, 21)
	for i := range urls {
		urls[i] = "https://example.com/jobs/1"
	}
	code, _ = doJSON(t, app, "POST", "/api/v1/scrape/batch", tok, map[string]any{"urls": urls})
	if code != http.StatusBadRequest {
		t.Fatalf("too many urls: expected 400, got %d", code)
	}
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	sc := &fakeScraper{posting: scraper.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Description: "Build pipelines with Go.",
	}}
	app, files := newTestApp(t, sc)
	tok := ownerToken(t, app)

	if err := files.Save(storage.DocResume, "\\documentclass{article}"); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	code, sr := doJSON(t, app, "POST", "/api/v1/jobs", tok, map[string]string{"url": "https://jobs.lever.co/acme/1"})
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (message=%s)", code, sr.Message)
	}
	var created jobs.Job
	if err := json.Unmarshal(sr.Data, &created); err != nil {
		t.Fatalf("create decode: %v", err)
	}
	if created.Status != jobs.StatusPending {
		t.Fatalf("create: expected pending, got %s", created.Status)
	}

	id := created.ID.String()

	code, sr = doJSON(t, app, "POST", "/api/v1/jobs/"+id+"/scrape", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("scrape: expected 200, got %d (message=%s)", code, sr.Message)
	}
	var scraped jobs.Job
	if err := json.Unmarshal(sr.Data, &scraped); err != nil {
		t.Fatalf("scrape decode: %v", err)
	}
	if scraped.Status != jobs.StatusScraped || scraped.Title != "Data Engineer" {
		t.Fatalf("scrape: got status=%s title=%s", scraped.Status, scraped.Title)
	}

	code, _ = doJSON(t, app, "POST", "/api/v1/jobs/"+id+"/scrape", tok, nil)
	if code != http.StatusConflict {
		t.Fatalf("re-scrape: expected 409, got %d", code)
	}

	code, sr = doJSON(t, app, "POST", "/api/v1/jobs/"+id+"/prompt", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("prompt: expected 200, got %d (message=%s)", code, sr.Message)
	}
	var prompted jobs.Job
	if err := json.Unmarshal(sr.Data, &prompted); err != nil {
		t.Fatalf("prompt decode: %v", err)
	}
	if prompted.Prompt == "" || prompted.PromptWordCount == 0 {
		t.Fatalf("prompt: expected assembled prompt on job")
	}

	code, sr = doJSON(t, app, "PATCH", "/api/v1/jobs/"+id, tok, map[string]bool{"applied": true})
	if code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", code)
	}
	var patched jobs.Job
	if err := json.Unmarshal(sr.Data, &patched); err != nil {
		t.Fatalf("patch decode: %v", err)
	}
	if !patched.Applied {
		t.Fatalf("patch: expected applied=true")
	}

	code, sr = doJSON(t, app, "GET", "/api/v1/jobs", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", code)
	}
	var list []jobs.Job
	if err := json.Unmarshal(sr.Data, &list); err != nil {
		t.Fatalf("list decode: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list: expected 1 job, got %d", len(list))
	}

	code, _ = doJSON(t, app, "DELETE", "/api/v1/jobs/"+id, tok, nil)
	if code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", code)
	}
	code, _ = doJSON(t, app, "GET", "/api/v1/jobs/"+id, "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", code)
	}
}

func TestJobInvalidID(t *testing.T) {
	app, _ := newTestApp(t, &fakeScraper{})

	code, _ := doJSON(t, app, "GET", "/api/v1/jobs/not-a-uuid", "", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
