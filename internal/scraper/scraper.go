package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

var (
	ErrInvalidURL = errors.New("invalid job url")
	ErrNoContent  = errors.New("no job description content found")
)

// Cache is the scrape-result cache. Lookups that miss or fail must
// report a miss so scraping proceeds without it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
}

type Options struct {
	Timeout             time.Duration
	MaxDescriptionChars int
	TrimNoise           bool
	Headless            bool
	CacheTTL            time.Duration
	Cache               Cache
	Logger              *log.Logger

	// BatchRateLimit caps batch scrapes in requests per second.
	// Zero or negative leaves batches unthrottled.
	BatchRateLimit int
}

type Scraper struct {
	timeout   time.Duration
	maxChars  int
	trimNoise bool
	headless  bool
	cacheTTL  time.Duration
	cache     Cache
	logger    *log.Logger
	rateLimit int

	// Swapped out in tests; chromedp needs a real browser.
	fetchRendered func(ctx context.Context, jobURL string, profile *Profile) (string, error)
}

func New(opts Options) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxDescriptionChars <= 0 {
		opts.MaxDescriptionChars = 15000
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 6 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Scraper{
		timeout:       opts.Timeout,
		maxChars:      opts.MaxDescriptionChars,
		trimNoise:     opts.TrimNoise,
		headless:      opts.Headless,
		cacheTTL:      opts.CacheTTL,
		cache:         opts.Cache,
		logger:        opts.Logger,
		rateLimit:     opts.BatchRateLimit,
		fetchRendered: fetchRenderedHTML,
	}
}

// Scrape fetches a job posting page and extracts its metadata and
// description. Static fetch first; headless rendering kicks in for
// boards that require it or when the static pass finds nothing.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (Posting, error) {
	rawURL, err := NormalizeURL(rawURL)
	if err != nil {
		return Posting{}, err
	}

	key := cacheKey(rawURL)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var p Posting
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return p, nil
			}
		}
	}

	profile := DetectProfile(rawURL)
	profileName := "generic"
	if profile != nil {
		profileName = profile.Name
	}

	p := Posting{URL: rawURL}
	rendered := false

	if profile != nil && profile.NeedsHeadless && s.headless {
		if err := s.scrapeRendered(ctx, rawURL, profile, &p); err != nil {
			s.logger.Printf("headless scrape failed, falling back to static | url=%s err=%v", rawURL, err)
		} else {
			rendered = true
		}
	}

	if !rendered {
		htmlStr, err := s.fetchStatic(ctx, rawURL)
		if err != nil {
			return Posting{}, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		if err := s.parseInto(rawURL, htmlStr, profile, &p); err != nil {
			return Posting{}, err
		}
	}

	if p.Description == "" && s.headless && !rendered {
		s.logger.Printf("static scrape found no content, retrying headless | url=%s profile=%s", rawURL, profileName)
		if err := s.scrapeRendered(ctx, rawURL, profile, &p); err == nil {
			rendered = true
		}
	}

	if p.Description == "" {
		return p, ErrNoContent
	}
	if rendered {
		p.note("rendered with headless browser")
	}

	s.logger.Printf("scraped job posting | url=%s profile=%s title=%q chars=%d",
		rawURL, profileName, p.Title, len(p.Description))

	if s.cache != nil {
		if b, err := json.Marshal(p); err == nil {
			s.cache.Set(ctx, key, string(b), s.cacheTTL)
		}
	}
	return p, nil
}

// ScrapeMany scrapes urls concurrently with a bounded worker pool.
// Result order follows completion, not input.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string, workers int) []BatchResult {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(urls) && len(urls) > 0 {
		workers = len(urls)
	}

	pool := NewWorkerPool(workers, len(urls))
	pool.SetRateLimit(s.rateLimit)
	results := pool.Run(ctx)

	for _, u := range urls {
		u := u
		pool.Submit(func(ctx context.Context) BatchResult {
			p, err := s.Scrape(ctx, u)
			return BatchResult{URL: u, Posting: p, Err: err}
		})
	}
	pool.Close()

	out := make([]BatchResult, 0, len(urls))
	for r := range results {
		out = append(out, r)
	}
	return out
}

func (s *Scraper) scrapeRendered(ctx context.Context, rawURL string, profile *Profile, p *Posting) error {
	htmlStr, err := s.fetchRendered(ctx, rawURL, profile)
	if err != nil {
		return err
	}
	return s.parseInto(rawURL, htmlStr, profile, p)
}

func (s *Scraper) fetchStatic(ctx context.Context, rawURL string) (string, error) {
	allowed := hostFromURL(rawURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err := c.Visit(rawURL); err != nil {
		return "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", reqErr
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty response body")
	}
	return string(body), nil
}

func (s *Scraper) parseInto(rawURL, htmlStr string, profile *Profile, p *Posting) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}

	extractMetadata(doc, profile, p)
	stripJunk(doc)

	container := findContentContainer(doc, profile)
	if container == nil {
		return nil
	}

	text := cleanText(renderBlocks(container), s.trimNoise)
	if runes := []rune(text); len(runes) > s.maxChars {
		text = strings.TrimSpace(string(runes[:s.maxChars]))
		p.note(fmt.Sprintf("description truncated at %d characters", s.maxChars))
	}
	p.Description = text
	return nil
}

// NormalizeURL trims and validates a job posting URL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}

func cacheKey(rawURL string) string {
	h := sha1.Sum([]byte(rawURL))
	return "scrape:" + hex.EncodeToString(h[:])
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
