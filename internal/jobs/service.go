package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/justin-aj/tailor-resume-ai/internal/prompt"
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"
)

var (
	ErrNotScraped  = errors.New("job has no scraped description yet")
	ErrEmptyResume = errors.New("tracked resume file is empty")
)

type Store interface {
	Create(ctx context.Context, j Job) error
	Get(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, j Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostingScraper interface {
	Scrape(ctx context.Context, url string) (scraper.Posting, error)
}

// Notifier receives job lifecycle events. A nil notifier is allowed.
type Notifier interface {
	JobEvent(eventType string, job Job)
}

const (
	EventCreated = "job_created"
	EventUpdated = "job_updated"
	EventDeleted = "job_deleted"
)

type Service struct {
	store    Store
	scraper  PostingScraper
	files    *storage.Store
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewService(store Store, sc PostingScraper, files *storage.Store, notifier Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:    store,
		scraper:  sc,
		files:    files,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, url string) (Job, error) {
	p, err := parseJobURL(url)
	if err != nil {
		return Job{}, err
	}

	now := s.now()
	j := Job{
		ID:        uuid.New(),
		URL:       p,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, j); err != nil {
		return Job{}, err
	}
	s.logger.Printf("job created | id=%s url=%s", j.ID, j.URL)
	s.emit(EventCreated, j)
	return j, nil
}

// Scrape runs the scraper against the job's URL and settles the job at
// scraped or error. Re-scraping a settled job is rejected.
func (s *Service) Scrape(ctx context.Context, id uuid.UUID) (Job, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}

	if err := j.transition(StatusScraping); err != nil {
		return Job{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusScraping)
	}
	j.UpdatedAt = s.now()
	if err := s.store.Update(ctx, j); err != nil {
		return Job{}, err
	}
	s.emit(EventUpdated, j)

	posting, scrapeErr := s.scraper.Scrape(ctx, j.URL)
	if scrapeErr != nil {
		_ = j.transition(StatusError)
		j.LastError = scrapeErr.Error()
		j.UpdatedAt = s.now()
		if err := s.store.Update(ctx, j); err != nil {
			return Job{}, err
		}
		s.logger.Printf("job scrape failed | id=%s err=%v", j.ID, scrapeErr)
		s.emit(EventUpdated, j)
		return j, nil
	}

	j.Title = posting.Title
	j.Company = posting.Company
	j.Location = posting.Location
	j.SalaryRange = posting.SalaryRange
	j.Description = posting.Description
	j.LastError = ""
	_ = j.transition(StatusScraped)
	j.UpdatedAt = s.now()
	if err := s.store.Update(ctx, j); err != nil {
		return Job{}, err
	}
	s.logger.Printf("job scraped | id=%s title=%q", j.ID, j.Title)
	s.emit(EventUpdated, j)
	return j, nil
}

// BuildPrompt assembles the tailoring prompt from the scraped posting
// and the tracked resume and notes files, and stores it on the job.
func (s *Service) BuildPrompt(ctx context.Context, id uuid.UUID) (Job, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if j.Description == "" {
		return Job{}, ErrNotScraped
	}

	resume, err := s.files.Load(storage.DocResume)
	if err != nil {
		return Job{}, err
	}
	if resume == "" {
		return Job{}, ErrEmptyResume
	}
	notes, err := s.files.Load(storage.DocNotes)
	if err != nil {
		return Job{}, err
	}

	block := scraper.Posting{
		URL:         j.URL,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		SalaryRange: j.SalaryRange,
		Description: j.Description,
	}.PromptBlock()

	res := prompt.Assemble(block, resume, notes)
	j.Prompt = res.Prompt
	j.PromptWordCount = res.WordCount
	j.PromptCharCount = res.CharCount
	j.UpdatedAt = s.now()
	if err := s.store.Update(ctx, j); err != nil {
		return Job{}, err
	}
	s.emit(EventUpdated, j)
	return j, nil
}

func (s *Service) SetApplied(ctx context.Context, id uuid.UUID, applied bool) (Job, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	j.Applied = applied
	j.UpdatedAt = s.now()
	if err := s.store.Update(ctx, j); err != nil {
		return Job{}, err
	}
	s.emit(EventUpdated, j)
	return j, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Job, error) {
	return s.store.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(EventDeleted, j)
	return nil
}

func (s *Service) emit(eventType string, j Job) {
	if s.notifier == nil {
		return
	}
	s.notifier.JobEvent(eventType, j)
}

func parseJobURL(raw string) (string, error) {
	p, err := scraper.NormalizeURL(raw)
	if err != nil {
		return "", err
	}
	return p, nil
}
