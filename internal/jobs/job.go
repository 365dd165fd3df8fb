package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// Status moves forward only: pending -> scraping -> scraped | error.
type Status string

const (
	StatusPending  Status = "pending"
	StatusScraping Status = "scraping"
	StatusScraped  Status = "scraped"
	StatusError    Status = "error"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusScraping},
	StatusScraping: {StatusScraped, StatusError},
	StatusScraped:  {},
	StatusError:    {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Job tracks one posting through its scrape and prompt lifecycle.
// Applied and the prompt fields stay mutable after the status settles.
type Job struct {
	ID              uuid.UUID `json:"id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	SalaryRange     string    `json:"salary_range"`
	Description     string    `json:"description"`
	Status          Status    `json:"status"`
	Applied         bool      `json:"applied"`
	Prompt          string    `json:"prompt,omitempty"`
	PromptWordCount int       `json:"prompt_word_count"`
	PromptCharCount int       `json:"prompt_char_count"`
	LastError       string    `json:"last_error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (j *Job) transition(to Status) error {
	if !j.Status.CanTransition(to) {
		return ErrInvalidTransition
	}
	j.Status = to
	return nil
}
