package dto

import (
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"
)

type PromptResponse struct {
	Prompt    string `json:"prompt"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

type FileResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type ScrapeResponse struct {
	Posting     scraper.Posting `json:"posting"`
	PromptBlock string          `json:"prompt_block"`
}

type BatchScrapeItem struct {
	URL     string           `json:"url"`
	Posting *scraper.Posting `json:"posting,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
