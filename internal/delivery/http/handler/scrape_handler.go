package handler

import (
	"context"
	"errors"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"

	"github.com/gofiber/fiber/v3"
)

const maxBatchURLs = 20

type PostingScraper interface {
	Scrape(ctx context.Context, url string) (scraper.Posting, error)
	ScrapeMany(ctx context.Context, urls []string, workers int) []scraper.BatchResult
}

type ScrapeHandler struct {
	scraper PostingScraper
}

func NewScrapeHandler(sc PostingScraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: sc}
}

func (h *ScrapeHandler) HandleScrape(c fiber.Ctx) error {
	var req dto.ScrapeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.scraper.Scrape(c.Context(), req.URL)
	if err != nil {
		if errors.Is(err, scraper.ErrInvalidURL) {
			return middleware.NewAppError(fiber.StatusBadRequest, "invalid job url", nil, err)
		}
		if errors.Is(err, scraper.ErrNoContent) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "no job description found", nil, err)
		}
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ScrapeResponse{
		Posting:     p,
		PromptBlock: p.PromptBlock(),
	})
}

func (h *ScrapeHandler) HandleBatchScrape(c fiber.Ctx) error {
	var req dto.BatchScrapeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if len(req.URLs) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "urls is required", nil, nil)
	}
	if len(req.URLs) > maxBatchURLs {
		return middleware.NewAppError(fiber.StatusBadRequest, "too many urls", map[string]any{
			"max": maxBatchURLs,
		}, nil)
	}

	results := h.scraper.ScrapeMany(c.Context(), req.URLs, req.Workers)

	items := make([]dto.BatchScrapeItem, 0, len(results))
	for _, r := range results {
		item := dto.BatchScrapeItem{URL: r.URL}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			p := r.Posting
			item.Posting = &p
		}
		items = append(items, item)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
