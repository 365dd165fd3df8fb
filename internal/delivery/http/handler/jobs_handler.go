package handler

import (
	"errors"

	"github.com/google/uuid"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/jobs"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	svc *jobs.Service
}

func NewJobsHandler(svc *jobs.Service) *JobsHandler {
	return &JobsHandler{svc: svc}
}

func (h *JobsHandler) HandleCreate(c fiber.Ctx) error {
	var req dto.JobCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.svc.Create(c.Context(), req.URL)
	if err != nil {
		if errors.Is(err, scraper.ErrInvalidURL) {
			return middleware.NewAppError(fiber.StatusBadRequest, "invalid job url", nil, err)
		}
		return err
	}
	return response.Success(c, fiber.StatusCreated, "created", j)
}

func (h *JobsHandler) HandleList(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, list)
}

func (h *JobsHandler) HandleGet(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	j, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) HandleScrape(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	j, err := h.svc.Scrape(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) HandlePrompt(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	j, err := h.svc.BuildPrompt(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) HandlePatch(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	var req dto.JobPatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Applied == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "applied is required", nil, nil)
	}

	j, err := h.svc.SetApplied(c.Context(), id, *req.Applied)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) HandleDelete(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func parseJobID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid job id", nil, err)
	}
	return id, nil
}

func mapJobError(err error) error {
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "job not found", nil, err)
	case errors.Is(err, jobs.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "job already settled", nil, err)
	case errors.Is(err, jobs.ErrNotScraped):
		return middleware.NewAppError(fiber.StatusConflict, "job has not been scraped", nil, err)
	case errors.Is(err, jobs.ErrEmptyResume):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "tracked resume file is empty", nil, err)
	default:
		return err
	}
}
