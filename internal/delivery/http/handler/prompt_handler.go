package handler

import (
	"strings"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"
	"github.com/justin-aj/tailor-resume-ai/internal/prompt"

	"github.com/gofiber/fiber/v3"
)

type PromptHandler struct{}

func NewPromptHandler() *PromptHandler {
	return &PromptHandler{}
}

func (h *PromptHandler) HandleAssemble(c fiber.Ctx) error {
	var req dto.PromptRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if strings.TrimSpace(req.JobDescription) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_description is required", nil, nil)
	}
	if strings.TrimSpace(req.LatexResume) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "latex_resume is required", nil, nil)
	}

	res := prompt.Assemble(req.JobDescription, req.LatexResume, req.AdditionalInfo)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.PromptResponse{
		Prompt:    res.Prompt,
		WordCount: res.WordCount,
		CharCount: res.CharCount,
	})
}
