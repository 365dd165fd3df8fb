package handler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/latex"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"

	"github.com/gofiber/fiber/v3"
)

// SourceCompiler is satisfied by both the local engine and the cloud
// fallback compiler.
type SourceCompiler interface {
	CompileSource(ctx context.Context, src string, outputPath string) (string, error)
}

type LatexHandler struct {
	compiler  SourceCompiler
	store     *storage.Store
	outputDir string
}

func NewLatexHandler(compiler SourceCompiler, store *storage.Store, outputDir string) *LatexHandler {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = "output"
	}
	return &LatexHandler{compiler: compiler, store: store, outputDir: outputDir}
}

func (h *LatexHandler) HandleValidate(c fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "content is required", nil, nil)
	}

	rep := latex.Validate(req.Content)
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *LatexHandler) HandleCompile(c fiber.Ctx) error {
	if h.compiler == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "no latex engine available", nil, nil)
	}

	var req dto.CompileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	src := req.Content
	if strings.TrimSpace(src) == "" {
		loaded, err := h.store.Load(storage.DocResume)
		if err != nil {
			return err
		}
		src = loaded
	}
	if strings.TrimSpace(src) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "no content to compile", nil, nil)
	}

	outputPath := filepath.Join(h.outputDir, "resume.pdf")
	pdfPath, err := h.compiler.CompileSource(c.Context(), src, outputPath)
	if err != nil {
		var cerr *latex.CompileError
		if errors.As(err, &cerr) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "latex compilation failed", map[string]any{
				"pass":   cerr.Pass,
				"errors": latex.ExtractLogErrors(cerr.Log),
			}, err)
		}
		if errors.Is(err, latex.ErrPDFNotProduced) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "no pdf produced", nil, err)
		}
		return err
	}

	return c.Download(pdfPath, "resume.pdf")
}
