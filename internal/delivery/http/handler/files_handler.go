package handler

import (
	"errors"

	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"

	"github.com/gofiber/fiber/v3"
)

type FilesHandler struct {
	store *storage.Store
}

func NewFilesHandler(store *storage.Store) *FilesHandler {
	return &FilesHandler{store: store}
}

func (h *FilesHandler) HandleGet(c fiber.Ctx) error {
	name := c.Params("name")
	content, err := h.store.Load(name)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownDocument) {
			return middleware.NewAppError(fiber.StatusNotFound, "unknown document", nil, err)
		}
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FileResponse{
		Name:    name,
		Content: content,
	})
}

func (h *FilesHandler) HandlePut(c fiber.Ctx) error {
	name := c.Params("name")

	var req dto.FileSaveRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.store.Save(name, req.Content); err != nil {
		if errors.Is(err, storage.ErrUnknownDocument) {
			return middleware.NewAppError(fiber.StatusNotFound, "unknown document", nil, err)
		}
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"name":  name,
		"bytes": len(req.Content),
	})
}
