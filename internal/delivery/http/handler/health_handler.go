package handler

import (
	"time"

	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	appName string
	env     string
	started time.Time
}

func NewHealthHandler(appName, env string) *HealthHandler {
	return &HealthHandler{appName: appName, env: env, started: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Handle)
}

func (h *HealthHandler) Handle(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"app":    h.appName,
		"env":    h.env,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
