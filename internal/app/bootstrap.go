package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/justin-aj/tailor-resume-ai/internal/config"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/handler"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/routes"
	"github.com/justin-aj/tailor-resume-ai/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware().Middleware())

	deps := routes.Deps{
		Health: handler.NewHealthHandler(cfg.App.AppName, cfg.App.Environment),
		Home:   handler.NewHomeHandler(),
		Prompt: handler.NewPromptHandler(),
		Files:  handler.NewFilesHandler(c.Files),
		Latex:  handler.NewLatexHandler(c.Compiler, c.Files, cfg.LaTeX.OutputDir),
		Scrape: handler.NewScrapeHandler(c.Scraper),
		Jobs:   handler.NewJobsHandler(c.Jobs),
		WS:     ws.NewHandler(c.Hub, logger),
	}
	if c.JWT != nil {
		deps.Auth = handler.NewAuthHandler(c.JWT, cfg.Auth.PassphraseHash)
		deps.AuthMW = middleware.NewAuthMiddleware(c.JWT)
	}
	routes.Register(f, deps)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
