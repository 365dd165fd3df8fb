package routes

import (
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/handler"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	v1 "github.com/justin-aj/tailor-resume-ai/internal/delivery/http/routes/v1"
	"github.com/justin-aj/tailor-resume-ai/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Health *handler.HealthHandler
	Home   *handler.HomeHandler
	Prompt *handler.PromptHandler
	Files  *handler.FilesHandler
	Latex  *handler.LatexHandler
	Scrape *handler.ScrapeHandler
	Jobs   *handler.JobsHandler
	Auth   *handler.AuthHandler
	AuthMW *middleware.AuthMiddleware
	WS     *ws.Handler
}

func Register(app *fiber.App, d Deps) {
	if app == nil {
		return
	}

	d.Health.RegisterRoutes(app)
	app.Get("/", d.Home.Handle)

	if d.WS != nil {
		app.Get("/ws/jobs", d.WS.HandleJobsWS)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Deps{
		Prompt: d.Prompt,
		Files:  d.Files,
		Latex:  d.Latex,
		Scrape: d.Scrape,
		Jobs:   d.Jobs,
		Auth:   d.Auth,
		AuthMW: d.AuthMW,
	})
}
