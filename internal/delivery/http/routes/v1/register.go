package v1

import (
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/handler"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Prompt *handler.PromptHandler
	Files  *handler.FilesHandler
	Latex  *handler.LatexHandler
	Scrape *handler.ScrapeHandler
	Jobs   *handler.JobsHandler
	Auth   *handler.AuthHandler
	AuthMW *middleware.AuthMiddleware
}

// Register mounts the v1 API. Read routes stay open; mutating routes
// go through the auth middleware when one is configured.
func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	if d.Auth != nil {
		r.Post("/auth/token", d.Auth.HandleToken)
	}

	r.Post("/prompt", d.Prompt.HandleAssemble)
	r.Post("/validate", d.Latex.HandleValidate)
	r.Get("/files/:name", d.Files.HandleGet)
	r.Get("/jobs", d.Jobs.HandleList)
	r.Get("/jobs/:id", d.Jobs.HandleGet)

	protected := r.Group("")
	if d.AuthMW != nil {
		protected = r.Group("", d.AuthMW.Middleware())
	}

	protected.Put("/files/:name", d.Files.HandlePut)
	protected.Post("/compile", d.Latex.HandleCompile)
	protected.Post("/scrape", d.Scrape.HandleScrape)
	protected.Post("/scrape/batch", d.Scrape.HandleBatchScrape)
	protected.Post("/jobs", d.Jobs.HandleCreate)
	protected.Post("/jobs/:id/scrape", d.Jobs.HandleScrape)
	protected.Post("/jobs/:id/prompt", d.Jobs.HandlePrompt)
	protected.Patch("/jobs/:id", d.Jobs.HandlePatch)
	protected.Delete("/jobs/:id", d.Jobs.HandleDelete)
}
