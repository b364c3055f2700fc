package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pllus/clubmatch/internal/controllers"
	"github.com/pllus/clubmatch/internal/middleware"
	"github.com/pllus/clubmatch/internal/services"
)

// SetupRoutesComposer mounts the composer session API. Mutations go through
// limiter when one is given.
func SetupRoutesComposer(app *fiber.App, svc *services.ComposerService, limiter fiber.Handler) {
	g := app.Group("/composer/sessions", middleware.RequireUser())

	mut := []fiber.Handler{}
	if limiter != nil {
		mut = append(mut, limiter)
	}
	with := func(h fiber.Handler) []fiber.Handler { return append(append([]fiber.Handler{}, mut...), h) }

	g.Post("/", with(controllers.OpenComposerSession(svc))...)
	g.Get("/:sid", controllers.GetComposerSession(svc))
	g.Delete("/:sid", controllers.DiscardComposerSession(svc))

	g.Patch("/:sid/fields", with(controllers.SetComposerField(svc))...)
	g.Post("/:sid/validate", controllers.ValidateComposer(svc))
	g.Post("/:sid/save", with(controllers.SaveComposerDraft(svc))...)
	g.Post("/:sid/publish", with(controllers.PublishComposer(svc))...)
	g.Post("/:sid/reset", controllers.ResetComposer(svc))

	g.Get("/:sid/drafts", controllers.ListComposerDrafts(svc))
	g.Post("/:sid/drafts/:draft_id/load", with(controllers.LoadComposerDraft(svc))...)
	g.Delete("/:sid/drafts/:draft_id", with(controllers.DeleteComposerDraft(svc))...)
}
