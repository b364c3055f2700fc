package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pllus/clubmatch/internal/controllers"
)

// SetupRoutesSystem mounts the unauthenticated probes, metrics and API docs.
func SetupRoutesSystem(app *fiber.App, checks map[string]controllers.Check) {
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/healthz", controllers.Healthz())
	app.Get("/readyz", controllers.Readyz(checks))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
