package controllers

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Healthz godoc
// @Summary  Liveness probe
// @Tags     health
// @Success  200  {string}  string  "ok"
// @Router   /healthz [get]
func Healthz() fiber.Handler {
	return func(c *fiber.Ctx) error { return c.SendString("ok") }
}

// Readyz godoc
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /readyz [get]
func Readyz(checks map[string]Check) fiber.Handler {
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		status := fiber.StatusOK
		res := make(map[string]string, len(names))
		for _, n := range names {
			if err := checks[n](ctx); err != nil {
				res[n] = err.Error()
				status = fiber.StatusServiceUnavailable
				continue
			}
			res[n] = "ok"
		}
		return c.Status(status).JSON(res)
	}
}
