package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pllus/clubmatch/internal/controllers"
	"github.com/pllus/clubmatch/internal/repository"
)

func SetupRoutesPost(app *fiber.App, posts *repository.PostRepository) {
	g := app.Group("/posts")
	g.Get("/", controllers.ListPublishedPosts(posts))
	g.Get("/:post_id", controllers.GetPublishedPost(posts))
}
