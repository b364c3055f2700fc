package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pllus/clubmatch/internal/controllers"
	"github.com/pllus/clubmatch/internal/middleware"
	"github.com/pllus/clubmatch/internal/repository"
)

func NotificationRoutes(app *fiber.App, notis *repository.NotificationRepository) {
	noti := app.Group("/notifications", middleware.RequireUser())
	noti.Get("/", controllers.GetUnreadNotifications(notis))
	noti.Get("/:id", controllers.GetNotificationAndMarkRead(notis))
}
