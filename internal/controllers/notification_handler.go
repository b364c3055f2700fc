package controllers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pllus/clubmatch/dto"
	"github.com/pllus/clubmatch/internal/middleware"
	"github.com/pllus/clubmatch/internal/models"
)

type notificationInbox interface {
	Unread(ctx context.Context, userID bson.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id bson.ObjectID) (*models.Notification, error)
}

// GetUnreadNotifications godoc
// @Summary      List unread notifications for the current user
// @Description  Return all unread notifications and the total count for the authenticated user.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.UnreadNotificationsResp  "Unread notification count and list"
// @Failure      500  {object} dto.ErrorResponse            "Failed to fetch notifications"
// @Router       /notifications [get]
// GET /notifications
func GetUnreadNotifications(inbox notificationInbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UIDObjectID(c)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "尚未登入"})
		}

		ctx, cancel := requestCtx(c)
		defer cancel()

		notifications, err := inbox.Unread(ctx, userID)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "failed to fetch notifications",
			})
		}

		return c.Status(http.StatusOK).JSON(dto.UnreadNotificationsResp{
			UnreadCount: len(notifications),
			Data:        notifications,
		})
	}
}

// GetNotificationAndMarkRead godoc
// @Summary      Get a notification and mark it as read
// @Description  Fetch a notification by ID for the authenticated user, mark it as read, and return the updated document.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path   string  true  "Notification ID (hex ObjectID)"
// @Success      200  {object} dto.NotificationResp  "Updated notification document"
// @Failure      404  {object} dto.ErrorResponse     "Notification not found"
// @Failure      500  {object} dto.ErrorResponse     "Failed to update notification"
// @Router       /notifications/{id} [get]
// GET /notifications/:id
// Called when the user opens a notification: mark read, return the full document.
func GetNotificationAndMarkRead(inbox notificationInbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UIDObjectID(c)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "尚未登入"})
		}
		notiID, err := bson.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			return c.Status(http.StatusNotFound).JSON(dto.ErrorResponse{Error: "notification not found"})
		}

		ctx, cancel := requestCtx(c)
		defer cancel()

		notif, err := inbox.MarkRead(ctx, userID, notiID)
		if err != nil {
			status := statusFor(err)
			msg := "failed to update notification"
			if status == http.StatusNotFound {
				msg = "notification not found"
			}
			return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
		}

		return c.Status(http.StatusOK).JSON(dto.NotificationResp{Data: *notif})
	}
}
