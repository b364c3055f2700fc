package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/dto"
	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/services"
	"github.com/pllus/clubmatch/internal/session"
)

var errFieldValue = errors.New("value is required for this field")

// statusFor maps service and composer errors to HTTP status codes.
func statusFor(err error) int {
	var verr *composer.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, composer.ErrNotLoggedIn):
		return fiber.StatusUnauthorized
	case errors.Is(err, composer.ErrForbidden), errors.Is(err, services.ErrSessionForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, composer.ErrDraftNotFound), errors.Is(err, session.ErrNotFound),
		errors.Is(err, repository.ErrPostNotFound), errors.Is(err, repository.ErrNotificationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, composer.ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, composer.ErrUnknownField), errors.Is(err, composer.ErrUnknownPurpose),
		errors.Is(err, composer.ErrNotScalar), errors.Is(err, errFieldValue),
		errors.Is(err, repository.ErrBadCursor):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// messageFor hides internal failures from clients.
func messageFor(status int, err error) string {
	if status == fiber.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// ErrorHandler renders errors returned by middleware and handlers as
// dto.ErrorResponse.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, msg = fe.Code, fe.Message
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
	}
}
