package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pllus/clubmatch/internal/composer"
)

// ActorFromLocals returns the authenticated user, or nil for an anonymous
// request.
func ActorFromLocals(c *fiber.Ctx) *composer.Actor {
	uid, _ := c.Locals(localUserID).(string)
	if uid == "" {
		return nil
	}
	email, _ := c.Locals(localEmail).(string)
	return &composer.Actor{ID: uid, Email: email}
}

// UIDObjectID returns the user id from Locals as an ObjectID.
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	uid, ok := c.Locals(localUserID).(string)
	if !ok || uid == "" {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	oid, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return oid, nil
}

// RequireUser rejects anonymous requests with 401.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ActorFromLocals(c) == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "尚未登入")
		}
		return c.Next()
	}
}
