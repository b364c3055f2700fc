package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pllus/clubmatch/dto"
	"github.com/pllus/clubmatch/internal/composer"
	mid "github.com/pllus/clubmatch/internal/middleware"
	"github.com/pllus/clubmatch/internal/services"
	"github.com/pllus/clubmatch/internal/session"
)

// requestTimeout bounds store calls made on behalf of one request.
const requestTimeout = 10 * time.Second

var validate = validator.New()

func requestCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// respond writes the result of a composer action. Failed actions that still
// produced a notice carry it alongside the error status.
func respond(c *fiber.Ctx, sess *session.Session, out composer.Outcome, err error) error {
	if err == nil {
		return c.Status(fiber.StatusOK).JSON(dto.NewActionResp(sess, out))
	}
	status := statusFor(err)
	if out.Notice.Empty() {
		return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
	}
	return c.Status(status).JSON(dto.NewActionResp(sess, out))
}

// OpenComposerSession godoc
// @Summary      Open a composer session
// @Description  Start a new composer with organizationName and email prefilled. With draftId the stored draft is loaded into it.
// @Tags         composer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.OpenSessionReq  false  "Optional draft to load"
// @Success      201   {object}  dto.SessionResp
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ActionResp
// @Failure      404   {object}  dto.ActionResp
// @Router       /composer/sessions [post]
func OpenComposerSession(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.OpenSessionReq
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid body"})
			}
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}

		ctx, cancel := requestCtx(c)
		defer cancel()

		sess, out, err := svc.Open(ctx, mid.ActorFromLocals(c), body.DraftID)
		if err != nil {
			return respond(c, nil, out, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewSessionResp(sess))
	}
}

// GetComposerSession godoc
// @Summary      Get a composer session
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  dto.SessionResp
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /composer/sessions/{sid} [get]
func GetComposerSession(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		sess, err := svc.Get(ctx, mid.ActorFromLocals(c), c.Params("sid"))
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.JSON(dto.NewSessionResp(sess))
	}
}

// SetComposerField godoc
// @Summary      Edit one composer field
// @Description  Setting eventDate fills an empty cooperationReturn with the date three days earlier.
// @Tags         composer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid   path      string           true  "Session ID"
// @Param        body  body      dto.SetFieldReq  true  "Field and value"
// @Success      200   {object}  dto.SessionResp
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /composer/sessions/{sid}/fields [patch]
func SetComposerField(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.SetFieldReq
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid body"})
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		field, ok := composer.ParseField(body.Field)
		if !ok {
			return c.Status(fiber.StatusBadRequest).
				JSON(dto.ErrorResponse{Error: fmt.Sprintf("%s: %s", composer.ErrUnknownField, body.Field)})
		}

		ctx, cancel := requestCtx(c)
		defer cancel()

		sess, _, err := svc.Do(ctx, mid.ActorFromLocals(c), c.Params("sid"), "set_field",
			func(cm *composer.Composer) (composer.Outcome, error) {
				if field == composer.FieldCustomItems {
					cm.SetCustomItems(body.Items)
					return composer.Outcome{State: cm.State()}, nil
				}
				if body.Value == nil {
					return composer.Outcome{}, fmt.Errorf("%w: %s", errFieldValue, field)
				}
				return composer.Outcome{State: cm.State()}, cm.SetField(field, *body.Value)
			})
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.JSON(dto.NewSessionResp(sess))
	}
}

// ValidateComposer godoc
// @Summary      Validate the composer draft
// @Description  Report every field's error flag for the current purpose type and the field to focus first.
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  dto.ValidateResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /composer/sessions/{sid}/validate [post]
func ValidateComposer(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		sess, err := svc.Get(ctx, mid.ActorFromLocals(c), c.Params("sid"))
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		d := sess.Snapshot.Draft
		return c.JSON(dto.NewValidateResp(composer.Validate(d, d.PurposeType)))
	}
}

// SaveComposerDraft godoc
// @Summary      Save the composer as a draft
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  dto.ActionResp
// @Failure      401  {object}  dto.ActionResp
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ActionResp  "fieldErrors and focus"
// @Failure      500  {object}  dto.ActionResp
// @Router       /composer/sessions/{sid}/save [post]
func SaveComposerDraft(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		actor := mid.ActorFromLocals(c)
		sess, out, err := svc.Do(ctx, actor, c.Params("sid"), "save",
			func(cm *composer.Composer) (composer.Outcome, error) { return cm.SaveDraft(ctx, actor) })
		return respond(c, sess, out, err)
	}
}

// PublishComposer godoc
// @Summary      Publish the composer
// @Description  A saved draft is published from its stored copy; an unsaved composer is created as a published post. On success the form is cleared and a redirect is returned.
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  dto.ActionResp
// @Failure      401  {object}  dto.ActionResp
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ActionResp  "fieldErrors and focus"
// @Failure      500  {object}  dto.ActionResp
// @Router       /composer/sessions/{sid}/publish [post]
func PublishComposer(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		actor := mid.ActorFromLocals(c)
		sess, out, err := svc.Do(ctx, actor, c.Params("sid"), "publish",
			func(cm *composer.Composer) (composer.Outcome, error) { return cm.Publish(ctx, actor) })
		return respond(c, sess, out, err)
	}
}

// ResetComposer godoc
// @Summary      Clear the composer form
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  dto.SessionResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /composer/sessions/{sid}/reset [post]
func ResetComposer(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		sess, _, err := svc.Do(ctx, mid.ActorFromLocals(c), c.Params("sid"), "reset",
			func(cm *composer.Composer) (composer.Outcome, error) {
				cm.Reset()
				return composer.Outcome{State: cm.State()}, nil
			})
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.JSON(dto.NewSessionResp(sess))
	}
}

// ListComposerDrafts godoc
// @Summary      List the user's drafts
// @Description  Newest first.
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {array}   composer.Summary
// @Failure      401  {object}  dto.ActionResp
// @Failure      500  {object}  dto.ActionResp
// @Router       /composer/sessions/{sid}/drafts [get]
func ListComposerDrafts(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		actor := mid.ActorFromLocals(c)
		sess, out, err := svc.Do(ctx, actor, c.Params("sid"), "list_drafts",
			func(cm *composer.Composer) (composer.Outcome, error) { return cm.LoadDrafts(ctx, actor) })
		if err != nil {
			return respond(c, sess, out, err)
		}
		return c.JSON(dto.NewSessionResp(sess).Drafts)
	}
}

// LoadComposerDraft godoc
// @Summary      Load a stored draft into the composer
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid       path      string  true  "Session ID"
// @Param        draft_id  path      string  true  "Draft ID"
// @Success      200       {object}  dto.ActionResp
// @Failure      403       {object}  dto.ActionResp
// @Failure      404       {object}  dto.ActionResp
// @Router       /composer/sessions/{sid}/drafts/{draft_id}/load [post]
func LoadComposerDraft(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		actor := mid.ActorFromLocals(c)
		draftID := c.Params("draft_id")
		sess, out, err := svc.Do(ctx, actor, c.Params("sid"), "load",
			func(cm *composer.Composer) (composer.Outcome, error) { return cm.LoadDraft(ctx, actor, draftID) })
		return respond(c, sess, out, err)
	}
}

// DeleteComposerDraft godoc
// @Summary      Delete a stored draft
// @Description  If the draft is loaded in the composer, the form is cleared.
// @Tags         composer
// @Produce      json
// @Security     BearerAuth
// @Param        sid       path      string  true  "Session ID"
// @Param        draft_id  path      string  true  "Draft ID"
// @Success      200       {object}  dto.ActionResp
// @Failure      404       {object}  dto.ActionResp
// @Failure      500       {object}  dto.ActionResp
// @Router       /composer/sessions/{sid}/drafts/{draft_id} [delete]
func DeleteComposerDraft(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		actor := mid.ActorFromLocals(c)
		draftID := c.Params("draft_id")
		sess, out, err := svc.Do(ctx, actor, c.Params("sid"), "delete",
			func(cm *composer.Composer) (composer.Outcome, error) { return cm.DeleteDraft(ctx, actor, draftID) })
		return respond(c, sess, out, err)
	}
}

// DiscardComposerSession godoc
// @Summary      Discard a composer session
// @Description  Stored drafts are kept.
// @Tags         composer
// @Security     BearerAuth
// @Param        sid  path  string  true  "Session ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /composer/sessions/{sid} [delete]
func DiscardComposerSession(svc *services.ComposerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		if err := svc.Discard(ctx, mid.ActorFromLocals(c), c.Params("sid")); err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
