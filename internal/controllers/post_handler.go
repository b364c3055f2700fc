package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pllus/clubmatch/dto"
	"github.com/pllus/clubmatch/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type publishedPosts interface {
	ListPublished(ctx context.Context, limit int64, after string) ([]models.Post, *string, bool, error)
	GetPublished(ctx context.Context, id string) (*models.Post, error)
}

// ListPublishedPosts godoc
// @Summary      List published posts
// @Description  Newest first. Pass next_cursor from the previous page as cursor.
// @Tags         posts
// @Produce      json
// @Param        limit   query     int     false  "Page size (max 50)"
// @Param        cursor  query     string  false  "Opaque cursor"
// @Success      200     {object}  dto.ListByCursorResp[models.Post]
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /posts [get]
func ListPublishedPosts(posts publishedPosts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultPageSize)
		if limit <= 0 {
			limit = defaultPageSize
		}
		limit = min(limit, maxPageSize)

		ctx, cancel := requestCtx(c)
		defer cancel()

		items, next, hasMore, err := posts.ListPublished(ctx, int64(limit), c.Query("cursor"))
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.JSON(dto.ListByCursorResp[models.Post]{Items: items, NextCursor: next, HasMore: hasMore})
	}
}

// GetPublishedPost godoc
// @Summary      Get a published post
// @Tags         posts
// @Produce      json
// @Param        post_id  path      string  true  "Post ID"
// @Success      200      {object}  models.Post
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /posts/{post_id} [get]
func GetPublishedPost(posts publishedPosts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := requestCtx(c)
		defer cancel()

		p, err := posts.GetPublished(ctx, c.Params("post_id"))
		if err != nil {
			status := statusFor(err)
			return c.Status(status).JSON(dto.ErrorResponse{Error: messageFor(status, err)})
		}
		return c.JSON(p)
	}
}
