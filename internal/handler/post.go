package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/middleware"
	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/queue"
)

// createPostReq has no counter or timestamp members: those are always set
// by the server.
type createPostReq struct {
	UserID   uint64   `json:"userId" validate:"required"`
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"required,category"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
}

// ListPosts serves GET /api/posts?category=.  "All Posts" or no category
// lists everything.
func (h *Handler) ListPosts(c echo.Context) error {
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.ListPosts(ctx, model.NormalizeCategory(c.QueryParam("category")))
	if err != nil {
		return h.storageError(c, err, "Posts", "fetch")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	p, err := h.Store.GetPost(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Post", "fetch")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePost(c echo.Context) error {
	var req createPostReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "post", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	p, err := h.Store.CreatePost(ctx, model.Post{
		UserID:   req.UserID,
		Title:    req.Title,
		Content:  req.Content,
		Category: model.NormalizeCategory(req.Category),
		Tags:     model.NormalizeTags(req.Tags),
	})
	if err != nil {
		return h.storageError(c, err, "Post", "create")
	}
	return c.JSON(http.StatusCreated, p)
}

// LikePost counts one like and returns the updated post.
func (h *Handler) LikePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	p, err := h.Store.LikePost(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Post", "like")
	}

	uid, _ := middleware.UserIDFrom(c)
	h.publish(c.Request().Context(), "post.liked", func(ctx context.Context) error {
		return h.Events.PublishPostLiked(ctx, queue.PostLikedEvent{
			PostID:    p.ID,
			UserID:    uid,
			LikeCount: p.LikeCount,
			LikedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return c.JSON(http.StatusOK, p)
}
