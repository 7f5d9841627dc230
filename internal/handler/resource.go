package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/repository"
)

type createResourceReq struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description" validate:"required,max=2000"`
	Type        model.ResourceType `json:"type" validate:"required,resourcetype"`
	Category    string             `json:"category" validate:"required,category"`
	URL         string             `json:"url" validate:"required,url,max=2048"`
	Language    model.Language     `json:"language" validate:"omitempty,language"`
}

// ListResources serves GET /api/resources?category=&language=.
func (h *Handler) ListResources(c echo.Context) error {
	lang, ok, err := queryLanguage(c)
	if !ok {
		return err
	}
	f := repository.ResourceFilter{
		Category: model.NormalizeCategory(c.QueryParam("category")),
		Language: lang,
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.ListResources(ctx, f)
	if err != nil {
		return h.storageError(c, err, "Resources", "fetch")
	}
	return c.JSON(http.StatusOK, list)
}

// SearchResources serves GET /api/resources/search?q=&language=.  The
// minimum query length is enforced by the client; the server only
// requires a non-empty q.
func (h *Handler) SearchResources(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Search query is required"})
	}
	lang, ok, err := queryLanguage(c)
	if !ok {
		return err
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.SearchResources(ctx, q, lang)
	if err != nil {
		return h.storageError(c, err, "Resources", "search")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetResource(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	r, err := h.Store.GetResource(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Resource", "fetch")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) CreateResource(c echo.Context) error {
	var req createResourceReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "resource", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	r, err := h.Store.CreateResource(ctx, model.Resource{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    model.NormalizeCategory(req.Category),
		URL:         req.URL,
		Language:    req.Language,
	})
	if err != nil {
		return h.storageError(c, err, "Resource", "create")
	}
	return c.JSON(http.StatusCreated, r)
}
