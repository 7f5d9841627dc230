package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/repository"
)

type createArticleReq struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Content     string         `json:"content" validate:"required"`
	Excerpt     string         `json:"excerpt" validate:"required,max=500"`
	Category    string         `json:"category" validate:"required,category"`
	Tags        []string       `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	PublishDate *time.Time     `json:"publishDate"`
	Language    model.Language `json:"language" validate:"omitempty,language"`
}

// ListArticles serves GET /api/articles?category=&language=.
func (h *Handler) ListArticles(c echo.Context) error {
	lang, ok, err := queryLanguage(c)
	if !ok {
		return err
	}
	f := repository.ArticleFilter{
		Category: model.NormalizeCategory(c.QueryParam("category")),
		Language: lang,
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.ListArticles(ctx, f)
	if err != nil {
		return h.storageError(c, err, "Articles", "fetch")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetArticle(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	a, err := h.Store.GetArticle(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Article", "fetch")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateArticle(c echo.Context) error {
	var req createArticleReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "article", err)
	}
	a := model.Article{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: model.NormalizeCategory(req.Category),
		Tags:     model.NormalizeTags(req.Tags),
		Language: req.Language,
	}
	if req.PublishDate != nil {
		a.PublishDate = *req.PublishDate
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	out, err := h.Store.CreateArticle(ctx, a)
	if err != nil {
		return h.storageError(c, err, "Article", "create")
	}
	return c.JSON(http.StatusCreated, out)
}
