package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/model"
)

// queryLanguage reads the language query parameter, defaulting to "en".
// An unsupported code writes a 400 and returns ok=false.
func queryLanguage(c echo.Context) (model.Language, bool, error) {
	lang, err := model.ParseLanguage(c.QueryParam("language"))
	if err != nil {
		return "", false, c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return lang, true, nil
}

type contentReq struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"required,max=2000"`
	Language    model.Language `json:"language" validate:"omitempty,language"`
}

// ----- tips -----

func (h *Handler) ListTips(c echo.Context) error {
	lang, ok, err := queryLanguage(c)
	if !ok {
		return err
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	tips, err := h.Store.ListTips(ctx, lang)
	if err != nil {
		return h.storageError(c, err, "Tips", "fetch")
	}
	return c.JSON(http.StatusOK, tips)
}

func (h *Handler) GetTip(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	t, err := h.Store.GetTip(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Tip", "fetch")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTip(c echo.Context) error {
	var req contentReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "tip", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	t, err := h.Store.CreateTip(ctx, model.Tip{Title: req.Title, Description: req.Description, Language: req.Language})
	if err != nil {
		return h.storageError(c, err, "Tip", "create")
	}
	return c.JSON(http.StatusCreated, t)
}

// ----- challenges -----

func (h *Handler) ListChallenges(c echo.Context) error {
	lang, ok, err := queryLanguage(c)
	if !ok {
		return err
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.ListChallenges(ctx, lang)
	if err != nil {
		return h.storageError(c, err, "Challenges", "fetch")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetChallenge(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	ch, err := h.Store.GetChallenge(ctx, id)
	if err != nil {
		return h.storageError(c, err, "Challenge", "fetch")
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) CreateChallenge(c echo.Context) error {
	var req contentReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "challenge", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	ch, err := h.Store.CreateChallenge(ctx, model.Challenge{Title: req.Title, Description: req.Description, Language: req.Language})
	if err != nil {
		return h.storageError(c, err, "Challenge", "create")
	}
	return c.JSON(http.StatusCreated, ch)
}
