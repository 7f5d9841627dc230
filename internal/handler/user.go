package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/repository"
	"github.com/iliyamo/eco-education/internal/utils"
)

// ----- DTOs -----

// userResponse is the only shape a user leaves the API in.  It has no
// password member.
type userResponse struct {
	ID                    uint64                      `json:"id"`
	Username              string                      `json:"username"`
	Name                  string                      `json:"name"`
	Email                 string                      `json:"email"`
	Language              model.Language              `json:"language"`
	AccessibilitySettings model.AccessibilitySettings `json:"accessibilitySettings"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:                    u.ID,
		Username:              u.Username,
		Name:                  u.Name,
		Email:                 u.Email,
		Language:              u.Language.OrDefault(),
		AccessibilitySettings: u.AccessibilitySettings,
	}
}

// accessibilityReq requires every member; pointers tell a missing field
// from false or zero.
type accessibilityReq struct {
	TextSize         *float64 `json:"textSize" validate:"required,gt=0,lte=4"`
	Contrast         *float64 `json:"contrast" validate:"required,gt=0,lte=4"`
	ScreenReader     *bool    `json:"screenReader" validate:"required"`
	DyslexiaFont     *bool    `json:"dyslexiaFont" validate:"required"`
	ReduceAnimations *bool    `json:"reduceAnimations" validate:"required"`
}

func (r accessibilityReq) settings() model.AccessibilitySettings {
	return model.AccessibilitySettings{
		TextSize:         *r.TextSize,
		Contrast:         *r.Contrast,
		ScreenReader:     *r.ScreenReader,
		DyslexiaFont:     *r.DyslexiaFont,
		ReduceAnimations: *r.ReduceAnimations,
	}
}

type createUserReq struct {
	Username              string            `json:"username" validate:"required,min=1,max=64"`
	Password              string            `json:"password" validate:"required,max=72"`
	Name                  string            `json:"name" validate:"required,max=128"`
	Email                 string            `json:"email" validate:"required,email,max=254"`
	Language              model.Language    `json:"language" validate:"omitempty,language"`
	AccessibilitySettings *accessibilityReq `json:"accessibilitySettings" validate:"omitempty"`
}

type languageReq struct {
	Language model.Language `json:"language" validate:"required,language"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	User   userResponse `json:"user"`
	Access tokenPart    `json:"access"`
}

// ----- handlers -----

// CreateUser registers a user.  Duplicate usernames or emails are a 409.
func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "user", err)
	}
	in := repository.NewUser{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Language: req.Language,
	}
	if req.AccessibilitySettings != nil {
		s := req.AccessibilitySettings.settings()
		in.AccessibilitySettings = &s
	}

	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.CreateUser(ctx, in)
	if err != nil {
		return h.storageError(c, err, "User", "create")
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// GetUserByUsername serves GET /api/users?username=.
func (h *Handler) GetUserByUsername(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "username query parameter is required"})
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return h.storageError(c, err, "User", "fetch")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.GetUser(ctx, id)
	if err != nil {
		return h.storageError(c, err, "User", "fetch")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// GetUserLanguage returns only the preferred language.
func (h *Handler) GetUserLanguage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.GetUser(ctx, id)
	if err != nil {
		return h.storageError(c, err, "User", "fetch")
	}
	return c.JSON(http.StatusOK, echo.Map{"language": u.Language.OrDefault()})
}

func (h *Handler) UpdateUserLanguage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	var req languageReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "language", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.UpdateUserLanguage(ctx, id, req.Language)
	if err != nil {
		return h.storageError(c, err, "User", "update")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateUserAccessibility replaces the whole settings object.
func (h *Handler) UpdateUserAccessibility(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	var req accessibilityReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "accessibility settings", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	u, err := h.Store.UpdateUserAccessibilitySettings(ctx, id, req.settings())
	if err != nil {
		return h.storageError(c, err, "User", "update")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Login verifies a username and password and issues an access token.
func (h *Handler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "login", err)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()

	u, err := h.Store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
		}
		return h.storageError(c, err, "User", "fetch")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to issue token"})
	}
	return c.JSON(http.StatusOK, loginResp{
		User:   toUserResponse(u),
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
