package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/model"
	"github.com/iliyamo/eco-education/internal/queue"
)

type createActivityReq struct {
	UserID      uint64             `json:"userId" validate:"required"`
	Type        model.ActivityType `json:"type" validate:"required,activitytype"`
	Description string             `json:"description" validate:"required,max=500"`
	CarbonSaved *float64           `json:"carbonSaved" validate:"required,gte=0"`
	Date        *time.Time         `json:"date"`
}

// ListUserActivities serves GET /api/users/:id/activities, newest
// first.  A user with no activities gets an empty array.
func (h *Handler) ListUserActivities(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	list, err := h.Store.ListUserActivities(ctx, userID)
	if err != nil {
		return h.storageError(c, err, "Activities", "fetch")
	}
	return c.JSON(http.StatusOK, list)
}

// CreateActivity logs an activity and announces it on the activity.logged
// queue.
func (h *Handler) CreateActivity(c echo.Context) error {
	var req createActivityReq
	if err := bind(c, &req); err != nil {
		return invalidData(c, "activity", err)
	}
	a := model.Activity{
		UserID:      req.UserID,
		Type:        req.Type,
		Description: req.Description,
		CarbonSaved: *req.CarbonSaved,
	}
	if req.Date != nil {
		a.Date = *req.Date
	}
	ctx, cancel := withTimeout(c.Request().Context())
	defer cancel()
	out, err := h.Store.CreateActivity(ctx, a)
	if err != nil {
		return h.storageError(c, err, "Activity", "create")
	}

	h.publish(c.Request().Context(), "activity.logged", func(ctx context.Context) error {
		return h.Events.PublishActivityLogged(ctx, queue.ActivityLoggedEvent{
			ActivityID:  out.ID,
			UserID:      out.UserID,
			Type:        string(out.Type),
			CarbonSaved: out.CarbonSaved,
			Date:        out.Date.Format(time.RFC3339),
		})
	})
	return c.JSON(http.StatusCreated, out)
}

// publish runs a best-effort event publish with its own short deadline.  A
// failure is logged and never fails the request.
func (h *Handler) publish(parent context.Context, event string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), 2*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		h.Log.Warn("event publish failed", zap.String("event", event), zap.Error(err))
	}
}
