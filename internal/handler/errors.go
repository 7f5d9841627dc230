package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/repository"
)

// errInvalidID is returned by parseID for a path id that is not a positive
// integer.
var errInvalidID = errors.New("invalid id")

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
}

// bind decodes the request body into dst and validates it.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// invalidData writes the 400 for a body that failed binding or validation.
// entity is lower case, e.g. "user".
func invalidData(c echo.Context, entity string, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "Invalid " + entity + " data",
		"errors":  fieldErrors(err),
	})
}

// storageError maps a storage failure onto the response.  entity is the
// capitalized entity name and verb describes the failed operation.  The
// cause of a 500 is logged, never returned.
func (h *Handler) storageError(c echo.Context, err error, entity, verb string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": entity + " not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"message": entity + " already exists"})
	}
	h.Log.Error("storage call failed",
		zap.String("entity", entity),
		zap.String("op", verb),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"message": "Failed to " + verb + " " + strings.ToLower(entity),
	})
}
