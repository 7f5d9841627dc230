package middleware

// identity.go holds the context keys shared across middleware files and the
// helpers handlers use to read them.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID    = "user_id"
	ctxUsername  = "username"
	ctxRequestID = "request_id"
)

// UserIDFrom returns the authenticated user id set by Identity.  ok is false
// for anonymous requests.
func UserIDFrom(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// RequestIDFrom returns the id assigned by RequestID, or "".
func RequestIDFrom(c echo.Context) string {
	s, _ := c.Get(ctxRequestID).(string)
	return s
}

// userKey identifies the caller for rate limiting: the user id when a token
// was presented, "anon" otherwise.
func userKey(c echo.Context) string {
	if id, ok := UserIDFrom(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
