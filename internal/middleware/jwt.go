package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eco-education/internal/utils"
)

// Identity reads an optional Bearer access token.  Requests without an
// Authorization header pass through anonymously; a header carrying an
// invalid or expired token is rejected with 401.  On success the user id
// and username are stored in the context (see UserIDFrom).
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}
			uid, err := claims.UserID()
			if err != nil || uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid claims"})
			}
			c.Set(ctxUserID, uid)
			c.Set(ctxUsername, claims.Username)
			return next(c)
		}
	}
}
