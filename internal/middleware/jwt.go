package middleware // package middleware holds the echo middleware shared by the router

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-booking/internal/utils"
)

// ContextUserID is the echo context key holding the authenticated user id
// (uint64) once JWTAuth has accepted the request.
const ContextUserID = "user_id"

// JWTAuth guards admin and account routes.  It expects
// "Authorization: Bearer <access token>" and stores the token subject under
// ContextUserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            id, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(ContextUserID, id)
            return next(c)
        }
    }
}

// UserID returns the id stored by JWTAuth, or false on unauthenticated
// requests.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ContextUserID).(uint64)
    return id, ok && id > 0
}
