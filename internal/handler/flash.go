package handler

import (
    "net/http"
    "net/url"
    "strings"

    "github.com/labstack/echo/v4"
)

const flashCookie = "flash"

// Flash is a one-shot message shown after a form redirect.
type Flash struct {
    Category string `json:"category"`
    Message  string `json:"message"`
}

// setFlash stores a message for the next page load as "category|message".
func setFlash(c echo.Context, category, message string) {
    c.SetCookie(&http.Cookie{
        Name:     flashCookie,
        Value:    url.QueryEscape(category + "|" + message),
        Path:     "/",
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
}

// PopFlash returns the pending flash, if any, and clears the cookie.
func PopFlash(c echo.Context) (Flash, bool) {
    ck, err := c.Cookie(flashCookie)
    if err != nil || ck.Value == "" {
        return Flash{}, false
    }
    c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

    raw, err := url.QueryUnescape(ck.Value)
    if err != nil {
        return Flash{}, false
    }
    cat, msg, ok := strings.Cut(raw, "|")
    if !ok {
        return Flash{Category: "info", Message: raw}, true
    }
    return Flash{Category: cat, Message: msg}, true
}

// GetFlash serves GET /api/flash so the front end can show (and consume)
// the message set by the last form submission.
func GetFlash(c echo.Context) error {
    f, ok := PopFlash(c)
    if !ok {
        return c.NoContent(http.StatusNoContent)
    }
    return c.JSON(http.StatusOK, f)
}
