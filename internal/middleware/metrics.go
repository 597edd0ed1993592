package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-booking/internal/metrics"
)

// RequestDuration observes every request in m.HTTPDuration labelled by
// method, route pattern and final status.
func RequestDuration(m *metrics.Metrics) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)

            status := c.Response().Status
            if he, ok := err.(*echo.HTTPError); ok {
                status = he.Code
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            m.HTTPDuration.
                WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
                Observe(time.Since(start).Seconds())
            return err
        }
    }
}
