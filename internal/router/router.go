package router // package router wires handlers and middleware onto echo

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tailor-booking/internal/config"
	"github.com/iliyamo/tailor-booking/internal/handler"
	"github.com/iliyamo/tailor-booking/internal/metrics"
	"github.com/iliyamo/tailor-booking/internal/middleware"
)

// Deps is everything the routes need.  Redis may be nil; caching and rate
// limiting are then skipped.
type Deps struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Bookings  *handler.BookingHandler
	DB        handler.Pinger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	JWTSecret string
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// New returns an echo instance with the global middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency_ms", v.Latency.Milliseconds(), "req_id", v.RequestID, "ip", c.RealIP(),
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			slog.Info("http", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	if d.Metrics != nil {
		e.Use(middleware.RequestDuration(d.Metrics))
	}

	RegisterRoutes(e, d)
	RegisterPublic(e, d)
	RegisterAuth(e, d.Auth, d.JWTSecret, middleware.RateLimit(d.RateLimit, d.Redis))
	RegisterAdmin(e, d.Bookings, d.JWTSecret)
	return e
}

// RegisterRoutes registers the probes and the metrics endpoint.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	if d.DB != nil {
		e.GET("/readyz", handler.Ready(d.DB))
	}
	g := d.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

// RegisterPublic registers the browsing endpoints (response-cached) and
// booking submission (rate limited).
func RegisterPublic(e *echo.Echo, d Deps) {
	cached := e.Group("/api", middleware.ResponseCache(d.Cache, d.Redis))
	cached.GET("/designs", d.Catalog.ListDesigns)
	cached.GET("/designs/:id", d.Catalog.GetDesign)
	cached.GET("/tailors", d.Catalog.ListTailors)
	cached.GET("/tailors/:id", d.Catalog.GetTailor)
	cached.GET("/home", d.Catalog.Home)
	cached.GET("/book", d.Catalog.BookOptions)
	cached.GET("/book/:tailor_id", d.Catalog.BookOptions)

	e.POST("/api/book", d.Bookings.Create, middleware.RateLimit(d.RateLimit, d.Redis))
	e.GET("/api/bookings", d.Bookings.List)
	e.GET("/api/flash", handler.GetFlash)
}
