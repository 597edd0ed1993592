package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/tailor-booking/internal/config"
)

// cachedResponse is what one cache entry holds in Redis.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into a bounded buffer.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
            r.overflow = true
            r.buf.Reset()
        } else {
            r.buf.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

// cacheKey hashes the parts selected by cfg.KeyStrategy under cfg.Prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    default: // route_query
        parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
    }
    // c.Path() is the route pattern, so path params must be part of the key
    for _, name := range c.ParamNames() {
        parts = append(parts, "p", name, c.Param(name))
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// ResponseCache replays successful responses of read-only endpoints (design
// catalog, tailor directory) from Redis.  Requests carrying credentials
// bypass the cache.  With caching disabled or no Redis client it is a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passthrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if !cfg.Methods[strings.ToUpper(req.Method)] || req.Header.Get(echo.HeaderAuthorization) != "" {
                return next(c)
            }
            key := cacheKey(cfg, c)

            if raw, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(raw, &hit) == nil {
                    h := c.Response().Header()
                    replayHeader(h, hit.Header)
                    h.Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, h.Get(echo.HeaderContentType), hit.Body)
                }
            } else if err != redis.Nil {
                slog.Warn("response cache read failed", "key", key, "err", err)
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }

            payload, err := json.Marshal(cachedResponse{
                Status: rec.status,
                Header: storableHeader(c.Response().Header()),
                Body:   rec.buf.Bytes(),
            })
            if err != nil {
                return nil
            }
            // the request context may already be cancelled once the body is written
            ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
            defer cancel()
            if err := rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
                slog.Warn("response cache write failed", "key", key, "err", err)
            }
            return nil
        }
    }
}

// perRequestHeaders belong to the response that filled the cache and must
// not be replayed to later requests.
var perRequestHeaders = []string{"X-Cache", echo.HeaderXRequestID, echo.HeaderContentLength}

// storableHeader returns a copy of h without per-request headers.
func storableHeader(h http.Header) http.Header {
    out := h.Clone()
    for _, k := range perRequestHeaders {
        out.Del(k)
    }
    return out
}

// replayHeader copies a cached header into dst.  Per-request headers are
// skipped so entries written before they were stripped cannot leak an old
// request id.
func replayHeader(dst, cached http.Header) {
    for k, vals := range cached {
        skip := false
        for _, p := range perRequestHeaders {
            if strings.EqualFold(k, p) {
                skip = true
                break
            }
        }
        if !skip {
            dst[k] = vals
        }
    }
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
