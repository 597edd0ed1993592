package middleware

import (
    "log/slog"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/tailor-booking/internal/config"
)

// tokenBucket refills lazily on every call and returns
// {allowed (0|1), tokens left, ms until next refill}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_ms')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
    tokens = capacity
    last = now_ms
end

local steps = math.floor(math.max(0, now_ms - last) / interval_ms)
if steps > 0 then
    tokens = math.min(capacity, tokens + steps * refill)
    last = last + steps * interval_ms
end

local allowed = 0
local wait_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    wait_ms = math.max(0, interval_ms - (now_ms - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last_ms', last)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, wait_ms}
`)

// RateLimit applies a Redis token bucket per key (see rateKey).  Redis
// failures let the request through; the limiter never blocks bookings on
// its own outage.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passthrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            res, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                if cfg.Debug {
                    slog.Warn("rate limit script failed", "key", key, "err", err)
                }
                return next(c)
            }
            allowed, remaining, waitMs := res[0] == 1, res[1], res[2]

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
            if allowed {
                return next(c)
            }

            secs := retryAfter(waitMs)
            h.Set("Retry-After", strconv.Itoa(secs))
            if cfg.Debug {
                slog.Info("rate limited", "key", key, "retry_after", secs)
            }
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "Too many requests",
                "retry_after": secs,
            })
        }
    }
}

// retryAfter rounds a wait in milliseconds up to whole seconds, at least 1.
func retryAfter(ms int64) int {
    secs := int(math.Ceil(float64(ms) / 1000))
    if secs < 1 {
        secs = 1
    }
    return secs
}

// rateKey builds "<prefix>:ip:<ip>:route:<METHOD path>" style keys per
// cfg.KeyStrategy.  Anonymous callers count as user "anon".
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    user := "anon"
    if id, ok := UserID(c); ok {
        user = strconv.FormatUint(id, 10)
    }
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", user)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", user)
    case "user_route":
        parts = append(parts, "user", user, "route", route)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", user, "route", route)
    }
    return strings.Join(parts, ":")
}
