package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig configures the Redis token bucket guarding booking
// submission and login.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "tb:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    return def.normalize()
}

// normalize clamps values so the Lua script never sees a zero bucket.
func (c RateLimitConfig) normalize() RateLimitConfig {
    if c.Capacity < 1 { c.Capacity = 1 }
    if c.RefillTokens < 1 { c.RefillTokens = 1 }
    if c.RefillInterval <= 0 { c.RefillInterval = time.Second }
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL { c.TTL = minTTL }
    return c
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
