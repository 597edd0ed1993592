package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time resolves the configured location

    "github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); the rest
// fall back to defaults suitable for local development.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    JWTSecret       string // secret used to sign JWTs
    AccessTTLMin    int    // access token time‑to‑live in minutes
    RefreshTTLDays  int    // refresh token time‑to‑live in days
    BcryptCost      int    // bcrypt cost for password hashing
    DesignsPath     string // path of the design catalog document (JSON or YAML)
    CatalogCache    bool   // keep the parsed catalog in memory for the process lifetime
    Timezone        string // IANA zone used to decide what "today" is
    SeedTestUser    bool   // create a test user on startup when the users table is empty
    ConsumerEnabled bool   // run the booking.created consumer inside the server process
}

// Load reads the optional .env file and then builds a Config from the
// environment.  Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
    // A missing .env file is normal outside local development.
    _ = godotenv.Load()

    env := must("APP_ENV")
    return Config{
        Env:             env,                                        // environment (dev/test/prod)
        Port:            must("APP_PORT"),                           // port to bind the HTTP server
        DBUser:          must("DB_USER"),                            // database user
        DBPass:          os.Getenv("DB_PASS"),                       // database password (empty allowed)
        DBHost:          must("DB_HOST"),                            // database host
        DBPort:          must("DB_PORT"),                            // database port
        DBName:          must("DB_NAME"),                            // database name
        JWTSecret:       must("JWT_SECRET"),                         // secret used for signing JWTs
        AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),            // TTL for access tokens in minutes
        RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"),          // TTL for refresh tokens in days
        BcryptCost:      mustInt("BCRYPT_COST"),                     // bcrypt cost factor
        DesignsPath:     envStr("DESIGNS_PATH", "sample_data/designs.json"),
        CatalogCache:    envBool("CATALOG_CACHE", false),
        Timezone:        envStr("APP_TIMEZONE", "UTC"),
        SeedTestUser:    envBool("SEED_TEST_USER", env == "dev"),
        ConsumerEnabled: envBool("BOOKING_CONSUMER_ENABLED", false),
    }
}

// Location returns the configured time zone, falling back to UTC when the
// name is empty or unknown to the system tz database.
func (c Config) Location() *time.Location {
    if c.Timezone == "" {
        return time.UTC
    }
    loc, err := time.LoadLocation(c.Timezone)
    if err != nil {
        log.Printf("config: unknown APP_TIMEZONE %q, using UTC", c.Timezone)
        return time.UTC
    }
    return loc
}

// IsProd reports whether the application runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
