package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve without system zoneinfo

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; variables already set win.
var envFiles = []string{".env.local", ".env"}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog
	CatalogFile  string         // optional YAML seed, empty = embedded catalog
	DefaultIDs   []string       // heuristic fallback picks
	HighlightTTL time.Duration  // how long matched pins stay emphasized
	SessionTTL   time.Duration  // idle sessions are closed after this
	Location     *time.Location // calendar used for "today"

	// Redis, empty address = in-memory slots
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // cap on the wait between retries
	RedisPingTimeout    time.Duration
	RedisWarnThreshold  int // warn after this many attempts

	// Reasoning service
	APIKey               string // env credential, wins over the stored one
	ReasoningURL         string
	ReasoningModel       string
	ReasoningMaxTokens   int
	ReasoningTemperature float64
	ReasoningTimeout     time.Duration
	ReasoningRPS         float64 // outbound calls per second, 0 = unlimited
	ReasoningReferer     string

	// Inbound rate limit per client IP
	RateLimitPerMin int
	RateLimitBurst  int
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	OpsCIDRS        []string // optional, restrict /metrics and /readyz (e.g. "10.0.0.0/8")
}

func Load() *Config {
	loadEnvFiles()

	cfg := &Config{
		// Server settings
		ListenPort:      listenAddr(getenv("MAPBUDDY_LISTEN_PORT", "8080")),
		ShutdownTimeout: mustDuration("MAPBUDDY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MAPBUDDY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MAPBUDDY_PRETTY_LOG", false),

		// Catalog
		CatalogFile:  getenv("MAPBUDDY_CATALOG_FILE", ""),
		DefaultIDs:   getenvSlice("MAPBUDDY_DEFAULT_IDS", []string{"1", "4", "6"}),
		HighlightTTL: mustDuration("MAPBUDDY_HIGHLIGHT_TTL", 5*time.Second),
		SessionTTL:   mustDuration("MAPBUDDY_SESSION_TTL", 30*time.Minute),
		Location:     mustLocation("MAPBUDDY_TIMEZONE", "Europe/Kyiv"),

		// Redis settings
		RedisAddr:           getenv("MAPBUDDY_REDIS_ADDR", ""),
		RedisUser:           getenv("MAPBUDDY_REDIS_USERNAME", ""),
		RedisPassword:       getenv("MAPBUDDY_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MAPBUDDY_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("MAPBUDDY_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("MAPBUDDY_REDIS_CONNECT_BACKOFF", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Reasoning
		APIKey:               getenv("OPENROUTER_API_KEY", ""),
		ReasoningURL:         getenv("MAPBUDDY_REASONING_URL", "https://openrouter.ai/api/v1"),
		ReasoningModel:       getenv("MAPBUDDY_REASONING_MODEL", "deepseek/deepseek-r1:free"),
		ReasoningMaxTokens:   getenvInt("MAPBUDDY_REASONING_MAX_TOKENS", 500),
		ReasoningTemperature: mustFloat("MAPBUDDY_REASONING_TEMPERATURE", 0.7),
		ReasoningTimeout:     mustDuration("MAPBUDDY_REASONING_TIMEOUT", 30*time.Second),
		ReasoningRPS:         mustFloat("MAPBUDDY_REASONING_RPS", 1),
		ReasoningReferer:     getenv("MAPBUDDY_REASONING_REFERER", "http://localhost:8080"),

		// Access
		RateLimitPerMin: getenvInt("MAPBUDDY_RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:  getenvInt("MAPBUDDY_RATE_LIMIT_BURST", 30),
		TrustProxy:      mustBool("MAPBUDDY_TRUST_PROXY", false),
		OpsCIDRS:        getenvSlice("MAPBUDDY_OPS_CIDRS", nil),
	}

	if cfg.HighlightTTL <= 0 {
		panic("❌ FATAL: MAPBUDDY_HIGHLIGHT_TTL must be positive")
	}
	if cfg.SessionTTL <= 0 {
		panic("❌ FATAL: MAPBUDDY_SESSION_TTL must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfgCopy.APIKey != "" {
			cfgCopy.APIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Sprintf("❌ FATAL: cannot read %s: %v", f, err))
		}
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	if parts := splitAndTrim(os.Getenv(key)); len(parts) > 0 {
		return parts
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustLocation(key, def string) *time.Location {
	name := getenv(key, def)
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, name))
	}
	return loc
}

// listenAddr accepts "8080" or ":8080".
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
