package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout of the API (ex: 15s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StorageDriver string // "file" | "sqlite" | "redis" | "memory"
	DataDir       string // directory of the file driver and default sqlite location
	StorageKey    string // key holding the collection (default: technologies)
	SQLitePath    string // sqlite database file (default: <DataDir>/techtrack.db)
	SeedFile      string // optional YAML starter set, empty = built-in set

	// Deadlines
	DeadlineScanInterval time.Duration // interval between deadline scans (default: 1h)
	UpcomingDays         int           // look-ahead window of the upcoming list (default: 7)

	// Redis, only read when StorageDriver is "redis"
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisPrefix           string        // key prefix (default: techtrack:)
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// HTTP access
	AllowedCIDRS []string // optional, restrict admin endpoints to these networks (e.g. "10.0.0.0/8, 127.0.0.1")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // allowed browser origins (default: *)
	RateLimit    int      // API requests per minute and client IP, 0 = unlimited

	MaxImportSize int64 // maximum import body in bytes (default: 5 MiB)
}

var drivers = []string{"file", "sqlite", "redis", "memory"}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TECHTRACK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TECHTRACK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TECHTRACK_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("TECHTRACK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TECHTRACK_PRETTY_LOG", true),

		// Storage
		StorageDriver: strings.ToLower(getenv("TECHTRACK_STORAGE_DRIVER", "file")),
		DataDir:       getenv("TECHTRACK_DATA_DIR", "./data"),
		StorageKey:    getenv("TECHTRACK_STORAGE_KEY", "technologies"),
		SeedFile:      getenv("TECHTRACK_SEED_FILE", ""),

		// Deadlines
		DeadlineScanInterval: mustDuration("TECHTRACK_DEADLINE_SCAN_INTERVAL", time.Hour),
		UpcomingDays:         getenvInt("TECHTRACK_UPCOMING_DAYS", 7),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("TECHTRACK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TECHTRACK_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("TECHTRACK_CORS_ORIGINS", "*")),
		RateLimit:    getenvInt("TECHTRACK_RATE_LIMIT", 120),

		MaxImportSize: int64(getenvInt("TECHTRACK_MAX_IMPORT_BYTES", 5<<20)),
	}
	cfg.SQLitePath = getenv("TECHTRACK_SQLITE_PATH", filepath.Join(cfg.DataDir, "techtrack.db"))

	if !validDriver(cfg.StorageDriver) {
		panic(fmt.Sprintf("❌ FATAL: TECHTRACK_STORAGE_DRIVER must be one of %s, got %q",
			strings.Join(drivers, ", "), cfg.StorageDriver))
	}

	if cfg.StorageDriver == "redis" {
		loadRedis(cfg)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("TECHTRACK_REDIS_ADDR")
	cfg.RedisUser = getenv("TECHTRACK_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("TECHTRACK_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("TECHTRACK_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("TECHTRACK_REDIS_DB", 0)
	cfg.RedisPrefix = getenv("TECHTRACK_REDIS_PREFIX", "techtrack:")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TECHTRACK_REDIS_PASSWORD is required when TECHTRACK_REDIS_PASSWORD_REQUIRED=true")
	}
}

func validDriver(d string) bool {
	for _, known := range drivers {
		if d == known {
			return true
		}
	}
	return false
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
