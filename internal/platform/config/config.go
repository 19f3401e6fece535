package config

import (
	"os"
	"strconv"
	"time"
)

// Config groups everything the server needs at startup so main stays lean.
type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Lookup   Lookup
	Payment  Payment
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	ShutdownTimeout time.Duration
	SessionIdleTTL  time.Duration
}

// Database holds the optional PostgreSQL connection settings. When URL is
// empty the server runs on the seeded in-memory stores.
type Database struct {
	URL string
}

// Redis holds the optional geo-lookup cache settings. When URL is empty the
// cache layer is skipped entirely.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Lookup points at the remote geo/record/application collaborators. Empty
// base URLs mean the corresponding store-backed implementation is used.
type Lookup struct {
	GeoBaseURL     string
	RecordsBaseURL string
	SubmitBaseURL  string
	Timeout        time.Duration
}

// Payment carries the fee schedule for application submissions.
type Payment struct {
	FeeAmount int64
}

// FromEnv builds a Config from environment variables with development
// defaults so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("ELAND_ADDR", ":8080"),
			JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			ShutdownTimeout: envDuration("ELAND_SHUTDOWN_TIMEOUT", 10*time.Second),
			SessionIdleTTL:  envDuration("ELAND_SESSION_IDLE_TTL", 30*time.Minute),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("GEO_CACHE_TTL", 5*time.Minute),
		},
		Lookup: Lookup{
			GeoBaseURL:     os.Getenv("GEO_LOOKUP_URL"),
			RecordsBaseURL: os.Getenv("RECORD_LOOKUP_URL"),
			SubmitBaseURL:  os.Getenv("APPLICATION_SUBMIT_URL"),
			Timeout:        envDuration("LOOKUP_TIMEOUT", 10*time.Second),
		},
		Payment: Payment{
			FeeAmount: int64(envInt("APPLICATION_FEE_AMOUNT", 100)),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
