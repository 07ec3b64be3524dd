package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"passport/internal/passport/session"
	"passport/internal/passport/sources"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        slog.Level
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Chain names the RPC node and the contract address of every source.
// An empty optional address leaves that source unbound.
type Chain struct {
	RPCURL      string
	CallTimeout time.Duration

	RegistryAddress    string
	PlatformsAddress   string
	ArchiveAddress     string
	RewardsAddress     string
	LeaderboardAddress string

	// Breaker settings for optional sources. A zero threshold disables them.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// RedisConfig configures the leaderboard mirror. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the history archive mirror. An empty URL disables it.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Mirror controls how the mirrors are refreshed from the chain.
type Mirror struct {
	Interval time.Duration
	Depth    int
}

// RateLimit bounds requests per client on the /v1 API. Zero requests disables it.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

type Config struct {
	Server    Server
	Chain     Chain
	Redis     RedisConfig
	Database  DatabaseConfig
	Mirror    Mirror
	RateLimit RateLimit
}

// FromEnv builds the configuration from environment variables so main stays lean.
// Malformed values fall back to their defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envString("PASSPORT_ADDR", ":8080"),
			Environment:     envString("ENVIRONMENT", "development"),
			LogLevel:        envLevel("LOG_LEVEL", slog.LevelInfo),
			RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Chain: Chain{
			RPCURL:             os.Getenv("PASSPORT_RPC_URL"),
			CallTimeout:        envDuration("PASSPORT_RPC_TIMEOUT", 10*time.Second),
			RegistryAddress:    os.Getenv("PASSPORT_REGISTRY_ADDRESS"),
			PlatformsAddress:   os.Getenv("PASSPORT_PLATFORMS_ADDRESS"),
			ArchiveAddress:     os.Getenv("PASSPORT_ARCHIVE_ADDRESS"),
			RewardsAddress:     os.Getenv("PASSPORT_REWARDS_ADDRESS"),
			LeaderboardAddress: os.Getenv("PASSPORT_LEADERBOARD_ADDRESS"),
			BreakerThreshold:   envInt("BREAKER_THRESHOLD", 5),
			BreakerCooldown:    envDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Mirror: Mirror{
			Interval: envDuration("MIRROR_INTERVAL", 0),
			Depth:    envInt("MIRROR_DEPTH", 100),
		},
		RateLimit: RateLimit{
			Requests: envInt("RATE_LIMIT_REQUESTS", 120),
			Window:   envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

// Session maps the contract addresses onto source endpoints.
func (c Chain) Session() session.Config {
	return session.Config{Endpoints: map[sources.SourceKind]string{
		sources.KindRegistry:    c.RegistryAddress,
		sources.KindPlatforms:   c.PlatformsAddress,
		sources.KindArchive:     c.ArchiveAddress,
		sources.KindRewards:     c.RewardsAddress,
		sources.KindLeaderboard: c.LeaderboardAddress,
	}}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(key))); err != nil {
		return fallback
	}
	return level
}
