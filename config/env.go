package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env is the runtime environment of the CLI.
type Env struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Workers  int    `env:"INVESTSIM_WORKERS" envDefault:"0"`
	Cache    CacheEnv
}

// CacheEnv selects the memo store.
type CacheEnv struct {
	Kind          string        `env:"INVESTSIM_CACHE" envDefault:"none"`
	TTL           time.Duration `env:"INVESTSIM_CACHE_TTL" envDefault:"1h"`
	SQLitePath    string        `env:"INVESTSIM_SQLITE_PATH" envDefault:"investsim-cache.db"`
	RedisAddr     string        `env:"INVESTSIM_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"INVESTSIM_REDIS_PASSWORD"`
	RedisDB       int           `env:"INVESTSIM_REDIS_DB" envDefault:"0"`
}

// LoadEnv reads the process environment after loading any .env files.
// Missing .env files are ignored.
func LoadEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	e := &Env{}
	if err := env.Parse(e); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// ParseLevel maps debug, info, warn/warning and error to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
