// Package cache memoizes simulation ensembles keyed by their full input.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/investsim/backtest"
)

// DefaultTTL keeps results for an hour.
const DefaultTTL = time.Hour

// Store is a byte oriented key value store with per entry expiry.
// A ttl <= 0 stores without expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key is the hex SHA-256 of v's JSON encoding.
func Key(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache: key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Memo wraps a Store for ensembles. A nil Store disables caching.
type Memo struct {
	Store Store
	TTL   time.Duration
}

// Ensemble returns the cached ensemble for key, or calls run and caches its
// result. Store failures are logged and fall back to run.
func (m *Memo) Ensemble(ctx context.Context, key string, run func(context.Context) (*backtest.Ensemble, error)) (*backtest.Ensemble, error) {
	if m == nil || m.Store == nil {
		return run(ctx)
	}

	b, ok, err := m.Store.Get(ctx, key)
	switch {
	case err != nil:
		slog.Warn("cache get failed", slog.String("key", key), slog.String("err", err.Error()))
	case ok:
		var e backtest.Ensemble
		if err := json.Unmarshal(b, &e); err != nil {
			slog.Warn("cache entry unreadable", slog.String("key", key), slog.String("err", err.Error()))
			break
		}
		slog.Debug("cache hit", slog.String("key", key), slog.String("run", e.RunID))
		return &e, nil
	default:
		slog.Debug("cache miss", slog.String("key", key))
	}

	e, err := run(ctx)
	if err != nil {
		return nil, err
	}

	b, err = json.Marshal(e)
	if err != nil {
		slog.Warn("cache encode failed", slog.String("key", key), slog.String("err", err.Error()))
		return e, nil
	}
	if err := m.Store.Set(ctx, key, b, m.TTL); err != nil {
		slog.Warn("cache set failed", slog.String("key", key), slog.String("err", err.Error()))
	}
	return e, nil
}

// Options selects and configures a Store for Open.
type Options struct {
	// Kind is one of none, memory, sqlite, redis.
	Kind       string
	SQLitePath string
	Redis      RedisOptions
}

// Open builds the configured store. Kind "none" or "" returns a nil Store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Kind {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(nil), nil
	case "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = "investsim-cache.db"
		}
		return NewSQLite(path)
	case "redis":
		return NewRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("cache: unknown kind %q (supported: none, memory, sqlite, redis)", opts.Kind)
	}
}
