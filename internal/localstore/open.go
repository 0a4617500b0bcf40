package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

type OpenOptions struct {
	Driver        string // sqlite, redis or memory
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Open connects the configured backend. Redis is pinged so a bad address fails
// at startup.
func Open(ctx context.Context, opts OpenOptions) (KV, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryKV(), nil

	case "sqlite":
		if opts.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		return NewSQLiteKV(opts.SQLitePath)

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return NewRedisKV(client, opts.TTL), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
