package localstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values under "bagshop:<key>" with a jittered TTL so abandoned
// guest carts expire.
type RedisKV struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisKV(client *redis.Client, baseTTL time.Duration) *RedisKV {
	if baseTTL <= 0 {
		baseTTL = 7 * 24 * time.Hour
	}
	return &RedisKV{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, redisKey(key), value, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

func redisKey(key string) string {
	return fmt.Sprintf("bagshop:%s", key)
}
