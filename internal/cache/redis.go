package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "storefront:catalog:"
	// keys longer than this are replaced by their namespace plus a hash
	maxKeyLen = 64
)

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r RedisCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	// jitter spreads expiry of keys written together
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(key), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	if len(key) <= maxKeyLen {
		return keyPrefix + key
	}
	ns, _, _ := strings.Cut(key, ":")
	return keyPrefix + ns + ":h" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}
