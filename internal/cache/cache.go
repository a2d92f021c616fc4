package cache

import (
	"context"
	"errors"
)

// ListingCache stores JSON-encodable catalog results under string keys.
type ListingCache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop never holds anything; used when no Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, any) error { return ErrCacheMiss }
func (Noop) Set(context.Context, string, any) error { return nil }
func (Noop) Delete(context.Context, string) error   { return nil }
