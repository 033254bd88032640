package cache

import (
	"context"
	"time"
)

// Cache is the store for short-lived memoized responses (nearby search,
// featured hospitals). Get reports a miss for absent or expired keys.
// The Memory implementation is process-local; Redis is the drop-in for
// multi-instance deployments.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type FakeCache struct {
	GetFn   func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	CloseFn func() error
}

func (f *FakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, ttl)
	}
	panic("unexpected Set")
}

func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
