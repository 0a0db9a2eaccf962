package kv

import (
	"context"

	"fintrack/internal/cache"
)

// CachedStore serves Get from an in-process cache and writes through on Set.
type CachedStore struct {
	next  Store
	cache cache.Cache[string]
}

func NewCachedStore(next Store, c cache.Cache[string]) *CachedStore {
	return &CachedStore{next: next, cache: c}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	s.cache.Set(key, v)
	return v, true, nil
}

// Set writes to the underlying store first. On failure the cached entry is
// dropped so the next Get goes to the store.
func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, value)
	return nil
}

// Close closes the underlying store when it holds resources.
func (s *CachedStore) Close() error {
	if c, ok := s.next.(Closer); ok {
		return c.Close()
	}
	return nil
}
