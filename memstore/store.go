// Package memstore provides an in-process session store adapter for tests,
// examples, and single-process deployments. Eviction is handled by
// go-cache's janitor; the adapter only enforces the positive-TTL contract.
package memstore

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is an in-memory TTL key/value store for opaque session payloads.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	cache *gocache.Cache
}

// New creates an empty [Store]. Expired entries are swept once a minute;
// reads between sweeps still observe them as misses.
func New() *Store {
	return &Store{
		cache: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

// Set writes a copy of value under key with the given TTL.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	s.cache.Set(key, buf, ttl)
	return nil
}

// Get returns a copy of the stored value. Missing or expired keys are a
// clean miss; the in-process backend cannot fail, so the error is always
// nil.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, true, nil
}

// Drop removes key. Dropping an absent key is not an error.
func (s *Store) Drop(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Len reports the number of live entries, expired-but-unswept ones included.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
