package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMiss = errors.New("cache: key not found")

// Store keeps raw values with an optional expiry. A zero ttl never expires.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Key joins parts with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Typed stores JSON-encoded values of T under a namespace of a Store.
type Typed[T any] struct {
	store     Store
	namespace string
	ttl       time.Duration
}

func NewTyped[T any](store Store, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{store: store, namespace: namespace, ttl: ttl}
}

// Get returns ErrMiss when key is absent or expired.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	data, err := t.store.Load(ctx, Key(t.namespace, key))
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return v, nil
}

func (t *Typed[T]) Put(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return t.store.Save(ctx, Key(t.namespace, key), data, t.ttl)
}
