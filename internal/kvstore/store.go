package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// Store is the key-value persistence capability the catalog cache is built
// on. Values are opaque strings. Get reports a missing key with ok=false and
// a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store. Open selects it for KV_BACKEND=memory
// or an empty backend name; tests use it directly.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend string // memory | redis | sqlite

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	SQLitePath string
}

// Open builds the Store named by opts.Backend. The returned close func must
// be called when the store is no longer needed.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		s, err := NewRedisStore(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := NewSQLiteStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
}
