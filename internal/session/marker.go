// Package session resolves access codes to tenant workspaces and tracks the
// single active session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Marker is the ephemeral record of the authenticated tenant id, kept apart
// from the durable workspace store. It expires with the session; clearing it
// never touches persisted workspace data.
type Marker interface {
	Put(ctx context.Context, tenantID string) error
	Get(ctx context.Context) (tenantID string, found bool, err error)
	Clear(ctx context.Context) error
}

const markerKey = "recensioni:session:tenant"

// RedisMarker stores the session marker in Redis with a TTL, so a restart
// within the window restores the session silently.
type RedisMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMarker wraps an existing Redis client. ttl bounds the session
// lifetime; zero means no expiry.
func NewRedisMarker(client *redis.Client, ttl time.Duration) *RedisMarker {
	return &RedisMarker{client: client, ttl: ttl}
}

func (m *RedisMarker) Put(ctx context.Context, tenantID string) error {
	if err := m.client.Set(ctx, markerKey, tenantID, m.ttl).Err(); err != nil {
		return fmt.Errorf("store session marker: %w", err)
	}
	return nil
}

func (m *RedisMarker) Get(ctx context.Context) (string, bool, error) {
	tenantID, err := m.client.Get(ctx, markerKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session marker: %w", err)
	}
	return tenantID, true, nil
}

func (m *RedisMarker) Clear(ctx context.Context) error {
	if err := m.client.Del(ctx, markerKey).Err(); err != nil {
		return fmt.Errorf("clear session marker: %w", err)
	}
	return nil
}

// MemoryMarker keeps the marker in process memory: the session ends with the
// process, matching a browsing context that was closed.
type MemoryMarker struct {
	mu       sync.Mutex
	tenantID string
	set      bool
}

// NewMemoryMarker creates an empty marker.
func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{}
}

func (m *MemoryMarker) Put(_ context.Context, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantID = tenantID
	m.set = true
	return nil
}

func (m *MemoryMarker) Get(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tenantID, m.set, nil
}

func (m *MemoryMarker) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantID = ""
	m.set = false
	return nil
}
