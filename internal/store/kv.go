// Package store provides the durable, string-keyed workspace storage. All
// persistence side effects of the application are confined to this package;
// consumers serialize their own structured data across the KV boundary.
package store

import (
	"context"
	"sync"
)

// KV is the storage substrate: string keys to string values. Get reports
// absence explicitly so callers can tell "never written" from "written empty".
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV is an in-process KV used in tests and as the degraded mode when
// the durable backend is unreachable.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
