package state

import (
	"context"
	"errors"
	"sync"
)

// MemoryKV keeps everything in process. Used by tests and --store memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	closed bool
}

func NewMemory() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

var errClosed = errors.New("store is closed")

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, storageErr("get", key, errClosed)
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return storageErr("set", key, errClosed)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return storageErr("delete", key, errClosed)
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
