package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository used by unit tests and by the
// document CLI's dry-run mode.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string][]byte)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.store))
	for name := range m.store {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryRepo) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[name]
	return ok, nil
}

func (m *MemoryRepo) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryRepo) Write(ctx context.Context, name string, content []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[name] = append([]byte{}, content...)
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[name]; !ok {
		return ErrNotFound
	}
	delete(m.store, name)
	return nil
}
