package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tim-hardcastle/scanscript/source/values"
)

// Memory is a Store that lives and dies with the process.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]values.Value
}

func NewMemory() *Memory {
	return &Memory{items: map[string][]values.Value{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]values.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, Backend(key, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.items[key]
	if !ok {
		return nil, NotFound(key)
	}
	result := make([]values.Value, len(vals))
	copy(result, vals)
	return result, nil
}

func (m *Memory) Add(ctx context.Context, key string, v values.Value) error {
	if err := ctx.Err(); err != nil {
		return Backend(key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items[key] {
		if values.Equal(existing, v) {
			return nil
		}
	}
	m.items[key] = append(m.items[key], v)
	return nil
}

func (m *Memory) Replace(ctx context.Context, key string, v values.Value) error {
	if err := ctx.Err(); err != nil {
		return Backend(key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = []values.Value{v}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return Backend(key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return NotFound(key)
	}
	delete(m.items, key)
	return nil
}

func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, Backend(prefix, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []string{}
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *Memory) Close() error {
	return nil
}
