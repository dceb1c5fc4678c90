// Package cache holds resolved translation bundles between requests.
package cache

import (
	"context"
	"maps"
	"sync"
)

// BundleCache stores resolved message maps per locale.
//
// Readers take Generation before loading rows and pass it to Set. Invalidate
// bumps the generation, so a bundle built from rows read before a write is
// never stored after that write's Invalidate.
type BundleCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, locale string) (messages map[string]string, ok bool, err error)
	Generation(ctx context.Context) (uint64, error)
	// Set stores messages only while the generation still equals gen and
	// reports whether it did.
	Set(ctx context.Context, gen uint64, locale string, messages map[string]string) (stored bool, err error)
	// Invalidate drops every cached bundle; a write to one locale can change
	// the fallback of all others.
	Invalidate(ctx context.Context) error
}

// Memory is a process-local BundleCache.
type Memory struct {
	mu      sync.RWMutex
	gen     uint64
	bundles map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{bundles: make(map[string]map[string]string)}
}

var _ BundleCache = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, locale string) (map[string]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bundles[locale]
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(b), true, nil
}

func (m *Memory) Generation(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen, nil
}

func (m *Memory) Set(_ context.Context, gen uint64, locale string, messages map[string]string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false, nil
	}
	m.bundles[locale] = maps.Clone(messages)
	return true, nil
}

func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	clear(m.bundles)
	return nil
}
