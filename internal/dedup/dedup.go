// Package dedup makes webhook processing idempotent under Shopify's
// at-least-once delivery by tracking recently seen event ids.
package dedup

import (
	"context"
	"sync"
	"time"
)

// Suppressor reports whether an event id has already been seen inside the
// retention window, recording it on first sight. The check and the insert
// are atomic: when the same id is delivered concurrently, exactly one caller
// observes it as new.
type Suppressor interface {
	// CheckAndRecord returns true when eventID is a duplicate. An empty id
	// cannot be deduplicated and is always treated as new, without growing
	// the record set.
	CheckAndRecord(ctx context.Context, eventID string) (bool, error)
}

// Memory is an in-process Suppressor. State is not persisted; a restart
// reprocesses redelivered events as new (accepted limitation — use the Redis
// suppressor when that matters).
type Memory struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemory builds a fresh suppressor retaining event ids for window.
func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

func (m *Memory) CheckAndRecord(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// Sweep expired entries first so a redelivery past the window counts as new.
	for id, first := range m.seen {
		if now.Sub(first) > m.window {
			delete(m.seen, id)
		}
	}
	if _, ok := m.seen[eventID]; ok {
		return true, nil
	}
	m.seen[eventID] = now
	return false, nil
}

// Len reports the number of tracked ids. Test use only.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
