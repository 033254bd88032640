package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache with TTL checked on read and an LRU
// capacity bound. Entries are immutable once written.
type Memory struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	now func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemory creates a Memory cache holding at most capacity entries.
// capacity <= 0 defaults to 1024.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Memory{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	ent := el.Value.(*memoryEntry)
	if m.now().After(ent.expiresAt) {
		m.order.Remove(el)
		delete(m.entries, key)
		return nil, false, nil
	}
	m.order.MoveToFront(el)
	return ent.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		ent := el.Value.(*memoryEntry)
		ent.value = value
		ent.expiresAt = m.now().Add(ttl)
		m.order.MoveToFront(el)
		return nil
	}

	for m.order.Len() >= m.capacity {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}

	m.entries[key] = m.order.PushFront(&memoryEntry{
		key:       key,
		value:     value,
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

func (m *Memory) Close() error { return nil }
