package otp

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryEntry struct {
	code   string
	expiry time.Time
}

// MemoryStore holds codes in a map protected by a RWMutex.
// Expiration is handled by a background janitor goroutine.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry // keyed by email, newest code wins
	stop    chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
}

func (m *MemoryStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be > 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[email] = memoryEntry{code: code, expiry: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Consume(ctx context.Context, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[email]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiry) {
		delete(m.entries, email)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}
	delete(m.entries, email)
	return true, nil
}

func (m *MemoryStore) ExpireCodes(ctx context.Context) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, entry := range m.entries {
		if now.After(entry.expiry) {
			delete(m.entries, email)
		}
	}
	return nil
}

func (m *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.ExpireCodes(context.Background())
		case <-m.stop:
			return
		}
	}
}

// Close stops the janitor
func (m *MemoryStore) Close() {
	close(m.stop)
}
