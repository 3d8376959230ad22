package store

import (
	"sort"
	"sync"
)

// subscriberBuffer is the channel capacity given to each subscriber.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Statuses are keyed by variable ID, with new results replacing previous
// values. Updates to subscribers are sent non-blocking; if a subscriber's
// buffer is full, the update is dropped for that subscriber.
type MemoryStore struct {
	mu          sync.RWMutex
	statuses    map[uint8]VariableStatus
	subscribers map[chan VariableStatus]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses:    make(map[uint8]VariableStatus),
		subscribers: make(map[chan VariableStatus]struct{}),
	}
}

// Update stores a [VariableStatus] and notifies all subscribers.
func (m *MemoryStore) Update(status VariableStatus) {
	m.mu.Lock()
	m.statuses[status.ID] = status
	m.mu.Unlock()

	m.notifySubscribers(status)
}

// GetAll returns a snapshot of all stored statuses ordered by ID.
func (m *MemoryStore) GetAll() []VariableStatus {
	m.mu.RLock()
	results := make([]VariableStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		results = append(results, status)
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan VariableStatus {
	ch := make(chan VariableStatus, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan VariableStatus) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the status to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(status VariableStatus) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- status:
		default:
			// subscriber is slow, drop the message
		}
	}
}
