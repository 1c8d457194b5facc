package store

import (
	"sync"
	"time"
)

// Medium is the key-value persistence behind a Store.
// Implementations must treat expired values as absent.
type Medium interface {
	Set(name, value string, opts Options) error
	Get(name string) (string, bool, error)
	Remove(name string, opts Options) error
	All() (map[string]string, error)
	Close() error
}

// MemoryMedium keeps values in process memory.
type MemoryMedium struct {
	mu      sync.Mutex
	records map[string]record
	now     func() time.Time
}

// NewMemoryMedium creates an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{
		records: make(map[string]record),
		now:     time.Now,
	}
}

// Set implements Medium.
func (m *MemoryMedium) Set(name, value string, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, remove := opts.expiry(m.now())
	if remove {
		delete(m.records, name)
		return nil
	}
	m.records[name] = newRecord(value, opts, expiresAt)
	return nil
}

// Get implements Medium.
func (m *MemoryMedium) Get(name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[name]
	if !ok {
		return "", false, nil
	}
	if r.expired(m.now()) {
		delete(m.records, name)
		return "", false, nil
	}
	return r.Value, true, nil
}

// Remove implements Medium.
func (m *MemoryMedium) Remove(name string, _ Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, name)
	return nil
}

// All implements Medium.
func (m *MemoryMedium) All() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make(map[string]string, len(m.records))
	for name, r := range m.records {
		if r.expired(now) {
			delete(m.records, name)
			continue
		}
		out[name] = r.Value
	}
	return out, nil
}

// Close implements Medium.
func (m *MemoryMedium) Close() error {
	return nil
}
