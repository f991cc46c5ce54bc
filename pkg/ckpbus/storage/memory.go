package storage

import (
	"sync"
)

// MemoryDir is an in-memory Adapter for testing and embedded use.
// Data is lost when the process exits.
//
// Directory existence is tracked separately from emptiness so that the
// "worker racing bootstrap" behavior (list on a missing directory returns
// empty) can be exercised in tests.
type MemoryDir struct {
	mu      sync.RWMutex
	entries map[string]struct{}
	present bool
	closed  bool
}

// Compile-time interface check.
var _ Adapter = (*MemoryDir)(nil)

// NewMemoryDir creates a new in-memory adapter. The directory starts absent;
// call Reset to create it.
func NewMemoryDir() *MemoryDir {
	return &MemoryDir{}
}

// CreateIfAbsent implements Adapter. The directory is created implicitly,
// matching filesystem stores that materialize directories on first write.
func (m *MemoryDir) CreateIfAbsent(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}

	if m.entries == nil {
		m.entries = make(map[string]struct{})
	}
	m.present = true

	if _, ok := m.entries[name]; ok {
		return false, nil
	}
	m.entries[name] = struct{}{}
	return true, nil
}

// List implements Adapter.
func (m *MemoryDir) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if !m.present {
		return nil, nil
	}

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	return names, nil
}

// Delete implements Adapter.
func (m *MemoryDir) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, name)
	return nil
}

// Exists implements Adapter.
func (m *MemoryDir) Exists() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrClosed
	}
	return m.present, nil
}

// Reset implements Adapter.
func (m *MemoryDir) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries = make(map[string]struct{})
	m.present = true
	return nil
}

// Close implements Adapter.
func (m *MemoryDir) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	m.present = false
	return nil
}

// Len returns the number of entries. Useful for testing.
func (m *MemoryDir) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
