package store

import (
	"sync"

	"tableflip.dev/fsh/pkg/entry"
)

// Memory is a Journal that lives only as long as the process. It backs the
// shell when journaling is disabled and is handy in tests.
type Memory struct {
	mu      sync.Mutex
	entries []entry.Entry
}

var _ Journal = (*Memory)(nil)

func NewMemory(entries ...entry.Entry) *Memory {
	return &Memory{entries: append([]entry.Entry{}, entries...)}
}

func (m *Memory) Load() ([]entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entry.Entry{}, m.entries...), nil
}

func (m *Memory) Append(e entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0:0]
	for _, e := range m.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}
