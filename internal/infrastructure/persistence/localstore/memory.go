package localstore

import "sync"

// MemoryStore is an in-memory Store for tests and ephemeral kiosks.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// Load returns the slot's payload, or ErrSlotEmpty.
func (s *MemoryStore) Load(slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Save replaces the slot's payload.
func (s *MemoryStore) Save(slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.slots[slot] = stored
	return nil
}

// Clear removes the slot.
func (s *MemoryStore) Clear(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

// ClearAll removes every slot.
func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = make(map[string][]byte)
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
