package storage

import (
	"encoding/json"
	"sync"
)

// Memory keeps documents in process memory. Documents are stored encoded so
// callers never share mutable state with the store.
type Memory struct {
	mu   sync.Mutex
	docs map[Key][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[Key][]byte)}
}

func (m *Memory) Load(key Key, target any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.docs[key]
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, &Error{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (m *Memory) Save(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}

	m.mu.Lock()
	m.docs[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key Key) error {
	m.mu.Lock()
	delete(m.docs, key)
	m.mu.Unlock()
	return nil
}

// Raw returns the encoded document under key.
func (m *Memory) Raw(key Key) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[key]
	return raw, ok
}
