package config

import "sync"

// Store abstracts the persistence medium. Firmware builds back it with flash,
// host builds with files, tests with memory.
type Store interface {
	Read(name string) ([]byte, bool)
	Write(name string, data []byte) error
}

// MemStore is an in-memory Store. It is the default on targets without a
// writable filesystem; contents last for the life of the process.
type MemStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]byte{}}
}

func (s *MemStore) Read(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.m[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

func (s *MemStore) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	s.m[name] = b
	return nil
}
