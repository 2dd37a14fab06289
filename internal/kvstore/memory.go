package kvstore

import "sync"

// Memory is a map-backed Store used in tests and ephemeral runs. It never
// fails, which makes it the baseline the persistent adapters degrade toward.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) GetRaw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) SetRaw(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return true
}

func (s *Memory) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *Memory) Close() error { return nil }
