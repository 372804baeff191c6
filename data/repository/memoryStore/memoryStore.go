package memoryStore

import (
	"context"
	"sync"

	"github.com/KotFed0t/ginvest_bot/data/repository"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func New() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[namespace][key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) SetMany(_ context.Context, namespace string, records map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string, len(records))
		s.data[namespace] = ns
	}
	for k, v := range records {
		ns[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data[namespace], k)
	}
	return nil
}
