package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemorySession keeps sessions in process, serialized the same way as RedisSession.
type MemorySession struct {
	mu         sync.Mutex
	sessions   map[string]memoryEntry
	expiration time.Duration
	now        func() time.Time
}

func NewMemorySession(expiration time.Duration) *MemorySession {
	return &MemorySession{sessions: make(map[string]memoryEntry), expiration: expiration, now: time.Now}
}

func (s *MemorySession) GetSession(_ context.Context, key string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[key]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	if s.expiration > 0 && s.now().After(entry.expiresAt) {
		delete(s.sessions, key)
		return model.Session{}, ErrNotFound
	}

	var chatSession model.Session
	if err := json.Unmarshal(entry.raw, &chatSession); err != nil {
		return model.Session{}, ErrNotFound
	}
	return chatSession, nil
}

func (s *MemorySession) SetSession(_ context.Context, key string, chatSession model.Session) error {
	raw, err := json.Marshal(chatSession)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = memoryEntry{raw: raw, expiresAt: s.now().Add(s.expiration)}
	return nil
}
