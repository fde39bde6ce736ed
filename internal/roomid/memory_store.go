package roomid

import (
	"context"
	"sync"
)

// MemoryStore keeps reservations in-process. Suitable for a single instance;
// reservations are lost on restart.
type MemoryStore struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[string]struct{})}
}

func (s *MemoryStore) Activate(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[roomID] = struct{}{}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, roomID)
	return nil
}

func (s *MemoryStore) InUse(_ context.Context, roomID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.used[roomID]
	return ok, nil
}
