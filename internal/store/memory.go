package store

import (
	"context"
	"sync"
	"time"

	"github.com/dharmasatrya/jetset/internal/models"
)

// MemoryStore keeps conversations in process memory. Expired entries are
// invisible to Get and removed by PurgeExpired.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*models.ConversationContext
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*models.ConversationContext),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.ConversationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.items[id]
	if !ok || s.expired(conv) {
		return nil, ErrNotFound
	}
	return clone(conv), nil
}

func (s *MemoryStore) Set(_ context.Context, conv *models.ConversationContext) error {
	stored := clone(conv)
	stored.UpdatedAt = s.now()
	conv.UpdatedAt = stored.UpdatedAt

	s.mu.Lock()
	s.items[conv.ID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, conv := range s.items {
		if s.expired(conv) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports how many conversations are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) expired(conv *models.ConversationContext) bool {
	return s.ttl > 0 && s.now().Sub(conv.UpdatedAt) > s.ttl
}
