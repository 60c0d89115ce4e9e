package store

import (
	"context"
	"sync"

	"github.com/dolthub/swiss"

	"naval-chess/internal/room"
)

// MemoryStore keeps matches in process. Matches are copied on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	matches *swiss.Map[string, *room.Match]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: swiss.NewMap[string, *room.Match](64),
	}
}

func (s *MemoryStore) LoadMatch(ctx context.Context, id string) (*room.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches.Get(id)
	if !ok {
		return nil, room.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryStore) SaveMatch(ctx context.Context, m *room.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches.Put(m.ID, m.Clone())
	return nil
}

func (s *MemoryStore) MatchIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, s.matches.Count())
	s.matches.Iter(func(id string, _ *room.Match) bool {
		ids = append(ids, id)
		return false
	})
	return ids, nil
}

// Count reports matches by status.
func (s *MemoryStore) Count() map[room.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[room.Status]int{}
	s.matches.Iter(func(_ string, m *room.Match) bool {
		out[m.Status]++
		return false
	})
	return out
}
