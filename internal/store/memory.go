package store

import (
	"context"
	"sync"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

// MemoryStore keeps encoded snapshots in a map, so callers never share
// pointers with what is stored.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, name string) (*model.Game, error) {
	s.mu.RLock()
	data, ok := s.games[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeGame(name, data)
}

func (s *MemoryStore) Save(_ context.Context, g *model.Game) error {
	data, err := encodeGame(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games[g.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[name]
	return ok, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
