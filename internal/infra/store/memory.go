package store

import (
	"context"
	"sync"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.ConversationStore = (*MemoryStore)(nil)

// MemoryStore is the in-process conversation table. It does not survive
// restarts; the redis adapter is the durable alternative.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[model.UserKey]*model.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[model.UserKey]*model.Conversation)}
}

func (s *MemoryStore) Get(ctx context.Context, key model.UserKey) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[key]
	if !ok {
		return nil, nil
	}
	return conv, nil
}

func (s *MemoryStore) Put(ctx context.Context, key model.UserKey, conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[key] = conv
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key model.UserKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, key)
	return nil
}
