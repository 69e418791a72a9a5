package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps dialog progress in redis so a restart does not
// drop mid-dialog users. The TTL bounds how long an abandoned conversation
// may be resumed.
type ConversationStore struct {
	client *Client
	ttl    time.Duration
}

func NewConversationStore(client *Client, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

func (s *ConversationStore) convKey(key model.UserKey) string {
	return fmt.Sprintf("conv_state:%s", key)
}

func (s *ConversationStore) Get(ctx context.Context, key model.UserKey) (*model.Conversation, error) {
	data, err := s.client.Get(ctx, s.convKey(key))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *ConversationStore) Put(ctx context.Context, key model.UserKey, conv *model.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.convKey(key), data, s.ttl)
}

func (s *ConversationStore) Remove(ctx context.Context, key model.UserKey) error {
	return s.client.Del(ctx, s.convKey(key))
}
