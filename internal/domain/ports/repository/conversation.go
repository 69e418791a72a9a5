package repository

import (
	"context"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
)

// ConversationStore is the port for the process-wide user-key → dialog
// progress table. Get returns (nil, nil) when no conversation exists; the
// caller treats absence as the implicit start state.
type ConversationStore interface {
	Get(ctx context.Context, key model.UserKey) (*model.Conversation, error)
	Put(ctx context.Context, key model.UserKey, conv *model.Conversation) error
	Remove(ctx context.Context, key model.UserKey) error
}
