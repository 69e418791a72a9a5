// File: internal/domain/ports/adapter/messenger.go
package adapter

import (
	"context"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
)

// MessengerGateway delivers outbound text to a user on the originating
// platform. Send failures are logged by callers, never retried.
type MessengerGateway interface {
	SendText(ctx context.Context, key model.UserKey, text string) error
}
