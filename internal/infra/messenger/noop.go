package messenger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
)

var _ adapter.MessengerGateway = (*NoopGateway)(nil)

// NoopGateway logs outbound messages instead of delivering them. Used in dev
// mode when no platform credentials are configured.
type NoopGateway struct {
	log *zerolog.Logger
}

func NewNoopGateway(logger *zerolog.Logger) *NoopGateway {
	return &NoopGateway{log: logger}
}

func (g *NoopGateway) SendText(ctx context.Context, key model.UserKey, text string) error {
	g.log.Info().Str("to", key).Str("text", text).Msg("noop send")
	return nil
}
