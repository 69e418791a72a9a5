package messenger

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
)

var _ adapter.MessengerGateway = (*TelegramGateway)(nil)

// TelegramGateway delivers text through the Bot API. The user key for this
// platform is the decimal chat id.
type TelegramGateway struct {
	bot *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewTelegramGateway(token string, logger *zerolog.Logger) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramGateway{bot: bot, log: logger}, nil
}

func (g *TelegramGateway) SendText(ctx context.Context, key model.UserKey, text string) error {
	chatID, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return fmt.Errorf("bad telegram user key %q: %w", key, err)
	}
	if _, err := g.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
