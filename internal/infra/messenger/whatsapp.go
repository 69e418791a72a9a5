// File: internal/infra/messenger/whatsapp.go
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/config"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
)

// Ensure the adapter implements the port interface.
var _ adapter.MessengerGateway = (*WhatsAppGateway)(nil)

// WhatsAppGateway delivers text through the Cloud API messages endpoint.
type WhatsAppGateway struct {
	cfg    *config.WhatsAppConfig
	client *http.Client
	log    *zerolog.Logger
}

func NewWhatsAppGateway(cfg *config.WhatsAppConfig, logger *zerolog.Logger) *WhatsAppGateway {
	return &WhatsAppGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger,
	}
}

type waTextPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

func (g *WhatsAppGateway) SendText(ctx context.Context, key model.UserKey, text string) error {
	payload := waTextPayload{
		MessagingProduct: "whatsapp",
		To:               model.WaRecipient(key),
		Type:             "text",
	}
	payload.Text.Body = text

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", g.cfg.GraphBaseURL, g.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph api status %d: %s", resp.StatusCode, detail)
	}
	g.log.Debug().Str("to", payload.To).Msg("whatsapp message sent")
	return nil
}
