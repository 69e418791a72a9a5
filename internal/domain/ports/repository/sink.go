package repository

import (
	"context"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
)

// RegistrationSink receives finalized records for persistence. Records are
// append-only and never mutated after being handed over.
type RegistrationSink interface {
	AppendRecord(ctx context.Context, rec *model.RegistrationRecord) error
}
