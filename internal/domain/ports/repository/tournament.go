package repository

import (
	"context"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
)

// TournamentRepository exposes the currently configured tournament. Active
// must read the backing source on every call so admin edits take effect on
// the next prompt without a restart.
type TournamentRepository interface {
	Active(ctx context.Context) (model.Tournament, error)
	SetActive(ctx context.Context, t model.Tournament) error
}
