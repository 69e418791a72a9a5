package sink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/metrics"
)

var _ repository.RegistrationSink = (*Fanout)(nil)

type target struct {
	name string
	sink repository.RegistrationSink
}

// Fanout writes a record to every configured sink independently. Individual
// failures are logged and counted; the append as a whole fails only when no
// sink accepted the record.
type Fanout struct {
	targets []target
	log     *zerolog.Logger
}

func NewFanout(logger *zerolog.Logger) *Fanout {
	return &Fanout{log: logger}
}

func (f *Fanout) Add(name string, s repository.RegistrationSink) {
	f.targets = append(f.targets, target{name: name, sink: s})
}

func (f *Fanout) AppendRecord(ctx context.Context, rec *model.RegistrationRecord) error {
	accepted := 0
	for _, t := range f.targets {
		if err := t.sink.AppendRecord(ctx, rec); err != nil {
			metrics.IncSinkFailure(t.name)
			f.log.Error().Err(err).Str("sink", t.name).Str("record_id", rec.ID).Msg("sink append failed")
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return domain.ErrSinkUnavailable
	}
	return nil
}
