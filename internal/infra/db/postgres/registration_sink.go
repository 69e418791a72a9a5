package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.RegistrationSink = (*RegistrationSink)(nil)

// RegistrationSink appends confirmed registrations to an append-only table,
// the remote counterpart of the local CSV file.
type RegistrationSink struct {
	pool *pgxpool.Pool
}

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
	id            TEXT PRIMARY KEY,
	phone         TEXT NOT NULL,
	name          TEXT NOT NULL,
	surname       TEXT NOT NULL,
	tournament    TEXT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL
)`

func NewRegistrationSink(ctx context.Context, pool *pgxpool.Pool) (*RegistrationSink, error) {
	if _, err := pool.Exec(ctx, createRegistrationsTable); err != nil {
		return nil, fmt.Errorf("ensure registrations table: %w", err)
	}
	return &RegistrationSink{pool: pool}, nil
}

func (s *RegistrationSink) AppendRecord(ctx context.Context, rec *model.RegistrationRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO registrations (id, phone, name, surname, tournament, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Phone, rec.Name, rec.Surname, rec.Tournament, rec.RegisteredAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// a retried webhook delivery may replay the same record id
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}
