package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.RegistrationSink = (*CSVSink)(nil)

var csvHeader = []string{"id", "phone", "name", "surname", "tournament", "date", "time"}

// CSVSink appends confirmed registrations to a local file. It is the
// fallback channel: a registration counts as accepted once this append
// succeeds, even when the remote sink is down.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

// NewCSVSink creates the file with a header row when it does not exist yet.
func NewCSVSink(path string) (*CSVSink, error) {
	s := &CSVSink{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create records file: %w", err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flush header: %w", err)
		}
	}
	return s, nil
}

func (s *CSVSink) AppendRecord(ctx context.Context, rec *model.RegistrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		rec.ID,
		rec.Phone,
		rec.Name,
		rec.Surname,
		rec.Tournament,
		rec.RegisteredAt.Format("02.01.2006"),
		rec.RegisteredAt.Format("15:04:05"),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	return nil
}

// Export streams the accumulated file, for the download endpoint.
func (s *CSVSink) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// FileName is the attachment name offered to the downloader.
func (s *CSVSink) FileName() string { return "registrations.csv" }
