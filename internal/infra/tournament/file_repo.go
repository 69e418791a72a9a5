package tournament

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.TournamentRepository = (*FileRepo)(nil)

// FileRepo keeps the active tournament in a small YAML file. Active re-reads
// the file on every call so admin edits are picked up by the very next
// prompt; the file is tiny, caching would only add staleness.
type FileRepo struct {
	mu       sync.Mutex
	path     string
	fallback model.Tournament
}

func NewFileRepo(path string, fallback model.Tournament) *FileRepo {
	return &FileRepo{path: path, fallback: fallback}
}

func (r *FileRepo) Active(ctx context.Context) (model.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return r.fallback, nil
	}
	if err != nil {
		return r.fallback, fmt.Errorf("read tournament file: %w", err)
	}
	var t model.Tournament
	if err := yaml.Unmarshal(b, &t); err != nil {
		return r.fallback, fmt.Errorf("parse tournament file: %w", err)
	}
	return t, nil
}

func (r *FileRepo) SetActive(ctx context.Context, t model.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := yaml.Marshal(&t)
	if err != nil {
		return fmt.Errorf("marshal tournament: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write tournament file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace tournament file: %w", err)
	}
	return nil
}
