package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
)

// Server is the small admin API: log in and edit the active tournament the
// dialog advertises in its prompts.
type Server struct {
	tours    repository.TournamentRepository
	auth     *AuthManager
	password string
	log      *zerolog.Logger
}

func NewServer(tours repository.TournamentRepository, auth *AuthManager, password string, logger *zerolog.Logger) *Server {
	return &Server{tours: tours, auth: auth, password: password, log: logger}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/tournament", s.handleGetTournament)
		r.Put("/tournament", s.handlePutTournament)
	})
	return r
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.password == "" {
		s.log.Error().Msg("admin password is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	t, err := s.tours.Active(r.Context())
	if err != nil {
		http.Error(w, "Failed to read tournament", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (s *Server) handlePutTournament(w http.ResponseWriter, r *http.Request) {
	var t model.Tournament
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if t.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.tours.SetActive(r.Context(), t); err != nil {
		s.log.Error().Err(err).Msg("tournament update failed")
		http.Error(w, "Failed to update tournament", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}
