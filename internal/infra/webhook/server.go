// File: internal/infra/webhook/server.go
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/usecase"
)

// Exporter streams the accumulated local registration file.
type Exporter interface {
	Export(w io.Writer) error
	FileName() string
}

// Server terminates the platform webhooks. Inbound handlers acknowledge
// unconditionally and promptly — the platforms retry aggressively on
// anything else — and hand the actual work to the registration use case in
// the background.
type Server struct {
	uc          usecase.RegistrationUseCase
	exporter    Exporter
	verifyToken string
	log         *zerolog.Logger
}

func NewServer(uc usecase.RegistrationUseCase, exporter Exporter, verifyToken string, logger *zerolog.Logger) *Server {
	return &Server{uc: uc, exporter: exporter, verifyToken: verifyToken, log: logger}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/webhook/whatsapp", s.handleVerify)
	r.Post("/webhook/whatsapp", s.handleWhatsApp)
	r.Post("/webhook/telegram", s.handleTelegram)
	r.Get("/export", s.handleExport)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// handleVerify serves the Cloud API subscription handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	var event waEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		// malformed payload: acknowledged and dropped, never a 5xx
		s.log.Warn().Err(err).Msg("undecodable whatsapp event")
		s.ack(w)
		return
	}

	from, body, ok := event.firstText()
	if !ok {
		s.ack(w)
		return
	}

	go s.uc.HandleInbound(context.Background(), model.PlatformWhatsApp, from, strings.TrimSpace(body))
	s.ack(w)
}

func (s *Server) handleTelegram(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.log.Warn().Err(err).Msg("undecodable telegram update")
		s.ack(w)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		s.ack(w)
		return
	}
	text := msg.Text
	if msg.Contact != nil {
		// a shared contact stands in for the typed phone number
		text = msg.Contact.PhoneNumber
	}
	if text == "" {
		s.ack(w)
		return
	}

	key := strconv.FormatInt(msg.Chat.ID, 10)
	go s.uc.HandleInbound(context.Background(), model.PlatformTelegram, key, strings.TrimSpace(text))
	s.ack(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exporter.FileName()))
	if err := s.exporter.Export(w); err != nil {
		s.log.Error().Err(err).Msg("export failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
