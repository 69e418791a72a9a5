// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/config"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
	pg "github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/db/postgres"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/i18n"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/logging"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/messenger"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/metrics"
	red "github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/redis"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/sink"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/store"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/tournament"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/web"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/webhook"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/worker"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop senders allowed)")
	flag.Parse()

	// secrets may live in a .env next to the binary
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	translator, err := i18n.NewTranslator(i18n.LocalesFS, "ru")
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}

	// ---- Conversation store ----
	var convStore repository.ConversationStore
	var limiter usecase.InboundLimiter
	if cfg.Store.Backend == "redis" || cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		if cfg.Store.Backend == "redis" {
			convStore = red.NewConversationStore(redisClient, cfg.Redis.TTL)
		}
		if cfg.RateLimit.PerUser > 0 {
			limiter = red.NewPerUserLimiter(red.NewRateLimiter(redisClient), cfg.RateLimit.PerUser, cfg.RateLimit.Window)
		}
	}
	if convStore == nil {
		convStore = store.NewMemoryStore()
	}

	// ---- Registration sinks ----
	csvSink, err := sink.NewCSVSink(cfg.Sink.CSVPath)
	if err != nil {
		log.Fatalf("csv sink: %v", err)
	}
	sinks := sink.NewFanout(logger)
	sinks.Add("csv", csvSink)
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		pgSink, err := pg.NewRegistrationSink(ctx, pool)
		if err != nil {
			log.Fatalf("postgres sink: %v", err)
		}
		sinks.Add("postgres", pgSink)
	}

	// ---- Tournament config ----
	tours := tournament.NewFileRepo(cfg.Tournament.File, model.Tournament{
		Name:        cfg.Tournament.Name,
		Description: cfg.Tournament.Description,
	})

	// ---- Messenger gateways ----
	gateways := map[string]adapter.MessengerGateway{}
	if cfg.WhatsApp.AccessToken != "" {
		gateways[model.PlatformWhatsApp] = messenger.NewWhatsAppGateway(&cfg.WhatsApp, logger)
	} else if cfg.Runtime.Dev {
		gateways[model.PlatformWhatsApp] = messenger.NewNoopGateway(logger)
	} else {
		log.Fatalf("whatsapp.access_token is required outside dev mode")
	}
	if cfg.Telegram.Token != "" {
		tg, err := messenger.NewTelegramGateway(cfg.Telegram.Token, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		gateways[model.PlatformTelegram] = tg
	} else if cfg.Runtime.Dev {
		gateways[model.PlatformTelegram] = messenger.NewNoopGateway(logger)
	}

	// ---- Use case ----
	machine := usecase.NewDialogMachine(translator, usecase.DialogOptions{
		CollectPhone:     cfg.Flow.CollectPhone,
		ChooseTournament: cfg.Flow.ChooseTournament,
		AcceptTokens:     cfg.Flow.AcceptTokens,
	})
	pool := worker.NewPool(8, logger)
	pool.Start(ctx)
	defer pool.Stop()

	uc := usecase.NewRegistrationUseCase(machine, convStore, tours, sinks, gateways, pool, limiter, logger)

	// ---- HTTP ----
	hooks := webhook.NewServer(uc, csvSink, cfg.WhatsApp.VerifyToken, logger)
	admin := web.NewServer(tours, web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL), cfg.Admin.Password, logger)

	root := chi.NewRouter()
	root.Mount("/", hooks.Routes())
	root.Mount("/api/v1", admin.Routes())

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: root}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("webhook server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
