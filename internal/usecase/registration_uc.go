// File: internal/usecase/registration_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/logging"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/metrics"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/worker"
)

// Compile-time check
var _ RegistrationUseCase = (*registrationUC)(nil)

// RegistrationUseCase drives the registration dialog for inbound webhook
// messages. It always succeeds from the webhook's point of view: downstream
// failures are logged and never bubble back into the HTTP response.
type RegistrationUseCase interface {
	HandleInbound(ctx context.Context, platform string, rawID, text string)
}

// InboundLimiter throttles messages per user key. Optional.
type InboundLimiter interface {
	Allow(ctx context.Context, key model.UserKey) (bool, error)
}

type registrationUC struct {
	machine  *DialogMachine
	store    repository.ConversationStore
	tours    repository.TournamentRepository
	sink     repository.RegistrationSink
	gateways map[string]adapter.MessengerGateway
	pool     *worker.Pool
	limiter  InboundLimiter
	locks    keyedMutex
	log      *zerolog.Logger
}

func NewRegistrationUseCase(
	machine *DialogMachine,
	store repository.ConversationStore,
	tours repository.TournamentRepository,
	sink repository.RegistrationSink,
	gateways map[string]adapter.MessengerGateway,
	pool *worker.Pool,
	limiter InboundLimiter,
	logger *zerolog.Logger,
) *registrationUC {
	return &registrationUC{
		machine:  machine,
		store:    store,
		tours:    tours,
		sink:     sink,
		gateways: gateways,
		pool:     pool,
		limiter:  limiter,
		log:      logger,
	}
}

// HandleInbound runs one dialog transition for a single inbound message.
// The per-key critical section covers only the load → transition → persist
// window; sends and sink appends happen after the lock is released so a slow
// gateway can never stall another message from the same user.
func (u *registrationUC) HandleInbound(ctx context.Context, platform string, rawID, text string) {
	key := model.NormalizeUserKey(rawID)
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithUserKey(ctx, key)
	ctx = logging.WithPlatform(ctx, platform)
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "RegistrationUC.HandleInbound")()

	metrics.IncInbound(platform)

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, letting message through")
		} else if !ok {
			log.Info().Msg("rate limited, dropping message")
			return
		}
	}

	unlock := u.locks.lock(key)
	conv, err := u.store.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Msg("conversation load failed, treating as new")
		conv = nil
	}
	if conv == nil {
		conv = model.NewConversation()
	}

	tournament, err := u.tours.Active(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("active tournament unavailable")
	}

	tr := u.machine.Advance(key, conv, text, tournament, time.Now())

	if tr.Next != nil {
		if err := u.store.Put(ctx, key, tr.Next); err != nil {
			log.Error().Err(err).Msg("conversation save failed")
		}
	} else {
		if err := u.store.Remove(ctx, key); err != nil {
			log.Error().Err(err).Msg("conversation remove failed")
		}
	}
	unlock()

	metrics.IncStep(tr.Outcome())
	log.Debug().Str("outcome", tr.Outcome()).Int("replies", len(tr.Replies)).Msg("dialog advanced")

	// Side effects are fire-and-forget: the transition above already
	// committed and is never rolled back.
	u.runAsync(log, func(ctx context.Context) error {
		u.deliver(ctx, log, platform, key, tr.Replies)
		return nil
	})
	if tr.Record != nil {
		rec := tr.Record
		metrics.IncRegistration()
		u.runAsync(log, func(ctx context.Context) error {
			if err := u.sink.AppendRecord(ctx, rec); err != nil {
				log.Error().Err(err).Str("record_id", rec.ID).Msg("registration persist failed")
			}
			return nil
		})
	}
}

func (u *registrationUC) deliver(ctx context.Context, log *zerolog.Logger, platform string, key model.UserKey, replies []string) {
	gw, ok := u.gateways[platform]
	if !ok {
		log.Error().Msg("no messenger gateway for platform")
		return
	}
	for _, reply := range replies {
		if err := gw.SendText(ctx, key, reply); err != nil {
			metrics.IncSendFailure(platform)
			log.Error().Err(err).Msg("outbound send failed")
		}
	}
}

// runAsync hands the task to the worker pool, falling back to inline
// execution when no pool is wired or the queue is saturated.
func (u *registrationUC) runAsync(log *zerolog.Logger, task worker.Task) {
	if u.pool != nil {
		if err := u.pool.Submit(task); err == nil {
			return
		}
		log.Warn().Msg("worker queue full, running task inline")
	}
	_ = task(context.Background())
}

// keyedMutex serializes transitions per user key while leaving distinct keys
// fully parallel. Mutexes are kept for the lifetime of the process; the map
// is bounded by the number of distinct users seen.
type keyedMutex struct {
	mus sync.Map
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
