//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/adapter"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/ports/repository"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/i18n"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// newTestTranslator loads the real embedded locale so assertions run against
// the prompts users actually see.
func newTestTranslator() *i18n.Translator {
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "ru")
	if err != nil {
		panic(err)
	}
	return tr
}

// ---- Mock ConversationStore ----

type MockConversationStore struct {
	mu    sync.Mutex
	convs map[model.UserKey]*model.Conversation

	GetFunc    func(ctx context.Context, key model.UserKey) (*model.Conversation, error)
	PutFunc    func(ctx context.Context, key model.UserKey, conv *model.Conversation) error
	RemoveFunc func(ctx context.Context, key model.UserKey) error
}

var _ repository.ConversationStore = (*MockConversationStore)(nil)

func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{convs: map[model.UserKey]*model.Conversation{}}
}

func (m *MockConversationStore) Get(ctx context.Context, key model.UserKey) (*model.Conversation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.convs[key], nil
}

func (m *MockConversationStore) Put(ctx context.Context, key model.UserKey, conv *model.Conversation) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, conv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[key] = conv
	return nil
}

func (m *MockConversationStore) Remove(ctx context.Context, key model.UserKey) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.convs, key)
	return nil
}

// ---- Mock TournamentRepository ----

type MockTournamentRepo struct {
	Tournament model.Tournament

	ActiveFunc func(ctx context.Context) (model.Tournament, error)
}

var _ repository.TournamentRepository = (*MockTournamentRepo)(nil)

func NewMockTournamentRepo() *MockTournamentRepo {
	return &MockTournamentRepo{Tournament: model.Tournament{
		Name:        "Летний кубок",
		Description: "Открытый летний турнир.",
	}}
}

func (m *MockTournamentRepo) Active(ctx context.Context) (model.Tournament, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc(ctx)
	}
	return m.Tournament, nil
}

func (m *MockTournamentRepo) SetActive(ctx context.Context, t model.Tournament) error {
	m.Tournament = t
	return nil
}

// ---- Mock RegistrationSink ----

type MockSink struct {
	mu      sync.Mutex
	Records []*model.RegistrationRecord

	AppendRecordFunc func(ctx context.Context, rec *model.RegistrationRecord) error
}

var _ repository.RegistrationSink = (*MockSink)(nil)

func NewMockSink() *MockSink { return &MockSink{} }

func (m *MockSink) AppendRecord(ctx context.Context, rec *model.RegistrationRecord) error {
	if m.AppendRecordFunc != nil {
		return m.AppendRecordFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockSink) All() []*model.RegistrationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.RegistrationRecord, len(m.Records))
	copy(out, m.Records)
	return out
}

// ---- Mock MessengerGateway ----

type MockGateway struct {
	mu   sync.Mutex
	Sent map[model.UserKey][]string

	SendTextFunc func(ctx context.Context, key model.UserKey, text string) error
}

var _ adapter.MessengerGateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway { return &MockGateway{Sent: map[model.UserKey][]string{}} }

func (m *MockGateway) SendText(ctx context.Context, key model.UserKey, text string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, key, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent[key] = append(m.Sent[key], text)
	return nil
}

func (m *MockGateway) SentTo(key model.UserKey) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Sent[key]))
	copy(out, m.Sent[key])
	return out
}
