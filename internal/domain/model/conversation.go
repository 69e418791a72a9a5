// File: internal/domain/model/conversation.go
package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Step identifies where a user currently is in the registration dialog.
type Step string

const (
	StepStart           Step = "start"
	StepAwaitPhone      Step = "wait_phone"
	StepAwaitName       Step = "wait_name"
	StepAwaitSurname    Step = "wait_surname"
	StepAwaitTournament Step = "wait_tournament"
	StepConfirm         Step = "confirm"
)

// Field names collected during the dialog.
const (
	FieldPhone      = "phone"
	FieldName       = "name"
	FieldSurname    = "surname"
	FieldTournament = "tournament"
)

// Conversation is the per-user dialog progress. At most one exists per
// UserKey; absence from the store means the implicit start state.
type Conversation struct {
	Step   Step              `json:"step"`
	Fields map[string]string `json:"fields"`
}

// NewConversation returns a conversation at the explicit start step.
func NewConversation() *Conversation {
	return &Conversation{Step: StepStart, Fields: map[string]string{}}
}

// Set stores a collected field, allocating the map when the conversation
// was decoded from a representation without one.
func (c *Conversation) Set(field, value string) {
	if c.Fields == nil {
		c.Fields = map[string]string{}
	}
	c.Fields[field] = value
}

// Tournament is the process-wide active tournament. It is read on demand
// when composing prompts and records, never cached.
type Tournament struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// RegistrationRecord is the immutable snapshot produced exactly once per
// confirmed registration.
type RegistrationRecord struct {
	ID           string
	Phone        string
	Name         string
	Surname      string
	Tournament   string
	RegisteredAt time.Time
}

// NewRegistrationRecord builds a record from the collected fields plus the
// active tournament at confirmation time. The phone column falls back to the
// user key when the dialog did not collect a phone explicitly.
func NewRegistrationRecord(key UserKey, conv *Conversation, t Tournament, now time.Time) *RegistrationRecord {
	phone := conv.Fields[FieldPhone]
	if phone == "" {
		phone = key
	}
	tournament := conv.Fields[FieldTournament]
	if tournament == "" {
		tournament = t.Name
	}
	return &RegistrationRecord{
		ID:           ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Phone:        phone,
		Name:         conv.Fields[FieldName],
		Surname:      conv.Fields[FieldSurname],
		Tournament:   tournament,
		RegisteredAt: now,
	}
}
