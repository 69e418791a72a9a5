// File: internal/usecase/dialog.go
package usecase

import (
	"strings"
	"time"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/infra/i18n"
)

// DialogOptions selects the flow variant and the confirm-step accept tokens.
type DialogOptions struct {
	CollectPhone     bool
	ChooseTournament bool
	AcceptTokens     []string
}

// Transition is the full outcome of one dialog step.
type Transition struct {
	// Next is the conversation to persist, or nil when the dialog reached a
	// terminal outcome and the state must be removed.
	Next    *model.Conversation
	Replies []string
	// Record is non-nil exactly when the user confirmed.
	Record *model.RegistrationRecord
}

// Outcome names the resulting step for logs and metrics.
func (t Transition) Outcome() string {
	if t.Next != nil {
		return string(t.Next.Step)
	}
	if t.Record != nil {
		return "confirmed"
	}
	return "cancelled"
}

// DialogMachine is the pure per-message transition function of the
// registration dialog. It never fails and always emits at least one reply;
// all I/O lives in the registration use case around it.
type DialogMachine struct {
	tr     *i18n.Translator
	opts   DialogOptions
	accept map[string]struct{}
}

func NewDialogMachine(tr *i18n.Translator, opts DialogOptions) *DialogMachine {
	accept := make(map[string]struct{}, len(opts.AcceptTokens))
	for _, tok := range opts.AcceptTokens {
		accept[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return &DialogMachine{tr: tr, opts: opts, accept: accept}
}

// Advance applies one inbound text to the conversation. The active
// tournament is passed in by the caller, freshly read, so the machine stays
// pure. The input conversation is mutated in place and returned as Next for
// non-terminal steps.
func (m *DialogMachine) Advance(key model.UserKey, conv *model.Conversation, text string, t model.Tournament, now time.Time) Transition {
	switch conv.Step {
	case model.StepAwaitPhone:
		phone, ok := model.ValidPhone(text)
		if !ok {
			// recoverable: same state, corrective prompt, no field written
			return Transition{Next: conv, Replies: []string{m.tr.T("invalid_phone")}}
		}
		conv.Set(model.FieldPhone, phone)
		conv.Step = model.StepAwaitName
		return Transition{Next: conv, Replies: []string{m.tr.T("ask_name")}}

	case model.StepAwaitName:
		conv.Set(model.FieldName, strings.TrimSpace(text))
		conv.Step = model.StepAwaitSurname
		return Transition{Next: conv, Replies: []string{m.tr.T("ask_surname")}}

	case model.StepAwaitSurname:
		conv.Set(model.FieldSurname, strings.TrimSpace(text))
		if m.opts.ChooseTournament {
			conv.Step = model.StepAwaitTournament
			return Transition{Next: conv, Replies: []string{m.tr.T("ask_tournament")}}
		}
		conv.Step = model.StepConfirm
		return Transition{Next: conv, Replies: []string{m.tr.T("confirm", t.Name)}}

	case model.StepAwaitTournament:
		conv.Set(model.FieldTournament, strings.TrimSpace(text))
		conv.Step = model.StepConfirm
		return Transition{Next: conv, Replies: []string{m.tr.T("confirm", conv.Fields[model.FieldTournament])}}

	case model.StepConfirm:
		if _, ok := m.accept[strings.ToLower(strings.TrimSpace(text))]; ok {
			rec := model.NewRegistrationRecord(key, conv, t, now)
			return Transition{Replies: []string{m.tr.T("accepted")}, Record: rec}
		}
		// Anything else is a decline, not an invalid-input retry.
		return Transition{Replies: []string{m.tr.T("cancelled")}}

	default:
		// start, and any step value we no longer recognize
		return m.greet(conv, t)
	}
}

func (m *DialogMachine) greet(conv *model.Conversation, t model.Tournament) Transition {
	replies := []string{m.tr.T("greeting", t.Name, t.Description)}
	if m.opts.CollectPhone {
		conv.Step = model.StepAwaitPhone
		replies = append(replies, m.tr.T("ask_phone"))
	} else {
		conv.Step = model.StepAwaitName
		replies = append(replies, m.tr.T("ask_name"))
	}
	return Transition{Next: conv, Replies: replies}
}
