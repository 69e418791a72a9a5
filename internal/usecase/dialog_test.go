//go:build !integration

package usecase_test

import (
	"strings"
	"testing"
	"time"

	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/domain/model"
	"github.com/YerzhanUrazov/whatsapp-tournament-bot/internal/usecase"
)

func newMachine(opts usecase.DialogOptions) *usecase.DialogMachine {
	if opts.AcceptTokens == nil {
		opts.AcceptTokens = []string{"1", "да"}
	}
	return usecase.NewDialogMachine(newTestTranslator(), opts)
}

func TestDialogMachine_Greeting(t *testing.T) {
	tour := model.Tournament{Name: "Летний кубок", Description: "Открытый летний турнир."}
	now := time.Now()

	t.Run("should greet with the active tournament and ask for a name", func(t *testing.T) {
		// --- Arrange ---
		m := newMachine(usecase.DialogOptions{})
		conv := model.NewConversation()

		// --- Act ---
		tr := m.Advance("77011234567", conv, "/start", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitName {
			t.Fatalf("expected next step %q, got %+v", model.StepAwaitName, tr.Next)
		}
		if len(tr.Replies) != 2 {
			t.Fatalf("expected greeting plus prompt, got %d replies", len(tr.Replies))
		}
		if !strings.Contains(tr.Replies[0], tour.Name) || !strings.Contains(tr.Replies[0], tour.Description) {
			t.Errorf("greeting should mention the tournament, got %q", tr.Replies[0])
		}
		if tr.Record != nil {
			t.Error("greeting must not produce a record")
		}
	})

	t.Run("should ask for a phone first when phone collection is enabled", func(t *testing.T) {
		// --- Arrange ---
		m := newMachine(usecase.DialogOptions{CollectPhone: true})
		conv := model.NewConversation()

		// --- Act ---
		tr := m.Advance("77011234567", conv, "привет", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitPhone {
			t.Fatalf("expected next step %q, got %+v", model.StepAwaitPhone, tr.Next)
		}
	})

	t.Run("should restart from greeting on an unknown persisted step", func(t *testing.T) {
		// --- Arrange ---
		m := newMachine(usecase.DialogOptions{})
		conv := &model.Conversation{Step: "wait_color", Fields: map[string]string{}}

		// --- Act ---
		tr := m.Advance("77011234567", conv, "blue", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitName {
			t.Fatalf("expected restart to %q, got %+v", model.StepAwaitName, tr.Next)
		}
	})
}

func TestDialogMachine_PhoneStep(t *testing.T) {
	tour := model.Tournament{Name: "Летний кубок"}
	m := newMachine(usecase.DialogOptions{CollectPhone: true})
	now := time.Now()

	t.Run("should normalize a formatted phone and advance", func(t *testing.T) {
		// --- Arrange ---
		conv := &model.Conversation{Step: model.StepAwaitPhone, Fields: map[string]string{}}

		// --- Act ---
		tr := m.Advance("77011234567", conv, "+7 701 234 56 78", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitName {
			t.Fatalf("expected next step %q, got %+v", model.StepAwaitName, tr.Next)
		}
		if got := tr.Next.Fields[model.FieldPhone]; got != "77012345678" {
			t.Errorf("expected stored phone 77012345678, got %q", got)
		}
	})

	t.Run("should stay on the phone step and correct invalid input", func(t *testing.T) {
		for _, text := range []string{"not a phone", "", "+7123", "8712345678901234"} {
			conv := &model.Conversation{Step: model.StepAwaitPhone, Fields: map[string]string{}}

			tr := m.Advance("77011234567", conv, text, tour, now)

			if tr.Next == nil || tr.Next.Step != model.StepAwaitPhone {
				t.Fatalf("input %q: expected to stay on %q, got %+v", text, model.StepAwaitPhone, tr.Next)
			}
			if _, ok := tr.Next.Fields[model.FieldPhone]; ok {
				t.Errorf("input %q: invalid phone must not be stored", text)
			}
			if len(tr.Replies) != 1 {
				t.Errorf("input %q: expected a single corrective prompt, got %d", text, len(tr.Replies))
			}
		}
	})
}

func TestDialogMachine_NameAndSurname(t *testing.T) {
	tour := model.Tournament{Name: "Летний кубок"}
	m := newMachine(usecase.DialogOptions{})
	now := time.Now()

	t.Run("should store the trimmed name and ask for the surname", func(t *testing.T) {
		// --- Arrange ---
		conv := &model.Conversation{Step: model.StepAwaitName, Fields: map[string]string{}}

		// --- Act ---
		tr := m.Advance("77011234567", conv, "  Aigerim  ", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitSurname {
			t.Fatalf("expected next step %q, got %+v", model.StepAwaitSurname, tr.Next)
		}
		if got := tr.Next.Fields[model.FieldName]; got != "Aigerim" {
			t.Errorf("expected trimmed name, got %q", got)
		}
		if len(tr.Replies) != 1 || tr.Replies[0] != "Отлично! Теперь введите фамилию" {
			t.Errorf("unexpected surname prompt: %v", tr.Replies)
		}
	})

	t.Run("should move from surname straight to confirmation naming the tournament", func(t *testing.T) {
		// --- Arrange ---
		conv := &model.Conversation{Step: model.StepAwaitSurname, Fields: map[string]string{model.FieldName: "Aigerim"}}

		// --- Act ---
		tr := m.Advance("77011234567", conv, "Bekova", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepConfirm {
			t.Fatalf("expected next step %q, got %+v", model.StepConfirm, tr.Next)
		}
		if !strings.Contains(tr.Replies[0], tour.Name) {
			t.Errorf("confirmation should name the tournament, got %q", tr.Replies[0])
		}
	})

	t.Run("should ask for a tournament choice when enabled", func(t *testing.T) {
		// --- Arrange ---
		mc := newMachine(usecase.DialogOptions{ChooseTournament: true})
		conv := &model.Conversation{Step: model.StepAwaitSurname, Fields: map[string]string{model.FieldName: "Aigerim"}}

		// --- Act ---
		tr := mc.Advance("77011234567", conv, "Bekova", tour, now)

		// --- Assert ---
		if tr.Next == nil || tr.Next.Step != model.StepAwaitTournament {
			t.Fatalf("expected next step %q, got %+v", model.StepAwaitTournament, tr.Next)
		}

		// the chosen tournament flows into the confirmation prompt
		tr = mc.Advance("77011234567", tr.Next, "Кубок осени", tour, now)
		if tr.Next == nil || tr.Next.Step != model.StepConfirm {
			t.Fatalf("expected next step %q, got %+v", model.StepConfirm, tr.Next)
		}
		if !strings.Contains(tr.Replies[0], "Кубок осени") {
			t.Errorf("confirmation should name the chosen tournament, got %q", tr.Replies[0])
		}
	})
}

func TestDialogMachine_Confirm(t *testing.T) {
	tour := model.Tournament{Name: "Летний кубок"}
	m := newMachine(usecase.DialogOptions{})
	now := time.Now()

	fields := func() map[string]string {
		return map[string]string{model.FieldName: "Aigerim", model.FieldSurname: "Bekova"}
	}

	t.Run("should produce a record on an accept token", func(t *testing.T) {
		for _, text := range []string{"1", " 1 ", "да", "ДА"} {
			conv := &model.Conversation{Step: model.StepConfirm, Fields: fields()}

			tr := m.Advance("77011234567", conv, text, tour, now)

			if tr.Next != nil {
				t.Fatalf("input %q: confirmed dialog must be terminal, got %+v", text, tr.Next)
			}
			if tr.Record == nil {
				t.Fatalf("input %q: expected a registration record", text)
			}
			rec := tr.Record
			if rec.Name != "Aigerim" || rec.Surname != "Bekova" || rec.Tournament != tour.Name {
				t.Errorf("input %q: unexpected record %+v", text, rec)
			}
			if rec.Phone != "77011234567" {
				t.Errorf("input %q: expected phone to fall back to the user key, got %q", text, rec.Phone)
			}
			if rec.ID == "" {
				t.Errorf("input %q: record must carry an id", text)
			}
		}
	})

	t.Run("should cancel on anything that is not an accept token", func(t *testing.T) {
		for _, text := range []string{"2", "нет", "yes", "", "11"} {
			conv := &model.Conversation{Step: model.StepConfirm, Fields: fields()}

			tr := m.Advance("77011234567", conv, text, tour, now)

			if tr.Next != nil {
				t.Fatalf("input %q: cancelled dialog must be terminal, got %+v", text, tr.Next)
			}
			if tr.Record != nil {
				t.Errorf("input %q: decline must not produce a record", text)
			}
			if tr.Outcome() != "cancelled" {
				t.Errorf("input %q: expected cancelled outcome, got %q", text, tr.Outcome())
			}
		}
	})

	t.Run("should prefer the stored phone field over the user key", func(t *testing.T) {
		// --- Arrange ---
		conv := &model.Conversation{Step: model.StepConfirm, Fields: map[string]string{
			model.FieldName:  "Aigerim",
			model.FieldPhone: "77012345678",
		}}

		// --- Act ---
		tr := m.Advance("tg:12345", conv, "1", tour, now)

		// --- Assert ---
		if tr.Record == nil || tr.Record.Phone != "77012345678" {
			t.Fatalf("expected the collected phone on the record, got %+v", tr.Record)
		}
	})
}

// TestDialogMachine_FullFlow replays a whole registration the way messages
// arrive from the webhook, one transition feeding the next.
func TestDialogMachine_FullFlow(t *testing.T) {
	tour := model.Tournament{Name: "Летний кубок", Description: "Открытый летний турнир."}
	m := newMachine(usecase.DialogOptions{})
	now := time.Now()
	key := model.UserKey("77011234567")

	conv := model.NewConversation()

	tr := m.Advance(key, conv, "/start", tour, now)
	if !strings.Contains(tr.Replies[0], tour.Description) {
		t.Fatalf("greeting should carry the description, got %q", tr.Replies[0])
	}

	tr = m.Advance(key, tr.Next, "Aigerim", tour, now)
	if tr.Replies[0] != "Отлично! Теперь введите фамилию" {
		t.Fatalf("unexpected surname prompt %q", tr.Replies[0])
	}

	tr = m.Advance(key, tr.Next, "Bekova", tour, now)
	if !strings.Contains(tr.Replies[0], tour.Name) {
		t.Fatalf("confirmation should name the tournament, got %q", tr.Replies[0])
	}

	tr = m.Advance(key, tr.Next, "1", tour, now)
	if tr.Next != nil || tr.Record == nil {
		t.Fatalf("expected terminal confirmation, got %+v", tr)
	}
	if tr.Record.Name != "Aigerim" || tr.Record.Surname != "Bekova" || tr.Record.Phone != "77011234567" {
		t.Fatalf("unexpected record %+v", tr.Record)
	}
	if !tr.Record.RegisteredAt.Equal(now) {
		t.Errorf("record timestamp should be the transition time")
	}
}
