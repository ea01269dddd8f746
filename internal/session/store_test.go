// File path: internal/session/store_test.go
package session

import (
	"errors"
	"testing"

	"github.com/b08x/script-craft-v2/internal/document"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/script"
)

func newSessionWithPersona(t *testing.T, store *Store) (string, string) {
	t.Helper()
	sess := store.Create()
	p, err := store.AddPersona(sess.ID, persona.Persona{Name: "Alex", Role: "host"})
	if err != nil {
		t.Fatalf("add persona: %v", err)
	}
	return sess.ID, p.ID
}

func TestCreateAssignsDefaults(t *testing.T) {
	store := NewStore()
	sess := store.Create()
	if sess.ID == "" {
		t.Fatal("expected an id")
	}
	if sess.Settings.DialogueLengthMinutes != 5 || sess.Settings.ConversationStyle != "podcast" {
		t.Fatalf("unexpected default settings: %+v", sess.Settings)
	}
	if sess.Personas == nil || sess.Script == nil {
		t.Fatal("expected initialized slices")
	}
}

func TestGetReturnsDeepCopy(t *testing.T) {
	store := NewStore()
	sessionID, _ := newSessionWithPersona(t, store)
	first, err := store.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Personas[0].Name = "Mutated"
	second, err := store.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.Personas[0].Name != "Alex" {
		t.Fatal("store state leaked through a returned copy")
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()
	if _, err := store.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAddPersonaValidates(t *testing.T) {
	store := NewStore()
	sess := store.Create()
	if _, err := store.AddPersona(sess.ID, persona.Persona{Name: "NoRole"}); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestAddPersonaRejectsDuplicateID(t *testing.T) {
	store := NewStore()
	sess := store.Create()
	p := persona.Persona{ID: "fixed", Name: "Alex", Role: "host"}
	if _, err := store.AddPersona(sess.ID, p); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := store.AddPersona(sess.ID, p); err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}

func TestDocumentCapPerPersona(t *testing.T) {
	store := NewStore()
	sessionID, personaID := newSessionWithPersona(t, store)
	for i := 0; i < document.MaxPerPersona; i++ {
		doc := document.SourceDocument{ID: string(rune('a' + i)), Name: "doc", Status: document.StatusProcessing}
		if err := store.AttachDocument(sessionID, personaID, doc); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}
	doc := document.SourceDocument{ID: "overflow", Name: "doc", Status: document.StatusProcessing}
	if err := store.AttachDocument(sessionID, personaID, doc); err == nil {
		t.Fatal("expected cap rejection on the fourth document")
	}
}

func TestDocumentTransitionsExactlyOnce(t *testing.T) {
	store := NewStore()
	sessionID, personaID := newSessionWithPersona(t, store)
	doc := document.SourceDocument{ID: "d1", Name: "doc", Status: document.StatusProcessing}
	if err := store.AttachDocument(sessionID, personaID, doc); err != nil {
		t.Fatalf("attach: %v", err)
	}
	done := doc
	done.Status = document.StatusCompleted
	done.Content = "text"
	if err := store.CompleteDocument(sessionID, personaID, done); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.FailDocument(sessionID, personaID, "d1", "late failure"); err == nil {
		t.Fatal("expected second transition to be rejected")
	}
	sess, err := store.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := sess.Personas[0].SourceDocuments[0]
	if got.Status != document.StatusCompleted || got.Content != "text" {
		t.Fatalf("unexpected final document state: %+v", got)
	}
}

func TestFailDocumentRecordsMessage(t *testing.T) {
	store := NewStore()
	sessionID, personaID := newSessionWithPersona(t, store)
	doc := document.SourceDocument{ID: "d1", Name: "doc", Status: document.StatusProcessing}
	if err := store.AttachDocument(sessionID, personaID, doc); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := store.FailDocument(sessionID, personaID, "d1", "Failed to process document"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	sess, _ := store.Get(sessionID)
	got := sess.Personas[0].SourceDocuments[0]
	if got.Status != document.StatusError || got.Error != "Failed to process document" {
		t.Fatalf("unexpected failed document state: %+v", got)
	}
}

func TestInsertLineAfter(t *testing.T) {
	store := NewStore()
	sessionID, personaID := newSessionWithPersona(t, store)
	lines := []script.Line{
		{ID: "l1", SpeakerID: personaID, Text: "one"},
		{ID: "l2", SpeakerID: personaID, Text: "two"},
	}
	if err := store.SetScript(sessionID, lines); err != nil {
		t.Fatalf("set script: %v", err)
	}
	inserted := script.Line{ID: "l3", SpeakerID: personaID, Text: "between"}
	if err := store.InsertLineAfter(sessionID, "l1", inserted); err != nil {
		t.Fatalf("insert: %v", err)
	}
	sess, _ := store.Get(sessionID)
	order := []string{sess.Script[0].ID, sess.Script[1].ID, sess.Script[2].ID}
	if order[0] != "l1" || order[1] != "l3" || order[2] != "l2" {
		t.Fatalf("unexpected order: %v", order)
	}
	if err := store.InsertLineAfter(sessionID, "missing", inserted); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestUpdateAndRemoveLine(t *testing.T) {
	store := NewStore()
	sessionID, personaID := newSessionWithPersona(t, store)
	if err := store.AppendLine(sessionID, script.Line{ID: "l1", SpeakerID: personaID, Text: "orig"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.UpdateLine(sessionID, "l1", "edited"); err != nil {
		t.Fatalf("update: %v", err)
	}
	sess, _ := store.Get(sessionID)
	if sess.Script[0].Text != "edited" {
		t.Fatalf("unexpected text: %q", sess.Script[0].Text)
	}
	if err := store.RemoveLine(sessionID, "l1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	sess, _ = store.Get(sessionID)
	if len(sess.Script) != 0 {
		t.Fatalf("expected empty script, got %d lines", len(sess.Script))
	}
}

func TestUpdateSettingsClamps(t *testing.T) {
	store := NewStore()
	sess := store.Create()
	applied, err := store.UpdateSettings(sess.ID, GenerationSettings{
		DialogueLengthMinutes: 500,
		Temperature:           9,
		ThinkingBudget:        -2,
		ConversationStyle:     "debate",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if applied.DialogueLengthMinutes != MaxDialogueMinutes {
		t.Fatalf("length not clamped: %d", applied.DialogueLengthMinutes)
	}
	if applied.Temperature != 2 {
		t.Fatalf("temperature not clamped: %v", applied.Temperature)
	}
	if applied.ThinkingBudget != 0 {
		t.Fatalf("thinking budget not clamped: %d", applied.ThinkingBudget)
	}
	if applied.ConversationStyle != "debate" {
		t.Fatalf("style lost: %q", applied.ConversationStyle)
	}
}

func TestListSortsByCreation(t *testing.T) {
	store := NewStore()
	first := store.Create()
	second := store.Create()
	infos := store.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}
	if infos[0].ID != first.ID || infos[1].ID != second.ID {
		t.Fatalf("unexpected order: %v then %v", infos[0].ID, infos[1].ID)
	}
}

func TestDeleteSession(t *testing.T) {
	store := NewStore()
	sess := store.Create()
	if err := store.Delete(sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
