// File path: internal/workflow/workflow_test.go
package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/b08x/script-craft-v2/internal/document"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/llm/providers"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/script"
	"github.com/b08x/script-craft-v2/internal/session"
)

// failingProvider simulates a gateway outage.
type failingProvider struct{}

func (failingProvider) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	return "", errors.New("simulated outage")
}

func (failingProvider) Name() string { return "failing" }

// garbageProvider returns prose that cannot be reduced to JSON.
type garbageProvider struct{}

func (garbageProvider) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	return "I'm sorry, I can't produce that script.", nil
}

func (garbageProvider) Name() string { return "garbage" }

func newTestManager(provider llm.Provider, opts ...Option) (*Manager, *session.Store) {
	store := session.NewStore()
	return NewManager(store, provider, opts...), store
}

func seedSession(t *testing.T, store *session.Store) (string, []persona.Persona) {
	t.Helper()
	sess := store.Create()
	host, err := store.AddPersona(sess.ID, persona.Persona{Name: "Alex", Role: "host"})
	if err != nil {
		t.Fatalf("add host: %v", err)
	}
	guest, err := store.AddPersona(sess.ID, persona.Persona{Name: "Sam", Role: "guest"})
	if err != nil {
		t.Fatalf("add guest: %v", err)
	}
	return sess.ID, []persona.Persona{host, guest}
}

func TestGenerateScriptEndToEnd(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)

	lines, err := manager.GenerateScript(context.Background(), sessionID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected the 4 fixture lines, got %d", len(lines))
	}
	// The fixture uses positional speaker ids, so lines alternate between
	// the two personas in order.
	for i, line := range lines {
		want := personas[i%2].ID
		if line.SpeakerID != want {
			t.Fatalf("line %d: expected speaker %q, got %q", i, want, line.SpeakerID)
		}
		if line.ID == "" || strings.TrimSpace(line.Text) == "" {
			t.Fatalf("line %d incomplete: %+v", i, line)
		}
	}
	if !strings.Contains(lines[0].Text, "renewable energy") {
		t.Fatalf("unexpected opening line: %q", lines[0].Text)
	}

	sess, err := store.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(sess.Script) != 4 {
		t.Fatalf("script not persisted, got %d lines", len(sess.Script))
	}
}

func TestGenerateScriptRequiresTwoPersonas(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sess := store.Create()
	if _, err := store.AddPersona(sess.ID, persona.Persona{Name: "Solo", Role: "host"}); err != nil {
		t.Fatalf("add persona: %v", err)
	}
	if _, err := manager.GenerateScript(context.Background(), sess.ID, ""); err == nil {
		t.Fatal("expected failure with a single persona")
	}
}

func TestGenerateScriptProviderFailureIsUserError(t *testing.T) {
	manager, store := newTestManager(failingProvider{})
	sessionID, _ := seedSession(t, store)
	_, err := manager.GenerateScript(context.Background(), sessionID, "")
	if !IsUserError(err) {
		t.Fatalf("expected a user error, got %v", err)
	}
	if err.Error() != "Failed to generate script" {
		t.Fatalf("unexpected user message: %q", err.Error())
	}
}

func TestGenerateScriptGarbageResponseIsUserError(t *testing.T) {
	manager, store := newTestManager(garbageProvider{})
	sessionID, _ := seedSession(t, store)
	_, err := manager.GenerateScript(context.Background(), sessionID, "")
	if !IsUserError(err) {
		t.Fatalf("expected a user error, got %v", err)
	}
	if err.Error() != "Invalid script format" {
		t.Fatalf("unexpected user message: %q", err.Error())
	}
	sess, _ := store.Get(sessionID)
	if len(sess.Script) != 0 {
		t.Fatal("failed generation must not change the stored script")
	}
}

func TestGenerateNextLineRoundRobin(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)
	seedLines := []script.Line{
		{ID: "l1", SpeakerID: personas[0].ID, Text: "opening"},
	}
	if err := store.SetScript(sessionID, seedLines); err != nil {
		t.Fatalf("set script: %v", err)
	}
	line, err := manager.GenerateNextLine(context.Background(), sessionID, "")
	if err != nil {
		t.Fatalf("next line: %v", err)
	}
	if line.SpeakerID != personas[1].ID {
		t.Fatalf("expected rotation to pick %q, got %q", personas[1].ID, line.SpeakerID)
	}
	if strings.TrimSpace(line.Text) == "" {
		t.Fatal("empty next line")
	}
	sess, _ := store.Get(sessionID)
	if len(sess.Script) != 2 {
		t.Fatalf("line not appended, script has %d lines", len(sess.Script))
	}
}

func TestReviseLine(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)
	if err := store.SetScript(sessionID, []script.Line{
		{ID: "l1", SpeakerID: personas[0].ID, Text: "original"},
	}); err != nil {
		t.Fatalf("set script: %v", err)
	}
	line, err := manager.ReviseLine(context.Background(), sessionID, "l1", "make it sharper")
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if line.ID != "l1" {
		t.Fatalf("line id must survive revision, got %q", line.ID)
	}
	if line.Text == "original" || strings.TrimSpace(line.Text) == "" {
		t.Fatalf("line text not revised: %q", line.Text)
	}
	sess, _ := store.Get(sessionID)
	if sess.Script[0].Text != line.Text {
		t.Fatal("revision not persisted")
	}
}

func TestReviseUnknownLine(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, _ := seedSession(t, store)
	if _, err := manager.ReviseLine(context.Background(), sessionID, "missing", ""); !errors.Is(err, session.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestIngestDocuments(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)
	docs, err := manager.IngestDocuments(context.Background(), sessionID, personas[0].ID, []document.Input{
		{Name: "notes.txt", MIME: "text/plain", Data: []byte("renewables grew fast this year")},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	doc := docs[0]
	if doc.Status != document.StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", doc.Status, doc.Error)
	}
	if doc.Content == "" {
		t.Fatal("document content missing")
	}
	if len(doc.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for _, chunk := range doc.Chunks {
		if chunk.ID == "" {
			t.Fatal("chunk id missing")
		}
	}
	sess, _ := store.Get(sessionID)
	if len(sess.Personas[0].SourceDocuments) != 1 {
		t.Fatal("document not attached to persona")
	}
}

func TestIngestBatchSurvivesOneFailure(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)
	docs, err := manager.IngestDocuments(context.Background(), sessionID, personas[0].ID, []document.Input{
		{Name: "good.txt", MIME: "text/plain", Data: []byte("fine content")},
		{Name: "photo.png", MIME: "image/png", Data: []byte{0x89, 0x50}},
		{Name: "also-good.md", MIME: "text/markdown", Data: []byte("# also fine")},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	statuses := []document.Status{docs[0].Status, docs[1].Status, docs[2].Status}
	if statuses[0] != document.StatusCompleted || statuses[2] != document.StatusCompleted {
		t.Fatalf("siblings of a failed upload must still complete: %v", statuses)
	}
	if statuses[1] != document.StatusError {
		t.Fatalf("unsupported upload should fail, got %s", statuses[1])
	}
	if docs[1].Error != "Failed to process document" {
		t.Fatalf("unexpected failure message: %q", docs[1].Error)
	}
}

func TestIngestRejectsOversizedFile(t *testing.T) {
	manager, store := newTestManager(providers.NewCannedProvider(0))
	sessionID, personas := seedSession(t, store)
	big := make([]byte, document.MaxFileBytes+1)
	docs, err := manager.IngestDocuments(context.Background(), sessionID, personas[0].ID, []document.Input{
		{Name: "huge.txt", MIME: "text/plain", Data: big},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(docs) != 1 || docs[0].Status != document.StatusError {
		t.Fatalf("oversized upload should fail, got %+v", docs)
	}
}

func TestAnalyzeTranscript(t *testing.T) {
	manager, _ := newTestManager(providers.NewCannedProvider(0))
	draft, err := manager.AnalyzeTranscript(context.Background(), "Well, look at the numbers first. Always the numbers.")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if draft.ID == "" {
		t.Fatal("draft persona needs a fresh id")
	}
	if draft.Name == "" || draft.Role == "" {
		t.Fatalf("draft persona incomplete: %+v", draft)
	}
	if draft.PersonalityTraits == nil {
		t.Fatal("draft persona not normalized")
	}
}

func TestAnalyzeTranscriptEmptyInput(t *testing.T) {
	manager, _ := newTestManager(providers.NewCannedProvider(0))
	if _, err := manager.AnalyzeTranscript(context.Background(), "   "); err == nil {
		t.Fatal("expected rejection of an empty transcript")
	}
}

func TestExtractTopics(t *testing.T) {
	manager, _ := newTestManager(providers.NewCannedProvider(0))
	topics, err := manager.ExtractTopics(context.Background(), "solar and wind and storage")
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	if len(topics) == 0 {
		t.Fatal("expected topics")
	}
}

func TestStrictPolicyPropagates(t *testing.T) {
	// The grounded canned response uses positional ids that resolve, so a
	// provider emitting a truly unknown id is simulated instead.
	manager, store := newTestManager(unknownSpeakerProvider{}, WithSpeakerPolicy(script.Strict))
	sessionID, _ := seedSession(t, store)
	_, err := manager.GenerateScript(context.Background(), sessionID, "")
	if !IsUserError(err) {
		t.Fatalf("expected a user error, got %v", err)
	}
}

type unknownSpeakerProvider struct{}

func (unknownSpeakerProvider) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	return `[{"speakerId": "nobody", "line": "hello"}]`, nil
}

func (unknownSpeakerProvider) Name() string { return "unknown-speaker" }
