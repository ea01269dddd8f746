// File path: internal/session/store.go

// Package session owns the in-memory domain state for the wizard: personas,
// the working script, the show intro and generation settings. Nothing here
// persists; a session lives exactly as long as the process. The store mutex
// keeps concurrent API calls memory-safe, but overlapping generations still
// resolve last-write-wins, which matches the original tool's behavior and is
// deliberately not papered over.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/document"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/script"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrPersonaNotFound  = errors.New("persona not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrLineNotFound     = errors.New("script line not found")
)

// Session is one wizard run's worth of state.
type Session struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Personas  []persona.Persona  `json:"personas"`
	Script    []script.Line      `json:"script"`
	ShowIntro string             `json:"showIntro"`
	Settings  GenerationSettings `json:"settings"`
}

// Info summarizes a session for listings.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Personas  int       `json:"personas"`
	Lines     int       `json:"lines"`
}

// Store holds all live sessions behind one lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts an empty session with default settings.
func (s *Store) Create() Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Personas:  []persona.Persona{},
		Script:    []script.Line{},
		Settings:  DefaultSettings(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return copySession(sess)
}

// Get returns a deep copy so callers never alias store-owned slices.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, Info{
			ID:        sess.ID,
			CreatedAt: sess.CreatedAt,
			Personas:  len(sess.Personas),
			Lines:     len(sess.Script),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// AddPersona validates, normalizes and stores a persona, assigning an id
// when the caller did not.
func (s *Store) AddPersona(sessionID string, p persona.Persona) (persona.Persona, error) {
	if err := persona.Validate(p); err != nil {
		return persona.Persona{}, err
	}
	p = persona.Normalize(p)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return persona.Persona{}, ErrSessionNotFound
	}
	for _, existing := range sess.Personas {
		if existing.ID == p.ID {
			return persona.Persona{}, fmt.Errorf("persona id %s already exists", p.ID)
		}
	}
	sess.Personas = append(sess.Personas, p)
	return p, nil
}

// UpdatePersona replaces a persona in place, keeping its id and position.
func (s *Store) UpdatePersona(sessionID string, p persona.Persona) error {
	if err := persona.Validate(p); err != nil {
		return err
	}
	p = persona.Normalize(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Personas {
		if sess.Personas[i].ID == p.ID {
			sess.Personas[i] = p
			return nil
		}
	}
	return ErrPersonaNotFound
}

func (s *Store) RemovePersona(sessionID, personaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Personas {
		if sess.Personas[i].ID == personaID {
			sess.Personas = append(sess.Personas[:i], sess.Personas[i+1:]...)
			return nil
		}
	}
	return ErrPersonaNotFound
}

// AddPersonas appends an imported batch in one lock acquisition.
func (s *Store) AddPersonas(sessionID string, personas []persona.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Personas = append(sess.Personas, personas...)
	return nil
}

// AttachDocument adds a document in the processing state to a persona's
// knowledge base, enforcing the per-persona cap before any network work.
func (s *Store) AttachDocument(sessionID, personaID string, doc document.SourceDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Personas {
		if sess.Personas[i].ID != personaID {
			continue
		}
		if len(sess.Personas[i].SourceDocuments) >= document.MaxPerPersona {
			return fmt.Errorf("persona already has %d source documents", document.MaxPerPersona)
		}
		sess.Personas[i].SourceDocuments = append(sess.Personas[i].SourceDocuments, doc)
		return nil
	}
	return ErrPersonaNotFound
}

// CompleteDocument applies analysis results to a processing document. The
// transition happens exactly once; completed and failed documents are
// immutable apart from removal.
func (s *Store) CompleteDocument(sessionID, personaID string, doc document.SourceDocument) error {
	return s.transitionDocument(sessionID, personaID, doc.ID, func(current *document.SourceDocument) {
		doc.Status = document.StatusCompleted
		doc.Error = ""
		*current = doc
	})
}

// FailDocument marks a processing document as failed with a user-facing
// message.
func (s *Store) FailDocument(sessionID, personaID, docID, message string) error {
	return s.transitionDocument(sessionID, personaID, docID, func(current *document.SourceDocument) {
		current.Status = document.StatusError
		current.Error = message
	})
}

func (s *Store) transitionDocument(sessionID, personaID, docID string, apply func(*document.SourceDocument)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Personas {
		if sess.Personas[i].ID != personaID {
			continue
		}
		docs := sess.Personas[i].SourceDocuments
		for j := range docs {
			if docs[j].ID != docID {
				continue
			}
			if docs[j].Status != document.StatusProcessing {
				return fmt.Errorf("document %s already %s", docID, docs[j].Status)
			}
			apply(&docs[j])
			return nil
		}
		return ErrDocumentNotFound
	}
	return ErrPersonaNotFound
}

func (s *Store) RemoveDocument(sessionID, personaID, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Personas {
		if sess.Personas[i].ID != personaID {
			continue
		}
		docs := sess.Personas[i].SourceDocuments
		for j := range docs {
			if docs[j].ID == docID {
				sess.Personas[i].SourceDocuments = append(docs[:j], docs[j+1:]...)
				return nil
			}
		}
		return ErrDocumentNotFound
	}
	return ErrPersonaNotFound
}

// SetScript replaces the whole script, as bulk generation does.
func (s *Store) SetScript(sessionID string, lines []script.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if lines == nil {
		lines = []script.Line{}
	}
	sess.Script = lines
	return nil
}

func (s *Store) AppendLine(sessionID string, line script.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Script = append(sess.Script, line)
	return nil
}

// InsertLineAfter places a line immediately after the given line; this is
// the only reordering operation the script supports.
func (s *Store) InsertLineAfter(sessionID, afterID string, line script.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Script {
		if sess.Script[i].ID != afterID {
			continue
		}
		sess.Script = append(sess.Script, script.Line{})
		copy(sess.Script[i+2:], sess.Script[i+1:])
		sess.Script[i+1] = line
		return nil
	}
	return ErrLineNotFound
}

func (s *Store) UpdateLine(sessionID, lineID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Script {
		if sess.Script[i].ID == lineID {
			sess.Script[i].Text = text
			return nil
		}
	}
	return ErrLineNotFound
}

func (s *Store) RemoveLine(sessionID, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range sess.Script {
		if sess.Script[i].ID == lineID {
			sess.Script = append(sess.Script[:i], sess.Script[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (s *Store) SetIntro(sessionID, intro string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.ShowIntro = intro
	return nil
}

func (s *Store) UpdateSettings(sessionID string, settings GenerationSettings) (GenerationSettings, error) {
	settings = settings.Clamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return GenerationSettings{}, ErrSessionNotFound
	}
	sess.Settings = settings
	return settings, nil
}

func copySession(sess *Session) Session {
	out := *sess
	out.Personas = make([]persona.Persona, len(sess.Personas))
	for i, p := range sess.Personas {
		out.Personas[i] = copyPersona(p)
	}
	out.Script = make([]script.Line, len(sess.Script))
	copy(out.Script, sess.Script)
	return out
}

func copyPersona(p persona.Persona) persona.Persona {
	out := p
	out.PersonalityTraits = append([]string(nil), p.PersonalityTraits...)
	out.SourceDocuments = make([]document.SourceDocument, len(p.SourceDocuments))
	for i, doc := range p.SourceDocuments {
		c := doc
		c.Chunks = append([]document.Chunk(nil), doc.Chunks...)
		c.Topics = append([]string(nil), doc.Topics...)
		out.SourceDocuments[i] = c
	}
	return out
}
