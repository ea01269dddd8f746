// File path: internal/workflow/manager.go

// Package workflow orchestrates the user-triggered operations: build a
// prompt from session state, send it through the gateway, validate the
// response and apply the result. One attempt per action, no retries; every
// failure is wrapped in a fixed user-facing message while the cause goes to
// the log.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/b08x/script-craft-v2/internal/common/telemetry"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/script"
	"github.com/b08x/script-craft-v2/internal/session"
)

// Manager wires the session store and the gateway provider together. The
// provider is injected at construction so tests substitute doubles without
// touching the environment.
type Manager struct {
	store    *session.Store
	provider llm.Provider
	policy   script.SpeakerPolicy
}

type Option func(*Manager)

// WithSpeakerPolicy overrides the default drop-invalid speaker policy.
func WithSpeakerPolicy(policy script.SpeakerPolicy) Option {
	return func(m *Manager) { m.policy = policy }
}

func NewManager(store *session.Store, provider llm.Provider, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		provider: provider,
		policy:   script.DropInvalid,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// generate runs one gateway call under a timing span and feeds the
// generation counters.
func (m *Manager) generate(ctx context.Context, kind string, req llm.Request) (string, error) {
	ctx, finish := telemetry.StartSpan(ctx, "llm."+kind)
	start := time.Now()
	raw, err := m.provider.GenerateContent(ctx, req)
	telemetry.RecordGatewayCall(time.Since(start))
	telemetry.RecordGeneration(kind, err != nil)
	finish("provider", m.provider.Name(), "failed", err != nil)
	return raw, err
}

// UserError carries the short message shown next to the triggering action.
// The wrapped cause is for logs only and never reaches the user.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

func userError(message string, err error) error {
	return &UserError{Message: message, Err: err}
}

// IsUserError reports whether err carries a user-facing message.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
