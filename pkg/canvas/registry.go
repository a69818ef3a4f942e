// Package canvas implements the canvas session engine: the session registry,
// the element model, and the rasterizer that applies elements to a session's
// drawing surface.
//
// Sessions are in-memory only. A session lives from Create until Delete or
// process exit; there is no persistence, by design.
package canvas

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/canvasd/canvasd/pkg/errors"
	"github.com/canvasd/canvasd/pkg/observability"
)

// MaxDimension is the largest accepted canvas width or height in pixels.
const MaxDimension = 5000

// Registry is the process-wide mapping from session id to session. It is
// the single source of truth for whether a session exists. Create, Get, and
// Delete are atomic with respect to each other.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMaxSessions caps the number of live sessions. Create fails with
// REGISTRY_FULL once the cap is reached. n <= 0 means unlimited.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) { r.maxSessions = n }
}

// NewRegistry creates an empty session registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{sessions: make(map[string]*Session)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates the dimensions, allocates a white drawing surface and an
// empty element log, and registers them under a fresh UUID.
func (r *Registry) Create(ctx context.Context, width, height int) (*Session, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"dimensions must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"dimensions must not exceed %d, got %dx%d", MaxDimension, width, height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return nil, errors.New(errors.ErrCodeRegistryFull,
			"session limit of %d reached", r.maxSessions)
	}

	s := newSession(uuid.NewString(), width, height)
	r.sessions[s.ID()] = s

	observability.Session().OnCreate(ctx, s.ID(), width, height)
	return s, nil
}

// Get resolves a session by id.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Delete removes a session. After Delete returns, the id is no longer
// resolvable; the surface is released with the session.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(r.sessions, id)

	observability.Session().OnDelete(ctx, id, s.ElementCount())
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
