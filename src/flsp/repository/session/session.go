package session

import (
	"context"
	"sync"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
)

// Repository stores the connected editor sessions.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.EditorSession, error)
	GetFromContext(ctx context.Context) (*entity.EditorSession, error)
	Set(context.Context, *entity.EditorSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	SessionCount(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]entity.EditorSession
	stats    tally.Scope
}

// New returns a repository to an in-memory editor session store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]entity.EditorSession),
		stats:    stats,
	}
}

// Get returns a copy of the session associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.EditorSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.memstore[id]
	if !ok {
		return nil, &errors.SessionNotFoundError{UUID: id}
	}
	return &s, nil
}

// GetFromContext returns the session associated with the given context.
func (r *repository) GetFromContext(ctx context.Context) (*entity.EditorSession, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Set stores the session under its UUID.
func (r *repository) Set(ctx context.Context, s *entity.EditorSession) error {
	if s == nil {
		return errors.New("can't save nil session")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.memstore[s.UUID] = *s
	r.stats.Gauge("active_connections").Update(float64(len(r.memstore)))
	return nil
}

// Delete removes the session associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.stats.Gauge("active_connections").Update(float64(len(r.memstore)))
	return nil
}

// SessionCount returns the number of connected editors.
func (r *repository) SessionCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memstore), nil
}
