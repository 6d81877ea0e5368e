package view

import (
	"context"
	"sync"
	"time"

	"zentra/internal/backend"
	"zentra/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one browser tab: its router and the client handle it uses.
type Session struct {
	ID     string
	Router *Router
	Handle *backend.Handle
}

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry owns every live view session and evicts idle ones.
type Registry struct {
	gw   backend.Gateway
	svc  *usecase.Service
	log  *zap.Logger
	idle time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
	closed  bool
}

func NewRegistry(gw backend.Gateway, svc *usecase.Service, idle time.Duration, log *zap.Logger) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{
		gw:      gw,
		svc:     svc,
		log:     log.With(zap.String("component", "view_registry")),
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Acquire returns the view session for id, creating and starting a new one
// when id is unknown. storedToken seeds a new session's auth state.
func (r *Registry) Acquire(ctx context.Context, id, storedToken string) (*Session, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrStopped
	}
	if e, ok := r.entries[id]; ok && id != "" {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.session, nil
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	handle := backend.NewHandle(r.gw, storedToken, r.log)
	session := &Session{
		ID:     id,
		Handle: handle,
		Router: NewRouter(handle, r.svc, r.log.With(zap.String("view_id", id))),
	}
	r.entries[id] = &registryEntry{session: session, lastSeen: r.now()}
	r.mu.Unlock()

	r.log.Debug("View session created", zap.String("view_id", id))
	if err := session.Router.Start(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Release stops and forgets one view session.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		closeSession(e.session)
	}
}

// Evict stops sessions idle for longer than the idle timeout and returns
// how many were removed.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []*Session
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.session)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		closeSession(s)
	}
	if len(stale) > 0 {
		r.log.Info("Evicted idle view sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run evicts idle sessions until ctx is done, then closes everything.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-ticker.C:
			r.Evict()
		}
	}
}

// Close stops every session; later Acquire calls fail.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.closed = true
	r.mu.Unlock()

	for _, e := range entries {
		closeSession(e.session)
	}
}

func closeSession(s *Session) {
	s.Router.Stop()
	s.Handle.Close()
}
