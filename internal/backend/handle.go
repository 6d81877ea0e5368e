package backend

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handle is the Client for one view session. It owns the current session,
// restores it from a stored token on first GetSession, and fans auth
// events out to subscribers.
type Handle struct {
	gw  Gateway
	log *zap.Logger

	mu      sync.Mutex
	session *Session
	stored  string
	subs    map[int]*subscriber
	nextSub int
	closed  bool
}

var _ Client = (*Handle)(nil)

// NewHandle returns a handle that will try storedToken on the first
// GetSession. An empty token starts signed out.
func NewHandle(gw Gateway, storedToken string, log *zap.Logger) *Handle {
	return &Handle{
		gw:     gw,
		log:    log.With(zap.String("component", "backend_handle")),
		stored: storedToken,
		subs:   make(map[int]*subscriber),
	}
}

// Token returns the bearer token to persist for this handle, "" when
// signed out.
func (h *Handle) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		return h.session.AccessToken
	}
	return h.stored
}

func (h *Handle) accessToken() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		return h.session.AccessToken
	}
	return ""
}

func (h *Handle) SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error) {
	return h.gw.SignUp(ctx, email, password, metadata)
}

// SignInWithPassword replaces any current session. The replaced token is
// revoked on the service so it cannot outlive the handle's view of it.
func (h *Handle) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	session, err := h.gw.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	previous := h.stored
	if h.session != nil {
		previous = h.session.AccessToken
	}
	h.session = session
	h.stored = ""
	h.mu.Unlock()

	if previous != "" && previous != session.AccessToken {
		if err := h.gw.SignOut(context.WithoutCancel(ctx), previous); err != nil {
			h.log.Warn("Failed to revoke replaced session", zap.Error(err))
		}
	}

	h.emit(AuthEvent{Kind: SignedIn, Session: session})
	return session, nil
}

// SignOut clears the local session even when the service call fails.
func (h *Handle) SignOut(ctx context.Context) error {
	h.mu.Lock()
	session := h.session
	h.session = nil
	h.stored = ""
	h.mu.Unlock()

	if session == nil {
		return nil
	}

	err := h.gw.SignOut(ctx, session.AccessToken)
	if err != nil {
		h.log.Warn("Remote sign out failed", zap.Error(err))
	}

	h.emit(AuthEvent{Kind: SignedOut})
	return err
}

func (h *Handle) GetSession(ctx context.Context) (*Session, error) {
	h.mu.Lock()
	if h.session != nil || h.stored == "" {
		session := h.session
		h.mu.Unlock()
		return session, nil
	}
	token := h.stored
	h.mu.Unlock()

	user, err := h.gw.User(ctx, token)
	if err != nil {
		if IsCode(err, CodeSessionNotFound) {
			h.log.Debug("Stored session is no longer valid")
			h.mu.Lock()
			if h.stored == token {
				h.stored = ""
			}
			h.mu.Unlock()
			return nil, nil
		}
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// A sign-in or sign-out may have happened while restoring.
	if h.stored != token {
		return h.session, nil
	}
	h.session = &Session{AccessToken: token, User: *user}
	h.stored = ""
	return h.session, nil
}

// OnAuthStateChange registers fn. Events reach fn in emission order on a
// goroutine owned by the subscription.
func (h *Handle) OnAuthStateChange(fn func(AuthEvent)) Subscription {
	sub := newSubscriber(fn)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.stop()
		return sub
	}
	id := h.nextSub
	h.nextSub++
	h.subs[id] = sub
	sub.detach = func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
	h.mu.Unlock()

	go sub.run()
	return sub
}

func (h *Handle) emit(event AuthEvent) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.push(event)
	}
}

// Close stops every subscription. The handle stays usable for calls.
func (h *Handle) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subs
	h.subs = make(map[int]*subscriber)
	h.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (h *Handle) Insert(ctx context.Context, table string, record Record) (Record, error) {
	return h.gw.Insert(ctx, h.accessToken(), table, record)
}

func (h *Handle) Query(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	return h.gw.Query(ctx, h.accessToken(), table, filters)
}

func (h *Handle) Count(ctx context.Context, table string, filters ...Filter) (int64, error) {
	return h.gw.Count(ctx, h.accessToken(), table, filters)
}

func (h *Handle) Delete(ctx context.Context, table string, filters ...Filter) error {
	return h.gw.Delete(ctx, h.accessToken(), table, filters)
}

func (h *Handle) DeleteUser(ctx context.Context, id string) error {
	return h.gw.DeleteUser(ctx, id)
}

func (h *Handle) VerifyEmail(ctx context.Context, email, code string) error {
	return h.gw.VerifyEmail(ctx, email, code)
}

func (h *Handle) ResendConfirmation(ctx context.Context, email string) error {
	return h.gw.ResendConfirmation(ctx, email)
}

// ==================== SUBSCRIBER ====================

type subscriber struct {
	fn     func(AuthEvent)
	detach func()
	once   sync.Once

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []AuthEvent
	closed bool
}

func newSubscriber(fn func(AuthEvent)) *subscriber {
	s := &subscriber{fn: fn}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) push(event AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, event)
	s.cond.Signal()
}

func (s *subscriber) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.fn(event)
	}
}

func (s *subscriber) stop() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Unsubscribe is safe to call more than once.
func (s *subscriber) Unsubscribe() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		s.stop()
	})
}
