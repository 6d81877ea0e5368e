package view

import (
	"context"
	"sync"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/request"
	"zentra/internal/dto/response"
	"zentra/internal/usecase"

	"go.uber.org/zap"
)

// Router is the view-state machine of one browser tab. State changes are
// serialized by mu; backend calls always run outside it.
type Router struct {
	client backend.Client
	svc    *usecase.Service
	log    *zap.Logger

	mu      sync.Mutex
	state   State
	form    *usecase.OrganizationSignupForm
	sub     backend.Subscription
	started bool
	stopped bool
}

func NewRouter(client backend.Client, svc *usecase.Service, log *zap.Logger) *Router {
	return &Router{
		client: client,
		svc:    svc,
		log:    log.With(zap.String("component", "view_router")),
		state:  State{Screen: ScreenLoading},
		form:   usecase.NewOrganizationSignupForm(),
	}
}

// ==================== LIFECYCLE ====================

// Start subscribes to auth changes, then resolves the stored session:
// dashboard when signed in, landing otherwise. Calling it again is a no-op.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.mu.Unlock()

	sub := r.client.OnAuthStateChange(r.handleAuthEvent)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		sub.Unsubscribe()
		return ErrStopped
	}
	r.sub = sub
	r.mu.Unlock()

	session, err := r.client.GetSession(ctx)
	if err != nil {
		r.log.Warn("Session check failed, starting signed out", zap.Error(err))
		session = nil
	}

	role := r.resolveRole(ctx, session)

	r.mu.Lock()
	defer r.mu.Unlock()

	// An auth event may already have moved the view on.
	if r.stopped || r.state.Screen != ScreenLoading {
		return nil
	}
	if session != nil {
		user := session.User
		r.state.User = &user
		r.state.Role = role
		r.state.Screen = ScreenDashboard
	} else {
		r.state.Screen = ScreenLanding
	}
	return nil
}

// Stop releases the auth subscription exactly once. Later notifications
// and late submission results are dropped.
func (r *Router) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (r *Router) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Snapshot returns a copy of the current state.
func (r *Router) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// View renders the current state for the HTTP layer.
func (r *Router) View() *response.ViewResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	form := *r.form
	return render(r.state, &form)
}

// ==================== AUTH EVENTS ====================

func (r *Router) handleAuthEvent(event backend.AuthEvent) {
	switch event.Kind {
	case backend.SignedIn:
		r.handleSignedIn(event.Session)
	case backend.SignedOut:
		r.handleSignedOut()
	}
}

func (r *Router) handleSignedIn(session *backend.Session) {
	if session == nil || !r.acceptsSignIn() {
		return
	}

	ctx := context.Background()
	if !r.isCurrent(ctx, session) {
		r.log.Debug("Ignoring stale sign-in notification")
		return
	}
	role := r.resolveRole(ctx, session)
	if !r.isCurrent(ctx, session) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.state.Busy {
		return
	}
	user := session.User
	r.state.User = &user
	r.state.Role = role
	r.state.Screen = ScreenDashboard
	r.state.Error = ""
}

func (r *Router) acceptsSignIn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.stopped && !r.state.Busy
}

// isCurrent reports whether session is still the client's session.
func (r *Router) isCurrent(ctx context.Context, session *backend.Session) bool {
	current, err := r.client.GetSession(ctx)
	if err != nil || current == nil {
		return false
	}
	return current.AccessToken == session.AccessToken
}

func (r *Router) handleSignedOut() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.state.User == nil {
		return
	}
	r.state.User = nil
	r.state.Role = ""
	r.state.Screen = ScreenLanding
}

func (r *Router) resolveRole(ctx context.Context, session *backend.Session) entity.UserRole {
	if session == nil {
		return ""
	}
	return usecase.ResolveRole(ctx, r.client, session.User.ID, r.log)
}

// ==================== NAVIGATION ====================

// Navigate applies a navigation action.
func (r *Router) Navigate(ctx context.Context, action Action) error {
	if action == ActionContinueToDashboard {
		return r.continueToDashboard(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return err
	}

	switch action {
	case ActionCreateOrganization:
		r.form = usecase.NewOrganizationSignupForm()
		r.moveLocked(ScreenSignup)
	case ActionLogin:
		r.moveLocked(ScreenLogin)
	case ActionJoinOrganization:
		r.moveLocked(ScreenEmployeeSignup)
	case ActionTeamLogin:
		r.moveLocked(ScreenTeamLogin)
	case ActionBack:
		r.form = usecase.NewOrganizationSignupForm()
		r.state.OrgData = nil
		r.moveLocked(ScreenLanding)
	case ActionContinueToLogin:
		r.moveLocked(ScreenTeamLogin)
	default:
		return ErrUnknownAction
	}
	return nil
}

// continueToDashboard leaves the confirmation page: dashboard when a
// session exists, owner login otherwise.
func (r *Router) continueToDashboard(ctx context.Context) error {
	if err := r.checkIdle(); err != nil {
		return err
	}

	session, err := r.client.GetSession(ctx)
	if err != nil {
		r.log.Warn("Session check failed", zap.Error(err))
		session = nil
	}
	role := r.resolveRole(ctx, session)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return err
	}
	r.state.OrgData = nil
	if session == nil {
		r.moveLocked(ScreenLogin)
		return nil
	}
	user := session.User
	r.state.User = &user
	r.state.Role = role
	r.moveLocked(ScreenDashboard)
	return nil
}

func (r *Router) moveLocked(screen Screen) {
	r.state.Screen = screen
	r.state.Error = ""
}

func (r *Router) idleLocked() error {
	if r.stopped {
		return ErrStopped
	}
	if r.state.Busy {
		return usecase.ErrBusy
	}
	return nil
}

func (r *Router) checkIdle() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idleLocked()
}

// ==================== ORGANIZATION SIGN-UP FORM ====================

func (r *Router) UpdateSignupForm(update *request.OrganizationFormUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.formLocked(); err != nil {
		return err
	}
	r.form.Apply(update)
	return nil
}

// NextSignupStep advances the form, or reports the missing fields.
func (r *Router) NextSignupStep() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.formLocked(); err != nil {
		return err
	}
	if r.form.Step == usecase.StepFirstShop {
		return nil
	}
	if !r.form.Next() {
		return &usecase.ValidationError{
			Message: "Fill in every field of this step",
			Fields:  r.form.StepErrors(),
		}
	}
	r.state.Error = ""
	return nil
}

func (r *Router) PreviousSignupStep() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.formLocked(); err != nil {
		return err
	}
	r.form.Previous()
	r.state.Error = ""
	return nil
}

func (r *Router) formLocked() error {
	if err := r.idleLocked(); err != nil {
		return err
	}
	if r.state.Screen != ScreenSignup {
		return ErrWrongScreen
	}
	return nil
}

// ==================== SUBMISSIONS ====================

// begin marks a submission in flight on the expected screen.
func (r *Router) begin(screen Screen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return err
	}
	if r.state.Screen != screen {
		return ErrWrongScreen
	}
	r.state.Busy = true
	r.state.Error = ""
	return nil
}

// finish applies a submission result unless the router stopped meanwhile.
func (r *Router) finish(apply func(s *State)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		r.log.Debug("Dropping submission result for closed view")
		return
	}
	r.state.Busy = false
	apply(&r.state)
}

func (r *Router) SubmitOrganizationSignup(ctx context.Context) error {
	if err := r.begin(ScreenSignup); err != nil {
		return err
	}

	r.mu.Lock()
	form := *r.form
	r.mu.Unlock()

	data, err := r.svc.OrganizationSignup.Submit(ctx, r.client, &form)
	r.finish(func(s *State) {
		if err != nil {
			s.Error = usecase.SignupErrorMessage(err, usecase.DefaultOrganizationSignupMessage)
			return
		}
		r.form = usecase.NewOrganizationSignupForm()
		s.OrgData = data
		s.Screen = ScreenConfirmation
	})
	return err
}

func (r *Router) SubmitTeamSignup(ctx context.Context, req *request.TeamSignupRequest) error {
	if err := r.begin(ScreenEmployeeSignup); err != nil {
		return err
	}

	err := r.svc.TeamSignup.Submit(ctx, r.client, req)
	r.finish(func(s *State) {
		if err != nil {
			s.Error = usecase.SignupErrorMessage(err, usecase.DefaultTeamSignupMessage)
			return
		}
		s.Screen = ScreenSuccess
	})
	return err
}

func (r *Router) SubmitOwnerLogin(ctx context.Context, req *request.LoginRequest) error {
	if err := r.begin(ScreenLogin); err != nil {
		return err
	}

	result, err := r.svc.Login.OwnerLogin(ctx, r.client, req)
	r.finishLogin(result, err)
	return err
}

func (r *Router) SubmitTeamLogin(ctx context.Context, req *request.LoginRequest) error {
	if err := r.begin(ScreenTeamLogin); err != nil {
		return err
	}

	result, err := r.svc.Login.TeamLogin(ctx, r.client, req)
	r.finishLogin(result, err)
	return err
}

func (r *Router) finishLogin(result *usecase.LoginResult, err error) {
	r.finish(func(s *State) {
		if err != nil {
			s.Error = usecase.LoginErrorMessage(err)
			return
		}
		user := result.Session.User
		s.User = &user
		s.Role = result.Role
		s.Screen = ScreenDashboard
	})
}

// Logout signs out and returns to the landing page. The local state is
// cleared even if the service call fails.
func (r *Router) Logout(ctx context.Context) error {
	if err := r.checkIdle(); err != nil {
		return err
	}

	err := r.client.SignOut(ctx)
	if err != nil {
		r.log.Warn("Sign out failed", zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return err
	}
	r.state = State{Screen: ScreenLanding}
	r.form = usecase.NewOrganizationSignupForm()
	return err
}
