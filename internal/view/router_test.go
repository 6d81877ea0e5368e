package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/request"
	"zentra/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	waitFor = time.Second
	tick    = 10 * time.Millisecond
)

func strPtr(s string) *string { return &s }

func newTestRouter(t *testing.T, gw backend.Gateway, storedToken string) (*Router, *backend.Handle) {
	t.Helper()
	h := backend.NewHandle(gw, storedToken, zap.NewNop())
	r := NewRouter(h, usecase.NewService(nil, zap.NewNop()), zap.NewNop())
	t.Cleanup(func() {
		r.Stop()
		h.Close()
	})
	require.NoError(t, r.Start(context.Background()))
	return r, h
}

// seedOrg creates an owner with an organization and one member per role.
func seedOrg(t *testing.T, gw *backend.MemoryGateway, members map[string]string) {
	t.Helper()
	ctx := context.Background()

	owner, err := gw.SignUp(ctx, "ada@x.com", "secret1", backend.Metadata{"role": "Owner"})
	require.NoError(t, err)
	org, err := gw.Insert(ctx, "", "organizations", backend.Record{
		"name": "Acme", "owner_id": owner.ID, "org_code": "CODE", "passkey": "KEY", "number_of_shops": 1,
	})
	require.NoError(t, err)
	_, err = gw.Insert(ctx, "", "users", backend.Record{
		"id": owner.ID, "name": "Ada", "email": "ada@x.com", "phone": "555", "role": "Owner", "org_id": org["id"],
	})
	require.NoError(t, err)

	for email, role := range members {
		identity, err := gw.SignUp(ctx, email, "secret1", nil)
		require.NoError(t, err)
		_, err = gw.Insert(ctx, "", "users", backend.Record{
			"id": identity.ID, "name": email, "email": email, "phone": "", "role": role, "org_id": org["id"],
		})
		require.NoError(t, err)
	}
}

func fillSignupForm(t *testing.T, r *Router) {
	t.Helper()
	require.NoError(t, r.UpdateSignupForm(&request.OrganizationFormUpdate{
		FullName:        strPtr("Ada Owner"),
		Email:           strPtr("ada@x.com"),
		Phone:           strPtr("555"),
		Password:        strPtr("secret1"),
		ConfirmPassword: strPtr("secret1"),
	}))
	require.NoError(t, r.NextSignupStep())
	require.NoError(t, r.UpdateSignupForm(&request.OrganizationFormUpdate{
		OrganizationName: strPtr("Acme"),
		NumberOfShops:    strPtr("2"),
	}))
	require.NoError(t, r.NextSignupStep())
	require.NoError(t, r.UpdateSignupForm(&request.OrganizationFormUpdate{
		FirstShopName:     strPtr("Main"),
		FirstShopLocation: strPtr("Downtown"),
		FirstShopCategory: strPtr("Retail"),
	}))
}

// ==================== LIFECYCLE ====================

func TestRouter_StartSignedOut(t *testing.T) {
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	state := r.Snapshot()
	assert.Equal(t, ScreenLanding, state.Screen)
	assert.Nil(t, state.User)
}

func TestRouter_StartRestoresStoredSession(t *testing.T) {
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	session, err := gw.SignIn(context.Background(), "ada@x.com", "secret1")
	require.NoError(t, err)

	r, _ := newTestRouter(t, gw, session.AccessToken)

	state := r.Snapshot()
	assert.Equal(t, ScreenDashboard, state.Screen)
	assert.Equal(t, entity.RoleOwner, state.Role)
	assert.Equal(t, PageOwnerDashboard, r.View().Page)
}

func TestRouter_StartWithRevokedToken(t *testing.T) {
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "not-a-token")
	assert.Equal(t, ScreenLanding, r.Snapshot().Screen)
}

// ==================== NAVIGATION ====================

func TestRouter_Navigate(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	tests := []struct {
		action Action
		want   Screen
	}{
		{ActionCreateOrganization, ScreenSignup},
		{ActionBack, ScreenLanding},
		{ActionLogin, ScreenLogin},
		{ActionJoinOrganization, ScreenEmployeeSignup},
		{ActionTeamLogin, ScreenTeamLogin},
		{ActionContinueToLogin, ScreenTeamLogin},
		{ActionContinueToDashboard, ScreenLogin},
	}
	for _, tt := range tests {
		require.NoError(t, r.Navigate(ctx, tt.action), tt.action)
		assert.Equal(t, tt.want, r.Snapshot().Screen, tt.action)
	}

	assert.ErrorIs(t, r.Navigate(ctx, "nowhere"), ErrUnknownAction)
}

func TestRouter_SignupStepsRequireFields(t *testing.T) {
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	assert.ErrorIs(t, r.NextSignupStep(), ErrWrongScreen)
	require.NoError(t, r.Navigate(context.Background(), ActionCreateOrganization))

	err := r.NextSignupStep()
	var vErr *usecase.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "FullName")
	assert.Equal(t, 1, r.View().SignupStep)

	fillSignupForm(t, r)
	assert.Equal(t, 3, r.View().SignupStep)

	require.NoError(t, r.PreviousSignupStep())
	assert.Equal(t, 2, r.View().SignupStep)
}

// ==================== FLOWS ====================

func TestRouter_OrganizationSignupFlow(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	require.NoError(t, r.Navigate(ctx, ActionCreateOrganization))
	fillSignupForm(t, r)
	require.NoError(t, r.SubmitOrganizationSignup(ctx))

	view := r.View()
	assert.Equal(t, string(ScreenConfirmation), view.Page)
	require.NotNil(t, view.OrgData)
	assert.Len(t, view.OrgData.OrgCode, 25)
	assert.Len(t, view.OrgData.Passkey, 25)
	assert.Equal(t, "Acme", view.OrgData.OrgName)

	// Sign-up does not sign in, so the owner is sent to the login page.
	require.NoError(t, r.Navigate(ctx, ActionContinueToDashboard))
	assert.Equal(t, ScreenLogin, r.Snapshot().Screen)
	assert.Nil(t, r.Snapshot().OrgData)

	require.NoError(t, r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"}))
	state := r.Snapshot()
	assert.Equal(t, ScreenDashboard, state.Screen)
	assert.Equal(t, entity.RoleOwner, state.Role)
	assert.Equal(t, "ada@x.com", state.User.Email)
}

func TestRouter_OrganizationSignupFailureStays(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	require.NoError(t, r.Navigate(ctx, ActionCreateOrganization))
	fillSignupForm(t, r)
	require.NoError(t, r.UpdateSignupForm(&request.OrganizationFormUpdate{ConfirmPassword: strPtr("other12")}))

	require.Error(t, r.SubmitOrganizationSignup(ctx))
	state := r.Snapshot()
	assert.Equal(t, ScreenSignup, state.Screen)
	assert.Equal(t, "Passwords do not match", state.Error)
	assert.False(t, state.Busy)
}

func TestRouter_TeamSignupFlow(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	r, _ := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionJoinOrganization))
	require.NoError(t, r.SubmitTeamSignup(ctx, &request.TeamSignupRequest{
		Name: "Bob", Email: "bob@x.com", Password: "secret1", Role: "Employee", OrgCode: "CODE", Passkey: "KEY",
	}))
	assert.Equal(t, ScreenSuccess, r.Snapshot().Screen)

	require.NoError(t, r.Navigate(ctx, ActionContinueToLogin))
	assert.Equal(t, ScreenTeamLogin, r.Snapshot().Screen)

	require.NoError(t, r.SubmitTeamLogin(ctx, &request.LoginRequest{Email: "bob@x.com", Password: "secret1"}))
	view := r.View()
	assert.Equal(t, PageTeamDashboard, view.Page)
	require.NotNil(t, view.Placeholder)
	assert.Equal(t, "Welcome, Employee!", view.Placeholder.Title)
}

func TestRouter_TeamSignupWrongPasskey(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	r, _ := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionJoinOrganization))
	err := r.SubmitTeamSignup(ctx, &request.TeamSignupRequest{
		Name: "Bob", Email: "bob@x.com", Password: "secret1", Role: "Manager", OrgCode: "CODE", Passkey: "nope",
	})
	require.ErrorIs(t, err, usecase.ErrInvalidOrgCredentials)

	state := r.Snapshot()
	assert.Equal(t, ScreenEmployeeSignup, state.Screen)
	assert.NotEmpty(t, state.Error)
}

func TestRouter_ManagerNeverReachesOwnerDashboard(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, map[string]string{"mia@x.com": "Manager"})
	r, h := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionLogin))
	err := r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "mia@x.com", Password: "secret1"})
	require.ErrorIs(t, err, usecase.ErrAccessDenied)

	state := r.Snapshot()
	assert.Equal(t, ScreenLogin, state.Screen)
	assert.Equal(t, "Access denied. Only Organization Owners can log in here.", state.Error)
	assert.Empty(t, h.Token())

	assert.Never(t, func() bool {
		return r.Snapshot().Screen == ScreenDashboard
	}, 200*time.Millisecond, tick)
}

func TestRouter_OwnerUsesTeamLogin(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	r, _ := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionTeamLogin))
	err := r.SubmitTeamLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"})
	require.ErrorIs(t, err, usecase.ErrUseOwnerLogin)
	assert.Equal(t, ScreenTeamLogin, r.Snapshot().Screen)
}

func TestRouter_SubmitOnWrongScreen(t *testing.T) {
	r, _ := newTestRouter(t, backend.NewMemoryGateway(zap.NewNop()), "")

	err := r.SubmitOwnerLogin(context.Background(), &request.LoginRequest{Email: "ada@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrWrongScreen)
}

func TestRouter_Logout(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	r, h := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionLogin))
	require.NoError(t, r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"}))
	require.Equal(t, ScreenDashboard, r.Snapshot().Screen)

	require.NoError(t, r.Logout(ctx))
	state := r.Snapshot()
	assert.Equal(t, ScreenLanding, state.Screen)
	assert.Nil(t, state.User)
	assert.Empty(t, h.Token())
}

func TestRouter_ExternalSignOut(t *testing.T) {
	ctx := context.Background()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	r, h := newTestRouter(t, gw, "")

	require.NoError(t, r.Navigate(ctx, ActionLogin))
	require.NoError(t, r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"}))

	require.NoError(t, h.SignOut(ctx))
	assert.Eventually(t, func() bool {
		return r.Snapshot().Screen == ScreenLanding
	}, waitFor, tick)
}

// ==================== CONCURRENCY ====================

// blockingClient holds every sign-in until release is closed.
type blockingClient struct {
	backend.Client
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClient) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	close(c.entered)
	<-c.release
	return c.Client.SignInWithPassword(ctx, email, password)
}

func newBlockingRouter(t *testing.T) (*Router, *blockingClient) {
	t.Helper()
	gw := backend.NewMemoryGateway(zap.NewNop())
	seedOrg(t, gw, nil)
	h := backend.NewHandle(gw, "", zap.NewNop())
	client := &blockingClient{Client: h, entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRouter(client, usecase.NewService(nil, zap.NewNop()), zap.NewNop())
	t.Cleanup(func() {
		r.Stop()
		h.Close()
	})
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Navigate(context.Background(), ActionLogin))
	return r, client
}

func TestRouter_RejectsNavigationWhileBusy(t *testing.T) {
	ctx := context.Background()
	r, client := newBlockingRouter(t)

	done := make(chan error, 1)
	go func() {
		done <- r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"})
	}()
	<-client.entered

	assert.True(t, r.Snapshot().Busy)
	assert.True(t, r.View().Busy)
	assert.ErrorIs(t, r.Navigate(ctx, ActionBack), usecase.ErrBusy)
	assert.ErrorIs(t, r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"}), usecase.ErrBusy)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, ScreenDashboard, r.Snapshot().Screen)
	assert.False(t, r.Snapshot().Busy)
}

func TestRouter_DropsResultAfterStop(t *testing.T) {
	ctx := context.Background()
	r, client := newBlockingRouter(t)

	done := make(chan error, 1)
	go func() {
		done <- r.SubmitOwnerLogin(ctx, &request.LoginRequest{Email: "ada@x.com", Password: "secret1"})
	}()
	<-client.entered

	r.Stop()
	assert.True(t, r.Stopped())
	close(client.release)
	require.NoError(t, <-done)

	state := r.Snapshot()
	assert.Equal(t, ScreenLogin, state.Screen)
	assert.Nil(t, state.User)
	assert.ErrorIs(t, r.Navigate(ctx, ActionBack), ErrStopped)
}

// ==================== RENDERING ====================

func TestState_Page(t *testing.T) {
	user := &backend.Identity{ID: "u1", Email: "a@x.com"}
	org := &usecase.OrgData{OrgCode: "C", Passkey: "K", OrgName: "Acme"}

	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"dashboard without user", State{Screen: ScreenDashboard}, "landing"},
		{"owner dashboard", State{Screen: ScreenDashboard, User: user, Role: entity.RoleOwner}, PageOwnerDashboard},
		{"manager dashboard", State{Screen: ScreenDashboard, User: user, Role: entity.RoleManager}, PageTeamDashboard},
		{"role unknown", State{Screen: ScreenDashboard, User: user}, PageTeamDashboard},
		{"confirmation without data", State{Screen: ScreenConfirmation}, "landing"},
		{"confirmation", State{Screen: ScreenConfirmation, OrgData: org}, "confirmation"},
		{"login", State{Screen: ScreenLogin}, "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Page())
		})
	}
}

func TestTeamPlaceholder(t *testing.T) {
	assert.Equal(t, "Welcome, Manager!", teamPlaceholder(entity.RoleManager).Title)
	assert.Equal(t, "Your manager dashboard is coming soon.", teamPlaceholder(entity.RoleManager).Message)
	assert.Equal(t, "Welcome, Team Member!", teamPlaceholder("").Title)
}
