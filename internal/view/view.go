package view

import (
	"errors"
	"fmt"
	"strings"

	"zentra/internal/backend"
	"zentra/internal/data/entity"
	"zentra/internal/dto/response"
	"zentra/internal/usecase"
)

type Screen string

const (
	ScreenLoading        Screen = "loading"
	ScreenLanding        Screen = "landing"
	ScreenSignup         Screen = "signup"
	ScreenConfirmation   Screen = "confirmation"
	ScreenLogin          Screen = "login"
	ScreenEmployeeSignup Screen = "employee-signup"
	ScreenSuccess        Screen = "success"
	ScreenTeamLogin      Screen = "team-login"
	ScreenDashboard      Screen = "dashboard"
)

// Pages that are not screens of their own.
const (
	PageOwnerDashboard = "owner-dashboard"
	PageTeamDashboard  = "team-dashboard"
)

type Action string

const (
	ActionCreateOrganization  Action = "create-organization"
	ActionLogin               Action = "login"
	ActionJoinOrganization    Action = "join-organization"
	ActionTeamLogin           Action = "team-login"
	ActionBack                Action = "back"
	ActionContinueToDashboard Action = "continue-to-dashboard"
	ActionContinueToLogin     Action = "continue-to-login"
)

var (
	ErrUnknownAction = errors.New("unknown navigation action")
	ErrWrongScreen   = errors.New("action not available on this screen")
	ErrStopped       = errors.New("view session closed")
)

// State is the view state of one browser tab.
type State struct {
	Screen  Screen
	User    *backend.Identity
	Role    entity.UserRole
	OrgData *usecase.OrgData
	Error   string
	Busy    bool
}

// Page is the page to draw for the state. Screens whose data is missing
// fall back to the landing page.
func (s State) Page() string {
	switch s.Screen {
	case ScreenDashboard:
		if s.User == nil {
			return string(ScreenLanding)
		}
		if s.Role == entity.RoleOwner {
			return PageOwnerDashboard
		}
		return PageTeamDashboard
	case ScreenConfirmation:
		if s.OrgData == nil {
			return string(ScreenLanding)
		}
	}
	return string(s.Screen)
}

// teamPlaceholder is shown to signed-in non-owners.
func teamPlaceholder(role entity.UserRole) *response.PlaceholderResponse {
	name := string(role)
	if name == "" {
		name = "Team Member"
	}
	return &response.PlaceholderResponse{
		Title:   fmt.Sprintf("Welcome, %s!", name),
		Message: fmt.Sprintf("Your %s dashboard is coming soon.", strings.ToLower(name)),
	}
}

func render(s State, form *usecase.OrganizationSignupForm) *response.ViewResponse {
	page := s.Page()
	resp := &response.ViewResponse{
		View:  string(s.Screen),
		Page:  page,
		Role:  string(s.Role),
		User:  response.IdentityToResponse(s.User, s.Role),
		Error: s.Error,
		Busy:  s.Busy,
	}

	if s.OrgData != nil && page == string(ScreenConfirmation) {
		resp.OrgData = &response.OrgDataResponse{
			OrgCode: s.OrgData.OrgCode,
			Passkey: s.OrgData.Passkey,
			OrgName: s.OrgData.OrgName,
		}
	}
	if page == string(ScreenSignup) && form != nil {
		resp.SignupStep = int(form.Step)
		resp.SignupForm = form.ToResponse()
	}
	if page == PageTeamDashboard {
		resp.Placeholder = teamPlaceholder(s.Role)
	}
	return resp
}
