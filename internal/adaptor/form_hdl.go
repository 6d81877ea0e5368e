package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"zentra/internal/dto/request"
	"zentra/internal/view"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type FormHandler struct {
	sessions *viewSessions
	log      *zap.Logger
}

func NewFormHandler(sessions *viewSessions, log *zap.Logger) *FormHandler {
	return &FormHandler{
		sessions: sessions,
		log:      log,
	}
}

// ==================== ORGANIZATION SIGN-UP ====================

// UpdateOrganization handles PUT /api/forms/organization
func (h *FormHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var req request.OrganizationFormUpdate

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	h.run(w, r, "update organization form", "Form updated", func(_ context.Context, router *view.Router) error {
		return router.UpdateSignupForm(&req)
	})
}

// NextStep handles POST /api/forms/organization/next
func (h *FormHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "advance organization form", "Step completed", func(_ context.Context, router *view.Router) error {
		return router.NextSignupStep()
	})
}

// PreviousStep handles POST /api/forms/organization/previous
func (h *FormHandler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "rewind organization form", "Step changed", func(_ context.Context, router *view.Router) error {
		return router.PreviousSignupStep()
	})
}

// SubmitOrganization handles POST /api/forms/organization/submit
func (h *FormHandler) SubmitOrganization(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "create organization", "Organization created", func(ctx context.Context, router *view.Router) error {
		return router.SubmitOrganizationSignup(ctx)
	})
}

// ==================== TEAM SIGN-UP ====================

// TeamSignup handles POST /api/forms/team-signup
func (h *FormHandler) TeamSignup(w http.ResponseWriter, r *http.Request) {
	var req request.TeamSignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	h.run(w, r, "team sign up", "Account created", func(ctx context.Context, router *view.Router) error {
		return router.SubmitTeamSignup(ctx, &req)
	})
}

// ==================== LOGIN ====================

// OwnerLogin handles POST /api/forms/owner-login
func (h *FormHandler) OwnerLogin(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	h.run(w, r, "owner login", "Login successful", func(ctx context.Context, router *view.Router) error {
		return router.SubmitOwnerLogin(ctx, &req)
	})
}

// TeamLogin handles POST /api/forms/team-login
func (h *FormHandler) TeamLogin(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	h.run(w, r, "team login", "Login successful", func(ctx context.Context, router *view.Router) error {
		return router.SubmitTeamLogin(ctx, &req)
	})
}

// run applies fn to the caller's router and answers with the new view.
func (h *FormHandler) run(w http.ResponseWriter, r *http.Request, operation, success string, fn func(context.Context, *view.Router) error) {
	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}

	err := fn(r.Context(), session.Router)
	h.sessions.persist(w, session)

	state := session.Router.View()
	if err != nil {
		h.sessions.handleServiceError(w, err, operation, state.Error, state)
		return
	}

	utils.ResponseSuccess(w, success, state)
}
