package wire

import (
	"zentra/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireForm(r chi.Router, formHandler *adaptor.FormHandler) {
	r.Route("/api/forms", func(r chi.Router) {
		// ==================== ORGANIZATION SIGN-UP ====================
		r.Put("/organization", formHandler.UpdateOrganization)
		r.Post("/organization/next", formHandler.NextStep)
		r.Post("/organization/previous", formHandler.PreviousStep)
		r.Post("/organization/submit", formHandler.SubmitOrganization)

		// ==================== TEAM ====================
		r.Post("/team-signup", formHandler.TeamSignup)

		// ==================== LOGIN ====================
		r.Post("/owner-login", formHandler.OwnerLogin)
		r.Post("/team-login", formHandler.TeamLogin)
	})
}
