package wire

import (
	"zentra/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAccount(r chi.Router, accountHandler *adaptor.AccountHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/send-otp", accountHandler.SendOTP)
		r.Post("/verify-email", accountHandler.VerifyEmail)
	})
}
