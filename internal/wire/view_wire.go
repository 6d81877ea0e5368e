package wire

import (
	"zentra/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireView(r chi.Router, viewHandler *adaptor.ViewHandler) {
	r.Route("/api/view", func(r chi.Router) {
		r.Get("/", viewHandler.Current)
		r.Delete("/", viewHandler.Close)
		r.Post("/navigate", viewHandler.Navigate)
	})
	r.Post("/api/logout", viewHandler.Logout)
}
