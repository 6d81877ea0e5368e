package wire

import (
	"zentra/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDashboard(r chi.Router, dashboardHandler *adaptor.DashboardHandler) {
	r.Get("/api/dashboard", dashboardHandler.Get)
}
