package adaptor

import (
	"net/http"

	"zentra/internal/usecase"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	service  usecase.DashboardService
	sessions *viewSessions
	log      *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, sessions *viewSessions, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// Get handles GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}

	dashboard, err := h.service.Load(r.Context(), session.Handle)
	h.sessions.persist(w, session)
	if err != nil {
		h.sessions.handleServiceError(w, err, "load dashboard", "", nil)
		return
	}

	utils.ResponseSuccess(w, "Dashboard retrieved", dashboard)
}
