package adaptor

import (
	"encoding/json"
	"net/http"

	"zentra/internal/dto/request"
	"zentra/internal/view"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type ViewHandler struct {
	sessions *viewSessions
	log      *zap.Logger
}

func NewViewHandler(sessions *viewSessions, log *zap.Logger) *ViewHandler {
	return &ViewHandler{
		sessions: sessions,
		log:      log,
	}
}

// Current handles GET /api/view
func (h *ViewHandler) Current(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}

	h.sessions.persist(w, session)
	utils.ResponseSuccess(w, "View retrieved", session.Router.View())
}

// Navigate handles POST /api/view/navigate
func (h *ViewHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req request.NavigateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}

	err := session.Router.Navigate(r.Context(), view.Action(req.Action))
	h.sessions.persist(w, session)
	if err != nil {
		h.sessions.handleServiceError(w, err, "navigate", "", session.Router.View())
		return
	}

	utils.ResponseSuccess(w, "Navigation successful", session.Router.View())
}

// Logout handles POST /api/logout
func (h *ViewHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.acquire(w, r)
	if session == nil {
		return
	}

	err := session.Router.Logout(r.Context())
	h.sessions.persist(w, session)
	if err != nil {
		h.log.Warn("Logout completed with remote error", zap.Error(err), zap.String("view_id", session.ID))
	}

	utils.ResponseSuccess(w, "Logout successful", session.Router.View())
}

// Close handles DELETE /api/view. The tab is gone; its session is dropped.
func (h *ViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	if viewID, ok := utils.GetViewIDFromContext(r.Context()); ok {
		h.sessions.registry.Release(viewID)
	}
	if err := h.sessions.cookies.Write(w, utils.ViewCookieName, ""); err != nil {
		h.log.Error("Failed to clear view cookie", zap.Error(err))
	}

	utils.ResponseSuccess(w, "View closed", nil)
}
