package adaptor

import (
	"zentra/internal/usecase"
	"zentra/internal/view"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	View      *ViewHandler
	Form      *FormHandler
	Dashboard *DashboardHandler
	Account   *AccountHandler
}

func NewHandler(service *usecase.Service, registry *view.Registry, cookies *utils.CookieCodec, log *zap.Logger) *Handler {
	sessions := &viewSessions{
		registry: registry,
		cookies:  cookies,
		log:      log,
	}
	return &Handler{
		View:      NewViewHandler(sessions, log),
		Form:      NewFormHandler(sessions, log),
		Dashboard: NewDashboardHandler(service.Dashboard, sessions, log),
		Account:   NewAccountHandler(service.Account, sessions, log),
	}
}
