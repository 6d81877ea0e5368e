package wire

import (
	"fmt"
	"net/http"
	"time"

	"zentra/internal/adaptor"
	"zentra/internal/backend"
	"zentra/internal/usecase"
	"zentra/internal/view"
	"zentra/pkg/middleware"
	"zentra/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP router and the long-lived view registry.
type App struct {
	Router   *chi.Mux
	Registry *view.Registry
}

// Wiring builds services, view sessions and handlers on top of gw.
func Wiring(gw backend.Gateway, config *utils.Config, logger *zap.Logger) (*App, error) {
	service := usecase.NewService(nil, logger)

	idle := time.Duration(config.View.IdleMinutes) * time.Minute
	registry := view.NewRegistry(gw, service, idle, logger)

	maxAge := time.Duration(config.Auth.SessionExpiryHours) * time.Hour
	cookies, err := utils.NewCookieCodec(config.Cookie, maxAge)
	if err != nil {
		return nil, fmt.Errorf("cookie codec: %w", err)
	}

	handler := adaptor.NewHandler(service, registry, cookies, logger)
	router := setupRouter(handler, cookies, config, logger)

	return &App{
		Router:   router,
		Registry: registry,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	cookies *utils.CookieCodec,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.ViewCookies(cookies))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	// Apply routes
	wireView(r, handler.View)
	wireForm(r, handler.Form)
	wireDashboard(r, handler.Dashboard)
	wireAccount(r, handler.Account)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
