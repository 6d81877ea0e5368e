package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"zentra/internal/backend"
	"zentra/internal/data/repository"
	"zentra/internal/wire"
	"zentra/pkg/database"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Hour
)

// ServeCmd runs the HTTP API until SIGINT or SIGTERM.
type ServeCmd struct {
	Migrate bool `help:"Apply database migrations before serving."`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	config, logger, err := bootstrap(globals)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("version", globals.Version),
		zap.String("port", config.App.Port),
		zap.String("backend", config.Backend.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database is only needed when it backs auth and rows directly.
	var repo *repository.Repository
	if config.Backend.Driver == backend.DriverPostgres {
		db, err := connectDB(ctx, config, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if c.Migrate {
			if err := database.Migrate(ctx, db, logger); err != nil {
				return err
			}
		}
		repo = repository.NewRepository(db, logger)
	}

	gw, err := backend.NewGateway(config, repo, logger)
	if err != nil {
		return err
	}

	app, err := wire.Wiring(gw, config, logger)
	if err != nil {
		return err
	}

	server := configureHTTPServer(fmt.Sprintf(":%s", config.App.Port), app.Router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return app.Registry.Run(gctx)
	})

	if repo != nil {
		g.Go(func() error {
			sweepSessions(gctx, repo.Session, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024,
	}
}

// sweepSessions removes long-expired auth sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
