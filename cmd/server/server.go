package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kadencja"
	"kadencja/internal/catalog"
	"kadencja/internal/config"
	"kadencja/internal/handlers"
	"kadencja/internal/session"
	"kadencja/internal/store"
)

// App holds the wired server components
type App struct {
	cfg     *config.ServerConfig
	logger  *zap.Logger
	store   *store.MemoryStore
	service *session.Service
	hub     *handlers.Hub
	router  http.Handler
}

// NewApp builds every component from configuration
func NewApp(cfg *config.ServerConfig, logger *zap.Logger) (*App, error) {
	cat, err := loadCatalog(cfg.Game.BoardFile)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		zap.Int("spaces", cat.BoardSize()),
		zap.Int("items", len(cat.Items())),
		zap.String("source", catalogSource(cfg.Game.BoardFile)),
	)

	st := store.NewMemoryStore(cat, store.Options{
		MaxPlayers: cfg.Game.MaxPlayersPerRoom,
		CodeLength: cfg.Game.RoomCodeLength,
	})
	hub := handlers.NewHub(logger)
	svc := session.NewService(st, cat, hub, logger)
	h := handlers.New(st, svc, hub, cfg, logger)

	return &App{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		service: svc,
		hub:     hub,
		router:  handlers.SetupRouter(h, cfg, nil),
	}, nil
}

// loadCatalog reads the board override, or the embedded board when path is empty
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Load(kadencja.BoardYAML)
		if err != nil {
			return nil, fmt.Errorf("embedded board: %w", err)
		}
		return cat, nil
	}
	return catalog.LoadFile(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Handler returns the HTTP router
func (a *App) Handler() http.Handler {
	return a.router
}

// Run listens on the configured address until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server and the idle-room sweeper until ctx is
// cancelled, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		a.sweep(ctx)
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

func (a *App) sweep(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Game.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.service.Sweep(now, a.cfg.Game.RoomTimeout)
		}
	}
}
