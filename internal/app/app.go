package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/database"
	"go-notes-api/internal/event"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/repository"
	"go-notes-api/internal/router"
	"go-notes-api/internal/service"
)

const auditDrainTimeout = 5 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// userStore is everything the services and health check need from the
// credential store.
type userStore interface {
	service.UserStore
	service.WalletStore
	Ping(ctx context.Context) error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		users   userStore
		notes   service.NoteStore
		audits  service.AuditStore
		cleanup []func()
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		users = repository.NewMemoryUserRepository()
		notes = repository.NewMemoryNoteRepository()
		audits = repository.NewMemoryAuditRepository()
	default:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		users = repository.NewUserRepository(db.Pool)
		notes = repository.NewNoteRepository(db.Pool)
		audits = repository.NewAuditRepository(db.Pool)
		cleanup = append(cleanup, db.Close)
		slog.Info("database ready")
	}

	fail := func(err error) (*App, error) {
		for _, fn := range cleanup {
			fn()
		}
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize password hasher: %w", err))
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTTTL, auth.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return fail(fmt.Errorf("failed to initialize token codec: %w", err))
	}

	authService, err := service.NewAuthService(users, hasher, codec, m)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize auth service: %w", err))
	}

	resolver := service.NewIdentityResolver(users, cfg.IdentityCacheSize, cfg.IdentityCacheTTL, m)
	authMiddleware := middleware.NewAuthMiddleware(codec, resolver, m)
	noteService := service.NewNoteService(notes)
	userService := service.NewUserService(users, resolver)

	bus := event.NewBus()
	authService.SetPublisher(bus)
	noteService.SetPublisher(bus)
	userService.SetPublisher(bus)

	auditService := service.NewAuditService(audits)
	auditEvents, unsubscribe := bus.Subscribe()
	auditCtx, auditCancel := context.WithCancel(context.Background())
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditService.Run(auditCtx, auditEvents)
	}()
	// Closing the subscription lets Run record what is buffered; the pool it
	// writes to is closed only after that.
	stopAudit := func() {
		unsubscribe()
		select {
		case <-auditDone:
		case <-time.After(auditDrainTimeout):
			slog.Warn("audit consumer did not drain in time")
		}
		auditCancel()
	}
	cleanup = append([]func(){stopAudit}, cleanup...)

	appRouter := router.New(cfg, authMiddleware, m, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Notes:   handler.NewNoteHandler(noteService),
		User:    handler.NewUserHandler(userService),
		Cardano: handler.NewCardanoHandler(service.NewCardanoService(cfg.BlockfrostBaseURL, cfg.BlockfrostProjectID, cfg.BlockfrostTimeout)),
		Audit:   handler.NewAuditHandler(auditService),
		Health:  handler.NewHealthHandler(users),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanup}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-serveErr:
		if ok {
			a.cleanup()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Drain in-flight requests before closing the pool they use.
	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
