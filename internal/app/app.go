// Package app wires storage, hooks, services and transports from a
// config. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/tnerp/internal/auth"
	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/config"
	"github.com/mmynk/tnerp/internal/docs"
	"github.com/mmynk/tnerp/internal/events"
	"github.com/mmynk/tnerp/internal/hooks"
	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/internal/middleware"
	"github.com/mmynk/tnerp/internal/patches"
	"github.com/mmynk/tnerp/internal/service"
	"github.com/mmynk/tnerp/internal/setup"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
	"github.com/mmynk/tnerp/pkg/api"
)

// App holds the wired components.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      *sqlite.SQLiteStore
	Metrics    *metrics.Metrics
	Publisher  events.Publisher
	Importer   *coa.Importer
	Setup      *setup.Service
	Patches    *patches.Runner
	Dispatcher *hooks.Dispatcher
	Manager    *docs.Manager
	JWT        *auth.JWTManager

	freshInstall bool
}

// New opens the store at cfg.DBPath and wires every component. The AMQP
// publisher is only dialed when cfg.AMQPURL is set.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, statErr := os.Stat(cfg.DBPath)
	fresh := errors.Is(statErr, os.ErrNotExist)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("Storage initialized", "database", cfg.DBPath, "fresh", fresh)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger.With("component", "events"))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("connect event bus: %w", err)
		}
		publisher = p
		logger.Info("Publishing document events", "exchange", cfg.AMQPExchange)
	}

	rows, err := coa.BundledRows()
	if err != nil {
		publisher.Close()
		store.Close()
		return nil, fmt.Errorf("load bundled chart: %w", err)
	}

	m := metrics.New()
	importer := coa.NewImporter(store, rows,
		coa.WithCurrency(cfg.DefaultCurrency),
		coa.WithMetrics(m),
		coa.WithLogger(logger),
	)
	setupSvc := setup.NewService(store, importer, cfg.DefaultCompany, logger)
	runner := patches.Default(store, logger)

	dispatcher := hooks.NewDispatcher(
		hooks.WithPublisher(publisher),
		hooks.WithMetrics(m),
		hooks.WithLogger(logger),
	)
	hooks.NewHandlers(store, hooks.Config{
		Setup:           setupSvc,
		Importer:        importer,
		Patches:         runner,
		Metrics:         m,
		Logger:          logger,
		DefaultCurrency: cfg.DefaultCurrency,
	}).Register(dispatcher)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Metrics:      m,
		Publisher:    publisher,
		Importer:     importer,
		Setup:        setupSvc,
		Patches:      runner,
		Dispatcher:   dispatcher,
		Manager:      docs.NewManager(store, dispatcher),
		JWT:          auth.NewJWTManager(secret, cfg.JWTTTL),
		freshInstall: fresh,
	}, nil
}

// Install fires after_install when the database was created by New.
func (a *App) Install(ctx context.Context) error {
	if !a.freshInstall {
		return nil
	}
	a.freshInstall = false
	return a.Dispatcher.Fire(ctx, hooks.AfterInstall, nil)
}

// Migrate fires after_migrate. The schema itself is migrated when the store
// is opened.
func (a *App) Migrate(ctx context.Context) error {
	return a.Dispatcher.Fire(ctx, hooks.AfterMigrate, nil)
}

// Interceptors returns the RPC interceptor chain. Authentication runs first
// so the logging interceptor sees the operator.
func (a *App) Interceptors() []connect.Interceptor {
	interceptors := []connect.Interceptor{
		middleware.LoggingInterceptor(a.Logger),
		middleware.MetricsInterceptor(a.Metrics),
	}
	if a.Config.AuthRequired {
		interceptors = append([]connect.Interceptor{middleware.RequireAuth(a.JWT, api.PublicProcedures)}, interceptors...)
	} else {
		interceptors = append([]connect.Interceptor{middleware.OptionalAuth(a.JWT)}, interceptors...)
	}
	return interceptors
}

// Handler returns the HTTP handler serving every RPC service, /metrics and
// /healthz, wrapped with request logging and CORS.
func (a *App) Handler() http.Handler {
	opt := connect.WithInterceptors(a.Interceptors()...)

	mux := http.NewServeMux()
	mux.Handle(api.NewLandedCostServiceHandler(service.NewLandedCostService(a.Manager, a.Metrics, a.Config.DefaultCurrency), opt))
	mux.Handle(api.NewSetupServiceHandler(service.NewSetupService(a.Setup, a.Importer), opt))
	mux.Handle(api.NewVisitServiceHandler(service.NewVisitService(a.Manager), opt))
	mux.Handle(api.NewAuthServiceHandler(service.NewAuthService(auth.NewPasswordAuthenticator(a.Store), a.JWT, a.Logger), opt))

	mux.Handle("GET /metrics", a.Metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	return middleware.RequestLogger(a.Logger, middleware.CORS(mux))
}

// Close releases the event bus and the store.
func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.Store.Close())
}
