// Package app wires storage, services and the session manager from a Config.
package app

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/config"
	pkgcrypto "github.com/and161185/jobboard/internal/crypto"
	"github.com/and161185/jobboard/internal/crypto/clientcrypto"
	"github.com/and161185/jobboard/internal/events"
	"github.com/and161185/jobboard/internal/jobs"
	"github.com/and161185/jobboard/internal/limiter"
	"github.com/and161185/jobboard/internal/repository/kv"
	"github.com/and161185/jobboard/internal/securestore"
	"github.com/and161185/jobboard/internal/service"
	"github.com/and161185/jobboard/internal/session"
	"github.com/and161185/jobboard/internal/storage"
	"github.com/and161185/jobboard/internal/telemetry"
)

// App is the assembled application. Fields are ready to use after New.
type App struct {
	Config config.Config
	Log    *zap.Logger
	Clock  clock.Clock

	Backend storage.Backend
	Store   *securestore.Store
	Limiter *limiter.Store

	Auth         *service.AuthServiceImpl
	Applications *service.ApplicationServiceImpl
	Jobs         *jobs.Catalog

	Bus      *events.Bus
	Metrics  *telemetry.Metrics
	Reader   *sdkmetric.ManualReader
	Activity *session.Hub
	Session  *session.Manager

	provider *sdkmetric.MeterProvider
}

// Option configures New.
type Option func(*options)

type options struct {
	clk     clock.Clock
	backend storage.Backend
}

// WithClock overrides the time source of every component.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clk = c } }

// WithBackend uses b instead of opening the configured backend. App.Close closes it.
func WithBackend(b storage.Backend) Option { return func(o *options) { o.backend = b } }

// New opens the configured backend and builds every component on top of it.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	o := options{clk: clock.Real{}}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = zap.NewNop()
	}

	secret, err := cfg.Security.Secret()
	if err != nil {
		return nil, err
	}
	signKey, err := clientcrypto.DeriveSessionKey(secret)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	hasher, err := pkgcrypto.NewHasher(cfg.Security.HashAlgorithm, cfg.Security.BcryptCost)
	if err != nil {
		return nil, err
	}
	catalog, err := jobs.Default()
	if err != nil {
		return nil, err
	}

	backend := o.backend
	if backend == nil {
		backend, err = storage.Open(ctx, cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	}
	store, err := securestore.New(backend, secret, log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	// Metrics
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(provider.Meter("github.com/and161185/jobboard"))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	bus := events.NewBus()
	bus.Subscribe(metrics.Handle)

	// Repositories
	users := kv.NewUserRepo(store)
	sessions := kv.NewSessionRepo(store)
	applications := kv.NewApplicationRepo(store)

	lim := limiter.NewStore(store,
		limiter.WithMaxAttempts(cfg.Limiter.MaxAttempts),
		limiter.WithLockoutDuration(cfg.Limiter.Lockout),
		limiter.WithClock(o.clk),
		limiter.WithLogger(log),
	)

	// Services
	auth := service.NewAuthService(users, sessions, lim, hasher, signKey,
		service.WithClock(o.clk),
		service.WithBus(bus),
		service.WithMetrics(metrics),
		service.WithLogger(log),
		service.WithTokenTTL(cfg.Security.TokenTTL),
	)
	apps := service.NewApplicationService(applications, auth, catalog, o.clk, metrics, log)

	hub := session.NewHub()
	mgr := session.NewManager(sessions, auth, hub,
		session.WithTimeout(cfg.Session.Timeout),
		session.WithWarningLead(cfg.Session.WarningLead),
		session.WithClock(o.clk),
		session.WithBus(bus),
		session.WithLogger(log),
	)

	log.Debug("app ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("hash", hasher.Alg()),
	)
	return &App{
		Config:       cfg,
		Log:          log,
		Clock:        o.clk,
		Backend:      backend,
		Store:        store,
		Limiter:      lim,
		Auth:         auth,
		Applications: apps,
		Jobs:         catalog,
		Bus:          bus,
		Metrics:      metrics,
		Reader:       reader,
		Activity:     hub,
		Session:      mgr,
		provider:     provider,
	}, nil
}

// StartSweeper schedules removal of expired limiter records.
func (a *App) StartSweeper() (*limiter.Sweeper, error) {
	return limiter.StartSweeper(a.Limiter, a.Config.Limiter.SweepSchedule, a.Log)
}

// Stats returns the current metric counters.
func (a *App) Stats(ctx context.Context) ([]telemetry.Counter, error) {
	return telemetry.Snapshot(ctx, a.Reader)
}

// Close releases the backend and the meter provider.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.provider.Shutdown(ctx),
		a.Backend.Close(),
	)
}
