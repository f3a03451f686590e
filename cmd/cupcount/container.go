package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"
	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/cupcount/internal/adapter/primary/http"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/kafkapublisher"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/prommetrics"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/sqlitestore"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/squareapi"
	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain/service"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// storage groups the configured counter backend with its health checks and
// whatever must be closed on shutdown.
type storage struct {
	store   secondary.CounterStore
	checks  []secondary.HealthChecker
	closers []func() error
}

// Close releases the store and any client it was built on.
func (s *storage) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		counter, err := sqlitestore.Open(cfg.SQLitePath, cfg.CounterKey, logger)
		if err != nil {
			return nil, err
		}
		return &storage{
			store:   counter,
			checks:  []secondary.HealthChecker{sqlitestore.NewHealthCheck(counter)},
			closers: []func() error{counter.Close},
		}, nil
	default:
		client, err := redisstore.NewClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		counter := redisstore.NewCounter(client, cfg.CounterKey, logger)
		return &storage{
			store:   counter,
			checks:  []secondary.HealthChecker{redisstore.NewHealthCheck(client)},
			closers: []func() error{counter.Close, client.Close},
		}, nil
	}
}

func buildContainer(ctx context.Context) (*dig.Container, error) {
	c := dig.New()

	// --- Configuration ---
	if err := c.Provide(config.New); err != nil {
		return nil, err
	}

	// --- Logger ---
	if err := c.Provide(newLogger); err != nil {
		return nil, err
	}

	// --- Secondary Adapters (infrastructure) ---

	// Counter store, selected by STORE_BACKEND
	if err := c.Provide(func(cfg *config.Config, logger *zap.Logger) (*storage, error) {
		return newStorage(ctx, cfg, logger)
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func(s *storage) secondary.CounterStore {
		return s.store
	}); err != nil {
		return nil, err
	}

	// Collect all health checks
	if err := c.Provide(func(s *storage) []secondary.HealthChecker {
		return s.checks
	}); err != nil {
		return nil, err
	}

	// Order API client (implements secondary.OrderFetcher)
	if err := c.Provide(squareapi.NewClient); err != nil {
		return nil, err
	}

	// Change publisher, a no-op when no brokers are configured
	if err := c.Provide(kafkapublisher.NewPublisher); err != nil {
		return nil, err
	}

	// Prometheus instruments on the default registry
	if err := c.Provide(func() prometheus.Registerer {
		return prometheus.DefaultRegisterer
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(prommetrics.New); err != nil {
		return nil, err
	}

	if err := c.Provide(func(m *prommetrics.Metrics) secondary.Metrics {
		return m
	}); err != nil {
		return nil, err
	}

	// --- Domain Services ---

	if err := c.Provide(func(cfg *config.Config) valueobject.TrackedItemSet {
		return valueobject.NewTrackedItemSet(cfg.TrackedItems)
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func(cfg *config.Config) service.WebhookRules {
		return service.WebhookRules{
			AllowedLocation: cfg.SquareLocation,
			CompletedState:  cfg.CompletedState,
		}
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(service.NewWebhookService); err != nil {
		return nil, err
	}
	if err := c.Provide(service.NewCounterService); err != nil {
		return nil, err
	}
	if err := c.Provide(service.NewReportService); err != nil {
		return nil, err
	}

	// Bind concrete services to the primary port interfaces
	if err := c.Provide(func(s *service.WebhookService) primary.WebhookService {
		return s
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(s *service.CounterService) primary.CounterService {
		return s
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(s *service.ReportService) primary.ReportService {
		return s
	}); err != nil {
		return nil, err
	}

	// --- Primary Adapters ---

	type routerParams struct {
		dig.In
		WebhookService primary.WebhookService
		CounterService primary.CounterService
		ReportService  primary.ReportService
		HealthChecks   []secondary.HealthChecker
		Metrics        *prommetrics.Metrics
		Config         *config.Config
		Logger         *zap.Logger
	}

	// HTTP router
	if err := c.Provide(func(p routerParams) http.Handler {
		return httphandler.NewRouter(httphandler.RouterParams{
			WebhookService: p.WebhookService,
			CounterService: p.CounterService,
			ReportService:  p.ReportService,
			HealthChecks:   p.HealthChecks,
			Verifier:       httphandler.NewSignatureVerifier(p.Config.SquareSignatureKey, p.Config.WebhookNotificationURL),
			Metrics:        p.Metrics,
			MetricsHandler: promhttp.Handler(),
			Logger:         p.Logger,
		})
	}); err != nil {
		return nil, err
	}

	return c, nil
}
