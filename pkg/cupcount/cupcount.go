package cupcount

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/cupcount/internal/adapter/primary/http"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/kafkapublisher"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/prommetrics"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/cupcount/internal/adapter/secondary/squareapi"
	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/service"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// Cupcount is the embeddable form of the service. It can be mounted inside
// another Go application's HTTP server.
type Cupcount struct {
	counter     primary.CounterService
	report      primary.ReportService
	store       secondary.CounterStore
	publisher   secondary.EventPublisher
	redisClient goredis.UniversalClient
	handler     http.Handler
	logger      *zap.Logger
}

// Config holds configuration for Cupcount.
type Config struct {
	// Redis mode: "standalone" (default), "sentinel", "cluster"
	RedisMode string

	// Standalone Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sentinel Redis (RedisMode = "sentinel")
	RedisMasterName    string
	RedisSentinelAddrs []string

	// Cluster Redis (RedisMode = "cluster")
	RedisClusterAddrs []string

	// CounterKey is the Redis key holding the total.
	CounterKey string

	// Order API
	SquareBaseURL  string
	SquareToken    string
	SquareVersion  string
	SquareLocation string
	FetchTimeout   time.Duration

	// CompletedState is the order state required for counting (default "COMPLETED").
	CompletedState string
	// AnyOrderState counts orders regardless of state and overrides CompletedState.
	AnyOrderState bool

	// Webhook signature verification, disabled when SignatureKey is empty
	SignatureKey    string
	NotificationURL string

	// TrackedItems are the product names that count toward the total.
	TrackedItems []string

	// Change events, disabled when KafkaBrokers is empty
	KafkaBrokers []string
	KafkaTopic   string

	// Registry receives the service's metrics (if nil, a private registry is created)
	Registry *prometheus.Registry

	// Logger (if nil, a default logger will be created)
	Logger *zap.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RedisAddr:      "localhost:6379",
		CounterKey:     domain.DefaultCounterKey,
		SquareBaseURL:  "https://connect.squareup.com",
		FetchTimeout:   domain.DefaultFetchTimeout,
		CompletedState: domain.DefaultCompletedState,
		TrackedItems:   append([]string(nil), config.DefaultTrackedItems...),
		KafkaTopic:     "cupcount.counter-changes",
	}
}

// New connects to Redis, makes sure the counter exists and wires the HTTP handler.
func New(ctx context.Context, cfg *Config) (*Cupcount, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Create logger if not provided
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	internalCfg := cfg.toInternal()

	redisClient, err := redisstore.NewClient(ctx, internalCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating redis client: %w", err)
	}

	store := redisstore.NewCounter(redisClient, internalCfg.CounterKey, logger)
	if err := store.Init(ctx); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	metrics, err := prommetrics.New(registry)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	fetcher := squareapi.NewClient(internalCfg, logger)
	publisher := kafkapublisher.NewPublisher(internalCfg, logger)
	tracked := valueobject.NewTrackedItemSet(internalCfg.TrackedItems)
	rules := service.WebhookRules{
		AllowedLocation: internalCfg.SquareLocation,
		CompletedState:  internalCfg.CompletedState,
	}

	counterSvc := service.NewCounterService(store, publisher, metrics, logger)
	reportSvc := service.NewReportService(fetcher, tracked, rules, logger)

	handler := httphandler.NewRouter(httphandler.RouterParams{
		WebhookService: service.NewWebhookService(store, fetcher, publisher, metrics, tracked, rules, logger),
		CounterService: counterSvc,
		ReportService:  reportSvc,
		HealthChecks:   []secondary.HealthChecker{redisstore.NewHealthCheck(redisClient)},
		Verifier:       httphandler.NewSignatureVerifier(cfg.SignatureKey, cfg.NotificationURL),
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
	})

	return &Cupcount{
		counter:     counterSvc,
		report:      reportSvc,
		store:       store,
		publisher:   publisher,
		redisClient: redisClient,
		handler:     handler,
		logger:      logger,
	}, nil
}

// Handler returns the HTTP handler serving /webhook, /counter and the
// operational endpoints.
func (c *Cupcount) Handler() http.Handler {
	return c.handler
}

// Value returns the current total.
func (c *Cupcount) Value(ctx context.Context) (int64, error) {
	return c.counter.Current(ctx)
}

// SetValue overwrites the total. Negative values are rejected.
func (c *Cupcount) SetValue(ctx context.Context, value int64) (int64, error) {
	return c.counter.Set(ctx, value)
}

// ItemsSold tallies tracked items across completed orders at the configured location.
func (c *Cupcount) ItemsSold(ctx context.Context) (map[string]int64, error) {
	return c.report.ItemsSold(ctx)
}

// Close releases the publisher and the Redis client.
func (c *Cupcount) Close() error {
	c.logger.Info("shutting down cupcount")

	var errs []error

	if err := c.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing publisher: %w", err))
	}

	if err := c.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing redis client: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}

// toInternal fills the gaps left in a partial Config with defaults.
func (cfg *Config) toInternal() *config.Config {
	defaults := DefaultConfig()

	out := &config.Config{
		RedisMode:              cfg.RedisMode,
		RedisAddr:              cfg.RedisAddr,
		RedisPassword:          cfg.RedisPassword,
		RedisDB:                cfg.RedisDB,
		RedisMasterName:        cfg.RedisMasterName,
		RedisSentinelAddrs:     cfg.RedisSentinelAddrs,
		RedisClusterAddrs:      cfg.RedisClusterAddrs,
		CounterKey:             cfg.CounterKey,
		SquareBaseURL:          cfg.SquareBaseURL,
		SquareToken:            cfg.SquareToken,
		SquareVersion:          cfg.SquareVersion,
		SquareLocation:         cfg.SquareLocation,
		SquareSignatureKey:     cfg.SignatureKey,
		WebhookNotificationURL: cfg.NotificationURL,
		FetchTimeout:           cfg.FetchTimeout,
		CompletedState:         cfg.CompletedState,
		TrackedItems:           cfg.TrackedItems,
		KafkaBrokers:           cfg.KafkaBrokers,
		KafkaTopic:             cfg.KafkaTopic,
	}

	if out.RedisAddr == "" {
		out.RedisAddr = defaults.RedisAddr
	}
	if out.CounterKey == "" {
		out.CounterKey = defaults.CounterKey
	}
	if out.SquareBaseURL == "" {
		out.SquareBaseURL = defaults.SquareBaseURL
	}
	if out.FetchTimeout <= 0 {
		out.FetchTimeout = defaults.FetchTimeout
	}
	if len(out.TrackedItems) == 0 {
		out.TrackedItems = defaults.TrackedItems
	}
	switch {
	case cfg.AnyOrderState:
		out.CompletedState = ""
	case out.CompletedState == "":
		out.CompletedState = defaults.CompletedState
	}
	if out.KafkaTopic == "" {
		out.KafkaTopic = defaults.KafkaTopic
	}
	return out
}
