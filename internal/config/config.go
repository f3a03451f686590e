package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruudy-sib/cupcount/internal/domain"
)

// Store backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// DefaultTrackedItems is the drink menu counted when no list is configured.
var DefaultTrackedItems = []string{
	"Americano", "CBD Coffee Americano", "CBD Coffee Latte", "Cappuccino", "Cortado",
	"Espresso", "Filter Coffee", "Flat White", "Latte", "Long Black", "Macchiato", "Mocha",
	"Mushroom Coffee Americano", "Mushroom Coffee Latte", "Mushroom Mocha", "V60",
	"Iced Americano", "Iced Latte", "Iced Mocha",
}

// Config holds all application configuration values.
type Config struct {
	// HTTP server
	HTTPAddr string

	// Counter store
	StoreBackend string // "redis" (default) or "sqlite"
	CounterKey   string

	// Redis
	RedisMode          string // "standalone" (default), "sentinel", "cluster"
	RedisAddr          string // standalone: host:port
	RedisPassword      string
	RedisDB            int
	RedisMasterName    string   // sentinel: master name
	RedisSentinelAddrs []string // sentinel: sentinel node addresses
	RedisClusterAddrs  []string // cluster: cluster node addresses

	// SQLite
	SQLitePath string

	// Square
	SquareBaseURL          string
	SquareToken            string
	SquareVersion          string
	SquareLocation         string
	SquareSignatureKey     string
	WebhookNotificationURL string
	FetchTimeout           time.Duration
	CompletedState         string

	// Counting
	TrackedItems []string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string

	// Application
	Environment string
	LogLevel    string
}

// trackedItemsFile is the YAML layout accepted by TRACKED_ITEMS_FILE.
type trackedItemsFile struct {
	Items []string `yaml:"items"`
}

// New creates a Config populated from environment variables with sensible defaults.
func New() (*Config, error) {
	cfg := &Config{
		HTTPAddr:               getEnv("HTTP_ADDR", ":3000"),
		StoreBackend:           strings.ToLower(getEnv("STORE_BACKEND", BackendRedis)),
		CounterKey:             getEnv("COUNTER_KEY", domain.DefaultCounterKey),
		RedisMode:              getEnv("REDIS_MODE", "standalone"),
		RedisAddr:              getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		SQLitePath:             getEnv("SQLITE_PATH", "cupcount.db"),
		SquareBaseURL:          strings.TrimRight(getEnv("SQUARE_BASE_URL", "https://connect.squareup.com"), "/"),
		SquareToken:            getEnv("SQUARE_TOKEN", ""),
		SquareVersion:          getEnv("SQUARE_VERSION", ""),
		SquareLocation:         getEnv("SQUARE_LOCATION", ""),
		SquareSignatureKey:     getEnv("SQUARE_SIGNATURE_KEY", ""),
		WebhookNotificationURL: getEnv("WEBHOOK_NOTIFICATION_URL", ""),
		CompletedState:         getEnv("COMPLETED_STATE", domain.DefaultCompletedState),
		KafkaBrokers:           splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:             getEnv("KAFKA_TOPIC", "cupcount.counter-changes"),
		Environment:            getEnv("ENVIRONMENT", "local"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("parsing REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	timeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", domain.DefaultFetchTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing FETCH_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.FetchTimeout = timeout

	if v := getEnv("REDIS_MASTER_NAME", ""); v != "" {
		cfg.RedisMasterName = v
	}
	if v := getEnv("REDIS_SENTINEL_ADDRS", ""); v != "" {
		cfg.RedisSentinelAddrs = splitList(v)
	}
	if v := getEnv("REDIS_CLUSTER_ADDRS", ""); v != "" {
		cfg.RedisClusterAddrs = splitList(v)
	}

	switch cfg.StoreBackend {
	case BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	items, err := trackedItems()
	if err != nil {
		return nil, err
	}
	cfg.TrackedItems = items

	return cfg, nil
}

// trackedItems resolves the allow-list: TRACKED_ITEMS_FILE wins over
// TRACKED_ITEMS, which wins over the built-in menu.
func trackedItems() ([]string, error) {
	if path := getEnv("TRACKED_ITEMS_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading tracked items file: %w", err)
		}
		var f trackedItemsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing tracked items file %s: %w", path, err)
		}
		if len(f.Items) == 0 {
			return nil, fmt.Errorf("tracked items file %s lists no items", path)
		}
		return f.Items, nil
	}
	if v := getEnv("TRACKED_ITEMS", ""); v != "" {
		return splitList(v), nil
	}
	return append([]string(nil), DefaultTrackedItems...), nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
