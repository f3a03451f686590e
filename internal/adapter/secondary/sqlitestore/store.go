package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

//go:embed schema.sql
var schemaSQL string

// Counter implements secondary.CounterStore on a SQLite row keyed by name.
// SQLite serializes writers, and each mutation is a single statement.
type Counter struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
}

// Open creates or opens the database at path and applies pragmas and schema.
//
// The database is configured with:
//   - WAL mode so readers do not block the writer
//   - a 5-second busy timeout for lock contention
//   - a single open connection
//   - write transactions that take the lock on BEGIN
func Open(path, name string, logger *zap.Logger) (*Counter, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.Info("sqlite counter store opened", zap.String("path", path))

	return &Counter{
		db:     db,
		name:   name,
		logger: logger.Named("sqlite-counter"),
	}, nil
}

// NewCounter adapts Open to the CounterStore port.
func NewCounter(path, name string, logger *zap.Logger) (secondary.CounterStore, error) {
	c, err := Open(path, name, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Init inserts the row with value 0 unless it already exists.
func (c *Counter) Init(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 0) ON CONFLICT (name) DO NOTHING`, c.name)
	if err != nil {
		return fmt.Errorf("initializing counter %q: %w", c.name, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		c.logger.Info("counter created", zap.String("name", c.name))
	}
	return nil
}

// Get returns the stored value, or 0 when the row is missing.
func (c *Counter) Get(ctx context.Context) (int64, error) {
	var value int64
	err := c.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, c.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading counter %q: %w", c.name, err)
	}
	return value, nil
}

// Set upserts the row with value and returns the value it replaced. The
// read and the write share one immediate transaction.
func (c *Counter) Set(ctx context.Context, value int64) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("writing counter %q: %w", c.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var previous int64
	err = tx.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, c.name).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("reading counter %q: %w", c.name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		c.name, value)
	if err != nil {
		return 0, fmt.Errorf("writing counter %q: %w", c.name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing counter %q: %w", c.name, err)
	}
	return previous, nil
}

// Increment adds delta in one upsert statement and returns the new value.
func (c *Counter) Increment(ctx context.Context, delta int64) (int64, error) {
	var value int64
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value = value + excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		RETURNING value`,
		c.name, delta).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("incrementing counter %q: %w", c.name, err)
	}
	return value, nil
}

// Close closes the database connection.
func (c *Counter) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// HealthCheck implements secondary.HealthChecker for the SQLite store.
type HealthCheck struct {
	db *sql.DB
}

// NewHealthCheck creates a health checker sharing the counter's connection.
func NewHealthCheck(c *Counter) secondary.HealthChecker {
	return &HealthCheck{db: c.db}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "sqlite"
}

// Check pings the database.
func (h *HealthCheck) Check(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
