package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

func TestBuildContainer_sqliteBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cupcount.db"))
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("TRACKED_ITEMS", "Latte,Mocha")
	t.Setenv("ENVIRONMENT", "test")

	ctx := context.Background()
	c, err := buildContainer(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Decorate(func(prometheus.Registerer) prometheus.Registerer {
		return prometheus.NewRegistry()
	}))

	err = c.Invoke(func(
		svc primary.CounterService,
		store secondary.CounterStore,
		s *storage,
		router http.Handler,
	) error {
		defer s.Close()

		require.NoError(t, store.Init(ctx))

		stored, err := svc.Set(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), stored)

		value, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), value)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sqlite")
		return nil
	})
	require.NoError(t, err)
}
