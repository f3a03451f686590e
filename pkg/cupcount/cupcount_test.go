package cupcount_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/pkg/cupcount"
)

func newSquare(t *testing.T) *httptest.Server {
	t.Helper()
	return newSquareWithState(t, "COMPLETED")
}

func newSquareWithState(t *testing.T, state string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"order":{"id":"order-9","location_id":"loc-1","state":"`+state+`",
			"line_items":[{"name":"Latte","quantity":"2"},{"name":"Bagel","quantity":"1"}]}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

const paymentCreated = `{"type":"payment.created","data":{"object":{"payment":{"order_id":"order-9","location_id":"loc-1"}}}}`

func TestNew_partialConfigRequiresCompletedOrders(t *testing.T) {
	tests := []struct {
		name          string
		state         string
		anyOrderState bool
		wantOutcome   string
		wantValue     int64
	}{
		{name: "open order is ignored", state: "OPEN", wantOutcome: "ignored", wantValue: 0},
		{name: "canceled order is ignored", state: "CANCELED", wantOutcome: "ignored", wantValue: 0},
		{name: "completed order is counted", state: "COMPLETED", wantOutcome: "counted", wantValue: 2},
		{name: "any order state counts open orders", state: "OPEN", anyOrderState: true, wantOutcome: "counted", wantValue: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			square := newSquareWithState(t, tt.state)
			ctx := context.Background()

			cc, err := cupcount.New(ctx, &cupcount.Config{
				RedisAddr:      mr.Addr(),
				SquareBaseURL:  square.URL,
				SquareLocation: "loc-1",
				TrackedItems:   []string{"Latte"},
				AnyOrderState:  tt.anyOrderState,
				Logger:         zap.NewNop(),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = cc.Close() })

			rec := httptest.NewRecorder()
			cc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(paymentCreated)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"outcome":"`+tt.wantOutcome+`"`)

			value, err := cc.Value(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestNew_countsWebhook(t *testing.T) {
	mr := miniredis.RunT(t)
	square := newSquare(t)
	ctx := context.Background()

	cc, err := cupcount.New(ctx, &cupcount.Config{
		RedisAddr:      mr.Addr(),
		SquareBaseURL:  square.URL,
		SquareLocation: "loc-1",
		TrackedItems:   []string{"Latte"},
		Logger:         zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	stored, err := mr.Get("counter:total")
	require.NoError(t, err)
	assert.Equal(t, "0", stored, "counter is created on startup")

	rec := httptest.NewRecorder()
	cc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(paymentCreated)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	value, err := cc.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)

	_, err = cc.SetValue(ctx, -3)
	assert.Error(t, err)

	value, err = cc.SetValue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), value)
}

func TestNew_redisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cupcount.New(context.Background(), &cupcount.Config{
		RedisAddr: addr,
		Logger:    zap.NewNop(),
	})
	require.Error(t, err)
}

func TestRegisterWithContainer(t *testing.T) {
	mr := miniredis.RunT(t)

	container := dig.New()
	require.NoError(t, container.Provide(zap.NewNop))
	require.NoError(t, container.Provide(func() *cupcount.Config {
		cfg := cupcount.DefaultConfig()
		cfg.RedisAddr = mr.Addr()
		return cfg
	}))
	require.NoError(t, cupcount.RegisterWithContainer(container))

	err := container.Invoke(func(cc *cupcount.Cupcount) error {
		defer cc.Close()
		rec := httptest.NewRecorder()
		cc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counter", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"value":0}`, rec.Body.String())
		return nil
	})
	require.NoError(t, err)
}
