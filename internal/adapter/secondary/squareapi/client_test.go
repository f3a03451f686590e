package squareapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		SquareBaseURL:  server.URL,
		SquareToken:    "secret-token",
		SquareVersion:  "2024-01-18",
		FetchTimeout:   2 * time.Second,
		CompletedState: "COMPLETED",
	}
	return NewClient(cfg, zap.NewNop()).(*Client)
}

func TestClient_FetchOrder_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/orders/order-123", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-18", r.Header.Get("Square-Version"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"order": {
				"id": "order-123",
				"location_id": "L1",
				"state": "COMPLETED",
				"line_items": [
					{"uid": "a", "name": "Latte", "quantity": "3"},
					{"uid": "b", "name": "Mocha", "quantity": "1"}
				]
			}
		}`))
	})

	order, err := client.FetchOrder(context.Background(), "order-123")
	require.NoError(t, err)
	assert.Equal(t, "order-123", order.ID)
	assert.Equal(t, "L1", order.LocationID)
	assert.Equal(t, "COMPLETED", order.State)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, "Latte", order.LineItems[0].Name)
	assert.Equal(t, "3", order.LineItems[0].Quantity)
}

func TestClient_FetchOrder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"errors":[{"code":"NOT_FOUND"}]}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "success without order object",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "success with invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.FetchOrder(context.Background(), "order-123")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrFetchFailed), "expected ErrFetchFailed, got %v", err)
		})
	}
}

func TestClient_FetchOrder_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClient(&config.Config{SquareBaseURL: baseURL, FetchTimeout: time.Second}, zap.NewNop())
	_, err := client.FetchOrder(context.Background(), "order-123")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestClient_FetchOrder_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(&config.Config{SquareBaseURL: server.URL, FetchTimeout: 50 * time.Millisecond}, zap.NewNop())
	_, err := client.FetchOrder(context.Background(), "order-123")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestClient_SearchCompletedOrders_Paginates(t *testing.T) {
	var requests []searchOrdersRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/orders/search", r.URL.Path)

		var req searchOrdersRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		switch req.Cursor {
		case "":
			w.Write([]byte(`{"orders":[{"id":"o1","state":"COMPLETED","line_items":[{"name":"Latte","quantity":"2"}]}],"cursor":"page-2"}`))
		case "page-2":
			w.Write([]byte(`{"orders":[{"id":"o2","state":"COMPLETED","line_items":[{"name":"Mocha","quantity":"1"}]}]}`))
		default:
			t.Errorf("unexpected cursor %q", req.Cursor)
		}
	})

	orders, err := client.SearchCompletedOrders(context.Background(), []string{"L1"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "o2", orders[1].ID)

	require.Len(t, requests, 2)
	assert.Equal(t, []string{"L1"}, requests[0].LocationIDs)
	assert.Equal(t, []string{"COMPLETED"}, requests[0].Query.Filter.StateFilter.States)
	assert.Equal(t, "page-2", requests[1].Cursor)
}

func TestClient_SearchCompletedOrders_RepeatedCursor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"orders":[],"cursor":"stuck"}`))
	})

	_, err := client.SearchCompletedOrders(context.Background(), []string{"L1"})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestClient_SearchCompletedOrders_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SearchCompletedOrders(context.Background(), []string{"L1"})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}
