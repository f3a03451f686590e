package squareapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

const maxResponseBytes = 4 << 20

// Client implements secondary.OrderFetcher against the Square Orders API.
type Client struct {
	client         *http.Client
	baseURL        string
	token          string
	version        string
	completedState string
	logger         *zap.Logger
}

// NewClient creates an order API client whose requests are bounded by cfg.FetchTimeout.
func NewClient(cfg *config.Config, logger *zap.Logger) secondary.OrderFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = domain.DefaultFetchTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	completed := cfg.CompletedState
	if completed == "" {
		completed = domain.DefaultCompletedState
	}

	logger.Info("square api client initialized",
		zap.String("base_url", cfg.SquareBaseURL),
		zap.Duration("timeout", client.Timeout),
	)

	return &Client{
		client:         client,
		baseURL:        cfg.SquareBaseURL,
		token:          cfg.SquareToken,
		version:        cfg.SquareVersion,
		completedState: completed,
		logger:         logger.Named("square-api"),
	}
}

// FetchOrder retrieves one order by id.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	endpoint := c.baseURL + "/v2/orders/" + url.PathEscape(orderID)

	var resp retrieveOrderResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("%w: response for order %s has no order object", domain.ErrFetchFailed, orderID)
	}

	order := resp.Order.toEntity()
	c.logger.Debug("order fetched",
		zap.String("order_id", orderID),
		zap.String("state", order.State),
		zap.Int("line_items", len(order.LineItems)),
	)
	return order, nil
}

// SearchCompletedOrders pages through every completed order at the given locations.
func (c *Client) SearchCompletedOrders(ctx context.Context, locationIDs []string) ([]entity.Order, error) {
	endpoint := c.baseURL + "/v2/orders/search"
	req := searchOrdersRequest{
		LocationIDs: locationIDs,
		Limit:       domain.SearchPageLimit,
		Query: searchQuery{Filter: searchFilter{
			StateFilter: stateFilter{States: []string{c.completedState}},
		}},
	}

	var orders []entity.Order
	seen := make(map[string]struct{})
	for page := 1; ; page++ {
		body, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshaling search request: %w", err)
		}

		var resp searchOrdersResponse
		if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Orders {
			orders = append(orders, *resp.Orders[i].toEntity())
		}

		c.logger.Debug("order search page fetched",
			zap.Int("page", page),
			zap.Int("orders", len(resp.Orders)),
		)

		if resp.Cursor == "" {
			return orders, nil
		}
		if _, dup := seen[resp.Cursor]; dup {
			return nil, fmt.Errorf("%w: search cursor %q repeated", domain.ErrFetchFailed, resp.Cursor)
		}
		seen[resp.Cursor] = struct{}{}
		req.Cursor = resp.Cursor
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", domain.ErrFetchFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.version != "" {
		req.Header.Set("Square-Version", c.version)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrFetchFailed, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("square api returned non-success status",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", data),
		)
		return fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrFetchFailed, err)
	}
	return nil
}
