package service

import (
	"context"
	"sync"
	"time"

	"github.com/ruudy-sib/cupcount/internal/domain/entity"
)

// mockStore implements secondary.CounterStore in memory for testing.
type mockStore struct {
	mu    sync.Mutex
	value int64

	getErr       error
	setErr       error
	incrementErr error

	incrementCalls int
	setCalls       int
	getCalls       int
}

func (m *mockStore) Init(_ context.Context) error {
	return nil
}

func (m *mockStore) Get(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.value, nil
}

func (m *mockStore) Set(_ context.Context, value int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return 0, m.setErr
	}
	previous := m.value
	m.value = value
	return previous, nil
}

func (m *mockStore) Increment(_ context.Context, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCalls++
	if m.incrementErr != nil {
		return 0, m.incrementErr
	}
	m.value += delta
	return m.value, nil
}

func (m *mockStore) Close() error {
	return nil
}

// mockFetcher implements secondary.OrderFetcher for testing.
type mockFetcher struct {
	fetchFunc  func(ctx context.Context, orderID string) (*entity.Order, error)
	searchFunc func(ctx context.Context, locationIDs []string) ([]entity.Order, error)

	fetchCalls []string
}

func (m *mockFetcher) FetchOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	m.fetchCalls = append(m.fetchCalls, orderID)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, orderID)
	}
	return testOrder(orderID), nil
}

func (m *mockFetcher) SearchCompletedOrders(ctx context.Context, locationIDs []string) ([]entity.Order, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, locationIDs)
	}
	return nil, nil
}

// mockPublisher implements secondary.EventPublisher for testing.
type mockPublisher struct {
	publishErr error
	changes    []entity.CounterChange
}

func (m *mockPublisher) PublishCounterChange(_ context.Context, change entity.CounterChange) error {
	m.changes = append(m.changes, change)
	return m.publishErr
}

func (m *mockPublisher) Close() error {
	return nil
}

// mockMetrics implements secondary.Metrics for testing.
type mockMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	value    int64
	fetches  int
}

func (m *mockMetrics) WebhookOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *mockMetrics) CounterValue(value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
}

func (m *mockMetrics) OrderFetch(_ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
}

// testEvent returns a payment.created event fixture.
func testEvent() *entity.WebhookEvent {
	return &entity.WebhookEvent{
		ID:         "evt-1",
		Type:       "payment.created",
		MerchantID: "merchant-1",
		OrderID:    "order-1",
		LocationID: "loc-1",
	}
}

// testOrder returns a completed order with two tracked items (3 + 1) and one untracked.
func testOrder(id string) *entity.Order {
	return &entity.Order{
		ID:         id,
		LocationID: "loc-1",
		State:      "COMPLETED",
		LineItems: []entity.LineItem{
			{Name: "Latte", Quantity: "3"},
			{Name: "Mocha", Quantity: "1"},
			{Name: "Croissant", Quantity: "2"},
		},
	}
}
