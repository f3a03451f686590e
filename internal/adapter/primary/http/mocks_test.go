package http

import (
	"context"
	"sync"
	"time"

	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// mockWebhookService implements primary.WebhookService for testing.
type mockWebhookService struct {
	result *entity.WebhookResult
	err    error
	events []*entity.WebhookEvent
}

func (m *mockWebhookService) HandleEvent(_ context.Context, event *entity.WebhookEvent) (*entity.WebhookResult, error) {
	m.events = append(m.events, event)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &entity.WebhookResult{Outcome: entity.OutcomeIgnored}, nil
}

// mockCounterService implements primary.CounterService for testing.
type mockCounterService struct {
	value  int64
	getErr error
	setErr error
	sets   []int64
}

func (m *mockCounterService) Current(_ context.Context) (int64, error) {
	return m.value, m.getErr
}

func (m *mockCounterService) Set(_ context.Context, value int64) (int64, error) {
	m.sets = append(m.sets, value)
	if m.setErr != nil {
		return 0, m.setErr
	}
	m.value = value
	return value, nil
}

// mockReportService implements primary.ReportService for testing.
type mockReportService struct {
	tally map[string]int64
	err   error
}

func (m *mockReportService) ItemsSold(_ context.Context) (map[string]int64, error) {
	return m.tally, m.err
}

// mockMetrics records what the HTTP layer reports.
type mockMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	requests []string
}

func (m *mockMetrics) WebhookOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *mockMetrics) CounterValue(int64) {}

func (m *mockMetrics) OrderFetch(time.Duration, error) {}

func (m *mockMetrics) ObserveRequest(method, route string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, method+" "+route)
}

func (m *mockMetrics) outcome(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[name]
}

// mockHealthCheck is a test double for health checks.
type mockHealthCheck struct {
	name string
	err  error
}

func (m mockHealthCheck) Name() string { return m.name }

func (m mockHealthCheck) Check(_ context.Context) error { return m.err }

// Compile-time interface assertions
var (
	_ secondary.HealthChecker = mockHealthCheck{}
	_ Metrics                 = (*mockMetrics)(nil)
)
