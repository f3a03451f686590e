package prommetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.WebhookOutcome("counted")
	m.WebhookOutcome("counted")
	m.WebhookOutcome("ignored")
	m.CounterValue(42)
	m.OrderFetch(20*time.Millisecond, nil)
	m.OrderFetch(5*time.Millisecond, errors.New("boom"))
	m.ObserveRequest("POST", "/webhook", 200, 30*time.Millisecond)

	if got := testutil.ToFloat64(m.webhookEvents.WithLabelValues("counted")); got != 2 {
		t.Fatalf("expected 2 counted, got %v", got)
	}
	if got := testutil.ToFloat64(m.webhookEvents.WithLabelValues("ignored")); got != 1 {
		t.Fatalf("expected 1 ignored, got %v", got)
	}
	if got := testutil.ToFloat64(m.counterValue); got != 42 {
		t.Fatalf("expected gauge 42, got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/webhook", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.CollectAndCount(m.fetchDuration); got != 2 {
		t.Fatalf("expected 2 fetch series, got %d", got)
	}
}

func TestNew_doubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatal("expected duplicate registration error, got nil")
	}
}
