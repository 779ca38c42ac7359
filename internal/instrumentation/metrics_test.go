package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}
	return metrics
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	metrics := newTestMetrics(t)
	ctx := context.Background()

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "GET /tasks", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "POST /tasks", 400, 50*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "DELETE", "DELETE /tasks/{id}", 404, 10*time.Millisecond)
}

func TestMetrics_RecordStoreOperation(t *testing.T) {
	metrics := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordStoreOperation(ctx, OperationCreate, StatusSuccess, 5*time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationList, StatusSuccess, 2*time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationDelete, StatusError, time.Millisecond)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	metrics := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordToolInvocation(ctx, "create_task", StatusSuccess, 5*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "get_task", StatusError, time.Millisecond)
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	// A zero-value Metrics (from a disabled provider) must swallow all
	// recordings without panicking.
	metrics := &Metrics{}
	ctx := context.Background()

	metrics.RecordHTTPRequest(ctx, "GET", "GET /tasks", 200, time.Millisecond)
	metrics.RecordStoreOperation(ctx, OperationGet, StatusSuccess, time.Millisecond)
	metrics.RecordToolInvocation(ctx, "list_tasks", StatusSuccess, time.Millisecond)
}
