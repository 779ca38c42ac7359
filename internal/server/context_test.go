package server

import (
	"testing"
)

func TestServerContext_Service(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.Service() == nil {
		t.Fatal("Service() returned nil")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.IsShutdown() {
		t.Error("new context reports shutdown")
	}

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown()")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context not cancelled after Shutdown()")
	}

	// Second shutdown is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestServerContext_MetricsUnsetByDefault(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.Metrics() != nil {
		t.Error("expected nil metrics before SetMetrics")
	}
	if sc.AuditLogger() != nil {
		t.Error("expected nil audit logger before SetAuditLogger")
	}
}
