package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewToolInvocation(t *testing.T) {
	before := time.Now()
	ti := NewToolInvocation("create_task")
	after := time.Now()

	if ti.Tool != "create_task" {
		t.Errorf("Tool = %q, want %q", ti.Tool, "create_task")
	}
	if ti.StartTime.Before(before) || ti.StartTime.After(after) {
		t.Error("StartTime not within expected window")
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation("get_task").
		WithTaskID("abc-123").
		WithOperation(OperationGet)

	if ti.TaskID != "abc-123" {
		t.Errorf("TaskID = %q, want %q", ti.TaskID, "abc-123")
	}
	if ti.Operation != OperationGet {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationGet)
	}
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("delete_task")
	time.Sleep(time.Millisecond)

	ti.Complete(true, nil)

	if !ti.Success {
		t.Error("expected Success to be true")
	}
	if ti.Duration <= 0 {
		t.Error("expected positive duration")
	}
	if ti.Error != "" {
		t.Errorf("expected empty Error, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("delete_task").CompleteWithError(errors.New("boom"))

	if ti.Success {
		t.Error("expected Success to be false")
	}
	if ti.Error != "boom" {
		t.Errorf("Error = %q, want %q", ti.Error, "boom")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_Status(t *testing.T) {
	success := NewToolInvocation("list_tasks").CompleteSuccess()
	if success.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", success.Status(), StatusSuccess)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("complete_task").
		WithTaskID("abc-123").
		WithOperation(OperationComplete).
		CompleteSuccess()

	attrs := ti.LogAttrs()

	keys := make(map[string]bool)
	for _, attr := range attrs {
		keys[attr.Key] = true
	}

	for _, want := range []string{"tool", "duration", "success", "task_id", "operation"} {
		if !keys[want] {
			t.Errorf("LogAttrs() missing key %q", want)
		}
	}

	// No trace context means no trace attributes
	if keys["trace_id"] || keys["span_id"] {
		t.Error("LogAttrs() should omit trace attributes without a span")
	}
}

func TestToolInvocation_WithSpanContextNoSpan(t *testing.T) {
	ti := NewToolInvocation("get_task").WithSpanContext(context.Background())

	if ti.TraceID != "" || ti.SpanID != "" {
		t.Error("expected empty trace context without an active span")
	}
}

func auditLoggerForBuffer(buf *bytes.Buffer, enabled bool) *AuditLogger {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: enabled})
}

func TestAuditLogger_LogToolInvocationSuccess(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForBuffer(&buf, true)

	al.LogToolInvocation(NewToolInvocation("create_task").CompleteSuccess())

	out := buf.String()
	if !strings.Contains(out, "tool_executed") {
		t.Errorf("expected 'tool_executed' in log output, got %q", out)
	}
	if !strings.Contains(out, "tool=create_task") {
		t.Errorf("expected tool attribute in log output, got %q", out)
	}
}

func TestAuditLogger_LogToolInvocationFailure(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForBuffer(&buf, true)

	al.LogToolInvocation(NewToolInvocation("get_task").CompleteWithError(errors.New("not found")))

	out := buf.String()
	if !strings.Contains(out, "tool_failed") {
		t.Errorf("expected 'tool_failed' in log output, got %q", out)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("expected error message in log output, got %q", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForBuffer(&buf, false)

	al.LogToolInvocation(NewToolInvocation("create_task").CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestAuditLogger_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForBuffer(&buf, false)

	al.SetEnabled(true)
	al.LogToolInvocation(NewToolInvocation("create_task").CompleteSuccess())

	if buf.Len() == 0 {
		t.Error("expected output after SetEnabled(true)")
	}
}
