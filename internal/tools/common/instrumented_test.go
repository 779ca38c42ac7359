package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/taskfewer/internal/instrumentation"
	"github.com/teemow/taskfewer/internal/server"
	"github.com/teemow/taskfewer/internal/task"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()

	store := task.NewFileStore(filepath.Join(t.TempDir(), "tasks.json"), nil)
	sc := server.NewServerContext(context.Background(), task.NewService(store))
	t.Cleanup(func() {
		_ = sc.Shutdown()
	})
	return sc
}

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestTaskIDFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{name: "present", args: map[string]interface{}{"id": "abc-123"}, want: "abc-123"},
		{name: "absent", args: map[string]interface{}{}, want: ""},
		{name: "nil args", args: nil, want: ""},
		{name: "non-string", args: map[string]interface{}{"id": 42}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaskIDFromArgs(tt.args); got != tt.want {
				t.Errorf("TaskIDFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	ctx := context.Background()
	sc := newTestContext(t)

	// Create a handler that returns success
	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", instrumentation.OperationGet, sc, handler)

	result, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	ctx := context.Background()
	sc := newTestContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	wrapped := InstrumentedToolHandler("test_tool", instrumentation.OperationGet, sc, handler)

	_, err := wrapped(ctx, mcp.CallToolRequest{})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	ctx := context.Background()
	sc := newTestContext(t)

	// An error result is a soft failure, not a Go error
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("error message"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", instrumentation.OperationGet, sc, handler)

	result, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil {
		t.Fatal("expected result, got nil")
	}
	if !result.IsError {
		t.Error("expected result.IsError to be true")
	}
}

func TestInstrumentedToolHandler_AuditLogging(t *testing.T) {
	ctx := context.Background()
	sc := newTestContext(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sc.SetAuditLogger(instrumentation.NewAuditLogger(logger))

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandler("get_task", instrumentation.OperationGet, sc, handler)

	_, err := wrapped(ctx, requestWithArgs(map[string]interface{}{"id": "abc-123"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "tool_executed") {
		t.Errorf("expected audit log entry, got %q", out)
	}
	if !strings.Contains(out, "tool=get_task") {
		t.Errorf("expected tool name in audit log, got %q", out)
	}
	if !strings.Contains(out, "task_id=abc-123") {
		t.Errorf("expected task id in audit log, got %q", out)
	}
}

func TestInstrumentedToolHandler_AuditLogsFailure(t *testing.T) {
	ctx := context.Background()
	sc := newTestContext(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sc.SetAuditLogger(instrumentation.NewAuditLogger(logger))

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Task not found: abc"), nil
	}

	wrapped := InstrumentedToolHandler("get_task", instrumentation.OperationGet, sc, handler)

	_, err := wrapped(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "tool_failed") {
		t.Errorf("expected failure audit entry, got %q", buf.String())
	}
}
