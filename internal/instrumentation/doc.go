// Package instrumentation provides OpenTelemetry-based observability for
// taskfewer: metrics, optional tracing, and audit logging of MCP tool
// invocations.
//
// The Provider owns the meter and tracer providers and is configured through
// Config (environment-driven via DefaultConfig). Metrics are exported through
// Prometheus by default; OTLP and stdout exporters are available for
// collector-based or development setups. Tracing is disabled by default.
//
// The Metrics recorder exposes three instrument families:
//   - HTTP requests served by the REST adapter
//   - store operations performed by the task service
//   - MCP tool invocations
//
// Audit logging records every tool invocation through slog with trace
// correlation when tracing is enabled.
package instrumentation
