// Package common provides shared helpers for MCP tool implementations,
// notably the InstrumentedToolHandler wrapper that adds metrics and audit
// logging around tool handlers.
package common
