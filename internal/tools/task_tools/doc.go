// Package task_tools provides MCP tools for managing tasks.
//
// This package implements MCP (Model Context Protocol) tools that wrap the
// task service, exposing the same five operations as the REST adapter to
// AI assistants.
//
// # Available Tools
//
//   - create_task: Create a new task
//   - list_tasks: List all tasks
//   - get_task: Get details of a specific task
//   - complete_task: Mark a task as completed
//   - delete_task: Delete a task
//
// Each tool returns a human-readable text result embedding the relevant
// record(s) as indented JSON. Failures (missing arguments, unknown ids,
// persistence errors) are reported as error-flagged tool results rather
// than protocol errors, so the calling agent can read and react to them.
package task_tools
