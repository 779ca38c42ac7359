// Package server provides the serving infrastructure shared by both
// transport adapters: the ServerContext that carries the task service and
// instrumentation through the process, the HTTP REST adapter for the five
// task operations, health check endpoints for liveness/readiness probes,
// and a dedicated metrics server exposing Prometheus metrics.
package server
