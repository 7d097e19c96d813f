// Package server provides the HTTP surfaces of the sync service.
//
// SyncServer exposes the email-to-task pipeline at /sync/gmail. Each request
// triggers one synchronous pipeline run and returns the resulting tasks as
// JSON. Collaborator outages (Gmail unreachable, no valid token) map to
// 502 Bad Gateway; malformed parameters to 400.
//
// Health check endpoints (/healthz, /readyz, /healthz/detailed) support
// Kubernetes liveness and readiness probes. Prometheus metrics are served on
// a dedicated port by MetricsServer to keep operational data off the API
// listener.
package server
