// Package instrumentation provides OpenTelemetry metrics and tracing for the
// sync pipeline.
//
// The Provider wires meter and tracer providers with configurable exporters
// (Prometheus, OTLP, stdout) and exposes a Metrics recorder covering sync
// runs, per-email processing outcomes, calendar insert attempts, HTTP
// requests, and MCP tool invocations.
//
// Configuration comes from environment variables via DefaultConfig:
//
//	INSTRUMENTATION_ENABLED      enable/disable all instrumentation (default: true)
//	METRICS_EXPORTER             prometheus, otlp, stdout (default: prometheus)
//	TRACING_EXPORTER             otlp, stdout, none (default: none)
//	OTEL_EXPORTER_OTLP_ENDPOINT  collector endpoint for the otlp exporters
//	OTEL_TRACES_SAMPLER_ARG      trace sampling rate (default: 0.1)
//	METRICS_DETAILED_LABELS      include account labels (default: false)
//
// Metric label values are bounded: per-email outcomes and run statuses come
// from a fixed set of constants, and the account label is only emitted when
// detailed labels are explicitly enabled.
package instrumentation
