package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod  = "method"
	attrPath    = "path"
	attrStatus  = "status"
	attrOutcome = "outcome"
	attrResult  = "result"
	attrTool    = "tool"
	attrAccount = "account"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Sync pipeline metrics
	syncRunsTotal        metric.Int64Counter
	syncRunDuration      metric.Float64Histogram
	emailsProcessedTotal metric.Int64Counter
	calendarInsertsTotal metric.Int64Counter

	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Sync pipeline metrics
	m.syncRunsTotal, err = meter.Int64Counter(
		"sync_runs_total",
		metric.WithDescription("Total number of sync runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync_runs_total counter: %w", err)
	}

	m.syncRunDuration, err = meter.Float64Histogram(
		"sync_run_duration_seconds",
		metric.WithDescription("Sync run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync_run_duration_seconds histogram: %w", err)
	}

	m.emailsProcessedTotal, err = meter.Int64Counter(
		"emails_processed_total",
		metric.WithDescription("Total number of emails processed, by outcome"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create emails_processed_total counter: %w", err)
	}

	m.calendarInsertsTotal, err = meter.Int64Counter(
		"calendar_inserts_total",
		metric.WithDescription("Total number of calendar event insert attempts"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_inserts_total counter: %w", err)
	}

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordSyncRun records a completed sync run with its result status and duration.
// Status should be one of: "ok", "partial", "failed"
func (m *Metrics) RecordSyncRun(ctx context.Context, status string, duration time.Duration) {
	if m.syncRunsTotal == nil || m.syncRunDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.syncRunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.syncRunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordEmailProcessed records the outcome of processing a single email.
// Outcome should be one of: "skipped_malformed", "no_intent", "rejected", "task"
func (m *Metrics) RecordEmailProcessed(ctx context.Context, outcome string) {
	if m.emailsProcessedTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOutcome, outcome),
	}

	m.emailsProcessedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCalendarInsert records a calendar event insert attempt with result.
// Result should be one of: "success", "error"
func (m *Metrics) RecordCalendarInsert(ctx context.Context, result string) {
	if m.calendarInsertsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
	}

	m.calendarInsertsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status,
// and duration. The account label is only added when detailed labels are
// enabled, to keep cardinality bounded.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
