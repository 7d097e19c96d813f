package instrumentation

import (
	"context"
	"testing"
)

func TestNewProvider_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	provider, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if provider.Metrics() == nil {
		t.Error("Metrics() = nil, want no-op recorder")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("PrometheusHandler() should be nil when disabled")
	}

	// No-op recorder must be safe to use
	provider.Metrics().RecordEmailProcessed(context.Background(), OutcomeTask)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_Prometheus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = ExporterPrometheus
	cfg.TracingExporter = ExporterNone

	provider, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	if !provider.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	if provider.Metrics() == nil {
		t.Error("Metrics() = nil, want recorder")
	}
	if provider.PrometheusHandler() == nil {
		t.Error("PrometheusHandler() = nil, want prometheus exporter")
	}
	if provider.Tracer("test") == nil {
		t.Error("Tracer() = nil, want tracer")
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = "graphite"

	_, err := NewProvider(context.Background(), cfg)
	if err == nil {
		t.Fatal("NewProvider() expected error for unsupported exporter, got nil")
	}
}

func TestNewProvider_OTLPRequiresEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = ExporterOTLP
	cfg.OTLPEndpoint = ""

	_, err := NewProvider(context.Background(), cfg)
	if err == nil {
		t.Fatal("NewProvider() expected error for OTLP without endpoint, got nil")
	}
}
