package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/autotask/internal/instrumentation"
	"github.com/teemow/autotask/internal/logging"
	"github.com/teemow/autotask/internal/server"
	"github.com/teemow/autotask/internal/tools/sync_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// startupTimeout bounds how long serve waits for a listener to bind.
const startupTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		opts      pipelineOptions
		debugMode bool
		transport string
		httpAddr  string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync pipeline as a long-running service",
		Long: `Run the email-to-task pipeline as a service.

Supports multiple transport types:
  - http: HTTP API exposing POST /sync/gmail (default)
  - stdio: MCP (Model Context Protocol) server over standard input/output,
    providing the gmail_sync tool for AI assistants

Each request (or tool invocation) triggers one synchronous sync pass and
returns the full sync result. Prometheus metrics are served on a dedicated
port when the HTTP transport is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvDefaults(cmd, &opts)
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			return runServe(transport, httpAddr, opts, debugMode, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "http", "Transport type: http or stdio")
	cmd.Flags().StringVar(&httpAddr, "http-addr", server.DefaultAddr, "HTTP server address (for http transport)")
	cmd.Flags().StringVar(&opts.account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&opts.calendarID, "calendar-id", "primary", "Calendar to create events on")
	cmd.Flags().Int64Var(&opts.batchSize, "batch-size", 0, "Number of unread messages to process per run (default 10)")
	cmd.Flags().Float64Var(&opts.threshold, "auto-create-threshold", 0, "Confidence a task must strictly exceed for automatic calendar event creation (default 0.8)")
	cmd.Flags().BoolVar(&opts.markRead, "mark-read", false, "Mark messages that produced a task as read")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport, httpAddr string, opts pipelineOptions, debugMode bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			metricsConfig.Enabled = true
		}
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	logger := logging.NewLogger(debugMode)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	orch, err := buildOrchestrator(shutdownCtx, opts, logger)
	if err != nil {
		return err
	}
	orch.SetMetrics(provider.Metrics())

	switch transport {
	case "stdio":
		return runStdioServer(orch, provider)
	case "http":
		return runHTTPServer(shutdownCtx, orch, httpAddr, provider, metricsConfig, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: http, stdio)", transport)
	}
}

// runStdioServer serves the pipeline as MCP tools over stdio.
func runStdioServer(runner sync_tools.SyncRunner, provider *instrumentation.Provider) error {
	mcpSrv := mcpserver.NewMCPServer("autotask", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := sync_tools.RegisterSyncTools(mcpSrv, runner, provider.Metrics()); err != nil {
		return fmt.Errorf("failed to register sync tools: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// runHTTPServer serves the sync API, plus Prometheus metrics on a dedicated
// port, until the shutdown context fires.
func runHTTPServer(ctx context.Context, runner server.SyncRunner, httpAddr string, provider *instrumentation.Provider, metricsConfig MetricsConfig, logger *slog.Logger) error {
	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(startupTimeout):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	syncServer, err := server.NewSyncServer(runner, httpAddr, logger)
	if err != nil {
		return fmt.Errorf("failed to create sync server: %w", err)
	}
	syncServer.SetMetrics(provider.Metrics())

	syncReady := make(chan struct{})
	syncErr := make(chan error, 1)
	go func() {
		if err := syncServer.Start(syncReady); err != nil && err != http.ErrServerClosed {
			syncErr <- err
		}
		close(syncErr)
	}()

	select {
	case <-syncReady:
		log.Printf("Sync server started on %s", syncServer.Addr())
	case err := <-syncErr:
		return fmt.Errorf("sync server failed to start: %w", err)
	case <-time.After(startupTimeout):
		return fmt.Errorf("sync server startup timed out")
	}

	// Block until a shutdown signal arrives
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	if err := syncServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during sync server shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during metrics server shutdown: %v", err)
		}
	}

	return nil
}
