package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/autotask/internal/calendar"
	"github.com/teemow/autotask/internal/gmail"
	"github.com/teemow/autotask/internal/logging"
	"github.com/teemow/autotask/internal/pipeline"
)

// dryRunThreshold keeps every accepted task below the auto-create gate.
// Confidence is capped below 1.0, so nothing ever crosses it.
const dryRunThreshold = 1.0

// pipelineOptions collects the flags shared by the sync and serve commands.
type pipelineOptions struct {
	account    string
	calendarID string
	batchSize  int64
	threshold  float64
	markRead   bool
	dryRun     bool
}

// applyEnvDefaults fills pipeline options from environment variables for
// flags the user did not set explicitly.
func applyEnvDefaults(cmd *cobra.Command, opts *pipelineOptions) {
	if !cmd.Flags().Changed("batch-size") {
		if v := os.Getenv("AUTOTASK_BATCH_SIZE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				opts.batchSize = n
			}
		}
	}
	if !cmd.Flags().Changed("auto-create-threshold") {
		if v := os.Getenv("AUTOTASK_AUTO_CREATE_THRESHOLD"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				opts.threshold = f
			}
		}
	}
}

// buildOrchestrator wires the Gmail and Calendar collaborators into a
// pipeline orchestrator.
func buildOrchestrator(ctx context.Context, opts pipelineOptions, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	if !gmail.HasTokenForAccount(opts.account) {
		return nil, fmt.Errorf("no Google OAuth token stored for account %s", opts.account)
	}
	logger = logging.WithAccount(logger, opts.account)

	mailClient, err := gmail.NewClientForAccount(ctx, opts.account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", opts.account, err)
	}

	calClient, err := calendar.NewClientForAccount(ctx, opts.account, opts.calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", opts.account, err)
	}

	cfg := pipeline.Config{
		BatchSize:           opts.batchSize,
		AutoCreateThreshold: opts.threshold,
		MarkProcessedRead:   opts.markRead,
	}
	if opts.dryRun {
		cfg.AutoCreateThreshold = dryRunThreshold
		cfg.MarkProcessedRead = false
	}

	return pipeline.NewOrchestrator(mailClient, calClient, cfg, logger), nil
}

func newSyncCmd() *cobra.Command {
	var (
		opts       pipelineOptions
		maxResults int64
		debugMode  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass over unread Gmail messages",
		Long: `Scan unread messages in the Gmail inbox, extract actionable tasks, and
create Google Calendar events for tasks whose confidence clears the
auto-create threshold. Lower-confidence tasks are reported with status
pending_review for manual triage.

The sync result is written to stdout as JSON.

With --dry-run no calendar events are created and no messages are marked
read; every accepted task is reported as pending_review.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := logging.NewLogger(debugMode)

			applyEnvDefaults(cmd, &opts)
			orch, err := buildOrchestrator(ctx, opts, logger)
			if err != nil {
				return err
			}

			result, err := orch.Run(ctx, maxResults)
			if err != nil {
				return fmt.Errorf("sync run failed: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&opts.account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&opts.calendarID, "calendar-id", "primary", "Calendar to create events on")
	cmd.Flags().Int64Var(&opts.batchSize, "batch-size", pipeline.DefaultBatchSize, "Number of unread messages to process per run")
	cmd.Flags().Float64Var(&opts.threshold, "auto-create-threshold", pipeline.DefaultAutoCreateThreshold, "Confidence a task must strictly exceed for automatic calendar event creation")
	cmd.Flags().BoolVar(&opts.markRead, "mark-read", false, "Mark messages that produced a task as read")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Extract and validate only; do not create events or mark messages read")
	cmd.Flags().Int64Var(&maxResults, "max-results", 0, "Override the batch size for this run (0 uses --batch-size)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}
