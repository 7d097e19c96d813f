package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/teemow/autotask/internal/logging"
	"github.com/teemow/autotask/internal/pipeline"
)

func TestSyncCmd_Flags(t *testing.T) {
	cmd := newSyncCmd()

	tests := []struct {
		flag string
		want string
	}{
		{flag: "account", want: "default"},
		{flag: "calendar-id", want: "primary"},
		{flag: "batch-size", want: "10"},
		{flag: "auto-create-threshold", want: "0.8"},
		{flag: "mark-read", want: "false"},
		{flag: "dry-run", want: "false"},
		{flag: "max-results", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag --%s not registered", tt.flag)
			}
			if f.DefValue != tt.want {
				t.Errorf("flag --%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
			}
		})
	}
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := newServeCmd()

	for _, flag := range []string{"transport", "http-addr", "account", "calendar-id", "batch-size", "auto-create-threshold", "mark-read", "metrics-enabled", "metrics-addr", "debug"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}

	if got := cmd.Flags().Lookup("transport").DefValue; got != "http" {
		t.Errorf("flag --transport default = %q, want %q", got, "http")
	}
}

func TestBuildOrchestrator_MissingToken(t *testing.T) {
	// An empty cache dir means no stored token for any account; the
	// orchestrator build must fail before any client construction.
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	opts := pipelineOptions{account: "nosuch", calendarID: "primary"}
	_, err := buildOrchestrator(context.Background(), opts, logging.NewLogger(false))

	if err == nil {
		t.Fatal("buildOrchestrator() expected error without a stored token, got nil")
	}
	if !strings.Contains(err.Error(), "no Google OAuth token stored") {
		t.Errorf("buildOrchestrator() error = %v, should mention the missing token", err)
	}
}

func TestApplyEnvDefaults(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		env           map[string]string
		wantBatch     int64
		wantThreshold float64
	}{
		{
			name:          "env fills unset flags",
			env:           map[string]string{"AUTOTASK_BATCH_SIZE": "25", "AUTOTASK_AUTO_CREATE_THRESHOLD": "0.9"},
			wantBatch:     25,
			wantThreshold: 0.9,
		},
		{
			name:          "explicit flags win over env",
			args:          []string{"--batch-size", "5", "--auto-create-threshold", "0.7"},
			env:           map[string]string{"AUTOTASK_BATCH_SIZE": "25", "AUTOTASK_AUTO_CREATE_THRESHOLD": "0.9"},
			wantBatch:     5,
			wantThreshold: 0.7,
		},
		{
			name:          "invalid env values ignored",
			env:           map[string]string{"AUTOTASK_BATCH_SIZE": "lots", "AUTOTASK_AUTO_CREATE_THRESHOLD": "-1"},
			wantBatch:     pipeline.DefaultBatchSize,
			wantThreshold: pipeline.DefaultAutoCreateThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cmd := newSyncCmd()
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			opts := pipelineOptions{}
			batch, _ := cmd.Flags().GetInt64("batch-size")
			threshold, _ := cmd.Flags().GetFloat64("auto-create-threshold")
			opts.batchSize = batch
			opts.threshold = threshold

			applyEnvDefaults(cmd, &opts)

			if opts.batchSize != tt.wantBatch {
				t.Errorf("batchSize = %d, want %d", opts.batchSize, tt.wantBatch)
			}
			if opts.threshold != tt.wantThreshold {
				t.Errorf("threshold = %v, want %v", opts.threshold, tt.wantThreshold)
			}
		})
	}
}

func TestDryRunThresholdUnreachable(t *testing.T) {
	// Extracted confidence never reaches 1.0, so the dry-run threshold
	// must keep every task out of auto-create.
	v := pipeline.NewValidator(dryRunThreshold)

	draft := pipeline.TaskDraft{
		SourceEmailID: "m1",
		Title:         "Review proposal",
		Confidence:    0.99,
	}

	outcome := v.Validate(draft, map[string]bool{})
	if !outcome.Accepted {
		t.Fatal("Validate() rejected a valid draft")
	}
	if outcome.AutoCreate {
		t.Error("AutoCreate = true under dry-run threshold, want false")
	}
}
