package sync_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/autotask/internal/instrumentation"
	"github.com/teemow/autotask/internal/pipeline"
)

// SyncRunner runs one pass of the email-to-task pipeline.
type SyncRunner interface {
	Run(ctx context.Context, maxResults int64) (*pipeline.SyncResult, error)
}

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	account := "default"
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		account = accountVal
	}
	return account
}

// RegisterSyncTools registers the sync pipeline tools with the MCP server.
// The metrics recorder is optional.
func RegisterSyncTools(s *mcpserver.MCPServer, runner SyncRunner, metrics *instrumentation.Metrics) error {
	if runner == nil {
		return fmt.Errorf("sync runner is required")
	}

	syncTool := mcp.NewTool("gmail_sync",
		mcp.WithDescription("Scan unread Gmail messages, extract actionable tasks, and auto-create calendar events for high-confidence tasks. Returns the full sync result as JSON."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of unread messages to process (default: configured batch size)"),
		),
	)

	s.AddTool(syncTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		var maxResults int64
		if raw, ok := args["maxResults"].(float64); ok {
			if raw <= 0 {
				return mcp.NewToolResultError("maxResults must be a positive number"), nil
			}
			maxResults = int64(raw)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, "gmail_sync")
		defer span.End()

		start := time.Now()
		result, err := runner.Run(ctx, maxResults)
		duration := time.Since(start)

		if err != nil {
			instrumentation.SetSpanError(span, err)
			if metrics != nil {
				metrics.RecordToolInvocation(ctx, "gmail_sync", instrumentation.StatusError, account, duration)
			}
			return mcp.NewToolResultError(fmt.Sprintf("Sync run failed: %v", err)), nil
		}

		instrumentation.SetSpanSuccess(span)
		if metrics != nil {
			metrics.RecordToolInvocation(ctx, "gmail_sync", instrumentation.StatusSuccess, account, duration)
		}

		payload, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(payload)), nil
	})

	return nil
}
