package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the autotask application
var rootCmd = &cobra.Command{
	Use:   "autotask",
	Short: "Turns actionable Gmail messages into tasks and calendar events",
	Long: `autotask scans unread Gmail messages, extracts actionable tasks with a
confidence score, and automatically creates Google Calendar events for tasks
that clear the auto-create threshold. Lower-confidence tasks are reported for
manual review.

It can run as:
  - A standalone CLI tool (default, one sync pass per invocation)
  - A long-running HTTP service exposing /sync/gmail
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "autotask version %s\n" .Version}}`)

	// If no subcommand is provided, run the sync command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "sync")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
