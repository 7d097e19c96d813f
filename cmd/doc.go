// Package cmd implements the command-line interface for autotask.
//
// This package provides the following commands:
//   - sync: Run one pass over unread Gmail messages and print the sync result
//   - serve: Run the pipeline as an HTTP service or MCP server
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd
