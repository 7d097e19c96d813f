// Package sync_tools registers the sync pipeline as MCP tools so AI agents
// can trigger runs over the stdio transport.
package sync_tools
