package sync_tools

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no account provided",
			args:     map[string]interface{}{},
			expected: "default",
		},
		{
			name: "account provided",
			args: map[string]interface{}{
				"account": "test-account",
			},
			expected: "test-account",
		},
		{
			name: "empty account string",
			args: map[string]interface{}{
				"account": "",
			},
			expected: "default",
		},
		{
			name: "non-string account",
			args: map[string]interface{}{
				"account": 123,
			},
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getAccountFromArgs(tt.args)
			if result != tt.expected {
				t.Errorf("getAccountFromArgs() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestRegisterSyncTools_RequiresRunner(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")

	if err := RegisterSyncTools(s, nil, nil); err == nil {
		t.Fatal("RegisterSyncTools() expected error for nil runner, got nil")
	}
}
