package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "test_operation")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithService(t *testing.T) {
	logger := slog.Default()
	result := WithService(logger, "gmail")
	if result == nil {
		t.Error("WithService returned nil")
	}
}

func TestWithAccount(t *testing.T) {
	logger := slog.Default()
	result := WithAccount(logger, "work")
	if result == nil {
		t.Error("WithAccount returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("test_op")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "test_op" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "test_op")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != StatusSuccess {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), StatusSuccess)
	}
}

func TestErr(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantKey string
	}{
		{
			name:    "non-nil error",
			err:     errors.New("something failed"),
			wantKey: KeyError,
		},
		{
			name:    "nil error yields empty group",
			err:     nil,
			wantKey: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Err(tt.err)
			if attr.Key != tt.wantKey {
				t.Errorf("Err key = %q, want %q", attr.Key, tt.wantKey)
			}
		})
	}
}

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		empty bool
	}{
		{name: "normal email", email: "user@example.com"},
		{name: "empty email", email: "", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if tt.empty {
				if got != "" {
					t.Errorf("AnonymizeEmail(%q) = %q, want empty", tt.email, got)
				}
				return
			}
			if got == tt.email {
				t.Error("AnonymizeEmail returned the raw address")
			}
			if got != AnonymizeEmail(tt.email) {
				t.Error("AnonymizeEmail is not deterministic")
			}
		})
	}
}

func TestDomainAttr(t *testing.T) {
	attr := Domain("user@example.com")
	if attr.Key != "user_domain" {
		t.Errorf("Domain key = %q, want %q", attr.Key, "user_domain")
	}
	if attr.Value.String() != "example.com" {
		t.Errorf("Domain value = %q, want %q", attr.Value.String(), "example.com")
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "normal email", email: "user@example.com", want: "example.com"},
		{name: "empty email", email: "", want: ""},
		{name: "no at sign", email: "not-an-email", want: ""},
		{name: "multiple at signs", email: "a@b@c", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.email); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}
