// SPDX-License-Identifier: Apache-2.0
package errors

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("connection reset")
	be := New(CodeModelCall, "anthropic call failed", cause)

	if be.Code != CodeModelCall {
		t.Errorf("expected CodeModelCall, got %v", be.Code)
	}
	if be.Message != "anthropic call failed" {
		t.Errorf("expected message 'anthropic call failed', got %q", be.Message)
	}
	if be.Err != cause {
		t.Errorf("expected cause to be preserved")
	}
	if !errors.Is(be, cause) {
		t.Errorf("expected errors.Is to work with wrapped error")
	}
}

func TestWithContext(t *testing.T) {
	be := New(CodeModelCall, "model failed", nil)
	be.WithContext("agent", "dev_lead").
		WithContext("meeting_type", "standup")

	if be.Context["agent"] != "dev_lead" {
		t.Errorf("expected context agent to be 'dev_lead'")
	}
	if be.Context["meeting_type"] != "standup" {
		t.Errorf("expected context meeting_type to be set")
	}
}

func TestWithRecoverable(t *testing.T) {
	be := New(CodeModelCall, "rate limited", nil)
	if be.Recoverable {
		t.Errorf("expected recoverable to be false by default")
	}

	be.WithRecoverable(true)
	if !be.Recoverable {
		t.Errorf("expected recoverable to be true after WithRecoverable")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		be       *Error
		expected string
	}{
		{
			name:     "with cause",
			be:       New(CodeTimeout, "model call timed out", errors.New("deadline exceeded")),
			expected: "[TIMEOUT] model call timed out: deadline exceeded",
		},
		{
			name:     "without cause",
			be:       New(CodePersonaNotFound, "no persona for agent", nil),
			expected: "[PERSONA_NOT_FOUND] no persona for agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.be.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "already typed",
			err:      New(CodeModelCall, "failed", nil),
			expected: CodeModelCall,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := As(tt.err)
			if tt.expected == "" {
				if be != nil {
					t.Errorf("expected nil for nil error")
				}
			} else {
				if be == nil {
					t.Errorf("expected non-nil Error")
				} else if be.Code != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, be.Code)
				}
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	be := New(CodeIdeaContentMissing, "no idea content", nil)
	if !HasCode(be, CodeIdeaContentMissing) {
		t.Errorf("expected HasCode to match")
	}
	if HasCode(be, CodeModelCall) {
		t.Errorf("expected HasCode mismatch for different code")
	}
	if HasCode(errors.New("plain"), CodeModelCall) {
		t.Errorf("expected HasCode false for untyped error")
	}
}

func TestMarshalJSON(t *testing.T) {
	be := New(CodeModelCall, "model failed", errors.New("network error"))
	be.WithContext("agent", "pm").WithRecoverable(true)

	data, err := json.Marshal(be)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unexpected error unmarshaling: %v", err)
	}

	if result["code"] != "MODEL_CALL_FAILED" {
		t.Errorf("expected code 'MODEL_CALL_FAILED', got %v", result["code"])
	}
	if result["recoverable"] != true {
		t.Errorf("expected recoverable true")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{CodePersonaNotFound, 404},
		{CodeRecordNotFound, 404},
		{CodeInvalidInput, 400},
		{CodeIdeaContentMissing, 400},
		{CodeTimeout, 408},
		{CodeModelCall, 502},
		{CodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			be := New(tt.code, "test", nil)
			if be.StatusCode != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, be.StatusCode)
			}
		})
	}
}
