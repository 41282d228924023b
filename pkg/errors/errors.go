// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Boardroom.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Boardroom errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodePersonaNotFound indicates a requested agent has no persona file.
	CodePersonaNotFound ErrorCode = "PERSONA_NOT_FOUND"

	// CodeModelCall indicates the language-model provider failed.
	CodeModelCall ErrorCode = "MODEL_CALL_FAILED"

	// CodeIdeaContentMissing indicates an idea review was started without an
	// idea document.
	CodeIdeaContentMissing ErrorCode = "IDEA_CONTENT_MISSING"

	// CodeRecordNotFound indicates a store record was not found.
	CodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"
)

// Error is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type Error struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new Error with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

// As attempts to convert an error to a typed *Error.
// Returns the error as *Error if it is one, or wraps it otherwise.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*Error); ok {
		return be
	}
	return New(CodeInternal, "wrapped error", err)
}

// HasCode reports whether err is a typed *Error carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	be, ok := err.(*Error)
	if !ok {
		return false
	}
	return be.Code == code
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *Error) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodePersonaNotFound, CodeRecordNotFound:
		return 404
	case CodeInvalidInput, CodeIdeaContentMissing:
		return 400
	case CodeTimeout:
		return 408
	case CodeModelCall:
		return 502
	default:
		return 500
	}
}
