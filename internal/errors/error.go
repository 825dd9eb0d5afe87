package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryRender  Category = "render"
	CategoryConfig  Category = "config"
	CategorySource  Category = "source"
	CategoryCLI     Category = "cli"
)

// KiteError is a structured error with a code, a hint and an optional cause.
type KiteError struct {
	// Code is a unique error identifier (e.g., "K001").
	Code string

	// Category is the error type (runtime, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *KiteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KiteError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *KiteError) WithSuggestion(s string) *KiteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *KiteError) WithDetail(d string) *KiteError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *KiteError) WithDetailf(format string, args ...any) *KiteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *KiteError) Wrap(err error) *KiteError {
	e.Wrapped = err
	return e
}

// New creates a KiteError from a registered error code.
func New(code string) *KiteError {
	template, ok := registry[code]
	if !ok {
		return &KiteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &KiteError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new KiteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *KiteError {
	return &KiteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a KiteError.
// An error that already is a *KiteError is returned as is.
func FromError(err error, code string) *KiteError {
	if err == nil {
		return nil
	}
	if ke, ok := err.(*KiteError); ok {
		return ke
	}
	return New(code).Wrap(err)
}
