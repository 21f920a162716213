package transport

import (
	"errors"
	"fmt"
)

// ErrEmptyUserAgent is returned by New when no user agent is configured.
var ErrEmptyUserAgent = errors.New("user-agent is required")

// ErrorClass represents a classification of transport failures.
type ErrorClass string

const (
	// ErrorClassRequest represents a request that could not be built.
	ErrorClassRequest ErrorClass = "request"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that is not a transactions page.
	ErrorClassDecode ErrorClass = "decode"
)

// Error represents a transport failure with additional context.
type Error struct {
	ErrorClass ErrorClass
	// StatusCode is 0 when no response was received
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("transport %s error: %s: %v", e.ErrorClass, e.Message, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
