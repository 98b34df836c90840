// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"fmt"
	"strings"
)

// QuoteFetchError represents a failed quote feed call. It is recovered
// locally: the affected records lose their price and pivot fields while the
// rest of the run continues.
type QuoteFetchError struct {
	Symbols []string
	Err     error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("quote fetch for [%s]: %v", strings.Join(e.Symbols, " "), e.Err)
}

func (e *QuoteFetchError) Unwrap() error {
	return e.Err
}

// NewQuoteFetchError creates a new QuoteFetchError.
func NewQuoteFetchError(symbols []string, err error) *QuoteFetchError {
	return &QuoteFetchError{Symbols: symbols, Err: err}
}
