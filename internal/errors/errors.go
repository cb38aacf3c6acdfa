// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataNotFound = errors.New("data not found")
	ErrNoLLMClient  = errors.New("no language model client configured")
)

// DataInsufficientError is returned when a symbol has fewer price bars than
// the engine-wide minimum. It aborts the whole analysis call for that symbol;
// downstream consumers should skip the symbol rather than abort a batch.
type DataInsufficientError struct {
	Symbol   string
	Bars     int
	Required int
}

func (e *DataInsufficientError) Error() string {
	return fmt.Sprintf("insufficient history for %s: have %d bars, need %d", e.Symbol, e.Bars, e.Required)
}

// NewDataInsufficientError creates a new DataInsufficientError.
func NewDataInsufficientError(symbol string, bars, required int) *DataInsufficientError {
	return &DataInsufficientError{Symbol: symbol, Bars: bars, Required: required}
}

// IsDataInsufficient reports whether err is a DataInsufficientError.
func IsDataInsufficient(err error) bool {
	var target *DataInsufficientError
	return errors.As(err, &target)
}

// InvalidInputError is returned for malformed input series: non-ascending or
// duplicate dates, or price/volume series of mismatched length.
type InvalidInputError struct {
	Symbol string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Symbol, e.Reason)
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(symbol, reason string) *InvalidInputError {
	return &InvalidInputError{Symbol: symbol, Reason: reason}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
