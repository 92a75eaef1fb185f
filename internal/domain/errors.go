package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNonMonotonicSeries is returned when bar time keys are not strictly
	// ascending. This is a data-source contract violation and aborts the
	// whole sweep before any stage runs.
	ErrNonMonotonicSeries = errors.New("series time keys not strictly ascending")

	// ErrNonPositivePrice is returned for a bar with a zero or negative price.
	ErrNonPositivePrice = errors.New("bar price must be positive")

	// ErrInsufficientData marks a single parameter combination whose window
	// exceeds the series length. The combination's summary is flagged
	// "no data"; sibling combinations continue.
	ErrInsufficientData = errors.New("series shorter than requested window")

	// ErrEmptyGrid is returned when the parameter grid has no combinations.
	ErrEmptyGrid = errors.New("parameter grid is empty")
)

// ConfigError represents an invalid configuration value. Never retriable;
// fails fast before any pipeline runs.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps a validation failure for a named config field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// SeriesError reports the first offending bar of a malformed input series.
type SeriesError struct {
	Index int
	Err   error
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("series invalid at bar %d: %v", e.Index, e.Err)
}

func (e *SeriesError) Unwrap() error {
	return e.Err
}
