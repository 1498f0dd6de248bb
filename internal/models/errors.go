package models

import (
	"errors"
	"fmt"
)

// Domain errors returned by the engines. Callers match them with errors.Is.
var (
	// ErrInvalidAssumption marks inputs that would make a formula divide by zero
	// or by a negative quantity (price <= variable cost, wacc <= terminal growth, ...).
	ErrInvalidAssumption = errors.New("invalid assumption")

	// ErrInsufficientData marks empty or too-short input series.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidDistribution marks simulation variables whose bounds cannot be sampled.
	ErrInvalidDistribution = errors.New("invalid distribution")
)

// AssumptionError describes which input field violated an assumption.
type AssumptionError struct {
	Field  string
	Reason string
	Err    error
}

func (e *AssumptionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *AssumptionError) Unwrap() error {
	return e.Err
}

// InvalidAssumption builds an AssumptionError wrapping ErrInvalidAssumption.
func InvalidAssumption(field, format string, args ...any) error {
	return &AssumptionError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidAssumption}
}

// InsufficientData builds an AssumptionError wrapping ErrInsufficientData.
func InsufficientData(field, format string, args ...any) error {
	return &AssumptionError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrInsufficientData}
}

// InvalidDistribution builds an AssumptionError wrapping ErrInvalidDistribution.
func InvalidDistribution(field, format string, args ...any) error {
	return &AssumptionError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidDistribution}
}
