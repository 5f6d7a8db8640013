package search

import (
	"errors"
	"fmt"
)

// MissingDataError is returned when a required input field is absent
// before estimation starts.
type MissingDataError struct {
	// Field names the absent input (e.g. "heading", "weather")
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing required tracking data: %s", e.Field)
}

// DomainError is returned when a computed or supplied value falls outside
// the domain a formula is defined on: non-positive radius, polar reference
// latitude, negative speed.
type DomainError struct {
	// Op is the operation that rejected the value
	Op string

	// Value is the offending value
	Value float64

	// Reason describes the violated constraint
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s (got %g)", e.Op, e.Reason, e.Value)
}

// IsMissingData reports whether err is, or wraps, a *MissingDataError.
func IsMissingData(err error) bool {
	var mde *MissingDataError
	return errors.As(err, &mde)
}

// IsDomain reports whether err is, or wraps, a *DomainError.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func missing(field string) error {
	return &MissingDataError{Field: field}
}

func domain(op string, value float64, reason string) error {
	return &DomainError{Op: op, Value: value, Reason: reason}
}
