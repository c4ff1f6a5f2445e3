package station

import (
	"errors"
	"fmt"
)

// ErrMissingCoordinates marks an upstream record without a usable location.
var ErrMissingCoordinates = errors.New("station has no coordinates")

// InvalidInputError is returned when a query location is missing or malformed.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func NewInvalidInputError(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

// UpstreamUnavailableError represents a failed call to Open Charge Map
type UpstreamUnavailableError struct {
	Message string
	Err     error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream unavailable: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("upstream unavailable: %s", e.Message)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

func NewUpstreamUnavailableError(message string, err error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{
		Message: message,
		Err:     err,
	}
}

// RecordError describes an upstream record dropped during normalization.
// It never leaves this package's callers; the batch continues without it.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

const (
	ReasonMissingCoordinates = "missing_coordinates"
	ReasonInvalidRecord      = "invalid_record"
)

// Reason is a short label for logs and metrics.
func (e *RecordError) Reason() string {
	if errors.Is(e.Err, ErrMissingCoordinates) {
		return ReasonMissingCoordinates
	}
	return ReasonInvalidRecord
}
