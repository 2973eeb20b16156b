package ml

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned by Predict when Fit has not completed. Reaching
// it in a running service means the startup ordering is broken.
var ErrNotFitted = errors.New("classifier not fitted")

// FormatError reports a timestamp field that does not match the dataset's
// "YYYY-MM-DD HH:MM:SS" layout.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("field %s: cannot parse %q as timestamp", e.Field, e.Value)
}

// MissingFieldError reports a field that is required for the requested
// operation but absent from the record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s is required", e.Field)
}

// FitError reports invalid training data. It is fatal at startup: the
// process must not serve predictions after a failed fit.
type FitError struct {
	Reason string
}

func (e *FitError) Error() string {
	return "fit: " + e.Reason
}
