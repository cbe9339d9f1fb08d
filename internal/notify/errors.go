package notify

import (
	"errors"
	"fmt"
)

// InvalidDateError reports a trigger field that is set but does not parse
// as a calendar date. Only the affected rule of that project is skipped.
type InvalidDateError struct {
	ProjectID string
	Field     string
	Value     string
	Err       error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("project %s: %s %q is not a calendar date", e.ProjectID, e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// IsInvalidDate reports whether err (or any error in its chain) is an
// InvalidDateError.
func IsInvalidDate(err error) bool {
	var dateErr *InvalidDateError
	return errors.As(err, &dateErr)
}

// InvalidDates flattens a derivation error into its individual
// InvalidDateErrors.
func InvalidDates(err error) []*InvalidDateError {
	if err == nil {
		return nil
	}
	var out []*InvalidDateError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, InvalidDates(e)...)
		}
		return out
	}
	var dateErr *InvalidDateError
	if errors.As(err, &dateErr) {
		out = append(out, dateErr)
	}
	return out
}
