package percentile

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks every rejection made by Classify and Histogram.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the offending item and why it was refused.
type InvalidInputError struct {
	Name   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: item %q: %s", ErrInvalidInput, e.Name, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
