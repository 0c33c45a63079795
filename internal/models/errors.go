package models

import (
	"errors"
	"fmt"
)

// ErrMissingJobDescription is returned when a comparison is requested
// without a job description file.
var ErrMissingJobDescription = errors.New("no job description file received")

// ExtractionError wraps a failure to convert document bytes to text.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ModelInvocationError wraps a failed call to the external model service.
type ModelInvocationError struct {
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
