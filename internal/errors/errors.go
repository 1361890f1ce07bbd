// Package errors provides standardized error types for pipeline operations.
// PipelineError carries the failing stage and operation so a run can report
// where it broke without losing the underlying cause.
package errors

import (
	"fmt"
)

// PipelineError is the error type returned by dataframe, feature, and model
// operations throughout the pipeline.
type PipelineError struct {
	Stage   string // Pipeline stage (e.g., "prepare", "featurize", "train")
	Op      string // Operation name (e.g., "Join", "Assemble", "Fit")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	prefix := e.Op
	if e.Stage != "" {
		prefix = e.Stage + ": " + e.Op
	}
	if e.Column != "" {
		return fmt.Sprintf("%s failed on column '%s': %s", prefix, e.Column, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
func (e *PipelineError) Is(target error) bool {
	if pe, ok := target.(*PipelineError); ok {
		return e.Stage == pe.Stage && e.Op == pe.Op && e.Column == pe.Column && e.Message == pe.Message
	}
	return false
}

// NewColumnNotFoundError creates an error for operations on missing columns.
func NewColumnNotFoundError(op, column string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs.
func NewInvalidInputError(op, message string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Message: message,
	}
}

// NewUnsupportedTypeError creates an error for unsupported data types.
func NewUnsupportedTypeError(op, typeName string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewStageError wraps a failure with the pipeline stage it occurred in.
func NewStageError(stage, op string, cause error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Op:      op,
		Message: "stage failed",
		Cause:   cause,
	}
}

// Predefined error variables for common cases.
var (
	// ErrEmptyFrame indicates operations on empty DataFrames.
	ErrEmptyFrame = &PipelineError{
		Op:      "validation",
		Message: "operation not supported on empty DataFrame",
	}

	// ErrMismatchedLength indicates length mismatches between columns or slices.
	ErrMismatchedLength = &PipelineError{
		Op:      "validation",
		Message: "inputs must have the same length",
	}

	// ErrNotFitted indicates use of a transformer or model before Fit.
	ErrNotFitted = &PipelineError{
		Op:      "transform",
		Message: "not fitted; call Fit first",
	}
)
