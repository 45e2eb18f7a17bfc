package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedExamType indicates the exam type is not in the fixed enumeration
	// or has no registered predictor.
	ErrUnsupportedExamType = errors.New("unsupported exam type")

	// ErrUnnormalizableOutput indicates a raw model output that cannot be converted
	// to a canonical Result. Confidence is safety-relevant, so shapes that omit it
	// are rejected instead of defaulted.
	ErrUnnormalizableOutput = errors.New("unnormalizable model output")

	// ErrStoreUnavailable indicates the record store could not serve the request.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// InferenceError wraps a predictor failure with the exam type that caused it.
// The dispatcher never masks or retries these; the original cause is preserved.
type InferenceError struct {
	Exam ExamType
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed for %s model: %v", e.Exam, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
