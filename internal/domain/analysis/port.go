package analysis

import (
	"context"
	"io"
)

// Predictor port (interface for a single inference model)
type Predictor interface {
	Predict(ctx context.Context, imageRef string) (RawOutput, error)
}

// Registry maps each exam type to its inference model. Populated once at
// startup, read-only afterwards.
type Registry map[ExamType]Predictor

// Lookup returns the predictor registered for the exam type.
func (r Registry) Lookup(exam ExamType) (Predictor, bool) {
	p, ok := r[exam]
	return p, ok
}

// Available returns the registered exam types in enumeration order.
func (r Registry) Available() []ExamType {
	out := make([]ExamType, 0, len(r))
	for _, e := range ExamTypes {
		if _, ok := r[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ImageStore port (interface for X-ray image persistence)
type ImageStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, filename string) (string, error)
}
