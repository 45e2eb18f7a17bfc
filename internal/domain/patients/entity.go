package patients

import (
	"errors"
	"time"

	"github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// ErrNotFound is the expected outcome when a patient id does not exist.
var ErrNotFound = errors.New("patient not found")

// Patient is one analysed X-ray. Rows are append-only: created on successful
// analysis, never mutated, deleted only by administrative action.
type Patient struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Age       int               `json:"age"`
	ExamType  analysis.ExamType `json:"exam_type"`
	Result    analysis.Result   `json:"result"`
	ImageRef  string            `json:"image_ref,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
