package analysislog

import (
	"time"

	"github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is the audit record written for every dispatch attempt, success or
// failure. PatientID is a weak reference: nullable, filled once the patient
// row exists, and it survives patient deletion.
type Entry struct {
	ID        int64             `json:"id"`
	PatientID *int64            `json:"patient_id,omitempty"`
	ExamType  analysis.ExamType `json:"exam_type"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"` // finding on success, error text on failure
	CreatedAt time.Time         `json:"created_at"`
}
