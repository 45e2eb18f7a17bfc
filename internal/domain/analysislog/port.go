package analysislog

import (
	"context"
)

// Repository defines persistence for dispatch audit entries
type Repository interface {
	// Save stores the entry and assigns Entry.ID.
	Save(ctx context.Context, e *Entry) error
	// LinkPatient fills the nullable patient reference after the patient row exists.
	LinkPatient(ctx context.Context, id int64, patientID int64) error
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}
