package patients

import (
	"context"

	"github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// Repository port (interface for patient persistence)
type Repository interface {
	// Insert stores a new patient and returns the store-assigned id.
	Insert(ctx context.Context, p *Patient) (int64, error)
	// GetByID returns ErrNotFound when the id does not exist.
	GetByID(ctx context.Context, id int64) (*Patient, error)
	// ListAll returns patients ordered by created_at ascending.
	ListAll(ctx context.Context, limit int) ([]*Patient, error)
	// GetLast returns the most recently created patient, ErrNotFound when empty.
	GetLast(ctx context.Context) (*Patient, error)
	ListByExamType(ctx context.Context, exam analysis.ExamType, limit int) ([]*Patient, error)
	// Count counts all patients, or only those of the given exam type.
	Count(ctx context.Context, exam *analysis.ExamType) (int64, error)
}
