package mysql

import (
	"context"
	"database/sql"

	"github.com/A-bd-1999/medical-agent/internal/domain/analysislog"
)

type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Save inserts the audit entry and assigns its id.
func (r *LogRepository) Save(ctx context.Context, e *analysislog.Entry) error {
	const q = `
INSERT INTO analysis_logs (patient_id, exam_type, status, message, created_at)
VALUES (?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q,
		e.PatientID, string(e.ExamType), string(e.Status), e.Message, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// LinkPatient fills the nullable weak reference once the patient row exists.
func (r *LogRepository) LinkPatient(ctx context.Context, id int64, patientID int64) error {
	const q = `UPDATE analysis_logs SET patient_id=? WHERE id=?;`
	_, err := r.db.ExecContext(ctx, q, patientID, id)
	return err
}

func (r *LogRepository) ListRecent(ctx context.Context, limit int) ([]*analysislog.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, patient_id, exam_type, status, message, created_at
FROM analysis_logs
ORDER BY created_at DESC, id DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*analysislog.Entry
	for rows.Next() {
		var (
			e         analysislog.Entry
			patientID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &patientID, &e.ExamType, &e.Status, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		if patientID.Valid {
			e.PatientID = &patientID.Int64
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
