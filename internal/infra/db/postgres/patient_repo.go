package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

type PatientRepository struct {
	db *sql.DB
}

func NewPatientRepository(db *sql.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

const patientColumns = `id, name, age, exam_type, result, image_ref, created_at`

func (r *PatientRepository) Insert(ctx context.Context, p *patients.Patient) (int64, error) {
	result, err := json.Marshal(p.Result)
	if err != nil {
		return 0, fmt.Errorf("encoding result: %w", err)
	}

	const q = `
INSERT INTO patients (name, age, exam_type, result, image_ref, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
	var imageRef sql.NullString
	if p.ImageRef != "" {
		imageRef = sql.NullString{String: p.ImageRef, Valid: true}
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		p.Name, p.Age, string(p.ExamType), result, imageRef, p.CreatedAt,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*patients.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE id=$1 LIMIT 1;`
	return scanPatient(r.db.QueryRowContext(ctx, q, id))
}

func (r *PatientRepository) ListAll(ctx context.Context, limit int) ([]*patients.Patient, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at ASC, id ASC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *PatientRepository) GetLast(ctx context.Context) (*patients.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at DESC, id DESC LIMIT 1;`
	return scanPatient(r.db.QueryRowContext(ctx, q))
}

func (r *PatientRepository) ListByExamType(ctx context.Context, exam domain.ExamType, limit int) ([]*patients.Patient, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE exam_type=$1 ORDER BY created_at ASC, id ASC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, string(exam), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *PatientRepository) Count(ctx context.Context, exam *domain.ExamType) (int64, error) {
	var (
		n   int64
		err error
	)
	if exam != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients WHERE exam_type=$1;`, string(*exam)).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients;`).Scan(&n)
	}
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*patients.Patient, error) {
	var (
		p        patients.Patient
		result   []byte
		imageRef sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.ExamType, &result, &imageRef, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, patients.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(result, &p.Result); err != nil {
		return nil, fmt.Errorf("decoding result for patient %d: %w", p.ID, err)
	}
	p.ImageRef = imageRef.String
	return &p, nil
}

func collectPatients(rows *sql.Rows) ([]*patients.Patient, error) {
	var out []*patients.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
